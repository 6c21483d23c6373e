package request

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/autofault/service-diagnostics-go/internal/token"
	"github.com/autofault/service-diagnostics-go/internal/upload"
	"github.com/autofault/service-diagnostics-go/pkg/store"
)

const maxUploadBytes = 16 << 20 // 16MB per upload request, matching the form limit

// Handler exposes HTTP endpoints for diagnostic requests.
type Handler struct {
	svc     *Service
	uploads *upload.Storage
	logger  *zap.SugaredLogger
}

func NewHandler(svc *Service, uploads *upload.Storage, logger *zap.SugaredLogger) *Handler {
	return &Handler{svc: svc, uploads: uploads, logger: logger}
}

// SubmitResponse carries the opaque id shown to the submitter.
type SubmitResponse struct {
	RequestID string `json:"request_id"`
}

func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	var in SubmitInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		h.logger.Debugw("invalid submit payload", "err", err)
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
		return
	}
	id, err := h.svc.Submit(token.Subject(r.Context()), in)
	if err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			h.writeJSON(w, http.StatusBadRequest, map[string]any{"errors": verr.Problems})
			return
		}
		h.fail(w, "submit", err)
		return
	}
	h.writeJSON(w, http.StatusCreated, SubmitResponse{RequestID: id})
}

// Status is the public check-by-id lookup.
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	req, ok := h.svc.Get(r.PathValue("id"))
	if !ok {
		h.writeJSON(w, http.StatusNotFound, map[string]string{"error": "request not found"})
		return
	}
	h.writeJSON(w, http.StatusOK, req)
}

// Pending lists requests awaiting a diagnosis, for the expert dashboard.
func (h *Handler) Pending(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.svc.Pending())
}

// Mine lists the authenticated member's own requests.
func (h *Handler) Mine(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.svc.ByOwner(token.Subject(r.Context())))
}

// RespondRequest is the expert's reply payload.
type RespondRequest struct {
	Diagnosis string `json:"diagnosis"`
}

func (h *Handler) Respond(w http.ResponseWriter, r *http.Request) {
	var in RespondRequest
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
		return
	}
	id := r.PathValue("id")
	switch err := h.svc.Respond(id, in.Diagnosis); {
	case err == nil:
		h.writeJSON(w, http.StatusOK, map[string]string{"status": "diagnosis sent"})
	case errors.Is(err, ErrEmptyDiagnosis):
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	case errors.Is(err, ErrRequestNotFound):
		h.writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
	default:
		h.fail(w, "respond", err)
	}
}

// Attach stores multipart uploads for a request and records their stored
// names on the record.
func (h *Handler) Attach(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, ok := h.svc.Get(id); !ok {
		h.writeJSON(w, http.StatusNotFound, map[string]string{"error": "request not found"})
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid multipart payload"})
		return
	}
	var stored []string
	for _, part := range r.MultipartForm.File["files"] {
		f, err := part.Open()
		if err != nil {
			h.fail(w, "attach open", err)
			return
		}
		name, err := h.uploads.Save(id, part.Filename, f)
		f.Close()
		if err != nil {
			h.fail(w, "attach save", err)
			return
		}
		stored = append(stored, name)
	}
	if len(stored) == 0 {
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "no files provided"})
		return
	}
	if err := h.svc.AttachFiles(id, stored); err != nil {
		h.fail(w, "attach record", err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"files": stored})
}

// Download streams a stored attachment back.
func (h *Handler) Download(w http.ResponseWriter, r *http.Request) {
	f, err := h.uploads.Open(r.PathValue("id"), r.PathValue("name"))
	if err != nil {
		if errors.Is(err, upload.ErrFileNotFound) {
			h.writeJSON(w, http.StatusNotFound, map[string]string{"error": "attachment not found"})
			return
		}
		h.fail(w, "download", err)
		return
	}
	defer f.Close()
	w.Header().Set("Content-Type", "application/octet-stream")
	_, _ = io.Copy(w, f)
}

// fail maps infrastructure errors: a lock timeout means the store is busy
// and the caller should retry, anything else is a plain server error.
func (h *Handler) fail(w http.ResponseWriter, op string, err error) {
	if errors.Is(err, store.ErrLockTimeout) {
		h.logger.Warnw("store busy", "op", op, "err", err)
		h.writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "system busy, try again"})
		return
	}
	h.logger.Errorw("request operation failed", "op", op, "err", err)
	h.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "operation failed"})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
