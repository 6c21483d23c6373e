package account

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/autofault/service-diagnostics-go/internal/token"
	"github.com/autofault/service-diagnostics-go/pkg/store"
)

// Handler exposes HTTP endpoints for member accounts (signup / login) and
// the admin-side status and deletion operations.
type Handler struct {
	svc    *Service
	issuer *token.Issuer
	logger *zap.SugaredLogger
}

func NewHandler(svc *Service, issuer *token.Issuer, logger *zap.SugaredLogger) *Handler {
	return &Handler{svc: svc, issuer: issuer, logger: logger}
}

func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	var in SignupInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		h.logger.Debugw("invalid signup payload", "err", err)
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
		return
	}
	if in.Email == "" || in.Password == "" {
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "email and password are required"})
		return
	}
	switch err := h.svc.Signup(in); {
	case err == nil:
		h.writeJSON(w, http.StatusCreated, map[string]string{"message": "account created successfully"})
	case errors.Is(err, ErrDuplicateAccount):
		h.writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
	default:
		h.fail(w, "signup", err)
	}
}

// LoginRequest is the member login payload.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse carries the session token on success.
type LoginResponse struct {
	Token string `json:"token"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var in LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
		return
	}
	acct, err := h.svc.Login(in.Email, in.Password)
	if err != nil {
		h.logger.Debugw("login failed", "err", err)
		switch {
		case errors.Is(err, ErrAccountSuspended):
			h.writeJSON(w, http.StatusForbidden, map[string]string{"error": "your account has been suspended, please contact support"})
		case errors.Is(err, ErrAccountNotFound), errors.Is(err, ErrBadCredentials):
			h.writeJSON(w, http.StatusUnauthorized, map[string]string{"error": err.Error()})
		default:
			h.fail(w, "login", err)
		}
		return
	}
	tok, err := h.issuer.Issue(acct.Email, token.RoleMember)
	if err != nil {
		h.fail(w, "login token", err)
		return
	}
	h.writeJSON(w, http.StatusOK, LoginResponse{Token: tok, Email: acct.Email, Name: acct.Name})
}

// StatusRequest is the admin pause/resume payload.
type StatusRequest struct {
	Status string `json:"status"`
}

func (h *Handler) SetStatus(w http.ResponseWriter, r *http.Request) {
	var in StatusRequest
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
		return
	}
	switch err := h.svc.SetStatus(r.PathValue("email"), in.Status); {
	case err == nil:
		h.writeJSON(w, http.StatusOK, map[string]string{"status": in.Status})
	case errors.Is(err, ErrInvalidStatus):
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	case errors.Is(err, ErrAccountNotFound):
		h.writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
	default:
		h.fail(w, "set status", err)
	}
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	switch err := h.svc.Delete(r.PathValue("email")); {
	case err == nil:
		h.writeJSON(w, http.StatusOK, map[string]string{"message": "account deleted"})
	case errors.Is(err, ErrAccountNotFound):
		h.writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
	default:
		h.fail(w, "delete", err)
	}
}

func (h *Handler) fail(w http.ResponseWriter, op string, err error) {
	if errors.Is(err, store.ErrLockTimeout) {
		h.logger.Warnw("store busy", "op", op, "err", err)
		h.writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "system busy, try again"})
		return
	}
	h.logger.Errorw("account operation failed", "op", op, "err", err)
	h.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "operation failed"})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
