package repo

import (
	"strings"
	"time"

	"github.com/autofault/service-diagnostics-go/internal/request/entity"
	"github.com/autofault/service-diagnostics-go/pkg/store"
	"github.com/autofault/service-diagnostics-go/pkg/utilities"
)

// RequestRepo provides data access for diagnostic requests over the JSON
// document store.
type RequestRepo struct {
	store *store.Store[entity.Request]
}

func NewRequestRepo(cfg store.Config) *RequestRepo {
	return &RequestRepo{store: store.New[entity.Request](cfg)}
}

// Create inserts a new pending request carrying attrs verbatim and returns
// the generated id.
func (r *RequestRepo) Create(ownerEmail string, attrs map[string]any) (string, error) {
	return r.store.Create(utilities.NewRequestID, func(id string) entity.Request {
		return entity.Request{
			ID:         id,
			CreatedAt:  time.Now(),
			Status:     entity.StatusPending,
			OwnerEmail: strings.ToLower(strings.TrimSpace(ownerEmail)),
			Attributes: attrs,
		}
	})
}

// Get returns the request for id, reporting whether it exists.
func (r *RequestRepo) Get(id string) (entity.Request, bool) {
	return r.store.Get(id)
}

// All returns a snapshot of every request.
func (r *RequestRepo) All() map[string]entity.Request {
	return r.store.List()
}

// Pending returns the requests still waiting for a diagnosis.
func (r *RequestRepo) Pending() map[string]entity.Request {
	return r.store.FilterBy(func(_ string, req entity.Request) bool {
		return req.Status == entity.StatusPending
	})
}

// ByOwner returns the requests submitted by the given member email,
// matched case-insensitively.
func (r *RequestRepo) ByOwner(email string) map[string]entity.Request {
	key := strings.ToLower(strings.TrimSpace(email))
	return r.store.FilterBy(func(_ string, req entity.Request) bool {
		return req.OwnerEmail == key
	})
}

// Respond records the expert's diagnosis: sets the response text, flips the
// status to completed and stamps the response time. Re-responding to an
// already-completed request overwrites the previous diagnosis and timestamp.
// Reports false if the request does not exist.
func (r *RequestRepo) Respond(id, diagnosis string) (bool, error) {
	return r.store.Update(id, func(req *entity.Request) {
		now := time.Now()
		req.Response = diagnosis
		req.Status = entity.StatusCompleted
		req.RespondedAt = &now
	})
}

// AttachFiles records the stored names of uploaded attachments on a request.
func (r *RequestRepo) AttachFiles(id string, names []string) (bool, error) {
	return r.store.Update(id, func(req *entity.Request) {
		req.HasFiles = true
		req.Files = names
	})
}
