package entity

import "time"

// Request statuses. A request starts pending and transitions to completed
// when an expert replies.
const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
)

// Request is one diagnostic submission. The fixed core (id, timestamps,
// status, response) is owned by the store layer; Attributes carries the
// caller-supplied vehicle and symptom fields verbatim and is never touched
// after creation.
type Request struct {
	ID          string         `json:"request_id"`
	CreatedAt   time.Time      `json:"created_at"`
	Status      string         `json:"status"`
	Response    string         `json:"response,omitempty"`
	RespondedAt *time.Time     `json:"responded_at,omitempty"`
	OwnerEmail  string         `json:"owner_email,omitempty"`
	HasFiles    bool           `json:"has_files"`
	Files       []string       `json:"files,omitempty"`
	Attributes  map[string]any `json:"attributes,omitempty"`
}
