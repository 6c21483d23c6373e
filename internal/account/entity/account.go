package entity

import "time"

// Account statuses.
const (
	StatusActive = "active"
	StatusPaused = "paused"
)

// Account represents one member, keyed in the store by its normalized
// (lower-cased, trimmed) email. PasswordHash and Salt are the hex-encoded
// credential pair; the plaintext password is never stored.
type Account struct {
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	DOB          string    `json:"dob,omitempty"`
	Occupation   string    `json:"occupation,omitempty"`
	PasswordHash string    `json:"password_hash"`
	Salt         string    `json:"salt"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
}
