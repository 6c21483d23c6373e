package request

import (
	"errors"

	"github.com/autofault/service-diagnostics-go/internal/request/entity"
	"github.com/autofault/service-diagnostics-go/internal/request/repo"
	"github.com/autofault/service-diagnostics-go/pkg/store"
)

var (
	ErrRequestNotFound = errors.New("request not found")
	ErrEmptyDiagnosis  = errors.New("diagnosis text is required")
)

// SubmitInput is the structured vehicle-fault report a car owner fills in.
type SubmitInput struct {
	Make       string `json:"make"`
	Model      string `json:"model"`
	Year       int    `json:"year"`
	Mileage    int    `json:"mileage"`
	VIN        string `json:"vin"`
	EngineType string `json:"engine_type"`
	Symptoms   string `json:"symptoms"`
	OBDCodes   string `json:"obd_codes"`
}

// Service orchestrates the diagnostic-request lifecycle: validated
// submission, status lookup, expert reply and attachment bookkeeping.
type Service struct {
	repo *repo.RequestRepo
}

func NewService(cfg store.Config) *Service {
	return &Service{repo: repo.NewRequestRepo(cfg)}
}

// Submit validates the report and creates a pending request owned by
// ownerEmail (empty for anonymous submissions). Returns the new request id.
func (s *Service) Submit(ownerEmail string, in SubmitInput) (string, error) {
	if verr := validateSubmission(in); verr != nil {
		return "", verr
	}
	attrs := map[string]any{
		"make":        in.Make,
		"model":       in.Model,
		"year":        in.Year,
		"mileage":     in.Mileage,
		"vin":         in.VIN,
		"engine_type": in.EngineType,
		"symptoms":    in.Symptoms,
		"obd_codes":   in.OBDCodes,
	}
	return s.repo.Create(ownerEmail, attrs)
}

// Get returns the request for id, reporting whether it exists.
func (s *Service) Get(id string) (entity.Request, bool) {
	return s.repo.Get(id)
}

// All returns every request keyed by id.
func (s *Service) All() map[string]entity.Request {
	return s.repo.All()
}

// Pending returns the requests awaiting a diagnosis.
func (s *Service) Pending() map[string]entity.Request {
	return s.repo.Pending()
}

// ByOwner returns the requests submitted by a member.
func (s *Service) ByOwner(email string) map[string]entity.Request {
	return s.repo.ByOwner(email)
}

// Respond records an expert diagnosis on a request. An empty diagnosis is
// rejected; responding to an unknown id returns ErrRequestNotFound.
func (s *Service) Respond(id, diagnosis string) error {
	if diagnosis == "" {
		return ErrEmptyDiagnosis
	}
	found, err := s.repo.Respond(id, diagnosis)
	if err != nil {
		return err
	}
	if !found {
		return ErrRequestNotFound
	}
	return nil
}

// AttachFiles records stored attachment names on a request.
func (s *Service) AttachFiles(id string, names []string) error {
	found, err := s.repo.AttachFiles(id, names)
	if err != nil {
		return err
	}
	if !found {
		return ErrRequestNotFound
	}
	return nil
}
