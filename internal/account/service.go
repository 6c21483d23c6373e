package account

import (
	"errors"
	"strings"
	"time"

	"github.com/autofault/service-diagnostics-go/internal/account/entity"
	"github.com/autofault/service-diagnostics-go/internal/account/repo"
	"github.com/autofault/service-diagnostics-go/pkg/credential"
	"github.com/autofault/service-diagnostics-go/pkg/store"
)

var (
	// ErrDuplicateAccount is returned at signup when the normalized email is
	// already registered.
	ErrDuplicateAccount = errors.New("an account with this email already exists")
	// ErrAccountNotFound is returned when no account exists for the email.
	ErrAccountNotFound = errors.New("no account found with this email address")
	// ErrAccountSuspended is returned at login for paused accounts, distinct
	// from a wrong password so the caller can present a suspension notice.
	ErrAccountSuspended = errors.New("account has been suspended")
	// ErrBadCredentials is returned when the password does not verify.
	ErrBadCredentials = errors.New("incorrect password")
	// ErrInvalidStatus is returned by SetStatus for statuses outside
	// active/paused.
	ErrInvalidStatus = errors.New("invalid account status")
)

// SignupInput is the member registration form.
type SignupInput struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	Name       string `json:"name"`
	DOB        string `json:"dob"`
	Occupation string `json:"occupation"`
}

// Service orchestrates the member-account lifecycle: signup, credential
// verification at login, pause/resume and deletion.
type Service struct {
	repo *repo.AccountRepo
}

func NewService(cfg store.Config) *Service {
	return &Service{repo: repo.NewAccountRepo(cfg)}
}

// Signup derives a credential pair for the password and registers the
// account under its normalized email. Duplicate emails, compared
// case-insensitively, fail with ErrDuplicateAccount.
func (s *Service) Signup(in SignupInput) error {
	salt, hash, err := credential.Derive(in.Password)
	if err != nil {
		return err
	}
	acct := entity.Account{
		Email:        in.Email,
		Name:         strings.TrimSpace(in.Name),
		DOB:          in.DOB,
		Occupation:   strings.TrimSpace(in.Occupation),
		PasswordHash: hash,
		Salt:         salt,
		Status:       entity.StatusActive,
		CreatedAt:    time.Now(),
	}
	if err := s.repo.Insert(acct); err != nil {
		if errors.Is(err, store.ErrDuplicateKey) {
			return ErrDuplicateAccount
		}
		return err
	}
	return nil
}

// Login verifies the member's credentials. A paused account fails with
// ErrAccountSuspended even when the password is correct.
func (s *Service) Login(email, password string) (entity.Account, error) {
	acct, ok := s.repo.Get(email)
	if !ok {
		return entity.Account{}, ErrAccountNotFound
	}
	if acct.Status == entity.StatusPaused {
		return entity.Account{}, ErrAccountSuspended
	}
	if !credential.Verify(acct.Salt, acct.PasswordHash, password) {
		return entity.Account{}, ErrBadCredentials
	}
	return acct, nil
}

// Get returns the account for email, reporting whether it exists.
func (s *Service) Get(email string) (entity.Account, bool) {
	return s.repo.Get(email)
}

// All returns every account keyed by normalized email.
func (s *Service) All() map[string]entity.Account {
	return s.repo.All()
}

// ByStatus returns the accounts currently in the given status.
func (s *Service) ByStatus(status string) map[string]entity.Account {
	return s.repo.ByStatus(status)
}

// SetStatus pauses or resumes an account.
func (s *Service) SetStatus(email, status string) error {
	if status != entity.StatusActive && status != entity.StatusPaused {
		return ErrInvalidStatus
	}
	found, err := s.repo.SetStatus(email, status)
	if err != nil {
		return err
	}
	if !found {
		return ErrAccountNotFound
	}
	return nil
}

// Delete permanently removes the account; its email becomes available for
// re-registration.
func (s *Service) Delete(email string) error {
	found, err := s.repo.Delete(email)
	if err != nil {
		return err
	}
	if !found {
		return ErrAccountNotFound
	}
	return nil
}
