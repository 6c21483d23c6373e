package repo

import (
	"strings"

	"github.com/autofault/service-diagnostics-go/internal/account/entity"
	"github.com/autofault/service-diagnostics-go/pkg/store"
)

// NormalizeEmail lower-cases and trims an email address. Every lookup and
// insert goes through the normalized form, so "A@B.com" and "a@b.com" are the
// same account.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// AccountRepo provides data access for member accounts over the JSON
// document store.
type AccountRepo struct {
	store *store.Store[entity.Account]
}

func NewAccountRepo(cfg store.Config) *AccountRepo {
	return &AccountRepo{store: store.New[entity.Account](cfg)}
}

// Insert adds acct under its normalized email. Returns store.ErrDuplicateKey
// when the email is already registered; the uniqueness check and the write
// happen in one critical section.
func (r *AccountRepo) Insert(acct entity.Account) error {
	acct.Email = NormalizeEmail(acct.Email)
	return r.store.Insert(acct.Email, acct)
}

// Get returns the account for email, matched case-insensitively.
func (r *AccountRepo) Get(email string) (entity.Account, bool) {
	return r.store.Get(NormalizeEmail(email))
}

// All returns a snapshot of every account keyed by normalized email.
func (r *AccountRepo) All() map[string]entity.Account {
	return r.store.List()
}

// ByStatus returns the accounts currently in the given status.
func (r *AccountRepo) ByStatus(status string) map[string]entity.Account {
	return r.store.FilterBy(func(_ string, acct entity.Account) bool {
		return acct.Status == status
	})
}

// SetStatus updates an account's status, reporting false if the email is not
// registered.
func (r *AccountRepo) SetStatus(email, status string) (bool, error) {
	return r.store.Update(NormalizeEmail(email), func(acct *entity.Account) {
		acct.Status = status
	})
}

// Delete permanently removes the account, freeing the email for
// re-registration. Reports whether the account existed.
func (r *AccountRepo) Delete(email string) (bool, error) {
	return r.store.Delete(NormalizeEmail(email))
}
