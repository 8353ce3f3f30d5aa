// Package accounts defines the account entity, its validation rules, and the
// persistence contract used by the account service.
package accounts

import (
	"time"

	"github.com/dmitrijs2005/accountd/internal/randx"
)

// RoleUser is the base role every new account starts with.
const RoleUser = "ROLE_USER"

// Account is a persisted user identity with credentials, roles, and status
// flags. ID is assigned by the store on first save and immutable afterwards.
type Account struct {
	ID           string
	Username     string
	Email        string
	FirstName    string
	LastName     string
	PasswordHash []byte
	Salt         string
	SecretKey    string
	APIKey       string
	Roles        []string
	Locked       bool
	Enabled      bool
	CreatedAt    time.Time
}

// New returns an unsaved account with secure defaults: a fresh random salt,
// the base role, enabled and unlocked status, a UTC creation timestamp, and
// freshly generated secret and API keys. The caller is responsible for
// setting username, email, and password hash before saving.
func New() *Account {
	return &Account{
		Salt:      randx.Token(randx.SaltLength),
		Roles:     []string{RoleUser},
		Locked:    false,
		Enabled:   true,
		CreatedAt: time.Now().UTC(),
		SecretKey: randx.Token(randx.SecretKeyLength),
		APIKey:    randx.Token(randx.APIKeyLength),
	}
}

// CanAuthenticate reports whether the account may establish a session:
// disabled or locked accounts are refused.
func (a *Account) CanAuthenticate() bool {
	return a.Enabled && !a.Locked
}

// HasRole reports whether the account carries the given role label.
func (a *Account) HasRole(role string) bool {
	for _, r := range a.Roles {
		if r == role {
			return true
		}
	}
	return false
}
