// Package session binds an authenticated account to the current request
// context. A Manager instance holds the identity for one request scope;
// callers construct independent managers rather than sharing a process-wide
// singleton, so parallel requests and tests never observe each other.
package session

import (
	"sync"
	"time"

	"github.com/dmitrijs2005/accountd/internal/accounts"
)

// Session pairs an authenticated account with its request-scoped identity
// context. It is ephemeral and never persisted.
type Session struct {
	Account  *accounts.Account
	Token    string
	IssuedAt time.Time
}

// Manager tracks the current authenticated identity for one request scope.
// State machine: Anonymous --Establish--> Authenticated --Clear--> Anonymous;
// Establish while already authenticated overwrites, there is no stacking.
type Manager struct {
	secret   []byte
	validity time.Duration

	mu      sync.RWMutex
	current *Session
}

// NewManager returns an anonymous manager. Tokens minted by Establish are
// signed with secret and expire after validity.
func NewManager(secret []byte, validity time.Duration) *Manager {
	return &Manager{secret: secret, validity: validity}
}

// Establish binds the account as the current authenticated identity and
// mints a signed session token. Any previously established session is
// replaced.
func (m *Manager) Establish(a *accounts.Account) (*Session, error) {
	token, err := GenerateToken(a.ID, m.secret, m.validity)
	if err != nil {
		return nil, err
	}

	sess := &Session{Account: a, Token: token, IssuedAt: time.Now()}

	m.mu.Lock()
	m.current = sess
	m.mu.Unlock()

	return sess, nil
}

// Clear removes the current identity binding; the manager returns to the
// anonymous state.
func (m *Manager) Clear() {
	m.mu.Lock()
	m.current = nil
	m.mu.Unlock()
}

// Current returns the account of the established session, or false when the
// manager is anonymous.
func (m *Manager) Current() (*accounts.Account, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.current == nil {
		return nil, false
	}
	return m.current.Account, true
}
