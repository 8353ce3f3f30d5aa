// Package common defines shared sentinel errors and the error taxonomy used
// across accountd layers. Callers should use errors.Is / errors.As to match
// these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound          = errors.New("not found")
	ErrDuplicateUsername = errors.New("username already taken")

	// Service-level errors.
	ErrInternal = errors.New("internal error")

	// Username allocation gave up after the probe limit was reached.
	ErrUsernameExhausted = errors.New("username suffix space exhausted")

	// Auth errors.
	ErrInvalidToken    = errors.New("invalid token")
	ErrAccountLocked   = errors.New("account is locked")
	ErrAccountDisabled = errors.New("account is disabled")
)

// ValidationError reports a single failed account rule. SaveAccount raises
// the first failing rule before any persistence attempt; the condition is
// client-correctable ("not acceptable"), not infrastructural.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

// StoreError wraps a failure of the persistence collaborator. The wrapped
// cause stays reachable through errors.Is/As, so a unique-violation save
// still matches ErrDuplicateUsername.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string { return "store: " + e.Op + ": " + e.Err.Error() }

func (e *StoreError) Unwrap() error { return e.Err }
