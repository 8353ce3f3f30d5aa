// Package services contains the account-lifecycle business logic exposed to
// the web/CLI layer: account construction, username allocation, save/remove,
// lookups, session login/logout, and recovery dispatch.
package services

import (
	"context"
	"errors"
	"strconv"

	"github.com/dmitrijs2005/accountd/internal/accounts"
	"github.com/dmitrijs2005/accountd/internal/common"
	"github.com/dmitrijs2005/accountd/internal/logging"
	"github.com/dmitrijs2005/accountd/internal/recovery"
	"github.com/dmitrijs2005/accountd/internal/session"
)

// maxUsernameProbes bounds collision suffixing so adversarial input cannot
// keep the allocation loop probing forever.
const maxUsernameProbes = 1000

// RecoveryNotifier dispatches a password-recovery notification for an
// account and reports the outcome as a value.
type RecoveryNotifier interface {
	SendRecovery(ctx context.Context, a *accounts.Account) recovery.DeliveryResult
}

// AccountService provides the account lifecycle operations:
//   - NewAccount / UniqueUsername: construction with secure defaults
//   - SaveAccount / RemoveAccount / FindAccount / FindAccountsBy: persistence
//   - Login / Logout / ActiveUser: session state
//   - SendRecoveryEmail: password-recovery dispatch
type AccountService struct {
	repo      accounts.Repository
	validator accounts.Validator
	sessions  *session.Manager
	notifier  RecoveryNotifier
	logger    logging.Logger
}

// NewAccountService constructs an AccountService from its collaborators.
func NewAccountService(repo accounts.Repository, validator accounts.Validator, sessions *session.Manager, notifier RecoveryNotifier, logger logging.Logger) *AccountService {
	return &AccountService{
		repo:      repo,
		validator: validator,
		sessions:  sessions,
		notifier:  notifier,
		logger:    logger,
	}
}

// NewAccount returns an unsaved account with secure defaults. The caller
// must set username, email, and password hash before SaveAccount.
func (s *AccountService) NewAccount() *accounts.Account {
	return accounts.New()
}

// UniqueUsername concatenates the names, normalizes the result, and probes
// the store for a free username, appending increasing integer suffixes on
// collision (candidate, candidate1, candidate2, ...). The first free slot is
// returned; no suffix is skipped.
//
// The check is not atomic with the eventual save: under concurrent
// registration the store's uniqueness constraint is the final arbiter, and a
// conflicting SaveAccount fails with common.ErrDuplicateUsername so the
// caller can re-resolve and retry.
func (s *AccountService) UniqueUsername(ctx context.Context, firstName, lastName string) (string, error) {
	return resolveUsername(ctx, s.repo, firstName, lastName)
}

func resolveUsername(ctx context.Context, repo accounts.Repository, firstName, lastName string) (string, error) {
	candidate := accounts.Normalize(firstName + lastName)

	username := candidate
	for i := 0; i <= maxUsernameProbes; i++ {
		if i > 0 {
			username = candidate + strconv.Itoa(i)
		}

		_, err := repo.FindOneBy(ctx, accounts.Filter{Username: &username})
		if errors.Is(err, common.ErrNotFound) {
			return username, nil
		}
		if err != nil {
			return "", err
		}
	}

	return "", &common.StoreError{Op: "unique-username", Err: common.ErrUsernameExhausted}
}

// RegisterAccount resolves a free username from the account's names,
// validates, and persists, overwriting a.Username with the resolved name.
// A store that supports transactions runs the probe and the insert on one
// transactional handle, narrowing the window between the uniqueness check
// and the save; the store's unique constraint still decides a true race,
// surfacing common.ErrDuplicateUsername for the caller to retry.
func (s *AccountService) RegisterAccount(ctx context.Context, a *accounts.Account) error {
	register := func(repo accounts.Repository) error {
		username, err := resolveUsername(ctx, repo, a.FirstName, a.LastName)
		if err != nil {
			return err
		}
		a.Username = username

		if errs := s.validator.Validate(a); len(errs) > 0 {
			e := errs[0]
			return &e
		}

		_, err = repo.Save(ctx, a)
		return err
	}

	var err error
	if tx, ok := s.repo.(accounts.TxRepository); ok {
		err = tx.InTx(ctx, register)
	} else {
		err = register(s.repo)
	}
	if err != nil {
		return err
	}

	s.logger.Info(ctx, "registered account", "accountID", a.ID, "username", a.Username)
	return nil
}

// SaveAccount validates the account and persists it. The first failing rule
// is returned as a *common.ValidationError and the store is not touched.
// Store-level failures (including a lost uniqueness race) propagate as
// StoreError; they are not retried here.
func (s *AccountService) SaveAccount(ctx context.Context, a *accounts.Account) error {
	if errs := s.validator.Validate(a); len(errs) > 0 {
		e := errs[0]
		return &e
	}

	if _, err := s.repo.Save(ctx, a); err != nil {
		return err
	}

	s.logger.Info(ctx, "saved account", "accountID", a.ID)
	return nil
}

// RemoveAccount deletes the account. Removal is immediate and irreversible;
// an absent account yields common.ErrNotFound.
func (s *AccountService) RemoveAccount(ctx context.Context, a *accounts.Account) error {
	if a == nil || a.ID == "" {
		return common.ErrNotFound
	}

	if err := s.repo.Remove(ctx, a); err != nil {
		return err
	}

	s.logger.Info(ctx, "removed account", "accountID", a.ID)
	return nil
}

// FindAccount looks an account up by its store-assigned identifier.
func (s *AccountService) FindAccount(ctx context.Context, id string) (*accounts.Account, error) {
	return s.repo.FindByID(ctx, id)
}

// FindAccountBy returns the single account matching the filter.
func (s *AccountService) FindAccountBy(ctx context.Context, f accounts.Filter) (*accounts.Account, error) {
	return s.repo.FindOneBy(ctx, f)
}

// FindAccountsBy returns the accounts matching the filter with the given
// ordering and pagination.
func (s *AccountService) FindAccountsBy(ctx context.Context, f accounts.Filter, order []accounts.Order, limit, offset int) ([]*accounts.Account, error) {
	return s.repo.FindManyBy(ctx, f, order, limit, offset)
}

// Login establishes the account as the current authenticated identity.
// Disabled and locked accounts are refused.
func (s *AccountService) Login(ctx context.Context, a *accounts.Account) (*session.Session, error) {
	if !a.Enabled {
		return nil, common.ErrAccountDisabled
	}
	if a.Locked {
		return nil, common.ErrAccountLocked
	}

	sess, err := s.sessions.Establish(a)
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "login", "accountID", a.ID, "username", a.Username)
	return sess, nil
}

// Logout clears the current identity binding.
func (s *AccountService) Logout(ctx context.Context) {
	s.sessions.Clear()
	s.logger.Info(ctx, "logout")
}

// ActiveUser returns the account of the established session, or false when
// no session is active.
func (s *AccountService) ActiveUser() (*accounts.Account, bool) {
	return s.sessions.Current()
}

// SendRecoveryEmail dispatches a password-recovery notification. The outcome
// is a value, never a fault: callers may report success to the end user
// regardless, to avoid leaking account existence.
func (s *AccountService) SendRecoveryEmail(ctx context.Context, a *accounts.Account) recovery.DeliveryResult {
	res := s.notifier.SendRecovery(ctx, a)
	if res.Err != nil {
		s.logger.Warn(ctx, "recovery email delivery failed", "accountID", a.ID, "error", res.Err.Error())
	} else {
		s.logger.Info(ctx, "recovery email sent", "accountID", a.ID)
	}
	return res
}
