package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/accountd/internal/common"
	"github.com/dmitrijs2005/accountd/internal/cryptox"
)

// maxSaveAttempts bounds re-resolution after a lost username allocation
// race. Each attempt re-probes the store for a free name before saving.
const maxSaveAttempts = 3

// Register prompts for the new account's details and persists it. The
// username is derived from the names; on a uniqueness conflict at save time
// the allocation is re-resolved and retried.
func (a *App) Register(ctx context.Context) error {
	firstName, err := GetSimpleText(a.reader, "First name", a.out)
	if err != nil {
		return err
	}
	lastName, err := GetSimpleText(a.reader, "Last name", a.out)
	if err != nil {
		return err
	}
	email, err := GetSimpleText(a.reader, "Email", a.out)
	if err != nil {
		return err
	}
	password, err := GetPassword(a.out)
	if err != nil {
		return err
	}
	defer cryptox.Wipe(password)

	acc := a.service.NewAccount()
	acc.Email = email
	acc.FirstName = firstName
	acc.LastName = lastName
	acc.PasswordHash = cryptox.HashPassword(password, acc.Salt)

	for attempt := 0; attempt < maxSaveAttempts; attempt++ {
		err := a.service.RegisterAccount(ctx, acc)
		if errors.Is(err, common.ErrDuplicateUsername) {
			// Lost the race to a concurrent registration; re-resolve.
			continue
		}
		if err != nil {
			return err
		}

		fmt.Fprintf(a.out, "Account created: %s (%s)\n", acc.Username, acc.ID)
		return nil
	}

	return fmt.Errorf("register: username still taken after %d attempts", maxSaveAttempts)
}
