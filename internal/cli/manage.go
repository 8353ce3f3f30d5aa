package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/accountd/internal/accounts"
	"github.com/dmitrijs2005/accountd/internal/cryptox"
	"github.com/dmitrijs2005/accountd/internal/session"
	"github.com/dmitrijs2005/accountd/internal/timex"
)

const listPageSize = 100

// List prints all accounts ordered by creation time, one per line.
func (a *App) List(ctx context.Context) error {
	for offset := 0; ; offset += listPageSize {
		page, err := a.service.FindAccountsBy(ctx, accounts.Filter{},
			[]accounts.Order{{Field: accounts.OrderByCreatedAt}}, listPageSize, offset)
		if err != nil {
			return err
		}

		for _, acc := range page {
			state := "enabled"
			if !acc.Enabled {
				state = "disabled"
			}
			if acc.Locked {
				state += ",locked"
			}
			fmt.Fprintf(a.out, "%s\t%s\t%s\t%s\t%s\n",
				acc.ID, acc.Username, acc.Email, state,
				acc.CreatedAt.Format("2006-01-02 15:04:05"))
		}

		if len(page) < listPageSize {
			return nil
		}
	}
}

// Remove deletes the account with the given username.
func (a *App) Remove(ctx context.Context, username string) error {
	acc, err := a.service.FindAccountBy(ctx, accounts.Filter{Username: &username})
	if err != nil {
		return err
	}

	if err := a.service.RemoveAccount(ctx, acc); err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Account %s removed\n", username)
	return nil
}

// Recover dispatches a password-recovery email to the account's address.
// Delivery failure is reported but is not an error: the outcome is printed
// either way.
func (a *App) Recover(ctx context.Context, username string) error {
	acc, err := a.service.FindAccountBy(ctx, accounts.Filter{Username: &username})
	if err != nil {
		return err
	}

	res := a.service.SendRecoveryEmail(ctx, acc)
	if !res.Delivered {
		fmt.Fprintf(a.out, "Recovery email to %s not delivered: %v\n", acc.Email, res.Err)
		return nil
	}

	fmt.Fprintf(a.out, "Recovery email sent to %s\n", acc.Email)
	return nil
}

// Login verifies the account's password and mints a session token. The token
// is printed so it can be handed to other tooling.
func (a *App) Login(ctx context.Context, username string) error {
	acc, err := a.service.FindAccountBy(ctx, accounts.Filter{Username: &username})
	if err != nil {
		return err
	}

	password, err := GetPassword(a.out)
	if err != nil {
		return err
	}
	defer cryptox.Wipe(password)

	if !cryptox.VerifyPassword(acc.PasswordHash, password, acc.Salt) {
		return fmt.Errorf("login: invalid password")
	}

	sess, err := a.service.Login(ctx, acc)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Session token for %s:\n%s\n", acc.Username, sess.Token)
	return nil
}

// Verify checks a session token's signature and expiry and prints the
// account it was minted for.
func (a *App) Verify(ctx context.Context, token string) error {
	accountID, err := session.AccountIDFromToken(token, []byte(a.config.SessionSecret))
	if err != nil {
		return fmt.Errorf("verify: %w", err)
	}

	acc, err := a.service.FindAccount(ctx, accountID)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Token is valid for %s (%s)\n", acc.Username, acc.ID)
	return nil
}

// Timezones prints all known IANA timezones with their current UTC offset.
func (a *App) Timezones() error {
	zones, err := timex.Zones()
	if err != nil {
		return err
	}

	for _, z := range zones {
		fmt.Fprintln(a.out, z.Label)
	}
	return nil
}
