// Package cli implements the accountctl administration tool: account
// registration, listing, removal, recovery dispatch, session-token minting,
// and timezone listing, on top of the account service.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/dmitrijs2005/accountd/internal/accounts"
	"github.com/dmitrijs2005/accountd/internal/config"
	"github.com/dmitrijs2005/accountd/internal/logging"
	"github.com/dmitrijs2005/accountd/internal/mailx"
	"github.com/dmitrijs2005/accountd/internal/recovery"
	"github.com/dmitrijs2005/accountd/internal/services"
	"github.com/dmitrijs2005/accountd/internal/session"
	"github.com/dmitrijs2005/accountd/internal/storage"
)

type App struct {
	config  *config.Config
	service *services.AccountService
	reader  *bufio.Reader
	out     io.Writer
}

// NewApp wires the production collaborators: PostgreSQL store, SMTP
// transport, template renderer, and a fresh session manager.
func NewApp(c *config.Config) (*App, error) {
	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stderr, nil)))

	m, err := storage.NewPostgresRepositoryManager(c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	mailer := mailx.NewSMTPMailer(c.SMTPAddr, nil)
	renderer := recovery.NewTemplateRenderer(c.SiteName)
	notifier := recovery.NewNotifier(mailer, renderer,
		mailx.Address{Email: c.EmailNoReply, Name: c.EmailName}, c.SiteName)
	sessions := session.NewManager([]byte(c.SessionSecret), c.SessionTokenValidity)

	svc := services.NewAccountService(m.Accounts(), accounts.NewRuleValidator(), sessions, notifier, logger)

	return newApp(c, svc, os.Stdin, os.Stdout), nil
}

// newApp is the test seam: collaborators and streams are injected.
func newApp(c *config.Config, svc *services.AccountService, in io.Reader, out io.Writer) *App {
	return &App{config: c, service: svc, reader: bufio.NewReader(in), out: out}
}

const usage = `Usage: accountctl <command> [flags]

Commands:
  register            create a new account interactively
  list                list accounts
  remove <username>   delete an account
  recover <username>  send a password-recovery email
  login <username>    verify a password and mint a session token
  verify <token>      check a session token and print its account
  timezones           list known timezones
`

// Run dispatches the subcommand. args should already be stripped of
// configuration flags (see CommandArgs).
func (a *App) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Fprint(a.out, usage)
		return nil
	}

	switch args[0] {
	case "register":
		return a.Register(ctx)
	case "list":
		return a.List(ctx)
	case "remove":
		if len(args) < 2 {
			return fmt.Errorf("remove: username required")
		}
		return a.Remove(ctx, args[1])
	case "recover":
		if len(args) < 2 {
			return fmt.Errorf("recover: username required")
		}
		return a.Recover(ctx, args[1])
	case "login":
		if len(args) < 2 {
			return fmt.Errorf("login: username required")
		}
		return a.Login(ctx, args[1])
	case "verify":
		if len(args) < 2 {
			return fmt.Errorf("verify: token required")
		}
		return a.Verify(ctx, args[1])
	case "timezones":
		return a.Timezones()
	default:
		fmt.Fprint(a.out, usage)
		return fmt.Errorf("unknown command %q", args[0])
	}
}

// CommandArgs strips flags (and their values) from args, leaving the
// subcommand and its positional arguments. All configuration flags take a
// value, so a dash-prefixed token swallows the following token unless that
// one is itself a flag.
func CommandArgs(args []string) []string {
	var out []string
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if strings.HasPrefix(arg, "-") {
			if !strings.Contains(arg, "=") && i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
				i++
			}
			continue
		}
		out = append(out, arg)
	}
	return out
}
