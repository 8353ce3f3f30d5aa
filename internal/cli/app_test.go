package cli

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/accountd/internal/accounts"
	"github.com/dmitrijs2005/accountd/internal/config"
	"github.com/dmitrijs2005/accountd/internal/cryptox"
	"github.com/dmitrijs2005/accountd/internal/logging"
	"github.com/dmitrijs2005/accountd/internal/recovery"
	"github.com/dmitrijs2005/accountd/internal/services"
	"github.com/dmitrijs2005/accountd/internal/session"
)

type stubNotifier struct {
	sent []string
	err  error
}

func (n *stubNotifier) SendRecovery(ctx context.Context, a *accounts.Account) recovery.DeliveryResult {
	n.sent = append(n.sent, a.Email)
	if n.err != nil {
		return recovery.DeliveryResult{Err: n.err}
	}
	return recovery.DeliveryResult{Delivered: true}
}

func newTestApp(t *testing.T, input string) (*App, *accounts.InMemoryRepository, *stubNotifier, *bytes.Buffer) {
	t.Helper()

	cfg := &config.Config{}
	cfg.LoadDefaults()

	repo := accounts.NewInMemoryRepository()
	notifier := &stubNotifier{}
	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	sessions := session.NewManager([]byte(cfg.SessionSecret), cfg.SessionTokenValidity)
	svc := services.NewAccountService(repo, accounts.NewRuleValidator(), sessions, notifier, logger)

	var out bytes.Buffer

	return newApp(cfg, svc, strings.NewReader(input), &out), repo, notifier, &out
}

func stubPassword(t *testing.T, pw string) {
	t.Helper()
	orig := readPassword
	readPassword = func(fd int) ([]byte, error) { return []byte(pw), nil }
	t.Cleanup(func() { readPassword = orig })
}

func TestCommandArgs(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want []string
	}{
		{"plain command", []string{"register"}, []string{"register"}},
		{"flag with value", []string{"-d", "dsn", "list"}, []string{"list"}},
		{"flag with equals", []string{"-d=dsn", "remove", "johnsmith"}, []string{"remove", "johnsmith"}},
		{"flags after command", []string{"recover", "johnsmith", "-m", "relay:25"}, []string{"recover", "johnsmith"}},
		{"only flags", []string{"-d", "dsn"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CommandArgs(tt.args))
		})
	}
}

func TestRun_NoCommandPrintsUsage(t *testing.T) {
	app, _, _, out := newTestApp(t, "")

	err := app.Run(context.Background(), nil)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Usage: accountctl")
}

func TestRun_UnknownCommand(t *testing.T) {
	app, _, _, _ := newTestApp(t, "")

	err := app.Run(context.Background(), []string{"frobnicate"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "frobnicate")
}

func TestRegister_CreatesAccount(t *testing.T) {
	stubPassword(t, "s3cret-password")
	app, repo, _, out := newTestApp(t, "Ángel\nNúñez\nangel@example.com\n")

	err := app.Run(context.Background(), []string{"register"})
	require.NoError(t, err)

	acc, err := repo.FindOneBy(context.Background(), accounts.Filter{Username: accounts.String("angelnunez")})
	require.NoError(t, err)

	assert.Equal(t, "angel@example.com", acc.Email)
	assert.Equal(t, "Ángel", acc.FirstName)
	assert.True(t, cryptox.VerifyPassword(acc.PasswordHash, []byte("s3cret-password"), acc.Salt))
	assert.Contains(t, out.String(), "Account created: angelnunez")
}

func TestRegister_SuffixesTakenUsername(t *testing.T) {
	stubPassword(t, "s3cret-password")
	app, repo, _, out := newTestApp(t, "John\nSmith\njohn2@example.com\n")

	existing := accounts.New()
	existing.Username = "johnsmith"
	existing.Email = "john@example.com"
	existing.PasswordHash = []byte("hash")
	_, err := repo.Save(context.Background(), existing)
	require.NoError(t, err)

	err = app.Run(context.Background(), []string{"register"})
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Account created: johnsmith1")
}

func TestRemove_DeletesAccount(t *testing.T) {
	app, repo, _, out := newTestApp(t, "")

	existing := accounts.New()
	existing.Username = "johnsmith"
	existing.Email = "john@example.com"
	existing.PasswordHash = []byte("hash")
	_, err := repo.Save(context.Background(), existing)
	require.NoError(t, err)

	err = app.Run(context.Background(), []string{"remove", "johnsmith"})
	require.NoError(t, err)

	_, err = repo.FindOneBy(context.Background(), accounts.Filter{Username: accounts.String("johnsmith")})
	require.Error(t, err)
	assert.Contains(t, out.String(), "removed")
}

func TestRemove_AbsentAccount(t *testing.T) {
	app, _, _, _ := newTestApp(t, "")

	err := app.Run(context.Background(), []string{"remove", "ghost"})
	require.Error(t, err)
}

func TestRecover_SendsEmail(t *testing.T) {
	app, repo, notifier, out := newTestApp(t, "")

	existing := accounts.New()
	existing.Username = "johnsmith"
	existing.Email = "john@example.com"
	existing.PasswordHash = []byte("hash")
	_, err := repo.Save(context.Background(), existing)
	require.NoError(t, err)

	err = app.Run(context.Background(), []string{"recover", "johnsmith"})
	require.NoError(t, err)

	require.Len(t, notifier.sent, 1)
	assert.Equal(t, "john@example.com", notifier.sent[0])
	assert.Contains(t, out.String(), "Recovery email sent to john@example.com")
}

func TestList_PrintsAccounts(t *testing.T) {
	app, repo, _, out := newTestApp(t, "")

	for _, name := range []string{"alice", "bob"} {
		acc := accounts.New()
		acc.Username = name
		acc.Email = name + "@example.com"
		acc.PasswordHash = []byte("hash")
		_, err := repo.Save(context.Background(), acc)
		require.NoError(t, err)
	}

	err := app.Run(context.Background(), []string{"list"})
	require.NoError(t, err)

	assert.Contains(t, out.String(), "alice")
	assert.Contains(t, out.String(), "bob")
}

func TestLogin_VerifiesPasswordAndPrintsToken(t *testing.T) {
	stubPassword(t, "s3cret-password")
	app, repo, _, out := newTestApp(t, "")

	acc := accounts.New()
	acc.Username = "johnsmith"
	acc.Email = "john@example.com"
	acc.PasswordHash = cryptox.HashPassword([]byte("s3cret-password"), acc.Salt)
	_, err := repo.Save(context.Background(), acc)
	require.NoError(t, err)

	err = app.Run(context.Background(), []string{"login", "johnsmith"})
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Session token for johnsmith")

	active, ok := app.service.ActiveUser()
	require.True(t, ok)
	assert.Equal(t, "johnsmith", active.Username)
}

func TestVerify_AcceptsMintedToken(t *testing.T) {
	app, repo, _, out := newTestApp(t, "")

	acc := accounts.New()
	acc.Username = "johnsmith"
	acc.Email = "john@example.com"
	acc.PasswordHash = []byte("hash")
	_, err := repo.Save(context.Background(), acc)
	require.NoError(t, err)

	token, err := session.GenerateToken(acc.ID, []byte(app.config.SessionSecret), time.Minute)
	require.NoError(t, err)

	err = app.Run(context.Background(), []string{"verify", token})
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Token is valid for johnsmith")
}

func TestVerify_RejectsGarbageToken(t *testing.T) {
	app, _, _, _ := newTestApp(t, "")

	err := app.Run(context.Background(), []string{"verify", "not-a-token"})
	require.Error(t, err)
}

func TestVerify_RejectsForeignSignature(t *testing.T) {
	app, repo, _, _ := newTestApp(t, "")

	acc := accounts.New()
	acc.Username = "johnsmith"
	acc.Email = "john@example.com"
	acc.PasswordHash = []byte("hash")
	_, err := repo.Save(context.Background(), acc)
	require.NoError(t, err)

	token, err := session.GenerateToken(acc.ID, []byte("some-other-secret"), time.Minute)
	require.NoError(t, err)

	err = app.Run(context.Background(), []string{"verify", token})
	require.Error(t, err)
}

func TestLogin_WrongPassword(t *testing.T) {
	stubPassword(t, "wrong")
	app, repo, _, _ := newTestApp(t, "")

	acc := accounts.New()
	acc.Username = "johnsmith"
	acc.Email = "john@example.com"
	acc.PasswordHash = cryptox.HashPassword([]byte("s3cret-password"), acc.Salt)
	_, err := repo.Save(context.Background(), acc)
	require.NoError(t, err)

	err = app.Run(context.Background(), []string{"login", "johnsmith"})
	require.Error(t, err)

	_, ok := app.service.ActiveUser()
	assert.False(t, ok)
}
