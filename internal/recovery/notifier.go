// Package recovery composes and dispatches password-recovery notifications.
// Delivery is best-effort: failures come back as a result value so callers
// can decide whether to surface them without leaking account existence.
package recovery

import (
	"context"

	"github.com/dmitrijs2005/accountd/internal/accounts"
	"github.com/dmitrijs2005/accountd/internal/mailx"
)

// DeliveryResult reports the outcome of one recovery dispatch. Err carries
// the transport or rendering failure; it is never raised.
type DeliveryResult struct {
	Delivered bool
	Err       error
}

// Renderer produces the notification body for an account.
type Renderer interface {
	RenderRecovery(a *accounts.Account) (string, error)
}

// Notifier builds a recovery message for an account and hands it to the
// mail transport. It performs no retries.
type Notifier struct {
	mailer   mailx.Mailer
	renderer Renderer
	from     mailx.Address
	siteName string
}

func NewNotifier(mailer mailx.Mailer, renderer Renderer, from mailx.Address, siteName string) *Notifier {
	return &Notifier{mailer: mailer, renderer: renderer, from: from, siteName: siteName}
}

// SendRecovery composes the password-reset message for the account's email
// and dispatches it, returning the transport's outcome unmodified.
func (n *Notifier) SendRecovery(ctx context.Context, a *accounts.Account) DeliveryResult {
	body, err := n.renderer.RenderRecovery(a)
	if err != nil {
		return DeliveryResult{Err: err}
	}

	msg := &mailx.Message{
		From:     n.from,
		To:       []string{a.Email},
		Subject:  "Change password on " + n.siteName,
		HTMLBody: body,
	}

	if err := n.mailer.Send(ctx, msg); err != nil {
		return DeliveryResult{Err: err}
	}
	return DeliveryResult{Delivered: true}
}
