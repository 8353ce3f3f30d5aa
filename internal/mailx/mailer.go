// Package mailx provides the outbound mail transport used for account
// notifications: a message type, the Mailer interface, and an SMTP
// implementation.
package mailx

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"
)

// Address is an email address with an optional display name.
type Address struct {
	Email string
	Name  string
}

// String renders the address in RFC 5322 form.
func (a Address) String() string {
	if a.Name == "" {
		return a.Email
	}
	return fmt.Sprintf("%q <%s>", a.Name, a.Email)
}

// Message is a single outbound email with an HTML body.
type Message struct {
	From     Address
	To       []string
	Subject  string
	HTMLBody string
}

// headerValue strips CR and LF so user-supplied values such as subjects and
// recipient addresses cannot inject additional headers.
func headerValue(s string) string {
	s = strings.ReplaceAll(s, "\r", "")
	return strings.ReplaceAll(s, "\n", "")
}

// Encode renders the message into wire format: headers, a blank line, and
// the body with CRLF line endings.
func (m *Message) Encode() []byte {
	var b strings.Builder

	fmt.Fprintf(&b, "From: %s\r\n", headerValue(m.From.String()))
	fmt.Fprintf(&b, "To: %s\r\n", headerValue(strings.Join(m.To, ", ")))
	fmt.Fprintf(&b, "Subject: %s\r\n", headerValue(m.Subject))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(m.HTMLBody)

	return []byte(b.String())
}

// Mailer sends a message through some transport. Implementations do not
// retry; a failure is returned to the caller as-is.
type Mailer interface {
	Send(ctx context.Context, msg *Message) error
}

// SMTPMailer delivers messages through an SMTP relay.
type SMTPMailer struct {
	addr string
	auth smtp.Auth
}

// NewSMTPMailer returns a mailer targeting the relay at addr (host:port).
// auth may be nil for an open relay.
func NewSMTPMailer(addr string, auth smtp.Auth) *SMTPMailer {
	return &SMTPMailer{addr: addr, auth: auth}
}

func (m *SMTPMailer) Send(ctx context.Context, msg *Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return smtp.SendMail(m.addr, m.auth, msg.From.Email, msg.To, msg.Encode())
}
