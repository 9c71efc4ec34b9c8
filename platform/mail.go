package platform

import (
	"context"
	"fmt"
	"net"
	"net/smtp"

	"github.com/jordan-wright/email"
)

// Mailer sends plain-text mail to the support inbox.
type Mailer struct {
	config MailConfig
	send   func(e *email.Email, addr string, auth smtp.Auth) error
}

func NewMailer(config MailConfig) *Mailer {
	return &Mailer{
		config: config,
		send: func(e *email.Email, addr string, auth smtp.Auth) error {
			return e.Send(addr, auth)
		},
	}
}

// SendSupport mails subject/body to the configured support address.
func (m *Mailer) SendSupport(ctx context.Context, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	e := email.NewEmail()
	e.From = m.config.From
	e.To = []string{m.config.SupportEmail}
	e.Subject = subject
	e.Text = []byte(body)

	var auth smtp.Auth
	if m.config.User != "" {
		auth = smtp.PlainAuth("", m.config.User, m.config.Password, m.config.Host)
	}
	addr := net.JoinHostPort(m.config.Host, m.config.Port)
	if err := m.send(e, addr, auth); err != nil {
		return fmt.Errorf("failed to send mail to %s: %w", m.config.SupportEmail, err)
	}
	return nil
}
