package platform

import (
	"context"
	"errors"
	"net/smtp"
	"testing"

	"github.com/jordan-wright/email"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMailerSendSupport(t *testing.T) {
	m := NewMailer(MailConfig{
		Host:         "smtp.example.com",
		Port:         "587",
		User:         "bot",
		Password:     "secret",
		From:         "bot@example.com",
		SupportEmail: "help@example.com",
	})
	var (
		sent     *email.Email
		sentAddr string
		sentAuth smtp.Auth
	)
	m.send = func(e *email.Email, addr string, auth smtp.Auth) error {
		sent, sentAddr, sentAuth = e, addr, auth
		return nil
	}

	require.NoError(t, m.SendSupport(context.Background(), "Escalation", "user u1 needs help\n"))
	require.NotNil(t, sent)
	assert.Equal(t, "smtp.example.com:587", sentAddr)
	assert.NotNil(t, sentAuth)
	assert.Equal(t, "bot@example.com", sent.From)
	assert.Equal(t, []string{"help@example.com"}, sent.To)
	assert.Equal(t, "Escalation", sent.Subject)
	assert.Equal(t, "user u1 needs help\n", string(sent.Text))
}

func TestMailerErrors(t *testing.T) {
	m := NewMailer(MailConfig{Host: "localhost", Port: "25", From: "a@example.com", SupportEmail: "b@example.com"})
	m.send = func(e *email.Email, addr string, auth smtp.Auth) error {
		assert.Nil(t, auth)
		return errors.New("connection refused")
	}
	err := m.SendSupport(context.Background(), "s", "b")
	assert.ErrorContains(t, err, "b@example.com")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, m.SendSupport(ctx, "s", "b"), context.Canceled)
}
