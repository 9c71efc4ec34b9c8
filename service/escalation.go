package service

import (
	"context"
	"fmt"
	"strings"

	"supportchat/model"
)

// Escalation describes a reply that handed the user off to a human.
type Escalation struct {
	RequestID string
	SessionID model.UUID
	UserID    string
	Message   string
	Reply     string
}

type Notifier interface {
	Escalated(ctx context.Context, e Escalation) error
}

// IsEscalation reports whether reply hands the conversation to a human.
func IsEscalation(reply string) bool {
	return strings.Contains(strings.ToLower(reply), "escalate this to a human")
}

// SupportMailer is implemented by platform.Mailer.
type SupportMailer interface {
	SendSupport(ctx context.Context, subject, body string) error
}

// MailNotifier e-mails escalations to the support inbox.
type MailNotifier struct {
	Mailer SupportMailer
}

func (n *MailNotifier) Escalated(ctx context.Context, e Escalation) error {
	subject := fmt.Sprintf("Support escalation for user %s", e.UserID)
	body := fmt.Sprintf("Session: %s\nRequest: %s\n\nCustomer wrote:\n%s\n\nAssistant replied:\n%s\n",
		e.SessionID, e.RequestID, e.Message, e.Reply)
	return n.Mailer.SendSupport(ctx, subject, body)
}
