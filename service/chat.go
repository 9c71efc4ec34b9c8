package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"supportchat/faq"
	"supportchat/model"
)

// FallbackReply is shown to the user whenever a request fails internally.
const FallbackReply = "⚠️ Oops! Something went wrong. Please try again."

const (
	CodeCompletionFailed = "completion_failed"
	CodeInternalError    = "internal_error"
)

// ConversationStore is the part of model.Store the chat flow needs.
type ConversationStore interface {
	ResolveSession(ctx context.Context, userID string) (*model.Session, bool, error)
	ListRecentMessages(ctx context.Context, sessionID model.UUID, limit int) ([]model.Message, error)
	AppendMessages(ctx context.Context, sessionID model.UUID, turns []model.Turn) ([]model.Message, error)
}

type Reply struct {
	SessionID model.UUID
	Text      string
	// Code is empty on success.
	Code string
}

func (r *Reply) Failed() bool {
	return r.Code != ""
}

// ChatService answers one user message per call.
type ChatService struct {
	Store  ConversationStore
	Oracle Oracle
	FAQ    []faq.Entry
	Logger *logrus.Logger

	// HistoryLimit caps the number of stored messages put in the prompt.
	// Zero means the whole history.
	HistoryLimit  int
	OracleTimeout time.Duration
	Notifier      Notifier
}

// Handle resolves the user's session, asks the oracle and stores the
// exchange. A failed completion is not an error: the reply carries the
// fallback text and CodeCompletionFailed, and that text is stored as the
// bot turn. Store failures are returned as errors.
func (s *ChatService) Handle(ctx context.Context, userID, message string) (*Reply, error) {
	requestID := RequestID(ctx)

	session, created, err := s.Store.ResolveSession(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve session: %w", err)
	}
	if created {
		s.Logger.Infof("[%s] created session %s for user %s", requestID, session.ID, userID)
	}

	history, err := s.Store.ListRecentMessages(ctx, session.ID, s.HistoryLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}

	prompt := AssemblePrompt(model.Turns(history), s.FAQ, message)

	reply := &Reply{SessionID: session.ID}
	text, err := s.complete(ctx, prompt)
	if err != nil {
		s.Logger.Warnf("[%s] completion error for session %s, %s", requestID, session.ID, err)
		reply.Text = FallbackReply
		reply.Code = CodeCompletionFailed
	} else {
		reply.Text = text
	}

	// keep the exchange even if the caller has gone away
	persistCtx := context.WithoutCancel(ctx)
	if _, err := s.Store.AppendMessages(persistCtx, session.ID, []model.Turn{
		{Role: model.RoleUser, Content: message},
		{Role: model.RoleBot, Content: reply.Text},
	}); err != nil {
		return nil, fmt.Errorf("failed to persist messages: %w", err)
	}

	if !reply.Failed() && s.Notifier != nil && IsEscalation(reply.Text) {
		go s.escalate(persistCtx, Escalation{
			RequestID: requestID,
			SessionID: session.ID,
			UserID:    userID,
			Message:   message,
			Reply:     reply.Text,
		})
	}
	return reply, nil
}

func (s *ChatService) complete(ctx context.Context, prompt string) (string, error) {
	if s.OracleTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.OracleTimeout)
		defer cancel()
	}
	return s.Oracle.Complete(ctx, prompt)
}

func (s *ChatService) escalate(ctx context.Context, e Escalation) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := s.Notifier.Escalated(ctx, e); err != nil {
		s.Logger.Warnf("[%s] escalation notice for session %s error, %s", e.RequestID, e.SessionID, err)
		return
	}
	s.Logger.Infof("[%s] escalated session %s to support", e.RequestID, e.SessionID)
}

type requestIDKey struct{}

func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}
