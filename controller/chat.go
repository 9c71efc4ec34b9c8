package controller

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"supportchat/model"
	"supportchat/service"
)

// Chatter is implemented by service.ChatService.
type Chatter interface {
	Handle(ctx context.Context, userID, message string) (*service.Reply, error)
}

// HistoryReader is implemented by model.Store.
type HistoryReader interface {
	FindSessionByUser(ctx context.Context, userID string) (*model.Session, error)
	ListMessages(ctx context.Context, sessionID model.UUID) ([]model.Message, error)
}

type ChatController struct {
	Chatter Chatter
	Reader  HistoryReader
	Logger  *logrus.Logger
}

type chatRequest struct {
	UserID  string `json:"userId" binding:"required,max=255"`
	Message string `json:"message" binding:"required"`
	// Conversation is sent by older clients. History is rebuilt from
	// storage, so it is ignored.
	Conversation []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"conversation"`
}

func (ch ChatController) Chat(c *gin.Context) {
	requestID := c.GetString("requestId")

	var input chatRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		ch.Logger.Warnf("[%s] Invalid input, %s", requestID, err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "code": "invalid_request"})
		return
	}
	if strings.TrimSpace(input.UserID) == "" || strings.TrimSpace(input.Message) == "" {
		ch.Logger.Warnf("[%s] Invalid input, blank userId or message", requestID)
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "code": "invalid_request"})
		return
	}

	ctx := service.WithRequestID(c.Request.Context(), requestID)
	reply, err := ch.Chatter.Handle(ctx, input.UserID, input.Message)
	if err != nil {
		ch.Logger.Warnf("[%s] Chat error for user %s: %s", requestID, input.UserID, err)
		c.JSON(http.StatusOK, gin.H{"response": service.FallbackReply, "code": service.CodeInternalError})
		return
	}
	if reply.Failed() {
		c.JSON(http.StatusOK, gin.H{"response": reply.Text, "code": reply.Code, "sessionId": reply.SessionID.String()})
		return
	}

	ch.Logger.Infof("[%s] Replied to user %s in session %s", requestID, input.UserID, reply.SessionID)
	c.JSON(http.StatusOK, gin.H{
		"response":  reply.Text,
		"sessionId": reply.SessionID.String(),
		"html":      RenderMarkdown(reply.Text),
	})
}

func (ch ChatController) History(c *gin.Context) {
	requestID := c.GetString("requestId")

	userID := c.Query("userId")
	if strings.TrimSpace(userID) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "userId is required", "code": "invalid_request"})
		return
	}

	session, err := ch.Reader.FindSessionByUser(c.Request.Context(), userID)
	if errors.Is(err, model.ErrSessionNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "no conversation for this user", "code": "session_not_found"})
		return
	}
	if err != nil {
		ch.Logger.Warnf("[%s] History lookup error for user %s: %s", requestID, userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error", "code": service.CodeInternalError})
		return
	}

	messages, err := ch.Reader.ListMessages(c.Request.Context(), session.ID)
	if err != nil {
		ch.Logger.Warnf("[%s] History load error for session %s: %s", requestID, session.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error", "code": service.CodeInternalError})
		return
	}
	if messages == nil {
		messages = []model.Message{}
	}
	c.JSON(http.StatusOK, gin.H{"sessionId": session.ID.String(), "messages": messages})
}
