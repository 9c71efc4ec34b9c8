// Package client keeps the local side of a support chat: the messages the
// user sees, and one request to the server per message sent.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

const (
	Greeting     = "👋 Hi there! I'm your AI support assistant. How can I help you today?"
	FallbackText = "⚠️ Oops! Something went wrong. Please try again."
)

var (
	ErrBusy         = errors.New("a message is already being sent")
	ErrEmptyMessage = errors.New("message is empty")
)

type Message struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"-"`
}

// Conversation is safe for concurrent use. Only one Send may be in
// flight at a time.
type Conversation struct {
	baseURL    string
	userID     string
	httpClient *http.Client
	now        func() time.Time

	mu         sync.Mutex
	messages   []Message
	loading    bool
	generation int // bumped by Reset
}

// New returns a conversation talking to the server at baseURL.
func New(baseURL, userID string, httpClient *http.Client) *Conversation {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 2 * time.Minute}
	}
	c := &Conversation{
		baseURL:    strings.TrimRight(baseURL, "/"),
		userID:     userID,
		httpClient: httpClient,
		now:        time.Now,
	}
	c.Reset()
	return c
}

func (c *Conversation) greeting() Message {
	return Message{Role: "bot", Content: Greeting, Timestamp: c.now()}
}

// Messages returns a copy of the local message list.
func (c *Conversation) Messages() []Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Message(nil), c.messages...)
}

func (c *Conversation) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

// Reset drops everything but the greeting. The server keeps its history.
// A reply still in flight is returned by its Send but not appended.
func (c *Conversation) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.messages = []Message{c.greeting()}
	c.generation++
}

type chatRequest struct {
	UserID       string    `json:"userId"`
	Message      string    `json:"message"`
	Conversation []Message `json:"conversation"`
}

type chatResponse struct {
	Response string `json:"response"`
	Code     string `json:"code"`
}

// Send appends text as a user turn at once, then the server's reply (or
// FallbackText) as a bot turn. The returned error describes why the
// fallback was used; the bot turn is appended either way.
func (c *Conversation) Send(ctx context.Context, text string) (Message, error) {
	if strings.TrimSpace(text) == "" {
		return Message{}, ErrEmptyMessage
	}

	c.mu.Lock()
	if c.loading {
		c.mu.Unlock()
		return Message{}, ErrBusy
	}
	history := append([]Message(nil), c.messages...)
	c.messages = append(c.messages, Message{Role: "user", Content: text, Timestamp: c.now()})
	c.loading = true
	generation := c.generation
	c.mu.Unlock()

	content, err := c.post(ctx, chatRequest{UserID: c.userID, Message: text, Conversation: history})
	if err != nil && content == "" {
		content = FallbackText
	}
	reply := Message{Role: "bot", Content: content, Timestamp: c.now()}

	c.mu.Lock()
	if c.generation == generation {
		c.messages = append(c.messages, reply)
	}
	c.loading = false
	c.mu.Unlock()
	return reply, err
}

func (c *Conversation) post(ctx context.Context, body chatRequest) (string, error) {
	jsonData, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request body: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/chat", bytes.NewReader(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}
	var data chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if data.Response == "" {
		return "", errors.New("empty response")
	}
	if data.Code != "" {
		// the server already sent display text for the failure
		return data.Response, fmt.Errorf("server reported %s", data.Code)
	}
	return data.Response, nil
}

type historyResponse struct {
	SessionID string `json:"sessionId"`
	Messages  []struct {
		Role      string    `json:"role"`
		Content   string    `json:"content"`
		CreatedAt time.Time `json:"created_at"`
	} `json:"messages"`
}

// History fetches the conversation the server has stored for the user.
// It does not change the local message list. A user without a session
// has an empty history.
func (c *Conversation) History(ctx context.Context) ([]Message, error) {
	u := c.baseURL + "/api/chat/history?userId=" + url.QueryEscape(c.userID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, nil
	default:
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var data historyResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	messages := make([]Message, len(data.Messages))
	for i, m := range data.Messages {
		messages[i] = Message{Role: m.Role, Content: m.Content, Timestamp: m.CreatedAt}
	}
	return messages, nil
}
