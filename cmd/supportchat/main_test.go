package main

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"supportchat/client"
)

func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetArgs(args)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestRootCommand(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr bool
	}{
		{name: "help flag", args: []string{"--help"}},
		{name: "unknown command", args: []string{"nope"}, wantErr: true},
		{name: "chat takes no args", args: []string{"chat", "extra"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := execute(t, "", tt.args...)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestChatCommand(t *testing.T) {
	var (
		mu       sync.Mutex
		messages []string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			UserID  string `json:"userId"`
			Message string `json:"message"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "alice", req.UserID)
		mu.Lock()
		messages = append(messages, req.Message)
		mu.Unlock()
		io.WriteString(w, `{"response": "Happy to help with `+req.Message+`"}`)
	}))
	defer srv.Close()

	out, _, err := execute(t, "shirts\n\n/reset\nhours\n/quit\nignored\n",
		"chat", "--server", srv.URL, "--user", "alice")
	require.NoError(t, err)

	assert.Equal(t, []string{"shirts", "hours"}, messages)
	assert.Contains(t, out, "Chatting as alice")
	assert.Equal(t, 2, strings.Count(out, client.Greeting))
	assert.Contains(t, out, "Happy to help with shirts")
	assert.Contains(t, out, "Happy to help with hours")
	assert.Contains(t, out, "Conversation reset.")
	assert.NotContains(t, out, "ignored")
}

func TestChatCommandServerDown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	out, stderr, err := execute(t, "hello\n", "chat", "--server", srv.URL)
	require.NoError(t, err)
	assert.Contains(t, out, client.FallbackText)
	assert.Contains(t, stderr, "unexpected status code: 502")
}

func TestHistoryCommand(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("userId") != "alice" {
			w.WriteHeader(http.StatusNotFound)
			io.WriteString(w, `{"code": "session_not_found"}`)
			return
		}
		io.WriteString(w, `{"sessionId": "s1", "messages": [
  {"role": "user", "content": "where is my order?", "created_at": "2026-10-14T09:00:00Z"},
  {"role": "bot", "content": "It shipped yesterday.", "created_at": "2026-10-14T09:00:02Z"}
]}`)
	}))
	defer srv.Close()

	out, _, err := execute(t, "", "history", "--server", srv.URL, "--user", "alice")
	require.NoError(t, err)
	assert.Contains(t, out, "2 messages for alice")
	assert.Less(t, strings.Index(out, "where is my order?"), strings.Index(out, "It shipped yesterday."))

	out, _, err = execute(t, "", "history", "--server", srv.URL, "--user", "bob")
	require.NoError(t, err)
	assert.Contains(t, out, "No conversation yet for bob.")

	srv.Close()
	_, _, err = execute(t, "", "history", "--server", srv.URL)
	assert.Error(t, err)
}
