package openai

import (
	"context"
	"encoding/json/v2"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/darcyapp/darcy-server/internal/domain"
	apperrors "github.com/darcyapp/darcy-server/internal/errors"
	"github.com/darcyapp/darcy-server/internal/persona"
)

func testClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c := New(slog.New(slog.NewTextHandler(io.Discard, nil)), "test-key", "gpt-3.5-turbo")
	c.baseURL = srv.URL
	return c
}

func TestComplete_TranscriptShape(t *testing.T) {
	var got chatRequest
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(body, &got))

		_, _ = w.Write([]byte(`{
			"choices": [{"message": {"role": "assistant", "content": "Oh I loved that part!"}}],
			"usage": {"prompt_tokens": 40, "completion_tokens": 12, "total_tokens": 52}
		}`))
	}))

	history := []domain.Message{
		{Text: "Hi, what should I read?", Sender: domain.SenderUser},
		{Text: "Have you tried \"Circe\"?", Sender: domain.SenderAI},
	}

	result, err := c.Complete(context.Background(), history, "Just started it!")
	require.NoError(t, err)

	assert.Equal(t, "Oh I loved that part!", result.Text)
	require.NotNil(t, result.Usage)
	assert.Equal(t, 52, result.Usage.TotalTokens)

	assert.Equal(t, "gpt-3.5-turbo", got.Model)
	assert.InDelta(t, 0.9, got.Temperature, 1e-9)
	assert.Equal(t, 500, got.MaxTokens)

	// System prompt first, then history with mapped roles, then the new turn.
	require.Len(t, got.Messages, 4)
	assert.Equal(t, "system", got.Messages[0].Role)
	assert.Equal(t, persona.SystemPrompt, got.Messages[0].Content)
	assert.Equal(t, "user", got.Messages[1].Role)
	assert.Equal(t, "assistant", got.Messages[2].Role)
	assert.Equal(t, "user", got.Messages[3].Role)
	assert.Equal(t, "Just started it!", got.Messages[3].Content)
}

func TestComplete_StatusClassification(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		sentinel error
	}{
		{"rate limited", http.StatusTooManyRequests, apperrors.ErrUpstreamRateLimited},
		{"bad key", http.StatusUnauthorized, apperrors.ErrUpstreamUnauthorized},
		{"forbidden", http.StatusForbidden, apperrors.ErrUpstreamUnauthorized},
		{"server error", http.StatusInternalServerError, apperrors.ErrUpstream},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				calls++
				w.WriteHeader(tt.status)
			}))

			_, err := c.Complete(context.Background(), nil, "hello")
			require.Error(t, err)
			assert.True(t, apperrors.Is(err, tt.sentinel))
			assert.Equal(t, 1, calls, "failures must not be retried")
		})
	}
}

func TestComplete_MissingAPIKey(t *testing.T) {
	called := false
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	c.apiKey = ""

	_, err := c.Complete(context.Background(), nil, "hello")
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrUpstreamUnauthorized))
	assert.False(t, called)
}

func TestComplete_NoChoices(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices": []}`))
	}))

	_, err := c.Complete(context.Background(), nil, "hello")
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrUpstream))
}

func TestComplete_APIErrorBody(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"error": {"message": "model overloaded", "type": "server_error"}}`))
	}))

	_, err := c.Complete(context.Background(), nil, "hello")
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrUpstream))
	assert.Contains(t, err.Error(), "model overloaded")
}
