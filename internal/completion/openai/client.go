// Package openai is a client for the OpenAI chat completions API. One request
// per chat turn: the persona system prompt, the conversation history, and the
// new user message. Requests are never retried; failures are classified and
// surfaced to the caller.
package openai

import (
	"bytes"
	"context"
	"encoding/json/v2"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/darcyapp/darcy-server/internal/domain"
	apperrors "github.com/darcyapp/darcy-server/internal/errors"
	"github.com/darcyapp/darcy-server/internal/persona"
)

const (
	defaultBaseURL = "https://api.openai.com/v1"
	defaultTimeout = 60 * time.Second

	// Completion tuning for the companion voice.
	temperature = 0.9
	maxTokens   = 500
)

// Client provides access to the chat completions API.
type Client struct {
	http    *http.Client
	limiter *rate.Limiter
	logger  *slog.Logger
	apiKey  string
	model   string
	baseURL string
}

// New creates a completions client for the given model.
func New(logger *slog.Logger, apiKey, model string) *Client {
	return &Client{
		http: &http.Client{
			Timeout: defaultTimeout,
		},
		// 2 rps with a burst of 5 stays inside the entry-level tier.
		limiter: rate.NewLimiter(rate.Limit(2), 5),
		logger:  logger,
		apiKey:  apiKey,
		model:   model,
		baseURL: defaultBaseURL,
	}
}

// Close releases resources. Currently a no-op but included for interface consistency.
func (c *Client) Close() {
	// No persistent resources to close
}

// Result is a completed chat turn.
type Result struct {
	Usage *Usage
	Text  string
}

// Usage reports token consumption for a completion.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Complete sends one chat turn: persona system prompt, prior history, then
// the new user message. The transcript is sent in full on every call; the
// API is stateless.
func (c *Client) Complete(ctx context.Context, history []domain.Message, userMessage string) (*Result, error) {
	if c.apiKey == "" {
		return nil, apperrors.UpstreamUnauthorized("API key not configured")
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	messages := make([]chatMessage, 0, len(history)+2)
	messages = append(messages, chatMessage{Role: "system", Content: persona.SystemPrompt})
	for _, msg := range history {
		role := "assistant"
		if msg.Sender == domain.SenderUser {
			role = "user"
		}
		messages = append(messages, chatMessage{Role: role, Content: msg.Text})
	}
	messages = append(messages, chatMessage{Role: "user", Content: userMessage})

	reqBody := chatRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: temperature,
		MaxTokens:   maxTokens,
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	c.logger.Debug("completion request",
		"model", c.model,
		"history_len", len(history),
	)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, apperrors.Upstream("completion request failed").WithCause(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperrors.Upstream("read completion response").WithCause(err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
		// fall through to parsing
	case http.StatusTooManyRequests:
		return nil, apperrors.UpstreamRateLimited("completion rate limit exceeded")
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, apperrors.UpstreamUnauthorized("completion API rejected the key")
	default:
		return nil, apperrors.Upstream(fmt.Sprintf("completion API returned status %d", resp.StatusCode))
	}

	var chatResp chatResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return nil, apperrors.Upstream("parse completion response").WithCause(err)
	}
	if chatResp.Error != nil {
		return nil, apperrors.Upstream(fmt.Sprintf("completion API error: %s", chatResp.Error.Message))
	}
	if len(chatResp.Choices) == 0 {
		return nil, apperrors.Upstream("completion returned no choices")
	}

	return &Result{
		Text:  chatResp.Choices[0].Message.Content,
		Usage: chatResp.Usage,
	}, nil
}

// Wire types for the chat completions API.

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Usage *Usage `json:"usage"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}
