// Package service implements the application logic: relaying chat turns to
// the completions API, maintaining the library aggregate, and orchestrating
// the companion conversations.
package service

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/darcyapp/darcy-server/internal/completion/openai"
	"github.com/darcyapp/darcy-server/internal/domain"
	apperrors "github.com/darcyapp/darcy-server/internal/errors"
)

// Exact reply texts for completion failures. The client shows these strings
// verbatim, so they are part of the API contract.
const (
	MsgQuotaExceeded  = "API quota exceeded. Please check your OpenAI billing."
	MsgInvalidKey     = "Invalid API key. Please check your OpenAI API key."
	MsgRelayFailed    = "Failed to get AI response. Please try again."
	MsgMessageMissing = "Message is required"
)

// Completer produces a chat completion for a transcript.
type Completer interface {
	Complete(ctx context.Context, history []domain.Message, userMessage string) (*openai.Result, error)
}

// ChatService relays chat turns to the completions API. When the caller
// supplies no history, a process-wide fallback transcript is used. The
// fallback mirrors the latest successful turn whether or not the caller
// supplied history, so bare clients still get conversational continuity.
type ChatService struct {
	completer Completer
	logger    *slog.Logger

	mu       sync.Mutex
	fallback []domain.Message
}

// NewChatService creates the relay service.
func NewChatService(completer Completer, logger *slog.Logger) *ChatService {
	return &ChatService{
		completer: completer,
		logger:    logger,
	}
}

// RelayResult is the outcome of one relayed chat turn.
type RelayResult struct {
	Usage    *openai.Usage
	Response string
}

// Relay sends one chat turn. history == nil means the caller keeps no
// transcript and the fallback history is used; an empty non-nil history is
// respected as "start fresh". Every successful turn rewrites the fallback
// from the effective history, so a caller that supplies history once and
// later omits it continues from that transcript.
func (s *ChatService) Relay(ctx context.Context, message string, history []domain.Message) (*RelayResult, error) {
	if strings.TrimSpace(message) == "" {
		return nil, apperrors.Validation(MsgMessageMissing)
	}

	if history == nil {
		s.mu.Lock()
		history = make([]domain.Message, len(s.fallback))
		copy(history, s.fallback)
		s.mu.Unlock()
	}

	result, err := s.completer.Complete(ctx, history, message)
	if err != nil {
		s.logger.Error("completion failed", "error", err)
		return nil, err
	}

	s.mu.Lock()
	s.fallback = append(history[:len(history):len(history)],
		domain.Message{Text: message, Sender: domain.SenderUser},
		domain.Message{Text: result.Text, Sender: domain.SenderAI},
	)
	s.mu.Unlock()

	return &RelayResult{
		Response: result.Text,
		Usage:    result.Usage,
	}, nil
}

// RelayErrorMessage maps a relay failure to the reply text shown to the user.
func RelayErrorMessage(err error) string {
	switch {
	case apperrors.Is(err, apperrors.ErrUpstreamRateLimited):
		return MsgQuotaExceeded
	case apperrors.Is(err, apperrors.ErrUpstreamUnauthorized):
		return MsgInvalidKey
	default:
		return MsgRelayFailed
	}
}
