package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/darcyapp/darcy-server/internal/completion/openai"
	"github.com/darcyapp/darcy-server/internal/domain"
	apperrors "github.com/darcyapp/darcy-server/internal/errors"
	"github.com/darcyapp/darcy-server/internal/service"
)

func (s *Server) registerChatRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "chat",
		Method:      http.MethodPost,
		Path:        "/api/chat",
		Summary:     "Relay a chat turn",
		Description: "Sends a message to Darcy and returns the reply. Clients that keep their own transcript pass it as conversationHistory; otherwise the server's fallback transcript is used.",
		Tags:        []string{"Chat"},
	}, s.handleChat)
}

// === DTOs ===

// ChatRequest is one chat turn from the client.
type ChatRequest struct {
	Message             string           `json:"message,omitempty" doc:"The user's message"`
	ConversationHistory []domain.Message `json:"conversationHistory,omitempty" doc:"Client-held transcript; omit to use the server's"`
}

// ChatResponse carries Darcy's reply.
type ChatResponse struct {
	Response string        `json:"response" doc:"Darcy's reply text"`
	Usage    *openai.Usage `json:"usage,omitempty" doc:"Token usage for this turn"`
}

// ChatInput wraps the request body for Huma.
type ChatInput struct {
	Body ChatRequest
}

// ChatOutput wraps the response for Huma.
type ChatOutput struct {
	Body ChatResponse
}

// === Handlers ===

func (s *Server) handleChat(ctx context.Context, input *ChatInput) (*ChatOutput, error) {
	result, err := s.services.Chat.Relay(ctx, input.Body.Message, input.Body.ConversationHistory)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrValidation) {
			return nil, err
		}
		// Completion failures surface as 500s with the reply text the
		// client shows verbatim.
		return nil, apperrors.Internal(service.RelayErrorMessage(err))
	}

	return &ChatOutput{
		Body: ChatResponse{
			Response: result.Response,
			Usage:    result.Usage,
		},
	}, nil
}
