package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/darcyapp/darcy-server/internal/domain"
)

func (s *Server) registerConversationRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getGeneralConversation",
		Method:      http.MethodGet,
		Path:        "/api/conversations/general",
		Summary:     "Get the general conversation",
		Description: "Returns the general transcript, seeding a greeting when empty",
		Tags:        []string{"Conversations"},
	}, s.handleGetGeneralConversation)

	huma.Register(s.api, huma.Operation{
		OperationID: "sendGeneralMessage",
		Method:      http.MethodPost,
		Path:        "/api/conversations/general/messages",
		Summary:     "Send a message in the general conversation",
		Description: "Relays the message to Darcy, persists both turns, and shelves any book she recommends",
		Tags:        []string{"Conversations"},
	}, s.handleSendGeneralMessage)

	huma.Register(s.api, huma.Operation{
		OperationID: "getBookConversation",
		Method:      http.MethodGet,
		Path:        "/api/conversations/books/{id}",
		Summary:     "Get a book conversation",
		Description: "Returns the transcript for a shelved book, seeding Darcy's opener when empty",
		Tags:        []string{"Conversations"},
	}, s.handleGetBookConversation)

	huma.Register(s.api, huma.Operation{
		OperationID: "sendBookMessage",
		Method:      http.MethodPost,
		Path:        "/api/conversations/books/{id}/messages",
		Summary:     "Send a message in a book conversation",
		Tags:        []string{"Conversations"},
	}, s.handleSendBookMessage)
}

// === DTOs ===

// ConversationResponse is a persisted transcript.
type ConversationResponse struct {
	Conversation *domain.Conversation `json:"conversation" doc:"The transcript"`
}

// ConversationOutput wraps a transcript for Huma.
type ConversationOutput struct {
	Body ConversationResponse
}

// SendMessageRequest is one user turn.
type SendMessageRequest struct {
	Message string `json:"message,omitempty" doc:"The user's message"`
}

// SendGeneralMessageInput wraps a general-chat turn for Huma.
type SendGeneralMessageInput struct {
	Body SendMessageRequest
}

// BookConversationInput identifies a book conversation.
type BookConversationInput struct {
	ID string `path:"id" doc:"Book ID"`
}

// SendBookMessageInput wraps a book-chat turn for Huma.
type SendBookMessageInput struct {
	ID   string `path:"id" doc:"Book ID"`
	Body SendMessageRequest
}

// === Handlers ===

func (s *Server) handleGetGeneralConversation(_ context.Context, _ *struct{}) (*ConversationOutput, error) {
	convo, err := s.services.Companion.GeneralConversation()
	if err != nil {
		return nil, err
	}
	return &ConversationOutput{Body: ConversationResponse{Conversation: convo}}, nil
}

func (s *Server) handleSendGeneralMessage(ctx context.Context, input *SendGeneralMessageInput) (*ConversationOutput, error) {
	convo, err := s.services.Companion.SendGeneralMessage(ctx, input.Body.Message)
	if err != nil {
		return nil, err
	}
	return &ConversationOutput{Body: ConversationResponse{Conversation: convo}}, nil
}

func (s *Server) handleGetBookConversation(_ context.Context, input *BookConversationInput) (*ConversationOutput, error) {
	convo, err := s.services.Companion.BookConversation(input.ID)
	if err != nil {
		return nil, err
	}
	return &ConversationOutput{Body: ConversationResponse{Conversation: convo}}, nil
}

func (s *Server) handleSendBookMessage(ctx context.Context, input *SendBookMessageInput) (*ConversationOutput, error) {
	convo, err := s.services.Companion.SendBookMessage(ctx, input.ID, input.Body.Message)
	if err != nil {
		return nil, err
	}
	return &ConversationOutput{Body: ConversationResponse{Conversation: convo}}, nil
}
