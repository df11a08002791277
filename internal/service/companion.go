package service

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/darcyapp/darcy-server/internal/domain"
	apperrors "github.com/darcyapp/darcy-server/internal/errors"
	"github.com/darcyapp/darcy-server/internal/id"
	"github.com/darcyapp/darcy-server/internal/persona"
	"github.com/darcyapp/darcy-server/internal/store"
)

// Catalog searches the external book catalog.
type Catalog interface {
	Search(ctx context.Context, query string) ([]domain.Book, error)
}

// CompanionService orchestrates the persisted conversations: seeding fresh
// transcripts with Darcy's greetings, relaying turns, and shelving books
// Darcy recommends. Relay failures become in-conversation replies; only
// invalid requests surface as errors.
type CompanionService struct {
	store   *store.Store
	chat    *ChatService
	library *LibraryService
	catalog Catalog
	logger  *slog.Logger

	// Serializes read-modify-write cycles on the transcripts.
	mu sync.Mutex
}

// NewCompanionService creates the conversation orchestrator.
func NewCompanionService(st *store.Store, chat *ChatService, library *LibraryService, catalog Catalog, logger *slog.Logger) *CompanionService {
	return &CompanionService{
		store:   st,
		chat:    chat,
		library: library,
		catalog: catalog,
		logger:  logger,
	}
}

// GeneralConversation returns the general transcript, seeding it with a
// random greeting when absent. A transcript still sitting on a seed from an
// older greeting schema is reseeded.
func (s *CompanionService) GeneralConversation() (*domain.Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generalLocked()
}

func (s *CompanionService) generalLocked() (*domain.Conversation, error) {
	convo, err := s.store.LoadGeneralConversation()
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeInternal, "load conversation")
	}

	stale := convo != nil && len(convo.Messages) == 1 && convo.Version != persona.GreetingSchemaVersion
	if convo == nil || convo.Empty() || stale {
		convo = &domain.Conversation{
			Version: persona.GreetingSchemaVersion,
			Messages: []domain.Message{
				s.newMessage(persona.RandomGreeting(), domain.SenderAI),
			},
		}
		if err := s.store.SaveGeneralConversation(convo); err != nil {
			return nil, apperrors.Wrap(err, apperrors.CodeInternal, "seed conversation")
		}
	}
	return convo, nil
}

// BookConversation returns the transcript for a shelved book, seeding it
// with Darcy's opener for that title when absent.
func (s *CompanionService) BookConversation(bookID string) (*domain.Conversation, error) {
	book, err := s.library.Get(bookID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bookLocked(bookID, book.Title)
}

func (s *CompanionService) bookLocked(bookID, title string) (*domain.Conversation, error) {
	convo, err := s.store.LoadBookConversation(bookID)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeInternal, "load conversation")
	}

	if convo == nil || convo.Empty() {
		convo = &domain.Conversation{
			Version: persona.GreetingSchemaVersion,
			Messages: []domain.Message{
				s.newMessage(persona.BookOpener(title), domain.SenderAI),
			},
		}
		if err := s.store.SaveBookConversation(bookID, convo); err != nil {
			return nil, apperrors.Wrap(err, apperrors.CodeInternal, "seed conversation")
		}
	}
	return convo, nil
}

// SendGeneralMessage relays one turn in the general conversation. The user
// message and the reply are appended and persisted; a relay failure is
// recorded as Darcy's reply rather than returned. On a successful reply
// every book title Darcy quoted is shelved as a recommendation.
func (s *CompanionService) SendGeneralMessage(ctx context.Context, message string) (*domain.Conversation, error) {
	if strings.TrimSpace(message) == "" {
		return nil, apperrors.Validation(MsgMessageMissing)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	convo, err := s.generalLocked()
	if err != nil {
		return nil, err
	}

	result, relayErr := s.chat.Relay(ctx, message, convo.Messages)

	convo.Append(s.newMessage(message, domain.SenderUser))
	if relayErr != nil {
		convo.Append(s.newMessage(RelayErrorMessage(relayErr), domain.SenderAI))
	} else {
		convo.Append(s.newMessage(result.Response, domain.SenderAI))
	}

	if err := s.store.SaveGeneralConversation(convo); err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeInternal, "save conversation")
	}

	if relayErr == nil {
		s.shelveRecommendations(ctx, result.Response)
	}

	return convo, nil
}

// SendBookMessage relays one turn in a book conversation. Quoted titles are
// not auto-shelved here: in a book chat Darcy quotes the book under
// discussion constantly.
func (s *CompanionService) SendBookMessage(ctx context.Context, bookID, message string) (*domain.Conversation, error) {
	if strings.TrimSpace(message) == "" {
		return nil, apperrors.Validation(MsgMessageMissing)
	}

	book, err := s.library.Get(bookID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	convo, err := s.bookLocked(bookID, book.Title)
	if err != nil {
		return nil, err
	}

	result, relayErr := s.chat.Relay(ctx, message, convo.Messages)

	convo.Append(s.newMessage(message, domain.SenderUser))
	if relayErr != nil {
		convo.Append(s.newMessage(RelayErrorMessage(relayErr), domain.SenderAI))
	} else {
		convo.Append(s.newMessage(result.Response, domain.SenderAI))
	}

	if err := s.store.SaveBookConversation(bookID, convo); err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeInternal, "save conversation")
	}

	return convo, nil
}

// shelveRecommendations finds every book title Darcy quoted in a reply and
// puts each one's top catalog hit on the recommended shelf. Best effort:
// each failure is logged on its own and the chat turn stands.
func (s *CompanionService) shelveRecommendations(ctx context.Context, reply string) {
	for _, title := range persona.ExtractQuotedTitles(reply) {
		books, err := s.catalog.Search(ctx, title)
		if err != nil {
			s.logger.Warn("recommendation lookup failed", "title", title, "error", err)
			continue
		}
		if len(books) == 0 {
			s.logger.Debug("recommendation not found in catalog", "title", title)
			continue
		}

		if _, err := s.library.AddBook(books[0], domain.ShelfDarcyRecommended); err != nil {
			s.logger.Warn("failed to shelve recommendation", "title", title, "error", err)
			continue
		}
		s.logger.Info("shelved recommendation", "title", title, "book_id", books[0].ID)
	}
}

// newMessage stamps a message with an ID and timestamp.
func (s *CompanionService) newMessage(text string, sender domain.Sender) domain.Message {
	return domain.Message{
		ID:     id.MustGenerate(id.PrefixMessage),
		Text:   text,
		Sender: sender,
		At:     time.Now(),
	}
}
