package store

import (
	"fmt"

	"github.com/darcyapp/darcy-server/internal/domain"
)

// SaveGeneralConversation persists the general chat transcript.
func (s *Store) SaveGeneralConversation(convo *domain.Conversation) error {
	if err := s.set([]byte(keyConvoGeneral), convo); err != nil {
		return fmt.Errorf("save general conversation: %w", err)
	}
	return nil
}

// LoadGeneralConversation reads the general chat transcript.
// Returns (nil, nil) when none has been saved yet.
func (s *Store) LoadGeneralConversation() (*domain.Conversation, error) {
	var convo domain.Conversation
	err := s.get([]byte(keyConvoGeneral), &convo)
	if isNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load general conversation: %w", err)
	}
	return &convo, nil
}

// SaveBookConversation persists the transcript for one book.
func (s *Store) SaveBookConversation(bookID string, convo *domain.Conversation) error {
	if err := s.set([]byte(keyConvoBookPrefix+bookID), convo); err != nil {
		return fmt.Errorf("save book conversation: %w", err)
	}
	return nil
}

// LoadBookConversation reads the transcript for one book.
// Returns (nil, nil) when the book has no conversation yet.
func (s *Store) LoadBookConversation(bookID string) (*domain.Conversation, error) {
	var convo domain.Conversation
	err := s.get([]byte(keyConvoBookPrefix+bookID), &convo)
	if isNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load book conversation: %w", err)
	}
	return &convo, nil
}

// DeleteBookConversation removes the transcript for one book. Deleting a
// transcript that never existed is not an error.
func (s *Store) DeleteBookConversation(bookID string) error {
	if err := s.delete([]byte(keyConvoBookPrefix + bookID)); err != nil {
		return fmt.Errorf("delete book conversation: %w", err)
	}
	return nil
}
