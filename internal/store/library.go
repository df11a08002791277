package store

import (
	"fmt"

	"github.com/darcyapp/darcy-server/internal/domain"
)

// SaveLibrary persists the shelved books and favorites as two documents.
func (s *Store) SaveLibrary(lib *domain.Library) error {
	if err := s.set([]byte(keyLibraryBooks), lib.Books); err != nil {
		return fmt.Errorf("save library books: %w", err)
	}
	if err := s.set([]byte(keyLibraryFavorites), lib.Favorites); err != nil {
		return fmt.Errorf("save library favorites: %w", err)
	}
	return nil
}

// LoadLibrary reads the persisted library. A fresh database yields an empty
// library, not an error.
func (s *Store) LoadLibrary() (*domain.Library, error) {
	lib := &domain.Library{}

	if err := s.get([]byte(keyLibraryBooks), &lib.Books); err != nil && !isNotFound(err) {
		return nil, fmt.Errorf("load library books: %w", err)
	}
	if err := s.get([]byte(keyLibraryFavorites), &lib.Favorites); err != nil && !isNotFound(err) {
		return nil, fmt.Errorf("load library favorites: %w", err)
	}

	// A corrupted favorites list must never exceed the cap.
	if len(lib.Favorites) > domain.MaxFavorites {
		lib.Favorites = lib.Favorites[:domain.MaxFavorites]
	}

	return lib, nil
}
