package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/darcyapp/darcy-server/internal/domain"
	apperrors "github.com/darcyapp/darcy-server/internal/errors"
	"github.com/darcyapp/darcy-server/internal/search"
	"github.com/darcyapp/darcy-server/internal/store"
)

// LibraryService owns the library aggregate. The aggregate lives in memory
// behind a mutex and is written through to the store on every mutation, so
// a crash loses at most nothing.
type LibraryService struct {
	store  *store.Store
	index  *search.SearchIndex
	logger *slog.Logger

	mu  sync.Mutex
	lib *domain.Library
}

// NewLibraryService loads the persisted library and reconciles the search
// index with it.
func NewLibraryService(st *store.Store, index *search.SearchIndex, logger *slog.Logger) (*LibraryService, error) {
	lib, err := st.LoadLibrary()
	if err != nil {
		return nil, fmt.Errorf("load library: %w", err)
	}

	if err := index.Rebuild(lib.Books); err != nil {
		return nil, fmt.Errorf("rebuild library index: %w", err)
	}

	logger.Info("library loaded",
		"books", len(lib.Books),
		"favorites", len(lib.Favorites),
	)

	return &LibraryService{
		store:  st,
		index:  index,
		logger: logger,
		lib:    lib,
	}, nil
}

// Snapshot returns a copy of the current library.
func (s *LibraryService) Snapshot() *domain.Library {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := &domain.Library{
		Books:     make([]domain.Book, len(s.lib.Books)),
		Favorites: make([]string, len(s.lib.Favorites)),
	}
	copy(out.Books, s.lib.Books)
	copy(out.Favorites, s.lib.Favorites)
	return out
}

// Get returns a copy of one shelved book.
func (s *LibraryService) Get(bookID string) (*domain.Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	book := s.lib.Get(bookID)
	if book == nil {
		return nil, apperrors.NotFoundf("book %s is not in the library", bookID)
	}
	out := *book
	return &out, nil
}

// AddBook puts a book on a shelf. Re-adding an existing book only moves it.
func (s *LibraryService) AddBook(book domain.Book, shelf domain.Shelf) (*domain.Book, error) {
	if !shelf.Valid() {
		return nil, apperrors.Validationf("unknown shelf %q", shelf)
	}
	if book.ID == "" {
		return nil, apperrors.Validation("book id is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	added := s.lib.Upsert(book, shelf)
	if err := s.persistLocked(); err != nil {
		return nil, err
	}

	stored := s.lib.Get(book.ID)
	s.indexBook(stored)

	s.logger.Info("book shelved",
		"book_id", book.ID,
		"shelf", shelf,
		"new", added,
	)

	out := *stored
	return &out, nil
}

// Update changes the shelf and/or the user notes of a shelved book.
// Nil fields are left untouched.
func (s *LibraryService) Update(bookID string, shelf *domain.Shelf, notes *string) (*domain.Book, error) {
	if shelf != nil && !shelf.Valid() {
		return nil, apperrors.Validationf("unknown shelf %q", *shelf)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	book := s.lib.Get(bookID)
	if book == nil {
		return nil, apperrors.NotFoundf("book %s is not in the library", bookID)
	}

	if shelf != nil {
		s.lib.Move(bookID, *shelf)
	}
	if notes != nil {
		book.UserNotes = *notes
	}

	if err := s.persistLocked(); err != nil {
		return nil, err
	}
	s.indexBook(book)

	out := *book
	return &out, nil
}

// RemoveBook deletes a book from the library, its favorite mark, its search
// document, and its conversation transcript.
func (s *LibraryService) RemoveBook(bookID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.lib.Remove(bookID) {
		return apperrors.NotFoundf("book %s is not in the library", bookID)
	}
	if err := s.persistLocked(); err != nil {
		return err
	}

	if err := s.index.DeleteBook(bookID); err != nil {
		s.logger.Warn("failed to remove book from search index", "book_id", bookID, "error", err)
	}
	if err := s.store.DeleteBookConversation(bookID); err != nil {
		s.logger.Warn("failed to remove book conversation", "book_id", bookID, "error", err)
	}

	s.logger.Info("book removed", "book_id", bookID)
	return nil
}

// ToggleFavorite flips the favorite state, enforcing the capacity cap.
func (s *LibraryService) ToggleFavorite(bookID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	favorite, ok := s.lib.ToggleFavorite(bookID)
	if !ok {
		return false, apperrors.Validation(domain.FavoritesCapacityMessage)
	}
	if err := s.persistLocked(); err != nil {
		return false, err
	}
	return favorite, nil
}

// Search runs a full-text query over the shelved library.
func (s *LibraryService) Search(ctx context.Context, params search.SearchParams) (*search.SearchResult, error) {
	return s.index.Search(ctx, params)
}

// persistLocked writes the aggregate through to the store. Callers hold mu.
func (s *LibraryService) persistLocked() error {
	if err := s.store.SaveLibrary(s.lib); err != nil {
		return apperrors.Wrap(err, apperrors.CodeInternal, "persist library")
	}
	return nil
}

// indexBook updates the search document, logging instead of failing: the
// library write already succeeded and search lags are tolerable.
func (s *LibraryService) indexBook(book *domain.Book) {
	if err := s.index.IndexBook(book); err != nil {
		s.logger.Warn("failed to index book", "book_id", book.ID, "error", err)
	}
}
