package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/darcyapp/darcy-server/internal/domain"
	apperrors "github.com/darcyapp/darcy-server/internal/errors"
)

func (s *Server) registerBookRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "searchBooks",
		Method:      http.MethodGet,
		Path:        "/api/books/search",
		Summary:     "Search the catalog",
		Description: "Searches the book catalog and returns normalized volumes",
		Tags:        []string{"Books"},
	}, s.handleSearchBooks)

	huma.Register(s.api, huma.Operation{
		OperationID: "getBook",
		Method:      http.MethodGet,
		Path:        "/api/books/{id}",
		Summary:     "Get catalog book details",
		Tags:        []string{"Books"},
	}, s.handleGetBook)
}

// === DTOs ===

// BooksResponse contains normalized catalog search results.
type BooksResponse struct {
	Books []domain.Book `json:"books" doc:"Matching volumes"`
}

// BookResponse contains one catalog volume with extended fields.
type BookResponse struct {
	Book *domain.Book `json:"book" doc:"The requested volume"`
}

// SearchBooksInput contains the catalog search query.
type SearchBooksInput struct {
	Query string `query:"query" doc:"Search query"`
}

// SearchBooksOutput wraps catalog search results for Huma.
type SearchBooksOutput struct {
	Body BooksResponse
}

// GetBookInput identifies a catalog volume.
type GetBookInput struct {
	ID string `path:"id" doc:"Catalog volume ID"`
}

// GetBookOutput wraps a single volume for Huma.
type GetBookOutput struct {
	Body BookResponse
}

// === Handlers ===

func (s *Server) handleSearchBooks(ctx context.Context, input *SearchBooksInput) (*SearchBooksOutput, error) {
	books, err := s.catalog.Search(ctx, input.Query)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrValidation) {
			return nil, err
		}
		s.logger.Error("catalog search failed", "query", input.Query, "error", err)
		return nil, apperrors.Internal("Failed to search books")
	}

	if books == nil {
		books = []domain.Book{}
	}
	return &SearchBooksOutput{Body: BooksResponse{Books: books}}, nil
}

func (s *Server) handleGetBook(ctx context.Context, input *GetBookInput) (*GetBookOutput, error) {
	book, err := s.catalog.GetVolume(ctx, input.ID)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NotFound("Failed to fetch book details")
		}
		s.logger.Error("catalog fetch failed", "volume_id", input.ID, "error", err)
		return nil, apperrors.Internal("Failed to fetch book details")
	}

	return &GetBookOutput{Body: BookResponse{Book: book}}, nil
}
