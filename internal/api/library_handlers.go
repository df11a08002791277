package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/darcyapp/darcy-server/internal/domain"
	apperrors "github.com/darcyapp/darcy-server/internal/errors"
	"github.com/darcyapp/darcy-server/internal/search"
)

func (s *Server) registerLibraryRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getLibrary",
		Method:      http.MethodGet,
		Path:        "/api/library",
		Summary:     "Get the library",
		Description: "Returns all shelved books and the favorite IDs, optionally narrowed to one shelf",
		Tags:        []string{"Library"},
	}, s.handleGetLibrary)

	huma.Register(s.api, huma.Operation{
		OperationID: "shelveBook",
		Method:      http.MethodPost,
		Path:        "/api/library/books",
		Summary:     "Add a book to a shelf",
		Description: "Adds a catalog book to the library. Re-adding an existing book moves it to the given shelf.",
		Tags:        []string{"Library"},
	}, s.handleShelveBook)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateLibraryBook",
		Method:      http.MethodPatch,
		Path:        "/api/library/books/{id}",
		Summary:     "Update a shelved book",
		Description: "Changes the shelf and/or the user notes of a shelved book",
		Tags:        []string{"Library"},
	}, s.handleUpdateLibraryBook)

	huma.Register(s.api, huma.Operation{
		OperationID:   "removeLibraryBook",
		Method:        http.MethodDelete,
		Path:          "/api/library/books/{id}",
		Summary:       "Remove a book from the library",
		Description:   "Removes the book, its favorite mark, and its conversation. Requires confirm=true.",
		Tags:          []string{"Library"},
		DefaultStatus: http.StatusNoContent,
	}, s.handleRemoveLibraryBook)

	huma.Register(s.api, huma.Operation{
		OperationID: "toggleFavorite",
		Method:      http.MethodPost,
		Path:        "/api/library/books/{id}/favorite",
		Summary:     "Toggle a favorite",
		Description: "Flips the favorite state of a book, capped at five favorites",
		Tags:        []string{"Library"},
	}, s.handleToggleFavorite)

	huma.Register(s.api, huma.Operation{
		OperationID: "searchLibrary",
		Method:      http.MethodGet,
		Path:        "/api/library/search",
		Summary:     "Search the library",
		Description: "Full-text search over shelved books by title, author, notes, and categories",
		Tags:        []string{"Library"},
	}, s.handleSearchLibrary)
}

// === DTOs ===

// GetLibraryInput optionally narrows the library to one shelf.
type GetLibraryInput struct {
	Shelf string `query:"shelf" doc:"Optional shelf filter"`
}

// LibraryResponse is the whole library aggregate.
type LibraryResponse struct {
	Books     []domain.Book `json:"books" doc:"All shelved books"`
	Favorites []string      `json:"favorites" doc:"Favorite book IDs, at most five"`
}

// LibraryOutput wraps the library for Huma.
type LibraryOutput struct {
	Body LibraryResponse
}

// BookPayload is the catalog book a client submits when shelving. Every
// metadata field is optional on the wire; sparse legacy payloads must not
// be rejected at the schema level.
type BookPayload struct {
	ID            string   `json:"id,omitempty" doc:"Catalog volume ID"`
	Title         string   `json:"title,omitempty" doc:"Book title"`
	Author        string   `json:"author,omitempty" doc:"Primary author"`
	Description   string   `json:"description,omitempty" doc:"Catalog description"`
	CoverURL      *string  `json:"coverUrl,omitempty" doc:"Cover image URL, null when absent"`
	PublishedDate string   `json:"publishedDate,omitempty" doc:"Publication date"`
	Publisher     string   `json:"publisher,omitempty" doc:"Publisher"`
	Language      string   `json:"language,omitempty" doc:"Language code"`
	ISBN          string   `json:"isbn,omitempty" doc:"ISBN identifier"`
	PageCount     int      `json:"pageCount,omitempty" doc:"Page count"`
	Categories    []string `json:"categories,omitempty" doc:"Subject categories"`
	UserNotes     string   `json:"userNotes,omitempty" doc:"User notes"`
}

// toDomain maps the payload onto a domain book, filling the catalog
// placeholders for missing title and author.
func (p BookPayload) toDomain() domain.Book {
	book := domain.Book{
		ID:            p.ID,
		Title:         p.Title,
		Author:        p.Author,
		Description:   p.Description,
		CoverURL:      p.CoverURL,
		PublishedDate: p.PublishedDate,
		Publisher:     p.Publisher,
		Language:      p.Language,
		ISBN:          p.ISBN,
		PageCount:     p.PageCount,
		Categories:    p.Categories,
		UserNotes:     p.UserNotes,
	}
	if book.Title == "" {
		book.Title = domain.UnknownTitle
	}
	book.Author = book.DisplayAuthor()
	if book.Categories == nil {
		book.Categories = []string{}
	}
	return book
}

// ShelveBookRequest adds a catalog book to a shelf.
type ShelveBookRequest struct {
	Book  BookPayload  `json:"book,omitempty" doc:"The catalog book to shelve"`
	Shelf domain.Shelf `json:"shelf,omitempty" validate:"omitempty,shelf" doc:"Target shelf (default currentlyReading)"`
}

// ShelveBookInput wraps the request body for Huma.
type ShelveBookInput struct {
	Body ShelveBookRequest
}

// LibraryBookResponse contains one shelved book.
type LibraryBookResponse struct {
	Book *domain.Book `json:"book" doc:"The shelved book"`
}

// LibraryBookOutput wraps a shelved book for Huma.
type LibraryBookOutput struct {
	Body LibraryBookResponse
}

// UpdateLibraryBookRequest carries partial updates; nil fields are untouched.
type UpdateLibraryBookRequest struct {
	Shelf     *domain.Shelf `json:"shelf,omitempty" doc:"New shelf"`
	UserNotes *string       `json:"userNotes,omitempty" doc:"New user notes"`
}

// UpdateLibraryBookInput wraps the update for Huma.
type UpdateLibraryBookInput struct {
	ID   string `path:"id" doc:"Book ID"`
	Body UpdateLibraryBookRequest
}

// RemoveLibraryBookInput identifies the book to remove.
type RemoveLibraryBookInput struct {
	ID      string `path:"id" doc:"Book ID"`
	Confirm bool   `query:"confirm" doc:"Must be true; removal also drops the book's conversation"`
}

// ToggleFavoriteInput identifies the book to toggle.
type ToggleFavoriteInput struct {
	ID string `path:"id" doc:"Book ID"`
}

// ToggleFavoriteResponse reports the new favorite state.
type ToggleFavoriteResponse struct {
	Favorite  bool     `json:"favorite" doc:"Whether the book is now a favorite"`
	Favorites []string `json:"favorites" doc:"All favorite book IDs"`
}

// ToggleFavoriteOutput wraps the favorite state for Huma.
type ToggleFavoriteOutput struct {
	Body ToggleFavoriteResponse
}

// SearchLibraryInput contains the library search parameters.
type SearchLibraryInput struct {
	Query string `query:"q" doc:"Search query"`
	Shelf string `query:"shelf" doc:"Optional shelf filter"`
	Limit int    `query:"limit" doc:"Max results (default 20)"`
}

// SearchLibraryOutput wraps library search results for Huma.
type SearchLibraryOutput struct {
	Body search.SearchResult
}

// === Handlers ===

func (s *Server) handleGetLibrary(_ context.Context, input *GetLibraryInput) (*LibraryOutput, error) {
	lib := s.services.Library.Snapshot()
	if input.Shelf != "" {
		shelf := domain.Shelf(input.Shelf)
		if !shelf.Valid() {
			return nil, apperrors.Validationf("unknown shelf %q", input.Shelf)
		}
		lib.Books = lib.OnShelf(shelf)
	}
	if lib.Books == nil {
		lib.Books = []domain.Book{}
	}
	if lib.Favorites == nil {
		lib.Favorites = []string{}
	}
	return &LibraryOutput{Body: LibraryResponse{
		Books:     lib.Books,
		Favorites: lib.Favorites,
	}}, nil
}

func (s *Server) handleShelveBook(_ context.Context, input *ShelveBookInput) (*LibraryBookOutput, error) {
	if err := s.validator.Validate(&input.Body); err != nil {
		return nil, err
	}

	shelf := input.Body.Shelf
	if shelf == "" {
		shelf = domain.ShelfCurrentlyReading
	}

	book, err := s.services.Library.AddBook(input.Body.Book.toDomain(), shelf)
	if err != nil {
		return nil, err
	}
	return &LibraryBookOutput{Body: LibraryBookResponse{Book: book}}, nil
}

func (s *Server) handleUpdateLibraryBook(_ context.Context, input *UpdateLibraryBookInput) (*LibraryBookOutput, error) {
	book, err := s.services.Library.Update(input.ID, input.Body.Shelf, input.Body.UserNotes)
	if err != nil {
		return nil, err
	}
	return &LibraryBookOutput{Body: LibraryBookResponse{Book: book}}, nil
}

func (s *Server) handleRemoveLibraryBook(_ context.Context, input *RemoveLibraryBookInput) (*struct{}, error) {
	if !input.Confirm {
		return nil, apperrors.Validation("removal must be confirmed with confirm=true")
	}
	if err := s.services.Library.RemoveBook(input.ID); err != nil {
		return nil, err
	}
	return &struct{}{}, nil
}

func (s *Server) handleToggleFavorite(_ context.Context, input *ToggleFavoriteInput) (*ToggleFavoriteOutput, error) {
	favorite, err := s.services.Library.ToggleFavorite(input.ID)
	if err != nil {
		return nil, err
	}

	favorites := s.services.Library.Snapshot().Favorites
	if favorites == nil {
		favorites = []string{}
	}
	return &ToggleFavoriteOutput{Body: ToggleFavoriteResponse{
		Favorite:  favorite,
		Favorites: favorites,
	}}, nil
}

func (s *Server) handleSearchLibrary(ctx context.Context, input *SearchLibraryInput) (*SearchLibraryOutput, error) {
	if input.Query == "" {
		return nil, apperrors.Validation("Search query is required")
	}
	if input.Shelf != "" && !domain.Shelf(input.Shelf).Valid() {
		return nil, apperrors.Validationf("unknown shelf %q", input.Shelf)
	}

	params := search.SearchParams{
		Query: input.Query,
		Shelf: domain.Shelf(input.Shelf),
		Limit: input.Limit,
	}
	result, err := s.services.Library.Search(ctx, params)
	if err != nil {
		s.logger.Error("library search failed", "query", input.Query, "error", err)
		return nil, apperrors.Internal("Failed to search books")
	}
	return &SearchLibraryOutput{Body: *result}, nil
}
