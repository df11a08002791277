package googlebooks

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/darcyapp/darcy-server/internal/domain"
	apperrors "github.com/darcyapp/darcy-server/internal/errors"
)

func testClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c := New(slog.New(slog.NewTextHandler(io.Discard, nil)), "test-key")
	c.baseURL = srv.URL
	return c
}

func TestSearch(t *testing.T) {
	var gotQuery, gotMax, gotKey string
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		gotMax = r.URL.Query().Get("maxResults")
		gotKey = r.URL.Query().Get("key")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"items": [
				{
					"id": "v1",
					"volumeInfo": {
						"title": "Persuasion",
						"authors": ["Jane Austen"],
						"description": "Second chances.",
						"publishedDate": "1817",
						"pageCount": 249,
						"categories": ["Fiction"],
						"industryIdentifiers": [{"type": "ISBN_13", "identifier": "9780141439686"}],
						"imageLinks": {"thumbnail": "http://img/thumb.jpg", "smallThumbnail": "http://img/small.jpg"}
					}
				},
				{
					"id": "v2",
					"volumeInfo": {
						"imageLinks": {"smallThumbnail": "http://img/small2.jpg"}
					}
				},
				{
					"id": "v3",
					"volumeInfo": {"title": "No Cover"}
				}
			]
		}`))
	}))

	books, err := c.Search(context.Background(), "austen")
	require.NoError(t, err)
	require.Len(t, books, 3)

	assert.Equal(t, "austen", gotQuery)
	assert.Equal(t, "10", gotMax)
	assert.Equal(t, "test-key", gotKey)

	full := books[0]
	assert.Equal(t, "v1", full.ID)
	assert.Equal(t, "Persuasion", full.Title)
	assert.Equal(t, "Jane Austen", full.Author)
	require.NotNil(t, full.CoverURL)
	assert.Equal(t, "http://img/thumb.jpg", *full.CoverURL)
	assert.Equal(t, "9780141439686", full.ISBN)
	assert.Equal(t, 249, full.PageCount)

	// Missing metadata falls back to placeholders and the small thumbnail.
	sparse := books[1]
	assert.Equal(t, domain.UnknownTitle, sparse.Title)
	assert.Equal(t, domain.UnknownAuthor, sparse.Author)
	require.NotNil(t, sparse.CoverURL)
	assert.Equal(t, "http://img/small2.jpg", *sparse.CoverURL)
	assert.NotNil(t, sparse.Categories, "categories serialize as [] rather than null")

	// No image links at all yields a null cover.
	assert.Nil(t, books[2].CoverURL)
}

func TestSearch_EmptyQuery(t *testing.T) {
	called := false
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	_, err := c.Search(context.Background(), "   ")
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrValidation))
	assert.False(t, called, "empty query must not reach the network")
}

func TestSearch_EmptyResults(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"totalItems": 0}`))
	}))

	books, err := c.Search(context.Background(), "zncx qqqq")
	require.NoError(t, err)
	assert.Empty(t, books)
}

func TestGetVolume(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/volumes/v1", r.URL.Path)
		_, _ = w.Write([]byte(`{
			"id": "v1",
			"volumeInfo": {
				"title": "Persuasion",
				"authors": ["Jane Austen"],
				"publisher": "Penguin",
				"imageLinks": {
					"smallThumbnail": "http://img/small.jpg",
					"thumbnail": "http://img/thumb.jpg",
					"medium": "http://img/medium.jpg",
					"large": "http://img/large.jpg"
				}
			}
		}`))
	}))

	book, err := c.GetVolume(context.Background(), "v1")
	require.NoError(t, err)

	assert.Equal(t, "Persuasion", book.Title)
	assert.Equal(t, "Penguin", book.Publisher)
	// Language defaults when the catalog omits it.
	assert.Equal(t, "en", book.Language)
	// Detail view prefers the largest cover.
	require.NotNil(t, book.CoverURL)
	assert.Equal(t, "http://img/large.jpg", *book.CoverURL)
}

func TestGetVolume_NotFound(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	_, err := c.GetVolume(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))
}

func TestDoRequest_StatusClassification(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		sentinel error
	}{
		{"rate limited", http.StatusTooManyRequests, apperrors.ErrUpstreamRateLimited},
		{"unauthorized", http.StatusUnauthorized, apperrors.ErrUpstreamUnauthorized},
		{"forbidden", http.StatusForbidden, apperrors.ErrUpstreamUnauthorized},
		{"server error", http.StatusBadGateway, apperrors.ErrUpstream},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))

			_, err := c.Search(context.Background(), "query")
			require.Error(t, err)
			assert.True(t, apperrors.Is(err, tt.sentinel))
		})
	}
}
