package api

import (
	"context"
	"encoding/json/v2"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/require"

	"github.com/darcyapp/darcy-server/internal/completion/openai"
	"github.com/darcyapp/darcy-server/internal/config"
	"github.com/darcyapp/darcy-server/internal/domain"
	apperrors "github.com/darcyapp/darcy-server/internal/errors"
	"github.com/darcyapp/darcy-server/internal/search"
	"github.com/darcyapp/darcy-server/internal/service"
	"github.com/darcyapp/darcy-server/internal/store"
)

// fakeCompleter replays a canned completion result.
type fakeCompleter struct {
	result *openai.Result
	err    error
}

func (f *fakeCompleter) Complete(context.Context, []domain.Message, string) (*openai.Result, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

// fakeCatalog replays canned catalog responses.
type fakeCatalog struct {
	books []domain.Book
	book  *domain.Book
	err   error
}

func (f *fakeCatalog) Search(_ context.Context, query string) ([]domain.Book, error) {
	if query == "" {
		return nil, apperrors.Validation("Search query is required")
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.books, nil
}

func (f *fakeCatalog) GetVolume(context.Context, string) (*domain.Book, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.book, nil
}

// testServer bundles the server with its humatest API.
type testServer struct {
	*Server
	api     humatest.TestAPI
	library *service.LibraryService
	store   *store.Store
}

func setupTestServer(t *testing.T, completer service.Completer, catalog Catalog) *testServer {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	st, err := store.New(t.TempDir(), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	idx, err := search.NewSearchIndex(search.Options{DataPath: t.TempDir(), Logger: logger})
	require.NoError(t, err)
	t.Cleanup(func() { _ = idx.Close() })

	library, err := service.NewLibraryService(st, idx, logger)
	require.NoError(t, err)

	chat := service.NewChatService(completer, logger)
	companion := service.NewCompanionService(st, chat, library, catalog, logger)

	cfg := &config.Config{}
	srv := NewServer(cfg, &Services{
		Chat:      chat,
		Library:   library,
		Companion: companion,
	}, catalog, logger)

	return &testServer{
		Server:  srv,
		api:     humatest.Wrap(t, srv.api),
		library: library,
		store:   st,
	}
}

// decodeBody unmarshals a recorded response body into dest.
func decodeBody(t *testing.T, resp *httptest.ResponseRecorder, dest any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), dest))
}

// errorMessage extracts the `error` field from an error response body.
func errorMessage(t *testing.T, resp *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error string `json:"error"`
	}
	decodeBody(t, resp, &body)
	return body.Error
}
