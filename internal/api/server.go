// Package api provides the HTTP API server and handlers for the Darcy
// reading companion backend.
package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/darcyapp/darcy-server/internal/config"
	"github.com/darcyapp/darcy-server/internal/domain"
	"github.com/darcyapp/darcy-server/internal/id"
	"github.com/darcyapp/darcy-server/internal/service"
	"github.com/darcyapp/darcy-server/internal/validation"
)

// Catalog is the external book catalog the API proxies.
// Satisfied by the Google Books client.
type Catalog interface {
	Search(ctx context.Context, query string) ([]domain.Book, error)
	GetVolume(ctx context.Context, volumeID string) (*domain.Book, error)
}

// Services bundles the application services the handlers call.
type Services struct {
	Chat      *service.ChatService
	Library   *service.LibraryService
	Companion *service.CompanionService
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	services   *Services
	catalog    Catalog
	validator  *validation.Validator
	router     *chi.Mux
	api        huma.API
	logger     *slog.Logger
	instanceID string
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(cfg *config.Config, services *Services, catalog Catalog, logger *slog.Logger) *Server {
	s := &Server{
		services:   services,
		catalog:    catalog,
		validator:  validation.New(),
		router:     chi.NewRouter(),
		logger:     logger,
		instanceID: id.MustGenerate(id.PrefixInstance),
	}

	s.setupMiddleware(cfg)

	humaConfig := huma.DefaultConfig("Darcy API", "1.0.0")
	s.api = humachi.New(s.router, humaConfig)
	RegisterErrorHandler()

	s.registerHealthRoutes()
	s.registerChatRoutes()
	s.registerBookRoutes()
	s.registerLibraryRoutes()
	s.registerConversationRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// setupMiddleware configures the middleware stack.
func (s *Server) setupMiddleware(cfg *config.Config) {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))

	// The browser client sends credentialed requests from its dev origins
	// and the deployed frontend.
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins(),
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
}
