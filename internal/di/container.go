// Package di provides dependency injection configuration for the Darcy server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/darcyapp/darcy-server/internal/catalog/googlebooks"
	"github.com/darcyapp/darcy-server/internal/completion/openai"
	"github.com/darcyapp/darcy-server/internal/config"
	"github.com/darcyapp/darcy-server/internal/di/providers"
	"github.com/darcyapp/darcy-server/internal/logger"
	"github.com/darcyapp/darcy-server/internal/service"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)

	// Storage layer
	do.Provide(injector, providers.ProvideStore)
	do.Provide(injector, providers.ProvideSearchIndex)

	// Upstream clients
	do.Provide(injector, providers.ProvideCatalogClient)
	do.Provide(injector, providers.ProvideCompletionClient)

	// Business services
	do.Provide(injector, providers.ProvideLibraryService)
	do.Provide(injector, providers.ProvideChatService)
	do.Provide(injector, providers.ProvideCompanionService)

	// Server
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap initializes all services and returns handles for lifecycle management.
// This triggers lazy initialization of all core services.
func Bootstrap(injector *do.RootScope) error {
	_ = do.MustInvoke[*config.Config](injector)
	_ = do.MustInvoke[*logger.Logger](injector)
	_ = do.MustInvoke[*providers.StoreHandle](injector)
	_ = do.MustInvoke[*providers.SearchIndexHandle](injector)
	_ = do.MustInvoke[*googlebooks.Client](injector)
	_ = do.MustInvoke[*openai.Client](injector)
	_ = do.MustInvoke[*service.LibraryService](injector)
	_ = do.MustInvoke[*service.ChatService](injector)
	_ = do.MustInvoke[*service.CompanionService](injector)
	_ = do.MustInvoke[*providers.HTTPServerHandle](injector)

	return nil
}
