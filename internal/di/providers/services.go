package providers

import (
	"github.com/samber/do/v2"

	"github.com/darcyapp/darcy-server/internal/catalog/googlebooks"
	"github.com/darcyapp/darcy-server/internal/completion/openai"
	"github.com/darcyapp/darcy-server/internal/logger"
	"github.com/darcyapp/darcy-server/internal/service"
)

// ProvideLibraryService provides the library service, loading the persisted
// library and reconciling the search index with it.
func ProvideLibraryService(i do.Injector) (*service.LibraryService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	indexHandle := do.MustInvoke[*SearchIndexHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	svc, err := service.NewLibraryService(storeHandle.Store, indexHandle.SearchIndex, log.Logger)
	if err != nil {
		return nil, err
	}

	log.Info("Library service initialized")
	return svc, nil
}

// ProvideChatService provides the chat relay service.
func ProvideChatService(i do.Injector) (*service.ChatService, error) {
	completionClient := do.MustInvoke[*openai.Client](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewChatService(completionClient, log.Logger), nil
}

// ProvideCompanionService provides the conversation service.
func ProvideCompanionService(i do.Injector) (*service.CompanionService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	chatService := do.MustInvoke[*service.ChatService](i)
	libraryService := do.MustInvoke[*service.LibraryService](i)
	catalogClient := do.MustInvoke[*googlebooks.Client](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewCompanionService(storeHandle.Store, chatService, libraryService, catalogClient, log.Logger), nil
}
