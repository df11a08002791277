package providers

import (
	"github.com/samber/do/v2"

	"github.com/darcyapp/darcy-server/internal/catalog/googlebooks"
	"github.com/darcyapp/darcy-server/internal/completion/openai"
	"github.com/darcyapp/darcy-server/internal/config"
	"github.com/darcyapp/darcy-server/internal/logger"
)

// ProvideCatalogClient provides the Google Books volumes client.
func ProvideCatalogClient(i do.Injector) (*googlebooks.Client, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	client := googlebooks.New(log.Logger, cfg.Catalog.APIKey)
	log.Info("Google Books client initialized", "authenticated", cfg.Catalog.APIKey != "")

	return client, nil
}

// ProvideCompletionClient provides the OpenAI chat completions client.
func ProvideCompletionClient(i do.Injector) (*openai.Client, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	if cfg.OpenAI.APIKey == "" {
		log.Warn("OPENAI_API_KEY is not set, chat will answer with an error message")
	}

	client := openai.New(log.Logger, cfg.OpenAI.APIKey, cfg.OpenAI.Model)
	log.Info("OpenAI client initialized", "model", cfg.OpenAI.Model)

	return client, nil
}
