package llm

import (
	"fmt"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/who0xac/hackfusion/pkg/config"
)

// DefaultOllamaURL is where a local Ollama server listens by default
const DefaultOllamaURL = "http://localhost:11434"

// New builds the reasoning-service client for the configured provider.
// The openai provider needs an API key; without one config.ErrMissingCredential
// is returned and the caller runs with the AI path disabled.
func New(cfg config.AIConfig) (llms.Model, error) {
	switch cfg.Provider {
	case config.ProviderOpenAI, "":
		if cfg.APIKey == "" {
			return nil, config.ErrMissingCredential
		}
		opts := []openai.Option{
			openai.WithToken(cfg.APIKey),
			openai.WithModel(cfg.Model),
		}
		if cfg.BaseURL != "" {
			opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
		}
		llm, err := openai.New(opts...)
		if err != nil {
			return nil, fmt.Errorf("failed to create openai client: %w", err)
		}
		return llm, nil

	case config.ProviderOllama:
		llm, err := ollama.New(
			ollama.WithModel(cfg.Model),
			ollama.WithServerURL(ServerURL(cfg)),
			ollama.WithFormat("json"),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create ollama client: %w", err)
		}
		return llm, nil

	default:
		return nil, fmt.Errorf("provider %s is not supported", cfg.Provider)
	}
}

// ServerURL returns the base URL for the configured provider
func ServerURL(cfg config.AIConfig) string {
	if cfg.BaseURL != "" {
		return cfg.BaseURL
	}
	if cfg.Provider == config.ProviderOllama {
		return DefaultOllamaURL
	}
	return "https://api.openai.com/v1"
}
