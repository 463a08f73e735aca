// Package ai provides factory functions for creating AI service adapters.
package ai

import (
	"cmp"
	"errors"
	"fmt"

	ollamaembed "github.com/custodia-labs/docqa/internal/adapters/driven/embedding/ollama"
	openaiembed "github.com/custodia-labs/docqa/internal/adapters/driven/embedding/openai"
	"github.com/custodia-labs/docqa/internal/adapters/driven/embedding/ratelimit"
	anthropicllm "github.com/custodia-labs/docqa/internal/adapters/driven/llm/anthropic"
	ollamallm "github.com/custodia-labs/docqa/internal/adapters/driven/llm/ollama"
	openaillm "github.com/custodia-labs/docqa/internal/adapters/driven/llm/openai"
	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
)

// fixHint is appended to configuration errors.
const fixHint = "Run 'docqa settings' to fix"

// InitResult contains the AI services a QA session needs.
type InitResult struct {
	EmbeddingService driven.EmbeddingService
	LLMService       driven.LLMService
}

// Close releases all resources held by InitResult.
func (r *InitResult) Close() {
	if r.EmbeddingService != nil {
		_ = r.EmbeddingService.Close()
	}
	if r.LLMService != nil {
		_ = r.LLMService.Close()
	}
}

// Init creates the embedding and LLM services described by settings.
// Connectivity is not checked; the first request surfaces provider errors.
func Init(settings *domain.AppSettings) (*InitResult, error) {
	if settings == nil {
		return nil, fmt.Errorf("%w: no settings", domain.ErrEmbeddingUnavailable)
	}

	embedder, err := CreateEmbeddingService(&settings.Embedding)
	if err != nil {
		return nil, err
	}

	llm, err := CreateLLMService(&settings.LLM)
	if err != nil {
		_ = embedder.Close()
		return nil, err
	}

	return &InitResult{EmbeddingService: embedder, LLMService: llm}, nil
}

// CreateEmbeddingService creates the embedding service selected by settings,
// throttled when settings.RequestsPerSecond is positive.
// Returns domain.ErrEmbeddingUnavailable if the provider is not configured.
func CreateEmbeddingService(settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	if settings == nil {
		return nil, fmt.Errorf("%w: no embedding settings", domain.ErrEmbeddingUnavailable)
	}
	if !settings.IsConfigured() {
		return nil, fmt.Errorf("%w: %s. %s",
			domain.ErrEmbeddingUnavailable, notConfiguredReason(settings.Provider, settings.APIKey), fixHint)
	}

	var (
		svc driven.EmbeddingService
		err error
	)
	switch settings.Provider {
	case domain.AIProviderOllama:
		svc = createOllamaEmbedding(settings)
	case domain.AIProviderOpenAI, domain.AIProviderGemini:
		svc, err = createOpenAIEmbedding(settings)
	default:
		err = fmt.Errorf("unsupported embedding provider: %s", settings.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrEmbeddingUnavailable, err)
	}

	return ratelimit.Wrap(svc, settings.RequestsPerSecond, 0), nil
}

// CreateLLMService creates the LLM service selected by settings.
// Returns domain.ErrLLMUnavailable if the provider is not configured.
func CreateLLMService(settings *domain.LLMSettings) (driven.LLMService, error) {
	if settings == nil {
		return nil, fmt.Errorf("%w: no llm settings", domain.ErrLLMUnavailable)
	}
	if !settings.IsConfigured() {
		return nil, fmt.Errorf("%w: %s. %s",
			domain.ErrLLMUnavailable, notConfiguredReason(settings.Provider, settings.APIKey), fixHint)
	}

	var (
		svc driven.LLMService
		err error
	)
	switch settings.Provider {
	case domain.AIProviderOllama:
		svc = createOllamaLLM(settings)
	case domain.AIProviderOpenAI, domain.AIProviderGemini:
		svc, err = createOpenAILLM(settings)
	case domain.AIProviderAnthropic:
		svc, err = createAnthropicLLM(settings)
	default:
		err = fmt.Errorf("unsupported LLM provider: %s", settings.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrLLMUnavailable, err)
	}
	return svc, nil
}

func notConfiguredReason(provider domain.AIProvider, apiKey string) string {
	switch {
	case provider == "":
		return "no provider set"
	case !provider.IsValid():
		return fmt.Sprintf("unknown provider %q", provider)
	case provider.RequiresAPIKey() && apiKey == "":
		return fmt.Sprintf("%s requires an API key (set %s)", provider, provider.DefaultAPIKeyEnv())
	default:
		return fmt.Sprintf("%s cannot serve this role", provider)
	}
}

// IsUnavailable reports whether err means an AI provider is not usable.
func IsUnavailable(err error) bool {
	return errors.Is(err, domain.ErrEmbeddingUnavailable) || errors.Is(err, domain.ErrLLMUnavailable)
}

// createOllamaEmbedding creates an Ollama embedding service.
func createOllamaEmbedding(settings *domain.EmbeddingSettings) driven.EmbeddingService {
	dimensions := settings.Dimensions
	if dimensions == 0 {
		dimensions = domain.EmbeddingDimensions()[settings.Model]
	}

	return ollamaembed.NewEmbeddingService(ollamaembed.Config{
		BaseURL:    settings.BaseURL,
		Model:      settings.Model,
		Dimensions: dimensions,
	})
}

// createOpenAIEmbedding creates an embedding service for any provider
// speaking the OpenAI API. Dimensions is only forwarded when set
// explicitly, since it asks the API to shorten vectors.
func createOpenAIEmbedding(settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	return openaiembed.NewEmbeddingService(openaiembed.Config{
		APIKey:     settings.APIKey,
		BaseURL:    cmp.Or(settings.BaseURL, settings.Provider.DefaultBaseURL()),
		Model:      settings.Model,
		Dimensions: settings.Dimensions,
	})
}

// createOllamaLLM creates an Ollama LLM service.
func createOllamaLLM(settings *domain.LLMSettings) driven.LLMService {
	return ollamallm.NewLLMService(ollamallm.LLMConfig{
		BaseURL: settings.BaseURL,
		Model:   settings.Model,
	})
}

// createOpenAILLM creates an LLM service for any provider speaking the
// OpenAI API.
func createOpenAILLM(settings *domain.LLMSettings) (driven.LLMService, error) {
	return openaillm.NewLLMService(openaillm.LLMConfig{
		APIKey:  settings.APIKey,
		BaseURL: cmp.Or(settings.BaseURL, settings.Provider.DefaultBaseURL()),
		Model:   settings.Model,
	})
}

// createAnthropicLLM creates an Anthropic LLM service.
func createAnthropicLLM(settings *domain.LLMSettings) (driven.LLMService, error) {
	return anthropicllm.NewLLMService(anthropicllm.Config{
		APIKey:  settings.APIKey,
		BaseURL: settings.BaseURL,
		Model:   settings.Model,
	})
}
