package driving

import "github.com/custodia-labs/docqa/internal/core/domain"

// SettingsService reads and changes the persisted configuration.
// Setters save immediately.
type SettingsService interface {
	// Get returns the settings with defaults applied and API keys
	// resolved from the environment when the config holds none.
	Get() (*domain.AppSettings, error)
	Save(settings *domain.AppSettings) error
	GetDefaults() domain.AppSettings

	SetEmbeddingProvider(provider domain.AIProvider, model, apiKey string) error
	SetLLMProvider(provider domain.AIProvider, model, apiKey string) error
	SetChunking(size, overlap int) error

	// Validate checks the settings offline.
	Validate() error

	// ValidateEmbeddingConfig and ValidateLLMConfig contact the
	// configured providers.
	ValidateEmbeddingConfig() error
	ValidateLLMConfig() error
}
