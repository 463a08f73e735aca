package driven

import "github.com/custodia-labs/docqa/internal/core/domain"

// AIConfigValidator checks provider settings against the live provider.
// Failures wrap domain.ErrEmbeddingUnavailable or domain.ErrLLMUnavailable;
// an embedding model that answers with vectors of an unexpected size
// fails with domain.ErrDimensionMismatch.
type AIConfigValidator interface {
	ValidateEmbedding(settings *domain.EmbeddingSettings) error
	ValidateLLM(settings *domain.LLMSettings) error
}
