package driven

import "context"

// LLMService generates the answer text from a filled-in prompt.
type LLMService interface {
	Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error)

	// ModelName identifies the model in logs and the index summary.
	ModelName() string

	// Ping checks the provider is reachable.
	Ping(ctx context.Context) error

	Close() error
}

// GenerateOptions tunes a single Generate call. The synthesizer always
// asks for Temperature 0 so the same context yields the same answer.
type GenerateOptions struct {
	// System is sent ahead of the prompt when non-empty.
	System string

	// MaxTokens caps the answer length; 0 leaves it to the provider.
	MaxTokens int

	Temperature float64
}
