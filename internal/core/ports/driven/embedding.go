package driven

import "context"

// EmbeddingService maps text to fixed-length vectors. The index builder
// embeds chunks with it and the retriever embeds every question with the
// same instance, so both sides of a similarity comparison share a model.
type EmbeddingService interface {
	// Embed returns the vector for one text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch returns one vector per text, in input order.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions is the expected vector length, or 0 when the adapter
	// cannot know it before the first response.
	Dimensions() int

	// ModelName is recorded on stored indices; a snapshot built by a
	// different model is rebuilt rather than loaded.
	ModelName() string

	// Ping checks the provider is reachable without embedding anything.
	Ping(ctx context.Context) error

	Close() error
}
