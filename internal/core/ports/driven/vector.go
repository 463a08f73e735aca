package driven

import (
	"context"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

// VectorIndex stores chunk vectors alongside their chunks and answers
// nearest-neighbour queries over them.
type VectorIndex interface {
	// InsertMany appends chunk/vector pairs. chunks[i] is embedded by vectors[i].
	// Returns domain.ErrDimensionMismatch if any vector's length differs
	// from the dimensionality already established; nothing is inserted then.
	InsertMany(ctx context.Context, chunks []domain.Chunk, vectors [][]float32) error

	// Search returns at most k hits ordered by descending similarity.
	// An empty index yields an empty slice and no error.
	Search(ctx context.Context, query []float32, k int) ([]VectorHit, error)

	// Len returns the number of stored chunks.
	Len() int

	// Dimensions returns the established vector size, 0 while empty.
	Dimensions() int

	// Chunks returns the stored chunks, each carrying its embedding,
	// in insertion order. Used to persist the index.
	Chunks() []domain.Chunk
}

// VectorHit represents a similarity search result.
type VectorHit struct {
	// Chunk is the matched chunk.
	Chunk domain.Chunk

	// Similarity is the cosine similarity score (-1..1).
	Similarity float64
}

// VectorIndexFactory creates vector indices for the index builder.
type VectorIndexFactory interface {
	// New returns an empty index.
	New() VectorIndex

	// FromChunks rebuilds an index from persisted chunks carrying embeddings.
	// Returns domain.ErrCorruptIndex if the chunks are inconsistent.
	FromChunks(ctx context.Context, chunks []domain.Chunk) (VectorIndex, error)
}
