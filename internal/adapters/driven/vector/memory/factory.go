package memory

import (
	"context"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
)

// Ensure Factory implements the interface.
var _ driven.VectorIndexFactory = Factory{}

// Factory creates in-memory indices.
type Factory struct{}

// New returns an empty in-memory index.
func (Factory) New() driven.VectorIndex {
	return New()
}

// FromChunks rebuilds an in-memory index from persisted chunks.
func (Factory) FromChunks(ctx context.Context, chunks []domain.Chunk) (driven.VectorIndex, error) {
	idx, err := FromChunks(ctx, chunks)
	if err != nil {
		return nil, err
	}
	return idx, nil
}
