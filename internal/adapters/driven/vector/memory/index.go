// Package memory provides a brute-force in-memory vector index.
//
// Vectors are L2-normalised on insert so search is a dot product, which is
// the cosine similarity of the original vectors. One document produces at
// most a few thousand chunks, well within exact-search range.
package memory

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

// Index is an exact cosine-similarity index held in memory.
type Index struct {
	mu     sync.RWMutex
	dims   int
	chunks []domain.Chunk
	unit   [][]float32
}

// New creates an empty index. Dimensionality is fixed by the first insert.
func New() *Index {
	return &Index{}
}

// FromChunks rebuilds an index from persisted chunks, each carrying its embedding.
// Returns domain.ErrCorruptIndex if embeddings are missing or disagree in size.
func FromChunks(ctx context.Context, chunks []domain.Chunk) (*Index, error) {
	idx := New()
	vectors := make([][]float32, len(chunks))
	for i, c := range chunks {
		if len(c.Embedding) == 0 {
			return nil, fmt.Errorf("%w: chunk %d has no embedding", domain.ErrCorruptIndex, i)
		}
		vectors[i] = c.Embedding
	}
	if err := idx.InsertMany(ctx, chunks, vectors); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrCorruptIndex, err)
	}
	return idx, nil
}

// InsertMany appends chunk/vector pairs. The call is all-or-nothing.
func (x *Index) InsertMany(_ context.Context, chunks []domain.Chunk, vectors [][]float32) error {
	if len(chunks) != len(vectors) {
		return fmt.Errorf("%w: %d chunks but %d vectors", domain.ErrInvalidInput, len(chunks), len(vectors))
	}

	x.mu.Lock()
	defer x.mu.Unlock()

	dims := x.dims
	for i, v := range vectors {
		if len(v) == 0 {
			return fmt.Errorf("%w: vector %d is empty", domain.ErrDimensionMismatch, i)
		}
		if dims == 0 {
			dims = len(v)
		}
		if len(v) != dims {
			return fmt.Errorf("%w: vector %d has %d dimensions, index has %d",
				domain.ErrDimensionMismatch, i, len(v), dims)
		}
	}

	for i, c := range chunks {
		c.Embedding = append([]float32(nil), vectors[i]...)
		x.chunks = append(x.chunks, c)
		x.unit = append(x.unit, normalise(vectors[i]))
	}
	x.dims = dims
	return nil
}

// Search returns the k most similar chunks by cosine similarity.
// Equal scores keep insertion order.
func (x *Index) Search(ctx context.Context, query []float32, k int) ([]driven.VectorHit, error) {
	x.mu.RLock()
	defer x.mu.RUnlock()

	if len(x.chunks) == 0 || k <= 0 {
		return []driven.VectorHit{}, nil
	}
	if len(query) != x.dims {
		return nil, fmt.Errorf("%w: query has %d dimensions, index has %d",
			domain.ErrDimensionMismatch, len(query), x.dims)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	q := normalise(query)
	hits := make([]driven.VectorHit, len(x.chunks))
	for i, v := range x.unit {
		hits[i] = driven.VectorHit{Chunk: x.chunks[i], Similarity: dot(q, v)}
	}
	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Similarity > hits[j].Similarity
	})

	if k < len(hits) {
		hits = hits[:k]
	}
	return hits, nil
}

// Len returns the number of stored chunks.
func (x *Index) Len() int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return len(x.chunks)
}

// Dimensions returns the established vector size, 0 while empty.
func (x *Index) Dimensions() int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return x.dims
}

// Chunks returns the stored chunks in insertion order.
func (x *Index) Chunks() []domain.Chunk {
	x.mu.RLock()
	defer x.mu.RUnlock()
	out := make([]domain.Chunk, len(x.chunks))
	copy(out, x.chunks)
	return out
}

// normalise returns v scaled to unit length. The zero vector stays zero.
func normalise(v []float32) []float32 {
	var sum float64
	for _, f := range v {
		sum += float64(f) * float64(f)
	}
	out := make([]float32, len(v))
	if sum == 0 {
		return out
	}
	norm := math.Sqrt(sum)
	for i, f := range v {
		out[i] = float32(float64(f) / norm)
	}
	return out
}

func dot(a, b []float32) float64 {
	var sum float64
	for i := range a {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}
