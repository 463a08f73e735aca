package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
	"github.com/custodia-labs/docqa/internal/logger"
)

// Retriever finds the chunks of one index most similar to a question.
// Every call embeds the question afresh; nothing is cached between calls.
type Retriever struct {
	embedder driven.EmbeddingService
	index    driven.VectorIndex
	topK     int
}

// NewRetriever creates a retriever over index.
// A non-positive topK uses domain.DefaultTopK.
func NewRetriever(embedder driven.EmbeddingService, index driven.VectorIndex, topK int) *Retriever {
	if topK <= 0 {
		topK = domain.DefaultTopK
	}
	return &Retriever{
		embedder: embedder,
		index:    index,
		topK:     topK,
	}
}

// TopK returns the number of chunks requested per question.
func (r *Retriever) TopK() int {
	return r.topK
}

// Retrieve returns up to TopK chunks ordered by descending similarity.
func (r *Retriever) Retrieve(ctx context.Context, question string) ([]domain.ScoredChunk, error) {
	logger.Section("Retrieval")
	logger.Debug("Question: %q, k=%d", question, r.topK)

	vector, err := r.embedder.Embed(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("embed question: %w", err)
	}

	hits, err := r.index.Search(ctx, vector, r.topK)
	if err != nil {
		return nil, fmt.Errorf("search index: %w", err)
	}

	results := make([]domain.ScoredChunk, len(hits))
	for i, h := range hits {
		results[i] = domain.ScoredChunk{Chunk: h.Chunk, Score: h.Similarity}
		logger.Debug("  #%d chunk %d (page %d) score=%.4f", i+1, h.Chunk.Position, h.Chunk.Page(), h.Similarity)
	}
	logger.Info("Retrieved %d chunks", len(results))

	return results, nil
}
