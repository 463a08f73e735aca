package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	vectormemory "github.com/custodia-labs/docqa/internal/adapters/driven/vector/memory"
	"github.com/custodia-labs/docqa/internal/core/domain"
)

func fruitIndex(t *testing.T) *vectormemory.Index {
	t.Helper()
	texts := []string{"Apples are red.", "Bananas are yellow.", "Cherries are dark."}
	chunks := make([]domain.Chunk, len(texts))
	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		chunks[i] = domain.Chunk{ID: text, Content: text, Position: i}
		vectors[i] = keywordVector(text)
	}
	idx := vectormemory.New()
	require.NoError(t, idx.InsertMany(context.Background(), chunks, vectors))
	return idx
}

func TestRetriever_Retrieve(t *testing.T) {
	embedder := newKeywordEmbedder()
	r := NewRetriever(embedder, fruitIndex(t), 2)

	got, err := r.Retrieve(context.Background(), "What color are bananas?")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Bananas are yellow.", got[0].Chunk.Content)
	assert.GreaterOrEqual(t, got[0].Score, got[1].Score)
}

func TestRetriever_ReembedsEveryQuestion(t *testing.T) {
	embedder := newKeywordEmbedder()
	r := NewRetriever(embedder, fruitIndex(t), 1)

	for range 3 {
		_, err := r.Retrieve(context.Background(), "red apples")
		require.NoError(t, err)
	}
	embeds, _ := embedder.calls()
	assert.Equal(t, 3, embeds)
}

func TestRetriever_DefaultTopK(t *testing.T) {
	r := NewRetriever(newKeywordEmbedder(), vectormemory.New(), 0)
	assert.Equal(t, domain.DefaultTopK, r.TopK())

	got, err := r.Retrieve(context.Background(), "anything")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestRetriever_EmbedError(t *testing.T) {
	embedder := newKeywordEmbedder()
	embedder.err = errors.New("provider down")
	r := NewRetriever(embedder, fruitIndex(t), 2)

	_, err := r.Retrieve(context.Background(), "bananas")
	require.Error(t, err)
	assert.ErrorIs(t, err, embedder.err)
}
