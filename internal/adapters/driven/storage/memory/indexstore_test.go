package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

func testSnapshot(key string, created time.Time) *domain.IndexSnapshot {
	return &domain.IndexSnapshot{
		Info: domain.IndexInfo{
			Key:         key,
			DocumentURI: "/docs/" + key + ".txt",
			Model:       "test-embed",
			Dimensions:  2,
			ChunkCount:  1,
			CreatedAt:   created,
		},
		Chunks: []domain.Chunk{{
			ID:        key + "-0",
			Content:   "hello",
			Embedding: []float32{1, 0},
			Metadata:  map[string]any{domain.MetaPage: 1},
		}},
	}
}

func TestIndexStore_WriteReadDelete(t *testing.T) {
	store := NewIndexStore()
	ctx := context.Background()

	ok, err := store.Exists(ctx, "k1")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Write(ctx, testSnapshot("k1", time.Now())))

	ok, err = store.Exists(ctx, "k1")
	require.NoError(t, err)
	assert.True(t, ok)

	snap, err := store.Read(ctx, "k1")
	require.NoError(t, err)
	assert.Equal(t, "hello", snap.Chunks[0].Content)
	assert.Equal(t, []float32{1, 0}, snap.Chunks[0].Embedding)

	require.NoError(t, store.Delete(ctx, "k1"))
	_, err = store.Read(ctx, "k1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, store.Delete(ctx, "k1"), domain.ErrNotFound)
}

func TestIndexStore_ReadReturnsCopy(t *testing.T) {
	store := NewIndexStore()
	ctx := context.Background()
	require.NoError(t, store.Write(ctx, testSnapshot("k1", time.Now())))

	snap, err := store.Read(ctx, "k1")
	require.NoError(t, err)
	snap.Chunks[0].Embedding[0] = 42
	snap.Chunks[0].Metadata[domain.MetaPage] = 9

	again, err := store.Read(ctx, "k1")
	require.NoError(t, err)
	assert.Equal(t, float32(1), again.Chunks[0].Embedding[0])
	assert.Equal(t, 1, again.Chunks[0].Page())
}

func TestIndexStore_WriteRejectsMissingKey(t *testing.T) {
	store := NewIndexStore()
	assert.ErrorIs(t, store.Write(context.Background(), nil), domain.ErrInvalidInput)
	assert.ErrorIs(t, store.Write(context.Background(), testSnapshot("", time.Now())), domain.ErrInvalidInput)
}

func TestIndexStore_ListNewestFirst(t *testing.T) {
	store := NewIndexStore()
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, store.Write(ctx, testSnapshot("old", base)))
	require.NoError(t, store.Write(ctx, testSnapshot("new", base.Add(time.Hour))))

	infos, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, infos, 2)
	assert.Equal(t, "new", infos[0].Key)
	assert.Equal(t, "old", infos[1].Key)
	assert.NoError(t, store.Close())
}
