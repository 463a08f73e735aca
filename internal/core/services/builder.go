package services

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
	"github.com/custodia-labs/docqa/internal/core/ports/driving"
	"github.com/custodia-labs/docqa/internal/logger"
)

// Ensure IndexBuilder implements the interface.
var _ driving.IndexBuilder = (*IndexBuilder)(nil)

// BuilderConfig holds the tunables of the index builder.
type BuilderConfig struct {
	// BatchSize is the number of chunks sent per EmbedBatch call.
	BatchSize int

	// TopK is the number of chunks retrieved per question.
	TopK int
}

// IndexBuilder turns document paths into QA sessions, building and
// persisting vector indices as needed. Calls are serialised.
type IndexBuilder struct {
	mu          sync.Mutex
	extractors  driven.ExtractorRegistry
	chunker     driven.Chunker
	embedder    driven.EmbeddingService
	store       driven.IndexStore
	indices     driven.VectorIndexFactory
	synthesizer *Synthesizer
	config      BuilderConfig
	now         func() time.Time
}

// NewIndexBuilder creates an index builder.
func NewIndexBuilder(
	extractors driven.ExtractorRegistry,
	chunker driven.Chunker,
	embedder driven.EmbeddingService,
	store driven.IndexStore,
	indices driven.VectorIndexFactory,
	synthesizer *Synthesizer,
	config BuilderConfig,
) *IndexBuilder {
	if config.BatchSize <= 0 {
		config.BatchSize = domain.DefaultBatchSize
	}
	if config.TopK <= 0 {
		config.TopK = domain.DefaultTopK
	}
	return &IndexBuilder{
		extractors:  extractors,
		chunker:     chunker,
		embedder:    embedder,
		store:       store,
		indices:     indices,
		synthesizer: synthesizer,
		config:      config,
		now:         time.Now,
	}
}

// BuildOrLoad returns a session for the document at path. A stored index
// for the same content and embedding model is loaded without re-embedding.
func (b *IndexBuilder) BuildOrLoad(ctx context.Context, path string) (driving.QASession, error) {
	return b.open(ctx, path, false)
}

// Rebuild builds the index for the document at path and replaces any stored one.
func (b *IndexBuilder) Rebuild(ctx context.Context, path string) (driving.QASession, error) {
	return b.open(ctx, path, true)
}

func (b *IndexBuilder) open(ctx context.Context, path string, force bool) (driving.QASession, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	content, abs, err := readDocument(path)
	if err != nil {
		return nil, err
	}
	key := domain.DocumentKey(content)

	logger.Section("Index Build")
	logger.Debug("Document: %s", abs)
	logger.Debug("Key: %s", key)

	if !force {
		session, err := b.load(ctx, key)
		if err != nil {
			return nil, err
		}
		if session != nil {
			return session, nil
		}
	}

	return b.build(ctx, abs, key, content)
}

// load returns a session over the stored index for key, or nil when the
// index must be built.
func (b *IndexBuilder) load(ctx context.Context, key string) (driving.QASession, error) {
	snap, err := b.store.Read(ctx, key)
	if errors.Is(err, domain.ErrNotFound) {
		logger.Info("Creating new index...")
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read index %s: %w", shortKey(key), err)
	}

	if model := b.embedder.ModelName(); snap.Info.Model != model {
		logger.Warn("Stored index was embedded with %q, configured model is %q; rebuilding", snap.Info.Model, model)
		return nil, nil
	}

	index, err := b.indices.FromChunks(ctx, snap.Chunks)
	if err != nil {
		return nil, fmt.Errorf("load index %s: %w", shortKey(key), err)
	}
	logger.Info("Loading existing index... %d chunks", index.Len())

	return b.session(snap.Info, index, true), nil
}

func (b *IndexBuilder) build(ctx context.Context, path, key string, content []byte) (driving.QASession, error) {
	start := time.Now()

	extraction, err := b.extractors.Extract(ctx, path, content)
	if err != nil {
		return nil, fmt.Errorf("%w: extract %s: %w", domain.ErrIndexBuild, filepath.Base(path), err)
	}

	doc := &domain.Document{
		ID:    key,
		URI:   path,
		Title: extraction.Title,
		Pages: extraction.Pages,
	}
	chunks, err := b.chunker.Chunk(ctx, doc)
	if err != nil {
		if errors.Is(err, domain.ErrEmptyDocument) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: chunk: %w", domain.ErrIndexBuild, err)
	}
	logger.Info("Split into %d chunks.", len(chunks))

	vectors, err := b.embed(ctx, chunks)
	if err != nil {
		return nil, fmt.Errorf("%w: embed: %w", domain.ErrIndexBuild, err)
	}

	index := b.indices.New()
	if err := index.InsertMany(ctx, chunks, vectors); err != nil {
		return nil, fmt.Errorf("%w: insert: %w", domain.ErrIndexBuild, err)
	}

	info := domain.IndexInfo{
		Key:         key,
		DocumentURI: path,
		Title:       doc.Title,
		Model:       b.embedder.ModelName(),
		Dimensions:  index.Dimensions(),
		ChunkCount:  index.Len(),
		CreatedAt:   b.now().UTC(),
	}
	if err := b.store.Write(ctx, &domain.IndexSnapshot{Info: info, Chunks: index.Chunks()}); err != nil {
		return nil, fmt.Errorf("%w: persist: %w", domain.ErrIndexBuild, err)
	}
	logger.L().Info("index built",
		zap.String("key", info.Key),
		zap.Int("chunks", info.ChunkCount),
		zap.Int("dims", info.Dimensions),
		zap.Duration("took", time.Since(start).Round(time.Millisecond)))

	return b.session(info, index, false), nil
}

// embed embeds chunk contents in batches, preserving order.
func (b *IndexBuilder) embed(ctx context.Context, chunks []domain.Chunk) ([][]float32, error) {
	vectors := make([][]float32, 0, len(chunks))
	for lo := 0; lo < len(chunks); lo += b.config.BatchSize {
		hi := min(lo+b.config.BatchSize, len(chunks))
		texts := make([]string, 0, hi-lo)
		for _, c := range chunks[lo:hi] {
			texts = append(texts, c.Content)
		}

		batch, err := b.embedder.EmbedBatch(ctx, texts)
		if err != nil {
			return nil, fmt.Errorf("chunks %d-%d: %w", lo, hi-1, err)
		}
		if len(batch) != len(texts) {
			return nil, fmt.Errorf("chunks %d-%d: got %d vectors for %d texts", lo, hi-1, len(batch), len(texts))
		}
		logger.Debug("Embedded chunks %d-%d", lo, hi-1)
		vectors = append(vectors, batch...)
	}
	return vectors, nil
}

func (b *IndexBuilder) session(info domain.IndexInfo, index driven.VectorIndex, loaded bool) *Session {
	return NewSession(
		driving.SessionInfo{Index: info, Loaded: loaded},
		NewRetriever(b.embedder, index, b.config.TopK),
		b.synthesizer,
	)
}

// readDocument reads the document once and returns its bytes and absolute path.
func readDocument(path string) ([]byte, string, error) {
	abs, err := filepath.Abs(localPath(path))
	if err != nil {
		return nil, "", fmt.Errorf("%w: %s", domain.ErrDocumentNotFound, path)
	}
	info, err := os.Stat(abs)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, "", fmt.Errorf("%w: %s", domain.ErrDocumentNotFound, path)
	}
	if err != nil {
		return nil, "", fmt.Errorf("stat document: %w", err)
	}
	if info.IsDir() {
		return nil, "", fmt.Errorf("%w: %s is a directory", domain.ErrDocumentNotFound, path)
	}
	content, err := os.ReadFile(abs)
	if err != nil {
		return nil, "", fmt.Errorf("read document: %w", err)
	}
	return content, abs, nil
}

// localPath accepts file:// URIs as well as bare paths.
func localPath(uri string) string {
	if strings.HasPrefix(uri, "file://") {
		return strings.TrimPrefix(uri, "file://")
	}
	return uri
}

// shortKey abbreviates a document key for messages.
func shortKey(key string) string {
	if len(key) > 12 {
		return key[:12]
	}
	return key
}
