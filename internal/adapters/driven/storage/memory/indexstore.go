package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
)

// Ensure IndexStore implements the interface.
var _ driven.IndexStore = (*IndexStore)(nil)

// IndexStore is an in-memory implementation of driven.IndexStore.
// Used for tests and for --ephemeral runs that should leave nothing on disk.
type IndexStore struct {
	mu        sync.RWMutex
	snapshots map[string]domain.IndexSnapshot
}

// NewIndexStore creates a new in-memory index store.
func NewIndexStore() *IndexStore {
	return &IndexStore{
		snapshots: make(map[string]domain.IndexSnapshot),
	}
}

// Exists reports whether a snapshot is stored under key.
func (s *IndexStore) Exists(_ context.Context, key string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.snapshots[key]
	return ok, nil
}

// Write stores a copy of the snapshot.
func (s *IndexStore) Write(_ context.Context, snapshot *domain.IndexSnapshot) error {
	if snapshot == nil || strings.TrimSpace(snapshot.Info.Key) == "" {
		return domain.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshots[snapshot.Info.Key] = cloneSnapshot(*snapshot)
	return nil
}

// Read returns a copy of the snapshot stored under key.
func (s *IndexStore) Read(_ context.Context, key string) (*domain.IndexSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap, ok := s.snapshots[key]
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := cloneSnapshot(snap)
	return &out, nil
}

// Delete removes the snapshot stored under key.
func (s *IndexStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.snapshots[key]; !ok {
		return domain.ErrNotFound
	}
	delete(s.snapshots, key)
	return nil
}

// List returns index metadata, newest first.
func (s *IndexStore) List(_ context.Context) ([]domain.IndexInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	infos := make([]domain.IndexInfo, 0, len(s.snapshots))
	for _, snap := range s.snapshots {
		infos = append(infos, snap.Info)
	}
	sort.Slice(infos, func(i, j int) bool {
		return infos[i].CreatedAt.After(infos[j].CreatedAt)
	})
	return infos, nil
}

// Close is a no-op for the memory store.
func (s *IndexStore) Close() error {
	return nil
}

func cloneSnapshot(in domain.IndexSnapshot) domain.IndexSnapshot {
	out := domain.IndexSnapshot{Info: in.Info, Chunks: make([]domain.Chunk, len(in.Chunks))}
	for i, c := range in.Chunks {
		c.Embedding = append([]float32(nil), c.Embedding...)
		if c.Metadata != nil {
			meta := make(map[string]any, len(c.Metadata))
			for k, v := range c.Metadata {
				meta[k] = v
			}
			c.Metadata = meta
		}
		out.Chunks[i] = c
	}
	return out
}
