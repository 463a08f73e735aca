package driven

import (
	"context"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

// IndexStore persists vector index snapshots keyed by document key.
// Reads of a damaged snapshot return domain.ErrCorruptIndex, never panic.
//
// The store does not provide mutual exclusion across processes; concurrent
// builders targeting the same location must be serialised by the caller.
type IndexStore interface {
	// Exists reports whether a snapshot is stored under key.
	Exists(ctx context.Context, key string) (bool, error)

	// Write stores the snapshot, replacing any previous one for the same key.
	// The write is all-or-nothing.
	Write(ctx context.Context, snapshot *domain.IndexSnapshot) error

	// Read loads the snapshot stored under key.
	// Returns domain.ErrNotFound if absent, domain.ErrCorruptIndex if unreadable.
	Read(ctx context.Context, key string) (*domain.IndexSnapshot, error)

	// Delete removes the snapshot stored under key.
	Delete(ctx context.Context, key string) error

	// List returns metadata for every stored snapshot, newest first.
	List(ctx context.Context) ([]domain.IndexInfo, error)

	// Close releases resources.
	Close() error
}
