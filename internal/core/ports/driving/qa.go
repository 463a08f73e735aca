package driving

import (
	"context"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

// IndexBuilder turns a document path into a ready QA session.
type IndexBuilder interface {
	// BuildOrLoad returns a session for the document at path, loading the
	// persisted index for the document's content if one exists and was built
	// with the configured embedding model, and building it otherwise.
	BuildOrLoad(ctx context.Context, path string) (QASession, error)

	// Rebuild discards any persisted index for the document and builds a new one.
	Rebuild(ctx context.Context, path string) (QASession, error)
}

// QASession answers questions about one loaded document.
// Sessions are safe for concurrent use.
type QASession interface {
	// Answer returns the model's answer to question.
	// Returns domain.ErrInvalidQuestion for an empty or whitespace-only question.
	Answer(ctx context.Context, question string) (string, error)

	// Ask is Answer that also reports the retrieved chunks behind the answer.
	Ask(ctx context.Context, question string) (*domain.Answer, error)

	// Document describes the document and index behind the session.
	Document() SessionInfo
}

// SessionInfo describes the document backing a session.
type SessionInfo struct {
	// Index is the metadata of the vector index in use.
	Index domain.IndexInfo

	// Loaded is true when the index came from storage rather than a fresh build.
	Loaded bool
}

// IndexManager administers persisted indices.
type IndexManager interface {
	// List returns every persisted index, newest first.
	List(ctx context.Context) ([]domain.IndexInfo, error)

	// Delete removes the index with the given key, or key prefix when unambiguous.
	Delete(ctx context.Context, key string) error

	// Clear removes every persisted index and returns how many were removed.
	Clear(ctx context.Context) (int, error)
}
