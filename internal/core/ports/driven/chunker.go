package driven

import (
	"context"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

// Chunker splits a document into the units that get embedded.
// Chunks come back in reading order with Position set, and carry
// domain.MetaPage so answers can cite the page they came from.
// A document with no text on any page yields domain.ErrEmptyDocument.
type Chunker interface {
	Chunk(ctx context.Context, doc *domain.Document) ([]domain.Chunk, error)
}
