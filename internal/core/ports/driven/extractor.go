package driven

import (
	"context"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

// TextExtractor pulls page text out of a document file.
// Each extractor handles specific file extensions (e.g., ".pdf", ".md").
type TextExtractor interface {
	// SupportedExtensions returns lower-case extensions including the dot.
	SupportedExtensions() []string

	// Extract returns the document's title and page text in reading order.
	// content is the file's bytes, already read by the caller.
	Extract(ctx context.Context, path string, content []byte) (*Extraction, error)
}

// Extraction is the result of extracting a document.
type Extraction struct {
	// Title is the document title, falling back to the file name.
	Title string

	// Pages holds page text in reading order.
	Pages []domain.Page
}

// ExtractorRegistry selects the extractor for a document path.
type ExtractorRegistry interface {
	// Extract dispatches on the file extension.
	// Returns domain.ErrUnsupportedType if no extractor matches.
	Extract(ctx context.Context, path string, content []byte) (*Extraction, error)

	// Register adds an extractor to the registry.
	Register(extractor TextExtractor)

	// SupportedExtensions returns all extensions that can be extracted.
	SupportedExtensions() []string
}
