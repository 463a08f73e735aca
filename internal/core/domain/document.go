package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Metadata keys written onto chunks by the chunker.
const (
	MetaPage  = "page"
	MetaStart = "start"
	MetaEnd   = "end"
)

// Page is the text extracted from one page of a document.
// Formats without pages (plain text, Markdown) produce a single page 1.
type Page struct {
	// Number is the 1-based page number.
	Number int

	// Text is the extracted page text.
	Text string
}

// Document represents a loaded document before chunking.
// It is consumed once by the index builder and then discarded.
type Document struct {
	// ID is the content key of the document (see DocumentKey).
	ID string

	// URI is the original location of the document on disk.
	URI string

	// Title is the human-readable title.
	Title string

	// Pages holds the extracted text in reading order.
	Pages []Page

	// Metadata contains arbitrary key-value pairs.
	Metadata map[string]any
}

// HasText reports whether any page carries non-whitespace text.
func (d *Document) HasText() bool {
	for _, p := range d.Pages {
		for _, r := range p.Text {
			switch r {
			case ' ', '\t', '\n', '\r', '\f', '\v':
				continue
			default:
				return true
			}
		}
	}
	return false
}

// Chunk represents a searchable unit within a document.
// Chunks hold no reference back to the Document after creation.
type Chunk struct {
	// ID is the unique identifier for the chunk.
	ID string

	// DocumentID links to the Document the chunk was cut from.
	DocumentID string

	// Content is the text content of this chunk.
	Content string

	// Position is the ordinal position within the document.
	Position int

	// Embedding is the vector representation for semantic search.
	Embedding []float32

	// Metadata contains chunk-specific key-value pairs (page, offsets).
	Metadata map[string]any
}

// Page returns the page number recorded on the chunk, or 0 if unknown.
func (c Chunk) Page() int {
	switch v := c.Metadata[MetaPage].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return 0
	}
}

// ScoredChunk is a chunk returned by retrieval with its similarity score.
type ScoredChunk struct {
	Chunk Chunk
	Score float64
}

// IndexInfo describes a persisted vector index.
type IndexInfo struct {
	// Key is the document key the index was built from.
	Key string

	// DocumentURI is the path of the document when it was indexed.
	DocumentURI string

	// Title is the document title.
	Title string

	// Model is the embedding model that produced the vectors.
	Model string

	// Dimensions is the vector size shared by every chunk.
	Dimensions int

	// ChunkCount is the number of stored chunks.
	ChunkCount int

	// CreatedAt is when the index was persisted.
	CreatedAt time.Time
}

// IndexSnapshot is the durable form of a vector index.
// Every chunk carries its embedding.
type IndexSnapshot struct {
	Info   IndexInfo
	Chunks []Chunk
}

// Answer is the outcome of asking a question about a document.
type Answer struct {
	// Question is the question as asked.
	Question string

	// Text is whatever the generative model produced.
	Text string

	// Sources are the retrieved chunks in ranking order.
	Sources []ScoredChunk
}

// DocumentKey returns the stable key for document content.
// Indices are persisted under this key, so a changed document gets a new index.
func DocumentKey(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}
