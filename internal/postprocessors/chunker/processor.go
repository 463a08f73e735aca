// Package chunker provides a recursive, overlapping text chunking processor.
package chunker

import (
	"context"
	"strconv"
	"unicode"

	"github.com/google/uuid"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
)

// DefaultChunkSize is the default number of characters per chunk.
const DefaultChunkSize = domain.DefaultChunkSize

// DefaultChunkOverlap is the default number of overlapping characters.
const DefaultChunkOverlap = domain.DefaultChunkOverlap

// DefaultSeparators are tried in order, coarsest first.
// A cut falls just after the separator, so it stays with the preceding chunk.
var DefaultSeparators = []string{"\n\n", "\n", ". ", "! ", "? ", " "}

// Processor splits document pages into bounded, overlapping chunks.
// Lengths are counted in runes.
type Processor struct {
	chunkSize  int
	overlap    int
	separators [][]rune
}

var _ driven.Chunker = (*Processor)(nil)

// Option configures the chunker processor.
type Option func(*Processor)

// WithChunkSize sets the chunk size in characters.
func WithChunkSize(size int) Option {
	return func(p *Processor) {
		if size > 0 {
			p.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between chunks in characters.
func WithOverlap(overlap int) Option {
	return func(p *Processor) {
		if overlap >= 0 {
			p.overlap = overlap
		}
	}
}

// WithSeparators replaces the separator hierarchy. Empty separators are ignored.
func WithSeparators(seps ...string) Option {
	return func(p *Processor) {
		p.separators = p.separators[:0]
		for _, s := range seps {
			if s != "" {
				p.separators = append(p.separators, []rune(s))
			}
		}
	}
}

// New creates a new chunker processor with the given options.
func New(opts ...Option) *Processor {
	p := &Processor{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultChunkOverlap,
	}
	for _, s := range DefaultSeparators {
		p.separators = append(p.separators, []rune(s))
	}

	for _, opt := range opts {
		opt(p)
	}

	// Ensure overlap doesn't exceed chunk size
	if p.overlap >= p.chunkSize {
		p.overlap = p.chunkSize / 4
	}

	return p
}

// ChunkSize returns the configured maximum chunk length.
func (p *Processor) ChunkSize() int {
	return p.chunkSize
}

// Overlap returns the configured overlap length.
func (p *Processor) Overlap() int {
	return p.overlap
}

// Chunk splits every page of the document into chunks.
// Pages are split independently, so no chunk spans two pages.
// Invalid UTF-8 bytes each become U+FFFD; the extractor registry already
// normalises page text, so offsets index it exactly.
// Returns domain.ErrEmptyDocument if no page has text.
func (p *Processor) Chunk(ctx context.Context, doc *domain.Document) ([]domain.Chunk, error) {
	if !doc.HasText() {
		return nil, domain.ErrEmptyDocument
	}

	var chunks []domain.Chunk
	for _, page := range doc.Pages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		text := []rune(page.Text)
		if isBlank(text) {
			continue
		}
		for _, s := range p.Split(text) {
			position := len(chunks)
			chunks = append(chunks, domain.Chunk{
				ID:         chunkID(doc.ID, position),
				DocumentID: doc.ID,
				Content:    string(text[s.Start:s.End]),
				Position:   position,
				Metadata: map[string]any{
					domain.MetaPage:  page.Number,
					domain.MetaStart: s.Start,
					domain.MetaEnd:   s.End,
				},
			})
		}
	}
	if len(chunks) == 0 {
		return nil, domain.ErrEmptyDocument
	}

	return chunks, nil
}

// Span is a half-open rune range [Start, End).
type Span struct {
	Start int
	End   int
}

// Split returns the chunk spans for text.
// Text no longer than the chunk size yields a single span. Otherwise every
// span is at most chunk size long, and each span after the first starts
// exactly overlap runes before the previous one ends.
func (p *Processor) Split(text []rune) []Span {
	n := len(text)
	if n <= p.chunkSize {
		return []Span{{Start: 0, End: n}}
	}

	spans := make([]Span, 0, n/(p.chunkSize-p.overlap)+1)
	start := 0
	for {
		if n-start <= p.chunkSize {
			spans = append(spans, Span{Start: start, End: n})
			return spans
		}
		end := p.cut(text, start, start+p.chunkSize)
		spans = append(spans, Span{Start: start, End: end})
		start = end - p.overlap
	}
}

// cut picks the end of the chunk starting at start, no later than limit.
// The cut must leave more than overlap runes so the next chunk advances.
func (p *Processor) cut(text []rune, start, limit int) int {
	floor := start + p.overlap
	for _, sep := range p.separators {
		if at := lastCut(text, sep, start, limit); at > floor {
			return at
		}
	}
	return limit
}

// lastCut returns the index just past the last occurrence of sep lying
// entirely within text[lo:hi], or -1.
func lastCut(text, sep []rune, lo, hi int) int {
	for i := hi - len(sep); i >= lo; i-- {
		if runesEqual(text[i:i+len(sep)], sep) {
			return i + len(sep)
		}
	}
	return -1
}

func runesEqual(a, b []rune) bool {
	for i := range b {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func isBlank(text []rune) bool {
	for _, r := range text {
		if !unicode.IsSpace(r) {
			return false
		}
	}
	return true
}

// chunkID derives a stable ID so rebuilding the same document yields the same chunks.
func chunkID(docID string, position int) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(docID+"/"+strconv.Itoa(position))).String()
}
