package html

import (
	"bytes"
	"context"
	"strings"

	nethtml "golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
	"github.com/custodia-labs/docqa/internal/extractors/plaintext"
)

var _ driven.TextExtractor = (*Extractor)(nil)

// Extractor handles HTML documents.
type Extractor struct{}

// New creates a new HTML extractor.
func New() *Extractor {
	return &Extractor{}
}

// SupportedExtensions returns the extensions this extractor handles.
func (e *Extractor) SupportedExtensions() []string {
	return []string{".html", ".htm", ".xhtml"}
}

// Extract converts an HTML document to plain text as a single page.
func (e *Extractor) Extract(ctx context.Context, path string, content []byte) (*driven.Extraction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	title, text := render(content)
	if title == "" {
		title = plaintext.TitleFromPath(path)
	}
	return &driven.Extraction{
		Title: title,
		Pages: []domain.Page{{Number: 1, Text: text}},
	}, nil
}

// hidden elements contribute no readable text.
var hidden = map[atom.Atom]bool{
	atom.Head:     true,
	atom.Script:   true,
	atom.Style:    true,
	atom.Noscript: true,
	atom.Svg:      true,
	atom.Template: true,
	atom.Iframe:   true,
}

// breaks start a new line when opened or closed.
var breaks = map[atom.Atom]bool{
	atom.P: true, atom.Div: true, atom.Br: true, atom.Hr: true,
	atom.H1: true, atom.H2: true, atom.H3: true, atom.H4: true, atom.H5: true, atom.H6: true,
	atom.Li: true, atom.Tr: true, atom.Table: true, atom.Blockquote: true, atom.Pre: true,
	atom.Section: true, atom.Article: true, atom.Header: true, atom.Footer: true,
	atom.Dt: true, atom.Dd: true, atom.Figcaption: true,
}

// render walks the token stream once, returning the <title> text and the
// visible body text with one block element per line.
func render(content []byte) (title, text string) {
	z := nethtml.NewTokenizer(bytes.NewReader(content))
	var (
		b       strings.Builder
		t       strings.Builder
		depth   int
		inTitle bool
	)

	for {
		tt := z.Next()
		switch tt {
		case nethtml.ErrorToken:
			return strings.Join(strings.Fields(t.String()), " "), tidy(b.String())

		case nethtml.TextToken:
			switch {
			case inTitle:
				t.Write(z.Text())
			case depth == 0:
				b.Write(z.Text())
			}

		case nethtml.StartTagToken, nethtml.SelfClosingTagToken:
			name, _ := z.TagName()
			a := atom.Lookup(name)
			switch {
			case a == atom.Title:
				inTitle = true
			case a == atom.Body:
				// An unclosed <head> ends where the body begins.
				depth = 0
			case hidden[a]:
				if tt == nethtml.StartTagToken {
					depth++
				}
			case breaks[a]:
				b.WriteByte('\n')
			}

		case nethtml.EndTagToken:
			name, _ := z.TagName()
			a := atom.Lookup(name)
			switch {
			case a == atom.Title:
				inTitle = false
			case hidden[a]:
				depth = max(depth-1, 0)
			case breaks[a]:
				b.WriteByte('\n')
			case a == atom.Td || a == atom.Th:
				b.WriteByte(' ')
			}
		}
	}
}

// tidy collapses whitespace within lines and drops blank lines.
func tidy(s string) string {
	var lines []string
	for _, line := range strings.Split(s, "\n") {
		if fields := strings.Fields(line); len(fields) > 0 {
			lines = append(lines, strings.Join(fields, " "))
		}
	}
	return strings.Join(lines, "\n")
}

// stripHTML returns only the visible text of content.
func stripHTML(content string) string {
	_, text := render([]byte(content))
	return text
}
