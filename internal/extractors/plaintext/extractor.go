// Package plaintext extracts text from plain text and source files.
package plaintext

import (
	"context"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.TextExtractor = (*Extractor)(nil)

// Extractor handles plain text documents.
// Form feeds split the text into pages, as printed text files use them.
type Extractor struct{}

// New creates a new plain text extractor.
func New() *Extractor {
	return &Extractor{}
}

// SupportedExtensions returns the extensions this extractor handles.
func (e *Extractor) SupportedExtensions() []string {
	return []string{
		".txt",
		".text",
		".log",
		".csv",
		".tsv",
		".json",
		".yaml",
		".yml",
		".toml",
		".xml",
		".rst",
		".go",
		".py",
		".java",
		".js",
		".ts",
		".rs",
		".c",
		".h",
		".sql",
		".sh",
	}
}

// Extract returns the file content as pages.
// Invalid UTF-8 sequences are replaced rather than rejected.
func (e *Extractor) Extract(ctx context.Context, path string, content []byte) (*driven.Extraction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	text := string(content)
	if !utf8.ValidString(text) {
		text = strings.ToValidUTF8(text, "�")
	}
	// Normalise Windows line endings so paragraph separators are found.
	text = strings.ReplaceAll(text, "\r\n", "\n")

	return &driven.Extraction{
		Title: TitleFromPath(path),
		Pages: SplitPages(text),
	}, nil
}

// SplitPages splits text on form feeds into numbered pages.
// Text without form feeds is a single page 1.
func SplitPages(text string) []domain.Page {
	parts := strings.Split(text, "\f")
	pages := make([]domain.Page, 0, len(parts))
	for i, p := range parts {
		pages = append(pages, domain.Page{Number: i + 1, Text: p})
	}
	return pages
}

// TitleFromPath extracts a human-readable title from a file path.
func TitleFromPath(path string) string {
	filename := filepath.Base(path)

	// Remove extension for cleaner title
	if ext := filepath.Ext(filename); ext != "" {
		filename = strings.TrimSuffix(filename, ext)
	}

	// Replace underscores and dashes with spaces
	filename = strings.ReplaceAll(filename, "_", " ")
	filename = strings.ReplaceAll(filename, "-", " ")

	return filename
}
