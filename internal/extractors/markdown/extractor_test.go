package markdown

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docqa/internal/core/ports/driven"
)

func TestInterfaceCompliance(t *testing.T) {
	var _ driven.TextExtractor = (*Extractor)(nil)
}

func TestSupportedExtensions(t *testing.T) {
	assert.Contains(t, New().SupportedExtensions(), ".md")
	assert.Contains(t, New().SupportedExtensions(), ".markdown")
}

func TestExtract_Success(t *testing.T) {
	content := "# Fruit Guide\n\nApples are **red**.\n\n## Bananas\n\n- Bananas are *yellow*.\n"

	got, err := New().Extract(context.Background(), "/docs/fruit.md", []byte(content))
	require.NoError(t, err)

	assert.Equal(t, "Fruit Guide", got.Title)
	require.Len(t, got.Pages, 1)
	assert.Equal(t, "Fruit Guide\n\nApples are red.\n\nBananas\n\nBananas are yellow.", got.Pages[0].Text)
}

func TestExtract_TitleExtraction(t *testing.T) {
	tests := []struct {
		name    string
		content string
		path    string
		want    string
	}{
		{"H1 heading", "# My Document\n\nContent here.", "/doc.md", "My Document"},
		{"H1 with extra spaces", "#   Spaced Title   \n\nContent", "/doc.md", "Spaced Title"},
		{"no heading", "Just some content without heading.", "/my_document.md", "my document"},
		{"H2 first", "## Second Level\n\nNo H1.", "/readme.md", "readme"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := New().Extract(context.Background(), tt.path, []byte(tt.content))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Title)
		})
	}
}

func TestStripMarkdown(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"headings removed", "# Title\n## Subtitle\n### Third", "Title\nSubtitle\nThird"},
		{"bold removed", "This is **bold** text", "This is bold text"},
		{"italic removed", "This is _quiet_ text", "This is quiet text"},
		{"snake case kept", "call load_config first", "call load_config first"},
		{"links converted", "Click [here](https://example.com)", "Click here"},
		{"images keep alt text", "See ![a diagram](image.png) here", "See a diagram here"},
		{"code fences dropped, code kept", "Before\n```go\nx := 1\n```\nAfter", "Before\nx := 1\nAfter"},
		{"inline code kept", "Use `make build` here", "Use make build here"},
		{"blockquotes cleaned", "> This is a quote", "This is a quote"},
		{"list markers removed", "- Item 1\n- Item 2", "Item 1\nItem 2"},
		{"numbered list markers removed", "1. First\n2. Second", "First\nSecond"},
		{"front matter removed", "---\ntitle: x\n---\nBody", "Body"},
		{"horizontal rule removed", "Above\n\n---\n\nBelow", "Above\n\nBelow"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, stripMarkdown(tt.input))
		})
	}
}
