package extractors

import (
	"context"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
)

type stubExtractor struct {
	exts  []string
	title string
}

func (s *stubExtractor) SupportedExtensions() []string { return s.exts }

func (s *stubExtractor) Extract(_ context.Context, _ string, content []byte) (*driven.Extraction, error) {
	return &driven.Extraction{
		Title: s.title,
		Pages: []domain.Page{{Number: 1, Text: string(content)}},
	}, nil
}

func TestRegistry_Dispatch(t *testing.T) {
	r := NewRegistry()
	r.Register(&stubExtractor{exts: []string{".foo"}, title: "foo"})
	r.Register(&stubExtractor{exts: []string{".BAR"}, title: "bar"})

	got, err := r.Extract(context.Background(), "/tmp/a.FOO", []byte("hello"))
	require.NoError(t, err)
	assert.Equal(t, "foo", got.Title)
	assert.Equal(t, "hello", got.Pages[0].Text)

	got, err = r.Extract(context.Background(), "/tmp/a.bar", nil)
	require.NoError(t, err)
	assert.Equal(t, "bar", got.Title)
}

func TestRegistry_LaterRegistrationWins(t *testing.T) {
	r := NewRegistry()
	r.Register(&stubExtractor{exts: []string{".txt"}, title: "first"})
	r.Register(&stubExtractor{exts: []string{".txt"}, title: "second"})

	got, err := r.Extract(context.Background(), "notes.txt", nil)
	require.NoError(t, err)
	assert.Equal(t, "second", got.Title)
}

func TestRegistry_NormalisesInvalidUTF8(t *testing.T) {
	r := NewRegistry()
	r.Register(&stubExtractor{exts: []string{".txt"}, title: "caf\xe9"})

	got, err := r.Extract(context.Background(), "menu.txt", []byte("caf\xe9 au lait\xff\xfe!"))
	require.NoError(t, err)
	assert.Equal(t, "caf\uFFFD", got.Title)
	assert.Equal(t, "caf\uFFFD au lait\uFFFD!", got.Pages[0].Text)
	assert.True(t, utf8.ValidString(got.Pages[0].Text))
}

func TestRegistry_Unsupported(t *testing.T) {
	r := NewRegistry()

	_, err := r.Extract(context.Background(), "image.png", []byte{0x89})
	assert.ErrorIs(t, err, domain.ErrUnsupportedType)

	_, err = r.Extract(context.Background(), "Makefile", nil)
	assert.ErrorIs(t, err, domain.ErrUnsupportedType)
}

func TestNewDefaultRegistry(t *testing.T) {
	exts := NewDefaultRegistry().SupportedExtensions()

	for _, want := range []string{".txt", ".md", ".markdown", ".html", ".htm", ".docx", ".pdf"} {
		assert.Contains(t, exts, want)
	}
	assert.IsIncreasing(t, exts)
}

func TestNewDefaultRegistry_ExtractsPlainText(t *testing.T) {
	got, err := NewDefaultRegistry().Extract(context.Background(), "/docs/fruit_facts.txt",
		[]byte("Apples are red. Bananas are yellow."))
	require.NoError(t, err)
	require.Len(t, got.Pages, 1)
	assert.Equal(t, "fruit facts", got.Title)
	assert.Equal(t, "Apples are red. Bananas are yellow.", got.Pages[0].Text)
}
