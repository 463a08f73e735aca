package pdf

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
)

// mockRunner is a test double for CommandRunner.
type mockRunner struct {
	output []byte
	err    error
	args   []string
	src    []byte
}

func (m *mockRunner) Run(_ context.Context, _ string, args ...string) ([]byte, error) {
	m.args = args
	// The source file is the second-to-last argument.
	if len(args) >= 2 {
		m.src, _ = os.ReadFile(args[len(args)-2])
	}
	return m.output, m.err
}

func TestInterfaceCompliance(t *testing.T) {
	var _ driven.TextExtractor = (*Extractor)(nil)
}

func TestSupportedExtensions(t *testing.T) {
	assert.Equal(t, []string{".pdf"}, New().SupportedExtensions())
}

func TestExtract_Pages(t *testing.T) {
	runner := &mockRunner{output: []byte("Fruit Report\n\nApples are red.\n\fBananas are yellow.\n\f")}
	path := filepath.Join(t.TempDir(), "fruit.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4"), 0o600))

	got, err := NewWithRunner(runner).Extract(context.Background(), path, []byte("%PDF-1.4"))
	require.NoError(t, err)

	assert.Equal(t, []string{"-enc", "UTF-8", path, "-"}, runner.args)
	assert.Equal(t, "Fruit Report", got.Title)
	require.Len(t, got.Pages, 2)
	assert.Equal(t, 1, got.Pages[0].Number)
	assert.Contains(t, got.Pages[0].Text, "Apples are red.")
	assert.Equal(t, 2, got.Pages[1].Number)
	assert.Equal(t, "Bananas are yellow.\n", got.Pages[1].Text)
}

func TestExtract_BytesOnlyUsesTempFile(t *testing.T) {
	runner := &mockRunner{output: []byte("text\f")}

	_, err := NewWithRunner(runner).Extract(context.Background(), "/does/not/exist.pdf", []byte("%PDF-1.7 body"))
	require.NoError(t, err)

	assert.Equal(t, []byte("%PDF-1.7 body"), runner.src)
	_, statErr := os.Stat(runner.args[2])
	assert.True(t, os.IsNotExist(statErr), "temp file should be removed")
}

func TestExtract_ScannedPDF(t *testing.T) {
	runner := &mockRunner{output: []byte("\f\f")}

	got, err := NewWithRunner(runner).Extract(context.Background(), "/x/scan_001.pdf", nil)
	require.NoError(t, err)

	assert.Equal(t, "scan 001", got.Title)
	doc := domain.Document{Pages: got.Pages}
	assert.False(t, doc.HasText())
}

func TestExtract_RunnerError(t *testing.T) {
	runner := &mockRunner{err: errors.New("pdftotext crashed")}

	got, err := NewWithRunner(runner).Extract(context.Background(), "/x/a.pdf", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Contains(t, err.Error(), "pdftotext failed")
	assert.Nil(t, got)
}

func TestExtract_ToolMissing(t *testing.T) {
	e := &Extractor{
		runner:   &mockRunner{},
		lookPath: func(string) (string, error) { return "", errors.New("not found") },
	}

	_, err := e.Extract(context.Background(), "/x/a.pdf", nil)
	assert.ErrorIs(t, err, ErrPDFToolNotFound)
	assert.Contains(t, err.Error(), "poppler")
}

func TestExtractTitle(t *testing.T) {
	tests := []struct {
		name    string
		content string
		path    string
		want    string
	}{
		{"first line as title", "Document Title\n\nSome content here.", "/doc.pdf", "Document Title"},
		{"skip empty lines", "\n\n\nActual Title\nContent", "/doc.pdf", "Actual Title"},
		{"fallback to filename", "", "/path/to/my_document.pdf", "my document"},
		{"skip very long first line", string(make([]byte, 250)) + "\nShort Title\nContent", "/doc.pdf", "Short Title"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extractTitle(tt.content, tt.path))
		})
	}
}

func TestInstallInstructions(t *testing.T) {
	assert.Contains(t, InstallInstructions(), "pdftotext")
}

func TestErrPDFToolNotFound(t *testing.T) {
	assert.Contains(t, ErrPDFToolNotFound.Error(), "pdftotext")
}
