// Package pdf extracts page text from PDF documents using pdftotext.
//
// pdftotext ships with poppler. Pages are separated by form feeds in its
// output, which is how page numbers survive into chunk metadata.
package pdf

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
	"github.com/custodia-labs/docqa/internal/extractors/plaintext"
)

// Ensure Extractor implements the interface.
var _ driven.TextExtractor = (*Extractor)(nil)

// ErrPDFToolNotFound indicates pdftotext is not installed.
var ErrPDFToolNotFound = errors.New("pdftotext not found in PATH")

const toolName = "pdftotext"

// maxTitleLength bounds a first line that may be used as the title.
const maxTitleLength = 200

// CommandRunner runs an external command and returns its stdout.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// execRunner runs commands with os/exec.
type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stderr strings.Builder
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil && stderr.Len() > 0 {
		return nil, fmt.Errorf("%w: %s", err, strings.TrimSpace(stderr.String()))
	}
	return out, err
}

// Extractor handles PDF documents.
type Extractor struct {
	runner   CommandRunner
	lookPath func(string) (string, error)
}

// New creates a PDF extractor that runs pdftotext.
func New() *Extractor {
	return &Extractor{runner: execRunner{}, lookPath: exec.LookPath}
}

// NewWithRunner creates a PDF extractor with a custom command runner.
// The tool is assumed present.
func NewWithRunner(runner CommandRunner) *Extractor {
	return &Extractor{
		runner:   runner,
		lookPath: func(name string) (string, error) { return name, nil },
	}
}

// SupportedExtensions returns the extensions this extractor handles.
func (e *Extractor) SupportedExtensions() []string {
	return []string{".pdf"}
}

// Extract runs pdftotext over the file and returns one page per PDF page.
// A PDF without a text layer yields blank pages, not an error.
func (e *Extractor) Extract(ctx context.Context, path string, content []byte) (*driven.Extraction, error) {
	if _, err := e.lookPath(toolName); err != nil {
		return nil, fmt.Errorf("%w\n%s", ErrPDFToolNotFound, InstallInstructions())
	}

	// pdftotext reads from a file, so fall back to a temp copy when the
	// caller only has bytes.
	src := path
	if _, err := os.Stat(path); err != nil {
		tmp, err := writeTemp(content)
		if err != nil {
			return nil, err
		}
		defer os.Remove(tmp)
		src = tmp
	}

	out, err := e.runner.Run(ctx, toolName, "-enc", "UTF-8", src, "-")
	if err != nil {
		return nil, fmt.Errorf("%w: pdftotext failed: %w", domain.ErrInvalidInput, err)
	}

	text := strings.ReplaceAll(string(out), "\r\n", "\n")
	// pdftotext terminates every page, including the last, with a form feed.
	text = strings.TrimSuffix(text, "\f")

	return &driven.Extraction{
		Title: extractTitle(text, path),
		Pages: plaintext.SplitPages(text),
	}, nil
}

func writeTemp(content []byte) (string, error) {
	f, err := os.CreateTemp("", "docqa-*.pdf")
	if err != nil {
		return "", fmt.Errorf("creating temp file: %w", err)
	}
	defer f.Close()
	if _, err := f.Write(content); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("writing temp file: %w", err)
	}
	return f.Name(), nil
}

// extractTitle uses the first short non-empty line, falling back to the file name.
func extractTitle(text, path string) string {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(strings.Trim(line, "\f\x00"))
		if line == "" {
			continue
		}
		if len(line) <= maxTitleLength {
			return line
		}
	}
	return plaintext.TitleFromPath(path)
}

// CheckAvailable returns ErrPDFToolNotFound if pdftotext is not installed.
func CheckAvailable() error {
	if _, err := exec.LookPath(toolName); err != nil {
		return ErrPDFToolNotFound
	}
	return nil
}

// InstallInstructions returns platform-specific instructions for installing pdftotext.
func InstallInstructions() string {
	switch runtime.GOOS {
	case "darwin":
		return "Install pdftotext with: brew install poppler"
	case "windows":
		return "Install pdftotext from https://poppler.freedesktop.org and add it to PATH"
	default:
		return "Install pdftotext with: apt install poppler-utils (or brew install poppler)"
	}
}
