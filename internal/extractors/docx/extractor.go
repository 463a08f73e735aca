// Package docx extracts text from Word (.docx) documents.
package docx

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
	"github.com/custodia-labs/docqa/internal/extractors/plaintext"
)

// Ensure Extractor implements the interface.
var _ driven.TextExtractor = (*Extractor)(nil)

// Extractor handles DOCX documents.
type Extractor struct{}

// New creates a new DOCX extractor.
func New() *Extractor {
	return &Extractor{}
}

// SupportedExtensions returns the extensions this extractor handles.
func (e *Extractor) SupportedExtensions() []string {
	return []string{".docx"}
}

// Extract reads word/document.xml. Paragraphs are separated by blank
// lines and explicit page breaks start a new page.
func (e *Extractor) Extract(ctx context.Context, path string, content []byte) (*driven.Extraction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	reader, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, fmt.Errorf("%w: not a docx archive: %w", domain.ErrInvalidInput, err)
	}

	docXML, err := readEntry(reader, "word/document.xml")
	if err != nil {
		return nil, err
	}

	title := plaintext.TitleFromPath(path)
	if coreXMLData, err := readEntry(reader, "docProps/core.xml"); err == nil && coreXMLData != nil {
		var core coreXML
		if xml.Unmarshal(coreXMLData, &core) == nil && strings.TrimSpace(core.Title) != "" {
			title = strings.TrimSpace(core.Title)
		}
	}

	return &driven.Extraction{
		Title: title,
		Pages: parseDocumentXML(docXML),
	}, nil
}

// readEntry returns the named archive entry, or nil if absent.
func readEntry(reader *zip.Reader, name string) ([]byte, error) {
	for _, file := range reader.File {
		if file.Name != name {
			continue
		}
		rc, err := file.Open()
		if err != nil {
			return nil, fmt.Errorf("%w: opening %s: %w", domain.ErrInvalidInput, name, err)
		}
		defer rc.Close()
		data, err := io.ReadAll(rc)
		if err != nil {
			return nil, fmt.Errorf("%w: reading %s: %w", domain.ErrInvalidInput, name, err)
		}
		return data, nil
	}
	return nil, nil
}

// documentXML represents the structure of word/document.xml.
type documentXML struct {
	Body struct {
		Paragraphs []paragraph `xml:"p"`
	} `xml:"body"`
}

type paragraph struct {
	Runs []run `xml:"r"`
}

type run struct {
	Children []runChild `xml:",any"`
}

// runChild is any element inside a run; document order is preserved.
type runChild struct {
	XMLName xml.Name
	Type    string `xml:"type,attr"`
	Content string `xml:",chardata"`
}

// coreXML represents the structure of docProps/core.xml.
type coreXML struct {
	Title string `xml:"title"`
}

// parseDocumentXML splits the document body into pages.
// Unparseable XML yields no pages, which surfaces as an empty document.
func parseDocumentXML(content []byte) []domain.Page {
	if content == nil {
		return nil
	}
	var doc documentXML
	if err := xml.Unmarshal(content, &doc); err != nil {
		return nil
	}

	var (
		pages []domain.Page
		paras []string
		line  strings.Builder
	)
	flushPage := func() {
		pages = append(pages, domain.Page{
			Number: len(pages) + 1,
			Text:   strings.Join(paras, "\n\n"),
		})
		paras = nil
	}

	for _, para := range doc.Body.Paragraphs {
		line.Reset()
		for _, r := range para.Runs {
			for _, child := range r.Children {
				switch child.XMLName.Local {
				case "t":
					line.WriteString(child.Content)
				case "tab":
					line.WriteString("\t")
				case "cr":
					line.WriteString("\n")
				case "br":
					if child.Type != "page" {
						line.WriteString("\n")
						continue
					}
					if s := strings.TrimSpace(line.String()); s != "" {
						paras = append(paras, s)
					}
					line.Reset()
					flushPage()
				}
			}
		}
		if s := strings.TrimSpace(line.String()); s != "" {
			paras = append(paras, s)
		}
	}
	if len(paras) > 0 || len(pages) == 0 {
		flushPage()
	}

	return pages
}
