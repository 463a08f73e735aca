package docx

import (
	"archive/zip"
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
)

// createTestDOCX creates a minimal valid DOCX file in memory.
func createTestDOCX(t *testing.T, documentXML, coreXML string) []byte {
	t.Helper()
	buf := new(bytes.Buffer)
	w := zip.NewWriter(buf)

	contentTypes, err := w.Create("[Content_Types].xml")
	require.NoError(t, err)
	_, err = contentTypes.Write([]byte(`<?xml version="1.0" encoding="UTF-8"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
<Default Extension="xml" ContentType="application/xml"/>
</Types>`))
	require.NoError(t, err)

	if documentXML != "" {
		doc, err := w.Create("word/document.xml")
		require.NoError(t, err)
		_, err = doc.Write([]byte(documentXML))
		require.NoError(t, err)
	}

	if coreXML != "" {
		core, err := w.Create("docProps/core.xml")
		require.NoError(t, err)
		_, err = core.Write([]byte(coreXML))
		require.NoError(t, err)
	}

	require.NoError(t, w.Close())
	return buf.Bytes()
}

func body(paragraphs string) string {
	return `<?xml version="1.0" encoding="UTF-8"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
<w:body>` + paragraphs + `</w:body>
</w:document>`
}

const testCoreXML = `<?xml version="1.0" encoding="UTF-8"?>
<cp:coreProperties xmlns:cp="http://schemas.openxmlformats.org/package/2006/metadata/core-properties"
xmlns:dc="http://purl.org/dc/elements/1.1/">
<dc:title>Fruit Handbook</dc:title>
</cp:coreProperties>`

func TestInterfaceCompliance(t *testing.T) {
	var _ driven.TextExtractor = (*Extractor)(nil)
}

func TestSupportedExtensions(t *testing.T) {
	assert.Equal(t, []string{".docx"}, New().SupportedExtensions())
}

func TestExtract_Success(t *testing.T) {
	content := createTestDOCX(t, body(
		`<w:p><w:r><w:t>Apples are </w:t></w:r><w:r><w:t>red.</w:t></w:r></w:p>`+
			`<w:p><w:r><w:t>Bananas are yellow.</w:t></w:r></w:p>`), testCoreXML)

	got, err := New().Extract(context.Background(), "/docs/fruit.docx", content)
	require.NoError(t, err)

	assert.Equal(t, "Fruit Handbook", got.Title)
	require.Len(t, got.Pages, 1)
	assert.Equal(t, "Apples are red.\n\nBananas are yellow.", got.Pages[0].Text)
}

func TestExtract_PageBreaks(t *testing.T) {
	content := createTestDOCX(t, body(
		`<w:p><w:r><w:t>First page.</w:t><w:br w:type="page"/></w:r></w:p>`+
			`<w:p><w:r><w:t>Second</w:t><w:br/><w:t>page.</w:t></w:r></w:p>`), "")

	got, err := New().Extract(context.Background(), "/docs/my_report.docx", content)
	require.NoError(t, err)

	assert.Equal(t, "my report", got.Title)
	require.Len(t, got.Pages, 2)
	assert.Equal(t, "First page.", got.Pages[0].Text)
	assert.Equal(t, 2, got.Pages[1].Number)
	assert.Equal(t, "Second\npage.", got.Pages[1].Text)
}

func TestExtract_InvalidZip(t *testing.T) {
	got, err := New().Extract(context.Background(), "bad.docx", []byte("not a zip file"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Nil(t, got)
}

func TestExtract_NoBody(t *testing.T) {
	got, err := New().Extract(context.Background(), "empty.docx", createTestDOCX(t, "", ""))
	require.NoError(t, err)
	assert.Empty(t, got.Pages)

	got, err = New().Extract(context.Background(), "empty.docx", createTestDOCX(t, body(""), ""))
	require.NoError(t, err)
	require.Len(t, got.Pages, 1)
	assert.Empty(t, got.Pages[0].Text)
}
