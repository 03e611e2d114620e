package extract_test

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rahatk-dev/pathagar/internal/core/extract"
	"github.com/rahatk-dev/pathagar/internal/models"
)

// writePDF builds a minimal one-font PDF with one content stream per page.
// Object offsets are recorded while writing so the xref table is always
// byte-accurate, which the parser requires.
func writePDF(t *testing.T, pageTexts []string) string {
	t.Helper()

	var buf bytes.Buffer
	offsets := []int{0} // index = object number, 0 is the free head
	writeObj := func(body string) {
		offsets = append(offsets, buf.Len())
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", len(offsets)-1, body)
	}

	buf.WriteString("%PDF-1.4\n")
	n := len(pageTexts)
	kids := make([]string, n)
	for i := range kids {
		kids[i] = fmt.Sprintf("%d 0 R", 4+i)
	}
	writeObj("<< /Type /Catalog /Pages 2 0 R >>")
	writeObj(fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), n))
	writeObj("<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>")
	for i := 0; i < n; i++ {
		writeObj(fmt.Sprintf("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 3 0 R >> >> /Contents %d 0 R >>", 4+n+i))
	}
	for _, text := range pageTexts {
		content := ""
		if text != "" {
			content = fmt.Sprintf("BT /F1 12 Tf 72 720 Td (%s) Tj ET", text)
		}
		writeObj(fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(content), content))
	}

	xrefPos := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(offsets))
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets[1:] {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(offsets), xrefPos)

	path := filepath.Join(t.TempDir(), "fixture.pdf")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
	return path
}

func TestExtractPages(t *testing.T) {
	path := writePDF(t, []string{
		"Rational numbers can be written as fractions",
		"Irrational numbers cannot be written that way",
	})

	pages, err := extract.NewPDFExtractor(0).ExtractPages(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, pages, 2)
	assert.Equal(t, 1, pages[0].Number)
	assert.Equal(t, 2, pages[1].Number)
	assert.Contains(t, pages[0].Text, "fractions")
	assert.Greater(t, pages[0].WordCount, 0)
}

func TestExtractPages_PageCap(t *testing.T) {
	names := []string{"one", "two", "three", "four", "five"}
	texts := make([]string, len(names))
	for i, name := range names {
		texts[i] = "Body text for sheet " + name
	}
	path := writePDF(t, texts)

	pages, err := extract.NewPDFExtractor(3).ExtractPages(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, pages, 3)
	assert.Equal(t, 3, pages[2].Number)
	assert.Contains(t, pages[2].Text, "three")
}

func TestExtractPages_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.pdf")
	require.NoError(t, os.WriteFile(path, []byte("this is not a pdf at all"), 0o644))

	_, err := extract.NewPDFExtractor(0).ExtractPages(context.Background(), path)
	var xerr *models.ExtractionError
	require.ErrorAs(t, err, &xerr)
}

func TestExtractPages_NoTextIsEmptyResult(t *testing.T) {
	path := writePDF(t, []string{"", ""})

	pages, err := extract.NewPDFExtractor(0).ExtractPages(context.Background(), path)
	require.NoError(t, err)
	assert.Empty(t, pages)
}
