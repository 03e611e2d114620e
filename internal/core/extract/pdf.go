// Package extract reads PDF chapter files into ordered, cleaned page texts
// and carves full-book text into chapter spans.
package extract

import (
	"context"
	"log"

	"github.com/ledongthuc/pdf"

	"github.com/rahatk-dev/pathagar/internal/core"
	"github.com/rahatk-dev/pathagar/internal/models"
)

// PDFExtractor extracts plain text page by page, bounded by MaxPages.
type PDFExtractor struct {
	maxPages int
}

var _ core.PageExtractor = (*PDFExtractor)(nil)

func NewPDFExtractor(maxPages int) *PDFExtractor {
	if maxPages <= 0 {
		maxPages = 50
	}
	return &PDFExtractor{maxPages: maxPages}
}

// ExtractPages returns cleaned page texts in document order. Pages beyond
// the cap are silently ignored. A page whose text cannot be decoded is
// skipped with a warning; an unreadable file fails with ExtractionError.
// Zero extractable text is an empty result, not an error.
func (e *PDFExtractor) ExtractPages(ctx context.Context, path string) ([]core.PageText, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return nil, &models.ExtractionError{Err: err}
	}
	defer f.Close()

	total := reader.NumPage()
	limit := total
	if limit > e.maxPages {
		limit = e.maxPages
	}

	var pages []core.PageText
	for i := 1; i <= limit; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		fonts := make(map[string]*pdf.Font)
		raw, err := page.GetPlainText(fonts)
		if err != nil {
			log.Printf("extract: skipping page %d of %s: %v", i, path, err)
			continue
		}

		cleaned := CleanPage(raw)
		if cleaned == "" {
			continue
		}

		pages = append(pages, core.PageText{
			Number:    i,
			Text:      cleaned,
			WordCount: WordCount(cleaned),
		})
	}

	if total > e.maxPages {
		log.Printf("extract: %s has %d pages, processed first %d", path, total, e.maxPages)
	}

	return pages, nil
}

// JoinPages concatenates page texts with blank-line separators, preserving
// page order.
func JoinPages(pages []core.PageText) string {
	var b []byte
	for i, p := range pages {
		if i > 0 {
			b = append(b, '\n', '\n')
		}
		b = append(b, p.Text...)
	}
	return string(b)
}

// EstimatePage maps a character offset in the joined text back to the page
// it most likely came from.
func EstimatePage(offset int, pages []core.PageText) int {
	if len(pages) == 0 {
		return 1
	}
	count := 0
	for _, p := range pages {
		count += len(p.Text) + 2
		if count >= offset {
			return p.Number
		}
	}
	return pages[len(pages)-1].Number
}
