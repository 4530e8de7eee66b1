package source

import (
	"context"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/joseph-ayodele/invoice-parser/constants"
)

// readPDF reads the text layer row by row. Scanned PDFs without one come
// back empty with a warning; OCR is left to the caller.
func (r *Reader) readPDF(ctx context.Context, path string) (doc *Document, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			doc, err = nil, fmt.Errorf("malformed pdf: %v", rec)
		}
	}()

	f, reader, err := pdf.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	doc = &Document{Format: constants.FormatPDF, Method: "pdf-text"}
	pages := reader.NumPage()
	if r.cfg.MaxPages > 0 && pages > r.cfg.MaxPages {
		doc.Warnings = append(doc.Warnings, fmt.Sprintf("read %d of %d pages", r.cfg.MaxPages, pages))
		pages = r.cfg.MaxPages
	}

	var b strings.Builder
	for i := 1; i <= pages; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		rows, err := page.GetTextByRow()
		if err != nil {
			doc.Warnings = append(doc.Warnings, fmt.Sprintf("page %d: %v", i, err))
			continue
		}
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		for _, row := range rows {
			words := make([]string, 0, len(row.Content))
			for _, w := range row.Content {
				words = append(words, w.S)
			}
			b.WriteString(strings.Join(words, " "))
			b.WriteString("\n")
		}
		doc.Pages++
	}

	doc.Text = b.String()
	if strings.TrimSpace(doc.Text) == "" {
		doc.Warnings = append(doc.Warnings, "no text layer")
	}
	return doc, nil
}
