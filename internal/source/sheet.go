package source

import (
	"context"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/invoice-parser/constants"
)

// SheetHeader prefixes every sheet in a spreadsheet dump.
func SheetHeader(name string) string {
	return "=== ЛИСТ: " + name + " ==="
}

// readSheets dumps every sheet: a header line, then one line per row with
// the non-empty cells joined by a space.
func (r *Reader) readSheets(ctx context.Context, path string) (*Document, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := f.Close(); err != nil {
			r.logger.Warn("source.xlsx.close_failed", "path", path, "error", err)
		}
	}()

	doc := &Document{Format: constants.FormatXLSX, Method: "xlsx-sheets"}
	var b strings.Builder
	for _, sheet := range f.GetSheetList() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rows, err := f.GetRows(sheet)
		if err != nil {
			doc.Warnings = append(doc.Warnings, fmt.Sprintf("sheet %q: %v", sheet, err))
			continue
		}
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString(SheetHeader(sheet))
		b.WriteString("\n")
		for _, row := range rows {
			if line := joinCells(row); line != "" {
				b.WriteString(line)
				b.WriteString("\n")
			}
		}
		doc.Pages++
	}
	doc.Text = b.String()
	return doc, nil
}

func joinCells(row []string) string {
	cells := make([]string, 0, len(row))
	for _, c := range row {
		if c = strings.TrimSpace(c); c != "" {
			cells = append(cells, c)
		}
	}
	return strings.Join(cells, " ")
}
