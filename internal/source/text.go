package source

import (
	"bytes"
	"os"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	"github.com/joseph-ayodele/invoice-parser/constants"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// readText loads a plain text file. Files that are not valid UTF-8 are
// taken to be Windows-1251, the usual encoding of Russian exports.
func (r *Reader) readText(path string) (*Document, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	b = bytes.TrimPrefix(b, utf8BOM)

	doc := &Document{Format: constants.FormatTXT, Pages: 1, Method: "text"}
	if utf8.Valid(b) {
		doc.Text = string(b)
		return doc, nil
	}
	decoded, err := charmap.Windows1251.NewDecoder().Bytes(b)
	if err != nil {
		return nil, err
	}
	doc.Text = string(decoded)
	doc.Method = "text-cp1251"
	doc.Warnings = append(doc.Warnings, "not valid UTF-8, decoded as Windows-1251")
	return doc, nil
}
