package source

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"

	"github.com/joseph-ayodele/invoice-parser/constants"
	"github.com/joseph-ayodele/invoice-parser/internal/common"
)

func newTestReader(cfg Config) *Reader {
	return NewReader(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestReadTextUTF8(t *testing.T) {
	path := writeFile(t, "invoice.txt", append([]byte{0xEF, 0xBB, 0xBF}, []byte("Счет на оплату № 36")...))

	doc, err := newTestReader(Config{}).Read(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "Счет на оплату № 36", doc.Text)
	assert.Equal(t, constants.FormatTXT, doc.Format)
	assert.Equal(t, "text", doc.Method)
	assert.Equal(t, path, doc.Path)
	assert.Empty(t, doc.Warnings)
}

func TestReadTextWindows1251(t *testing.T) {
	encoded, err := charmap.Windows1251.NewEncoder().String("Итого к оплате: 1 200,00")
	require.NoError(t, err)
	path := writeFile(t, "legacy.txt", []byte(encoded))

	doc, err := newTestReader(Config{}).Read(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "Итого к оплате: 1 200,00", doc.Text)
	assert.Equal(t, "text-cp1251", doc.Method)
	assert.Len(t, doc.Warnings, 1)
}

func TestReadSheets(t *testing.T) {
	f := excelize.NewFile()
	require.NoError(t, f.SetCellValue("Sheet1", "A1", "Счет на оплату № 12"))
	require.NoError(t, f.SetCellValue("Sheet1", "C1", "от 04.11.2024"))
	require.NoError(t, f.SetCellValue("Sheet1", "A3", "Итого:"))
	require.NoError(t, f.SetCellValue("Sheet1", "B3", "5 000,00"))
	_, err := f.NewSheet("Реквизиты")
	require.NoError(t, err)
	require.NoError(t, f.SetCellValue("Реквизиты", "A1", "ИНН 7810000000"))

	path := filepath.Join(t.TempDir(), "invoice.xlsx")
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	doc, err := newTestReader(Config{}).Read(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, constants.FormatXLSX, doc.Format)
	assert.Equal(t, 2, doc.Pages)

	lines := strings.Split(strings.TrimSpace(doc.Text), "\n")
	assert.Equal(t, []string{
		SheetHeader("Sheet1"),
		"Счет на оплату № 12 от 04.11.2024",
		"Итого: 5 000,00",
		"",
		SheetHeader("Реквизиты"),
		"ИНН 7810000000",
	}, lines)
}

func TestReadRejectsUnsupported(t *testing.T) {
	path := writeFile(t, "scan.png", []byte{0x89, 'P', 'N', 'G'})

	_, err := newTestReader(Config{}).Read(context.Background(), path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrUnsupportedFormat))
}

func TestReadRejectsOversized(t *testing.T) {
	path := writeFile(t, "big.txt", []byte(strings.Repeat("x", 64)))

	_, err := newTestReader(Config{MaxFileBytes: 16}).Read(context.Background(), path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrInvalidInput))
}

func TestReadMissingFile(t *testing.T) {
	_, err := newTestReader(Config{}).Read(context.Background(), filepath.Join(t.TempDir(), "none.txt"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestReadMalformedPDF(t *testing.T) {
	path := writeFile(t, "broken.pdf", []byte("%PDF-1.4\nnot really a pdf"))

	_, err := newTestReader(Config{}).Read(context.Background(), path)
	assert.Error(t, err)
}

func TestReadCancelled(t *testing.T) {
	path := writeFile(t, "invoice.txt", []byte("Счет"))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestReader(Config{}).Read(ctx, path)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewConfig(t *testing.T) {
	cfg := NewConfig(common.SourceConfig{MaxFileBytes: 10, MaxPages: 3})
	assert.Equal(t, Config{MaxFileBytes: 10, MaxPages: 3}, cfg)
}
