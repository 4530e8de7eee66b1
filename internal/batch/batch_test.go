package batch

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/invoice-parser/constants"
	"github.com/joseph-ayodele/invoice-parser/internal/invoice"
	"github.com/joseph-ayodele/invoice-parser/internal/source"
)

const sampleInvoice = `Счет на оплату № 36 от 04.11.2024
Поставщик: ООО "Ромашка", ИНН 7810000000
Итого к оплате: 12 500,00
В том числе НДС 20%: 2 083,33`

func silentLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, body := range files {
		path := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	}
	return root
}

func newTestRunner(cfg Config) *Runner {
	engine := invoice.NewEngine(invoice.DefaultConfig(), silentLogger())
	reader := source.NewReader(source.Config{}, silentLogger())
	return NewRunner(engine, reader, cfg, silentLogger())
}

func TestRunClassifiesFiles(t *testing.T) {
	root := writeTree(t, map[string]string{
		"a_invoice.txt":     sampleInvoice,
		"b_form.txt":        "Анкета участника",
		"nested/c_bad.pdf":  "not a pdf",
		"notes.md":          sampleInvoice,
		".hidden/d.txt":     sampleInvoice,
		".e_hidden_inv.txt": sampleInvoice,
	})

	var mu sync.Mutex
	var seen []string
	report, err := newTestRunner(Config{Workers: 2, SkipHidden: true}).Run(context.Background(), root, func(fr FileResult) {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, filepath.Base(fr.Path))
	})
	require.NoError(t, err)
	require.NotNil(t, report)

	assert.NotEmpty(t, report.RunID)
	assert.Equal(t, uint32(3), report.Stats.Matched)
	assert.Equal(t, uint32(1), report.Stats.OK)
	assert.Equal(t, uint32(1), report.Stats.NotInvoice)
	assert.Equal(t, uint32(1), report.Stats.Failed)
	assert.ElementsMatch(t, []string{"a_invoice.txt", "b_form.txt", "c_bad.pdf"}, seen)

	require.Len(t, report.Files, 3)
	assert.Equal(t, "a_invoice.txt", filepath.Base(report.Files[0].Path))
	assert.Equal(t, constants.StatusOK, report.Files[0].Status)
	require.NotNil(t, report.Files[0].Result.Invoice)
	assert.Equal(t, "36", *report.Files[0].Result.Invoice.InvoiceNumber)

	assert.Equal(t, constants.StatusNotInvoice, report.Files[1].Status)
	assert.Equal(t, constants.StatusError, report.Files[2].Status)
	assert.Error(t, report.Files[2].Err)
}

func TestRunHonoursExtensions(t *testing.T) {
	root := writeTree(t, map[string]string{
		"a.txt": sampleInvoice,
		"b.pdf": "garbage",
	})

	report, err := newTestRunner(Config{Extensions: []string{".TXT"}}).Run(context.Background(), root, nil)
	require.NoError(t, err)
	assert.Equal(t, uint32(1), report.Stats.Matched)
	assert.Equal(t, uint32(0), report.Stats.Failed)
}

func TestRunMissingRoot(t *testing.T) {
	_, err := newTestRunner(Config{}).Run(context.Background(), filepath.Join(t.TempDir(), "absent"), nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))

	_, err = newTestRunner(Config{}).Run(context.Background(), "  ", nil)
	assert.Error(t, err)
}

func TestRunCancelled(t *testing.T) {
	root := writeTree(t, map[string]string{"a.txt": sampleInvoice})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := newTestRunner(Config{}).Run(ctx, root, nil)
	assert.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, report)
	assert.Equal(t, uint32(0), report.Stats.OK)
}

type stubReader struct{ err error }

func (s stubReader) Read(context.Context, string) (*source.Document, error) {
	return nil, s.err
}

func TestRunRecordsReaderErrors(t *testing.T) {
	root := writeTree(t, map[string]string{"a.txt": sampleInvoice})
	engine := invoice.NewEngine(invoice.DefaultConfig(), silentLogger())
	r := NewRunner(engine, stubReader{err: errors.New("boom")}, Config{}, silentLogger())

	report, err := r.Run(context.Background(), root, nil)
	require.NoError(t, err)
	require.Len(t, report.Files, 1)
	assert.EqualError(t, report.Files[0].Err, "boom")
	assert.Equal(t, uint32(1), report.Stats.Failed)
}
