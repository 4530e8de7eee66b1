package source

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/joseph-ayodele/invoice-parser/constants"
	"github.com/joseph-ayodele/invoice-parser/internal/common"
)

type Config struct {
	MaxFileBytes int64 // files above this size are refused; 0 -> 32 MiB
	MaxPages     int   // PDF pages read; 0 = no limit
}

// NewConfig converts the environment-level source settings.
func NewConfig(c common.SourceConfig) Config {
	return Config{MaxFileBytes: c.MaxFileBytes, MaxPages: c.MaxPages}
}

// Document is the text blob handed to the engine plus how it was obtained.
type Document struct {
	Path     string
	Text     string
	Format   constants.Format
	Pages    int    // sheets for spreadsheets
	Method   string // "text" | "text-cp1251" | "xlsx-sheets" | "pdf-text"
	Duration time.Duration
	Warnings []string
}

type Reader struct {
	cfg    Config
	logger *slog.Logger
}

func NewReader(cfg Config, logger *slog.Logger) *Reader {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.MaxFileBytes <= 0 {
		cfg.MaxFileBytes = 32 << 20
	}
	return &Reader{cfg: cfg, logger: logger}
}

// Read picks a strategy based on file extension.
func (r *Reader) Read(ctx context.Context, path string) (*Document, error) {
	start := time.Now()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, common.NewAppError("SOURCE_IS_DIR", path, common.ErrInvalidInput)
	}
	if info.Size() > r.cfg.MaxFileBytes {
		return nil, common.NewAppError("SOURCE_TOO_LARGE",
			fmt.Sprintf("%s is %d bytes, limit %d", path, info.Size(), r.cfg.MaxFileBytes), common.ErrInvalidInput)
	}

	ext := constants.NormalizeExt(filepath.Ext(path))
	r.logger.Debug("source.read.start", "path", path, "ext", ext, "size", info.Size())

	var doc *Document
	switch constants.MapExtToFormat(ext) {
	case constants.FormatTXT:
		doc, err = r.readText(path)
	case constants.FormatXLSX:
		doc, err = r.readSheets(ctx, path)
	case constants.FormatPDF:
		doc, err = r.readPDF(ctx, path)
	default:
		r.logger.Error("source.read.unsupported", "path", path, "ext", ext)
		return nil, common.NewAppError("UNSUPPORTED_FORMAT", fmt.Sprintf("extension %q", ext), common.ErrUnsupportedFormat)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	doc.Path = path
	doc.Duration = time.Since(start)
	r.logger.Debug("source.read.ok",
		"path", path,
		"method", doc.Method,
		"pages", doc.Pages,
		"text_len", len(doc.Text),
		"elapsed_ms", doc.Duration.Milliseconds(),
	)
	return doc, nil
}
