// Package batch parses every supported file under a directory with a bounded
// number of workers.
package batch

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/joseph-ayodele/invoice-parser/constants"
	"github.com/joseph-ayodele/invoice-parser/internal/common"
	"github.com/joseph-ayodele/invoice-parser/internal/invoice"
	"github.com/joseph-ayodele/invoice-parser/internal/source"
)

type Parser interface {
	Parse(text string) invoice.Result
}

type Reader interface {
	Read(ctx context.Context, path string) (*source.Document, error)
}

type Config struct {
	Workers     int           // 0 -> 4
	Extensions  []string      // empty -> constants.AllowedExtensions
	FileTimeout time.Duration // 0 = none
	SkipHidden  bool
}

func NewConfig(c common.BatchConfig) Config {
	return Config{
		Workers:     c.Workers,
		Extensions:  c.Extensions,
		FileTimeout: c.FileTimeout,
		SkipHidden:  true,
	}
}

// FileResult is the per-file outcome. Result is meaningful unless Status is
// constants.StatusError.
type FileResult struct {
	Path     string
	Status   constants.ResultStatus
	Result   invoice.Result
	Document *source.Document
	Err      error
	Duration time.Duration
}

type Report struct {
	RunID      string
	Root       string
	StartedAt  time.Time
	FinishedAt time.Time
	Files      []FileResult // walk order
	Stats      Stats
}

type Runner struct {
	parser Parser
	reader Reader
	cfg    Config
	logger *slog.Logger
}

func NewRunner(parser Parser, reader Reader, cfg Config, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 4
	}
	return &Runner{parser: parser, reader: reader, cfg: cfg, logger: logger}
}

// Run parses every matching file under dir. onDone, when non-nil, is called
// once per file as it finishes; calls are serialized. Per-file failures are
// recorded in the report; the returned error is set only when the walk fails
// or ctx is cancelled.
func (r *Runner) Run(ctx context.Context, dir string, onDone func(FileResult)) (*Report, error) {
	report := &Report{
		RunID:     uuid.NewString(),
		Root:      dir,
		StartedAt: time.Now().UTC(),
	}
	ctx = common.WithRunID(ctx, report.RunID)
	logger := r.logger.With("run_id", report.RunID)

	paths, walkFailed, err := collect(dir, extSet(r.cfg.Extensions), r.cfg.SkipHidden, &report.Stats)
	if err != nil {
		logger.Error("batch.walk.failed", "root", dir, "error", err)
		return nil, err
	}
	logger.Info("batch.run.start", "root", dir, "files", len(paths), "workers", r.cfg.Workers)

	results := make([]FileResult, len(paths))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.cfg.Workers)
	for i, path := range paths {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			fr := r.parseFile(gctx, path)
			results[i] = fr

			mu.Lock()
			defer mu.Unlock()
			switch fr.Status {
			case constants.StatusOK:
				report.Stats.OK++
			case constants.StatusNotInvoice:
				report.Stats.NotInvoice++
			default:
				report.Stats.Failed++
			}
			if onDone != nil {
				onDone(fr)
			}
			return nil
		})
	}
	_ = g.Wait()

	for _, fr := range results {
		if fr.Path != "" {
			report.Files = append(report.Files, fr)
		}
	}
	report.Files = append(report.Files, walkFailed...)
	report.FinishedAt = time.Now().UTC()

	logger.Info("batch.run.done",
		"matched", report.Stats.Matched,
		"ok", report.Stats.OK,
		"not_invoice", report.Stats.NotInvoice,
		"failed", report.Stats.Failed,
		"elapsed_ms", report.FinishedAt.Sub(report.StartedAt).Milliseconds(),
	)
	if err := ctx.Err(); err != nil {
		return report, err
	}
	return report, nil
}

func (r *Runner) parseFile(ctx context.Context, path string) FileResult {
	start := time.Now()
	fr := FileResult{Path: path}
	if r.cfg.FileTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.cfg.FileTimeout)
		defer cancel()
	}

	doc, err := r.reader.Read(ctx, path)
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		fr.Status = constants.StatusError
		fr.Err = err
		fr.Duration = time.Since(start)
		r.logger.Warn("batch.file.failed",
			"run_id", common.RunIDFromContext(ctx),
			"path", path,
			"error", err,
		)
		return fr
	}

	fr.Document = doc
	fr.Result = r.parser.Parse(doc.Text)
	fr.Status = fr.Result.Status()
	fr.Duration = time.Since(start)
	r.logger.Debug("batch.file.done",
		"run_id", common.RunIDFromContext(ctx),
		"path", path,
		"status", fr.Status,
		"elapsed_ms", fr.Duration.Milliseconds(),
	)
	return fr
}
