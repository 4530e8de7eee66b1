package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/schollz/progressbar/v3"

	"github.com/joseph-ayodele/invoice-parser/internal/batch"
	"github.com/joseph-ayodele/invoice-parser/internal/common"
	"github.com/joseph-ayodele/invoice-parser/internal/export"
	"github.com/joseph-ayodele/invoice-parser/internal/invoice"
	"github.com/joseph-ayodele/invoice-parser/internal/source"
)

// printError prints an error message to stderr, falling back to stdout if stderr fails
func printError(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

func main() {
	var (
		dir     = flag.String("dir", "", "directory to process invoices from (required)")
		out     = flag.String("out", "", "output XLSX file path (optional, defaults to parent directory)")
		workers = flag.Int("workers", 0, "parallel workers (defaults to BATCH_WORKERS)")
		noBar   = flag.Bool("no-progress", false, "disable the progress bar")
	)
	flag.Parse()

	if *dir == "" {
		printError("Error: --dir is required\n")
		os.Exit(1)
	}
	if *out == "" {
		*out = filepath.Join(filepath.Dir(filepath.Clean(*dir)), "invoices.xlsx")
	}

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		printError("Error: %v\n", err)
		os.Exit(1)
	}
	if *workers > 0 {
		cfg.Batch.Workers = *workers
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: common.ParseLogLevel(cfg.LogLevel),
	}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	engine := invoice.NewEngine(invoice.NewConfig(cfg.Engine), logger)
	reader := source.NewReader(source.NewConfig(cfg.Source), logger)
	runner := batch.NewRunner(engine, reader, batch.NewConfig(cfg.Batch), logger)

	var onDone func(batch.FileResult)
	if !*noBar {
		bar := progressbar.NewOptions(-1,
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionSetDescription("Parsing invoices"),
			progressbar.OptionShowCount(),
		)
		defer func() { _ = bar.Finish() }()
		onDone = func(batch.FileResult) { _ = bar.Add(1) }
	}

	report, err := runner.Run(ctx, *dir, onDone)
	if report == nil {
		logger.Error("batch failed", "dir", *dir, "error", err)
		os.Exit(1)
	}
	if err != nil {
		logger.Warn("batch interrupted, writing partial report", "error", err)
	}

	xlsx, err := export.NewService(logger).WriteXLSX(report)
	if err != nil {
		logger.Error("failed to build report", "error", err)
		os.Exit(1)
	}
	if err := os.WriteFile(*out, xlsx, 0o644); err != nil {
		logger.Error("failed to write report", "path", *out, "error", err)
		os.Exit(1)
	}

	logger.Info("batch report written",
		"path", *out,
		"matched", report.Stats.Matched,
		"ok", report.Stats.OK,
		"not_invoice", report.Stats.NotInvoice,
		"failed", report.Stats.Failed,
	)
}
