package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joseph-ayodele/invoice-parser/internal/common"
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
		text   = flag.String("text", "", "invoice text to parse")
		file   = flag.String("file", "", "path to a .txt, .xlsx or .pdf file")
		format = flag.String("format", "json", "output format: json or readable")
		debug  = flag.Bool("debug", false, "log every rule decision and include the trace in JSON output")
	)
	flag.Parse()

	if (*text == "") == (*file == "") {
		printError("Error: exactly one of --text or --file is required\n")
		os.Exit(2)
	}
	if *format != "json" && *format != "readable" {
		printError("Error: --format must be json or readable\n")
		os.Exit(2)
	}

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		printError("Error: %v\n", err)
		os.Exit(1)
	}

	level := common.ParseLogLevel(cfg.LogLevel)
	if *debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	input := *text
	if *file != "" {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		doc, err := source.NewReader(source.NewConfig(cfg.Source), logger).Read(ctx, *file)
		if err != nil {
			logger.Error("failed to read file", "path", *file, "error", err)
			os.Exit(1)
		}
		for _, w := range doc.Warnings {
			logger.Warn("source warning", "path", *file, "warning", w)
		}
		input = doc.Text
	}

	engine := invoice.NewEngine(invoice.NewConfig(cfg.Engine), logger)
	res := engine.Parse(input)

	if *format == "readable" {
		fmt.Println(res.Readable())
		return
	}

	var out []byte
	var err error
	if *debug {
		out, err = invoice.MarshalResultWithTrace(res)
	} else {
		out, err = invoice.MarshalResult(res)
	}
	if err != nil {
		logger.Error("failed to marshal result", "error", err)
		os.Exit(1)
	}
	fmt.Println(string(out))
}
