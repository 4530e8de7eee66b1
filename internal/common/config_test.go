package common

import (
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg := LoadConfig()

	assert.Equal(t, 100.0, cfg.Engine.MinTotal)
	assert.Equal(t, 1e9, cfg.Engine.MaxTotal)
	assert.Equal(t, 20.0, cfg.Engine.DefaultVATRate)
	assert.Equal(t, []string{"784802613697"}, cfg.Engine.BuyerTaxIDs)
	assert.True(t, cfg.Engine.KnownCompanies)
	assert.Empty(t, cfg.Engine.YearCorrections)
	assert.Equal(t, 4, cfg.Batch.Workers)
	assert.Equal(t, 30*time.Second, cfg.Batch.FileTimeout)
	assert.Equal(t, ":8090", cfg.Server.GRPCAddr)
	assert.Equal(t, int64(32<<20), cfg.Source.MaxFileBytes)
	assert.Zero(t, cfg.Source.MaxPages)
	require.NoError(t, cfg.Validate())
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("INVOICE_MIN_TOTAL", "50")
	t.Setenv("INVOICE_BUYER_TAX_IDS", "7801514385, 784802613697,")
	t.Setenv("INVOICE_KNOWN_COMPANIES", "false")
	t.Setenv("INVOICE_YEAR_CORRECTIONS", "2025:2024,bad,19x:1")
	t.Setenv("BATCH_WORKERS", "not-a-number")

	cfg := LoadConfig()

	assert.Equal(t, 50.0, cfg.Engine.MinTotal)
	assert.Equal(t, []string{"7801514385", "784802613697"}, cfg.Engine.BuyerTaxIDs)
	assert.False(t, cfg.Engine.KnownCompanies)
	assert.Equal(t, map[int]int{2025: 2024}, cfg.Engine.YearCorrections)
	assert.Equal(t, 4, cfg.Batch.Workers, "unparsable values fall back to the default")
}

func TestValidateRejectsBadValues(t *testing.T) {
	cfg := LoadConfig()
	cfg.Engine.BuyerTaxIDs = []string{"12345"}
	cfg.Engine.DefaultVATRate = 120

	err := cfg.Validate()
	require.Error(t, err)

	var appErr *AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "CONFIG_ERROR", appErr.Code)
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Contains(t, appErr.Message, "INVOICE_BUYER_TAX_IDS")
	assert.Contains(t, appErr.Message, "INVOICE_DEFAULT_VAT_RATE")
}

func TestValidateTotalsOrder(t *testing.T) {
	cfg := LoadConfig()
	cfg.Engine.MaxTotal = 10

	assert.ErrorIs(t, cfg.Validate(), ErrInvalidInput)
}

func TestParseLogLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		" WARN ":  slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"info":    slog.LevelInfo,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLogLevel(in), in)
	}
}
