package common

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/joseph-ayodele/invoice-parser/constants"
)

// Config holds all application configuration
type Config struct {
	Engine   EngineConfig
	Source   SourceConfig
	Batch    BatchConfig
	Server   ServerConfig
	LogLevel string
}

// EngineConfig holds extraction-engine tuning
type EngineConfig struct {
	MinTotal        float64
	MaxTotal        float64
	DefaultVATRate  float64
	RateTolerance   float64
	BuyerTaxIDs     []string
	BuyerNames      []string
	KnownCompanies  bool
	YearCorrections map[int]int
	DisabledRules   []string
}

// SourceConfig bounds the file readers
type SourceConfig struct {
	MaxFileBytes int64
	MaxPages     int
}

// BatchConfig holds directory batch configuration
type BatchConfig struct {
	Workers     int
	Extensions  []string
	FileTimeout time.Duration
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	GRPCAddr     string
	MaxTextBytes int
}

// LoadConfig loads configuration from environment variables. A .env file in
// the working directory is read first when present.
func LoadConfig() *Config {
	_ = godotenv.Load()

	return &Config{
		Engine: EngineConfig{
			MinTotal:        getEnvAsFloat64("INVOICE_MIN_TOTAL", 100),
			MaxTotal:        getEnvAsFloat64("INVOICE_MAX_TOTAL", 1_000_000_000),
			DefaultVATRate:  getEnvAsFloat64("INVOICE_DEFAULT_VAT_RATE", constants.StandardVATRate),
			RateTolerance:   getEnvAsFloat64("INVOICE_RATE_TOLERANCE", 1.0),
			BuyerTaxIDs:     getEnvAsList("INVOICE_BUYER_TAX_IDS", []string{constants.DefaultBuyerTaxID}),
			BuyerNames:      getEnvAsList("INVOICE_BUYER_NAMES", constants.DefaultBuyerNames),
			KnownCompanies:  getEnvAsBool("INVOICE_KNOWN_COMPANIES", true),
			YearCorrections: getEnvAsYearMap("INVOICE_YEAR_CORRECTIONS"),
			DisabledRules:   getEnvAsList("INVOICE_DISABLED_RULES", nil),
		},
		Source: SourceConfig{
			MaxFileBytes: int64(getEnvAsInt("SOURCE_MAX_FILE_BYTES", 32<<20)),
			MaxPages:     getEnvAsInt("SOURCE_MAX_PAGES", 0),
		},
		Batch: BatchConfig{
			Workers:     getEnvAsInt("BATCH_WORKERS", 4),
			Extensions:  getEnvAsList("BATCH_EXTENSIONS", []string{".txt", ".xlsx", ".xlsm", ".pdf"}),
			FileTimeout: getEnvAsDuration("BATCH_FILE_TIMEOUT", 30*time.Second),
		},
		Server: ServerConfig{
			GRPCAddr:     getEnv("GRPC_ADDR", ":8090"),
			MaxTextBytes: getEnvAsInt("GRPC_MAX_TEXT_BYTES", 2<<20),
		},
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat64(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// getEnvAsList splits a comma-separated value, dropping empty items.
func getEnvAsList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// getEnvAsYearMap parses "2025:2024,2019:2020". Malformed pairs are skipped.
func getEnvAsYearMap(key string) map[int]int {
	out := map[int]int{}
	for _, pair := range getEnvAsList(key, nil) {
		from, to, ok := strings.Cut(pair, ":")
		if !ok {
			continue
		}
		f, err1 := strconv.Atoi(strings.TrimSpace(from))
		t, err2 := strconv.Atoi(strings.TrimSpace(to))
		if err1 != nil || err2 != nil {
			continue
		}
		out[f] = t
	}
	return out
}

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	v := NewValidator()
	v.Field("INVOICE_MIN_TOTAL", c.Engine.MinTotal, NonNegative)
	v.Field("INVOICE_MAX_TOTAL", c.Engine.MaxTotal, Positive)
	v.Field("INVOICE_DEFAULT_VAT_RATE", c.Engine.DefaultVATRate, Percentage)
	v.Field("INVOICE_RATE_TOLERANCE", c.Engine.RateTolerance, NonNegative)
	for _, id := range c.Engine.BuyerTaxIDs {
		v.Field("INVOICE_BUYER_TAX_IDS", id, TaxID)
	}
	v.Field("SOURCE_MAX_FILE_BYTES", float64(c.Source.MaxFileBytes), Positive)
	v.Field("SOURCE_MAX_PAGES", float64(c.Source.MaxPages), NonNegative)
	v.Field("BATCH_WORKERS", float64(c.Batch.Workers), Positive)
	v.Field("GRPC_ADDR", c.Server.GRPCAddr, Required)
	if v.HasErrors() {
		return NewAppError("CONFIG_ERROR", v.ErrorMessage(), ErrInvalidInput)
	}
	if c.Engine.MaxTotal <= c.Engine.MinTotal {
		return NewAppError("CONFIG_ERROR",
			fmt.Sprintf("INVOICE_MAX_TOTAL (%.2f) must exceed INVOICE_MIN_TOTAL (%.2f)", c.Engine.MaxTotal, c.Engine.MinTotal),
			ErrInvalidInput)
	}
	return nil
}

// ParseLogLevel maps LOG_LEVEL values to slog levels; unknown values mean info.
func ParseLogLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
