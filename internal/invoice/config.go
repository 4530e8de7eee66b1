package invoice

import (
	"github.com/shopspring/decimal"

	"github.com/joseph-ayodele/invoice-parser/constants"
	"github.com/joseph-ayodele/invoice-parser/internal/common"
)

// Config tunes the engine. Zero values fall back to defaults in NewEngine.
type Config struct {
	// MinTotal is exclusive: totals must be strictly greater.
	MinTotal decimal.Decimal
	// MaxTotal is inclusive; larger numbers are taken for accounts or IDs.
	MaxTotal       decimal.Decimal
	DefaultVATRate decimal.Decimal
	// RateTolerance is the distance in percentage points within which a
	// derived rate snaps to a standard one.
	RateTolerance decimal.Decimal

	BuyerTaxIDs []string
	// BuyerNames are lowercase fragments; any name containing one is the buyer.
	BuyerNames []string

	KnownCompanies        []KnownCompany
	DisableKnownCompanies bool

	// YearCorrections rewrites extracted years, e.g. {2025: 2024}. Empty by default.
	YearCorrections map[int]int

	// DisabledRules switches rules off by name.
	DisabledRules []string
}

// DefaultConfig returns the configuration NewEngine falls back to.
func DefaultConfig() Config {
	return Config{
		MinTotal:       decimal.NewFromInt(100),
		MaxTotal:       decimal.NewFromInt(1_000_000_000),
		DefaultVATRate: decimal.NewFromInt(constants.StandardVATRate),
		RateTolerance:  decimal.NewFromInt(1),
		BuyerTaxIDs:    []string{constants.DefaultBuyerTaxID},
		BuyerNames:     append([]string(nil), constants.DefaultBuyerNames...),
		KnownCompanies: DefaultKnownCompanies(),
	}
}

// NewConfig converts the environment-level engine settings.
func NewConfig(c common.EngineConfig) Config {
	return Config{
		MinTotal:              decimal.NewFromFloat(c.MinTotal),
		MaxTotal:              decimal.NewFromFloat(c.MaxTotal),
		DefaultVATRate:        decimal.NewFromFloat(c.DefaultVATRate),
		RateTolerance:         decimal.NewFromFloat(c.RateTolerance),
		BuyerTaxIDs:           c.BuyerTaxIDs,
		BuyerNames:            c.BuyerNames,
		DisableKnownCompanies: !c.KnownCompanies,
		YearCorrections:       c.YearCorrections,
		DisabledRules:         c.DisabledRules,
	}
}

func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.MinTotal.Sign() <= 0 {
		c.MinTotal = def.MinTotal
	}
	if c.MaxTotal.Sign() <= 0 {
		c.MaxTotal = def.MaxTotal
	}
	if c.DefaultVATRate.Sign() <= 0 {
		c.DefaultVATRate = def.DefaultVATRate
	}
	if c.RateTolerance.Sign() <= 0 {
		c.RateTolerance = def.RateTolerance
	}
	if c.BuyerTaxIDs == nil {
		c.BuyerTaxIDs = def.BuyerTaxIDs
	}
	if c.BuyerNames == nil {
		c.BuyerNames = def.BuyerNames
	}
	if c.DisableKnownCompanies {
		c.KnownCompanies = nil
	} else if c.KnownCompanies == nil {
		c.KnownCompanies = def.KnownCompanies
	}
	return c
}
