package invoice

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/joseph-ayodele/invoice-parser/constants"
)

// VATInfo holds what the text says about VAT. Either part may be unset.
type VATInfo struct {
	Amount decimal.NullDecimal
	Rate   decimal.NullDecimal
}

func (v VATInfo) String() string {
	var parts []string
	if v.Amount.Valid {
		parts = append(parts, "amount="+v.Amount.Decimal.String())
	}
	if v.Rate.Valid {
		parts = append(parts, "rate="+v.Rate.Decimal.String()+"%")
	}
	return strings.Join(parts, " ")
}

const (
	ratePattern = `(\d{1,2})\s*%`
	// notRate stops a rate-less pattern from reading "20%" as an amount.
	notRate = `\s*(?:[^%\s\d]|$)`
)

// vatRule builds an amount-bearing rule. rateGroup is zero when the pattern
// carries no rate.
func vatRule(name, desc, pattern string, rateGroup, amountGroup int, guardWithout bool) Rule[VATInfo] {
	return Rule[VATInfo]{
		Name:        name,
		Description: desc,
		Pattern:     regexp.MustCompile(`(?i)` + pattern),
		EachMatch:   guardWithout,
		Extract: func(s *scan, m match) (VATInfo, error) {
			if guardWithout && s.precededByWithout(m.start) {
				return VATInfo{}, rejectf("без НДС")
			}
			amount, err := parseAmount(m.group(amountGroup))
			if err != nil {
				return VATInfo{}, err
			}
			hit := VATInfo{Amount: decimal.NewNullDecimal(amount)}
			if rateGroup > 0 {
				rate, err := decimal.NewFromString(m.group(rateGroup))
				if err != nil {
					return VATInfo{}, rejectf("rate %q", m.group(rateGroup))
				}
				hit.Rate = decimal.NewNullDecimal(rate)
			}
			return hit, nil
		},
	}
}

var vatAmountRules = []Rule[VATInfo]{
	{
		Name:        "vat.rub_kop",
		Description: "НДС 20% - 2 721 руб. 60 коп",
		Pattern:     regexp.MustCompile(`(?i)НДС\s*` + ratePattern + `\s*[-–—:]?\s*(\d{1,3}(?: \d{3})+|\d+)\s*руб\.?\s*(\d{2})\s*коп`),
		Extract: func(_ *scan, m match) (VATInfo, error) {
			rub, err := parseAmount(m.group(2))
			if err != nil {
				return VATInfo{}, err
			}
			kop, err := decimal.NewFromString(m.group(3))
			if err != nil {
				return VATInfo{}, rejectf("kopecks %q", m.group(3))
			}
			rate, err := decimal.NewFromString(m.group(1))
			if err != nil {
				return VATInfo{}, rejectf("rate %q", m.group(1))
			}
			return VATInfo{
				Amount: decimal.NewNullDecimal(rub.Add(kop.Shift(-2))),
				Rate:   decimal.NewNullDecimal(rate),
			}, nil
		},
	},
	vatRule("vat.including_rate", "В том числе НДС (20%): 2721.60",
		`в\s*том\s*числе\s*НДС\s*\(?\s*`+ratePattern+`\s*\)?[\s:|]*`+amountPattern, 1, 2, false),
	vatRule("vat.including", "В том числе НДС: 2721.60",
		`в\s*том\s*числе\s*НДС[\s:|]*`+amountPattern+notRate, 0, 1, false),
	vatRule("vat.rate_separator", "НДС 20%: 2721.60",
		`НДС\s*`+ratePattern+`\s*[-–—:]\s*`+amountPattern, 1, 2, false),
	vatRule("vat.rate_parens", "НДС (20%): 2721.60",
		`НДС\s*\(`+ratePattern+`\)[\s:|]*`+amountPattern, 1, 2, false),
	vatRule("vat.rate_space", "НДС 20% 2721.60",
		`НДС\s*`+ratePattern+`\s+`+amountPattern, 1, 2, false),
	vatRule("vat.bare", "НДС: 2721.60",
		`НДС[\s:|]+`+amountPattern+notRate, 0, 1, true),
	vatRule("vat.itogo_line", "Итого ... НДС ... 2721.60",
		`Итого[^\n]*?НДС[^\n]*?`+amountPattern+notRate, 0, 1, true),
}

func rateRule(name, desc, pattern string, caseFold bool) Rule[VATInfo] {
	if caseFold {
		pattern = `(?i)` + pattern
	}
	return Rule[VATInfo]{
		Name:        name,
		Description: desc,
		Pattern:     regexp.MustCompile(pattern),
		Extract: func(_ *scan, m match) (VATInfo, error) {
			rate, err := decimal.NewFromString(m.group(1))
			if err != nil {
				return VATInfo{}, rejectf("rate %q", m.group(1))
			}
			return VATInfo{Rate: decimal.NewNullDecimal(rate)}, nil
		},
	}
}

// mentionRule yields the default rate for a VAT mention without a number.
func mentionRule(name, desc, pattern string) Rule[VATInfo] {
	return Rule[VATInfo]{
		Name:        name,
		Description: desc,
		Pattern:     regexp.MustCompile(`(?i)` + pattern),
		EachMatch:   true,
		Extract: func(s *scan, m match) (VATInfo, error) {
			if s.precededByWithout(m.start) {
				return VATInfo{}, rejectf("без НДС")
			}
			return VATInfo{Rate: decimal.NewNullDecimal(s.eng.cfg.DefaultVATRate)}, nil
		},
	}
}

// vatRateRules run only when no amount was found. OCR often loses the
// leading letters of "НДС".
var vatRateRules = []Rule[VATInfo]{
	rateRule("vat_rate.explicit", "НДС 20%", `НДС\s*`+ratePattern, true),
	rateRule("vat_rate.ocr_ds", "ДС 20%", `Н?ДС\s*`+ratePattern, true),
	rateRule("vat_rate.ocr_s", "С 20%", `(?:^|[^\p{L}\p{N}_])С\s*`+ratePattern, false),
	mentionRule("vat_rate.mention_including", "в том числе НДС", `в\s*том\s*числе\s*Н?ДС`),
	mentionRule("vat_rate.mention", "НДС: 2721", `Н?ДС[:\s]+\d`),
}

// precededByWithout reports a "без" right before the match, as in "Без НДС".
func (s *scan) precededByWithout(start int) bool {
	before := strings.TrimRight(strings.ToLower(s.text[:start]), " :\t(")
	return strings.HasSuffix(before, "без")
}

func acceptVAT(_ *scan, h VATInfo) error {
	if h.Amount.Valid && h.Amount.Decimal.Sign() <= 0 {
		return rejectf("non-positive amount")
	}
	if h.Rate.Valid && (h.Rate.Decimal.Sign() <= 0 || h.Rate.Decimal.GreaterThan(decimal.NewFromInt(99))) {
		return rejectf("rate out of range")
	}
	return nil
}

func (s *scan) vatInfo() VATInfo {
	if v, _, ok := evaluate(s, FieldVAT, s.eng.vatRules, acceptVAT); ok {
		return v
	}
	if v, _, ok := evaluate(s, FieldVATRate, s.eng.rateRules, acceptVAT); ok {
		return v
	}
	return VATInfo{}
}

// DeriveVATRate recovers the rate from a VAT amount and a VAT-inclusive
// total. It reports a rate only when the ratio lands within the configured
// tolerance of one of the standard rates.
func (e *Engine) DeriveVATRate(vat, total decimal.Decimal) (decimal.Decimal, bool) {
	if vat.Sign() <= 0 || !total.GreaterThan(vat) {
		return decimal.Zero, false
	}
	ratio := vat.Div(total.Sub(vat)).Mul(decimal.NewFromInt(100))
	for _, std := range []int64{constants.StandardVATRate, constants.ReducedVATRate} {
		rate := decimal.NewFromInt(std)
		if ratio.Sub(rate).Abs().LessThanOrEqual(e.cfg.RateTolerance) {
			return rate, true
		}
	}
	return decimal.Zero, false
}
