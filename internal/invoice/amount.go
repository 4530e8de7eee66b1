package invoice

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// amountPattern captures a money literal: digits with optional space, comma
// or dot thousand groups and an optional 1-2 digit fraction.
const amountPattern = `(\d+(?:[ ,.]\d{3})*(?:[.,]\d{1,2})?)`

var reDecimalTail = regexp.MustCompile(`[.,](\d{1,2})$`)

// splitAmount separates a captured literal into its integer digits and
// fraction. The last comma or dot followed by one or two trailing digits is
// the decimal separator; every other space, comma or dot is a thousand
// separator.
func splitAmount(raw string) (intDigits, frac string) {
	intPart := raw
	if loc := reDecimalTail.FindStringSubmatchIndex(raw); loc != nil {
		intPart, frac = raw[:loc[0]], raw[loc[2]:loc[3]]
	}
	return strings.NewReplacer(" ", "", ",", "", ".", "").Replace(intPart), frac
}

func parseAmount(raw string) (decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Zero, errNoValue
	}
	intPart, frac := splitAmount(raw)
	if intPart == "" {
		return decimal.Zero, rejectf("no integer part in %q", raw)
	}
	lit := intPart
	if frac != "" {
		lit += "." + frac
	}
	d, err := decimal.NewFromString(lit)
	if err != nil {
		return decimal.Zero, rejectf("malformed amount %q", raw)
	}
	return d, nil
}

// integerDigits returns the integer part of d as a digit string.
func integerDigits(d decimal.Decimal) string {
	return d.Truncate(0).String()
}
