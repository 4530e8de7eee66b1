package invoice

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// totalHit keeps the literal's integer digits next to the parsed value so
// that zero-prefixed identifiers like BICs are still recognised.
type totalHit struct {
	decimal.Decimal
	digits string
}

func totalRule(name, desc, pattern string) Rule[totalHit] {
	return Rule[totalHit]{
		Name:        name,
		Description: desc,
		Pattern:     regexp.MustCompile(`(?i)` + pattern),
		Extract: func(_ *scan, m match) (totalHit, error) {
			raw := strings.TrimSpace(m.group(1))
			d, err := parseAmount(raw)
			if err != nil {
				return totalHit{}, err
			}
			digits, _ := splitAmount(raw)
			return totalHit{Decimal: d, digits: digits}, nil
		},
	}
}

// totalRules run most specific first. Only the leftmost hit of each rule is
// considered before moving on.
var totalRules = []Rule[totalHit]{
	totalRule("total.items_summary", "Всего наименований 5, на сумму 16 329,60 руб",
		`Всего\s+наименований\s+\d+,?\s*на\s+сумму[\s:]*`+amountPattern+`\s*(?:RUB|руб)`),
	totalRule("total.to_pay", "Всего к оплате: 16329.60",
		`(?:всего\s*к\s*д?оплате|к\s*оплате)[\s:|]*`+amountPattern),
	totalRule("total.with_vat", "Итого с НДС: 16329.60",
		`итого\s*с\s*ндс[\s:|]*`+amountPattern),
	totalRule("total.itogo", "Итого: 13608.00",
		`(?:итого|total)[\s:|]*\|?\s*`+amountPattern),
	totalRule("total.vsego_rub", "Всего 16329.60 руб",
		`всего[\s\p{L}\p{N}_]*?`+amountPattern+`\s*руб`),
	totalRule("total.on_sum", "на сумму 16329.60 руб",
		`на\s+сумму[\s:]*`+amountPattern+`\s*руб`),
	totalRule("total.surcharge", "К доплате: 16329.60",
		`к\s*доплате[\s:|]*`+amountPattern),
	totalRule("total.overall_cost", "Общая стоимость: 16329.60",
		`общая\s*стоимость[\s:|]*`+amountPattern),
	totalRule("total.surcharge_with_vat", "Сумма к доплате с НДС: 16329.60",
		`сумма\s*к\s*доплате\s*с\s*ндс[\s:|]*`+amountPattern),
}

var reTotalKeywords = regexp.MustCompile(`(?i)итого|всего|к\s*оплате|total|сумма`)

// acceptTotal applies the numeric disambiguation and the plausibility window.
func acceptTotal(s *scan, h totalHit) error {
	v := h.Decimal
	digits := integerDigits(v)
	for _, d := range []string{digits, h.digits} {
		if s.exclusions().Contains(d) {
			return rejectf("integer part %s is an identifier", d)
		}
	}
	if n := len(digits); n >= 10 && n <= 12 && v.IsInteger() {
		return rejectf("INN-shaped whole number")
	}
	if v.GreaterThan(s.eng.cfg.MaxTotal) {
		return rejectf("above %s", s.eng.cfg.MaxTotal)
	}
	if !v.GreaterThan(s.eng.cfg.MinTotal) {
		return rejectf("not above %s", s.eng.cfg.MinTotal)
	}
	return nil
}

func (s *scan) totalAmount() (decimal.Decimal, bool) {
	h, _, ok := evaluate(s, FieldTotal, s.eng.totalRules, acceptTotal)
	if !ok && !reTotalKeywords.MatchString(s.text) {
		s.record(FieldTotal, "total.keywords", "", OutcomeMiss, "no totals keywords in text")
	}
	return h.Decimal, ok
}
