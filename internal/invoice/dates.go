package invoice

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var russianMonths = map[string]int{
	"января":   1,
	"февраля":  2,
	"марта":    3,
	"апреля":   4,
	"мая":      5,
	"июня":     6,
	"июля":     7,
	"августа":  8,
	"сентября": 9,
	"октября":  10,
	"ноября":   11,
	"декабря":  12,
}

const monthNames = `января|февраля|марта|апреля|мая|июня|июля|августа|сентября|октября|ноября|декабря`

// dateRule builds a rule whose groups hold day, month and year at the given
// positions. Implausible dates move on to the next hit.
func dateRule(name, desc, pattern string, day, month, year int) Rule[string] {
	return Rule[string]{
		Name:        name,
		Description: desc,
		Pattern:     regexp.MustCompile(`(?i)` + pattern),
		EachMatch:   true,
		Extract: func(_ *scan, m match) (string, error) {
			return isoDate(m.group(day), m.group(month), m.group(year))
		},
	}
}

var dateRules = []Rule[string]{
	dateRule("date.month_name", "4 ноября 2024", `["«]?(\d{1,2})["»]?\s+(`+monthNames+`)\s+(\d{4})`, 1, 2, 3),
	dateRule("date.dotted", "04.11.2024", `(?:^|\D)(\d{1,2})\.(\d{1,2})\.(\d{4})`, 1, 2, 3),
	dateRule("date.slashed", "04/11/2024", `(?:^|\D)(\d{1,2})/(\d{1,2})/(\d{4})`, 1, 2, 3),
	dateRule("date.iso", "2024-11-04", `(?:^|\D)(\d{4})-(\d{1,2})-(\d{1,2})`, 3, 2, 1),
}

var dueDateRules = []Rule[string]{
	dateRule("due.pay_not_later", "оплатить … не позднее 10.11.2024",
		`(?:оплатить|оплата).*?не\s+позднее\s+(\d{1,2})\.(\d{1,2})\.(\d{4})`, 1, 2, 3),
	dateRule("due.payment_term", "срок … оплаты … 10.11.2024",
		`срок.*?оплаты.*?(\d{1,2})\.(\d{1,2})\.(\d{4})`, 1, 2, 3),
	dateRule("due.not_later", "не позднее 10.11.2024",
		`не\s+позднее\s+(\d{1,2})\.(\d{1,2})\.(\d{4})`, 1, 2, 3),
}

// isoDate formats day, month (number or genitive Russian name) and year as
// YYYY-MM-DD, rejecting out-of-range months and days.
func isoDate(day, month, year string) (string, error) {
	d, err := strconv.Atoi(day)
	if err != nil {
		return "", rejectf("day %q", day)
	}
	mon, ok := russianMonths[strings.ToLower(month)]
	if !ok {
		if mon, err = strconv.Atoi(month); err != nil {
			return "", rejectf("month %q", month)
		}
	}
	y, err := strconv.Atoi(year)
	if err != nil {
		return "", rejectf("year %q", year)
	}
	if mon < 1 || mon > 12 {
		return "", rejectf("month %d out of range", mon)
	}
	if d < 1 || d > 31 {
		return "", rejectf("day %d out of range", d)
	}
	return fmt.Sprintf("%04d-%02d-%02d", y, mon, d), nil
}

// correctYear applies the configured year rewrite, recording it.
func (s *scan) correctYear(field, date string) string {
	if len(s.eng.cfg.YearCorrections) == 0 || len(date) < 4 {
		return date
	}
	y, err := strconv.Atoi(date[:4])
	if err != nil {
		return date
	}
	to, ok := s.eng.cfg.YearCorrections[y]
	if !ok {
		return date
	}
	fixed := fmt.Sprintf("%04d%s", to, date[4:])
	s.record(field, "year_correction", fixed, OutcomeCorrected, fmt.Sprintf("%d rewritten to %d", y, to))
	return fixed
}

func (s *scan) invoiceDate() (string, bool) {
	v, _, ok := evaluate(s, FieldDate, s.eng.dateRules, nil)
	if !ok {
		return "", false
	}
	return s.correctYear(FieldDate, v), true
}

func (s *scan) dueDate() (string, bool) {
	v, _, ok := evaluate(s, FieldDueDate, s.eng.dueRules, nil)
	if !ok {
		return "", false
	}
	return s.correctYear(FieldDueDate, v), true
}
