package invoice

import (
	"regexp"
	"strings"

	"github.com/joseph-ayodele/invoice-parser/constants"
)

// Hyphen-free alphanumeric numbers end at a digit boundary so that a prefix
// of a longer account number is never captured.
const (
	alnumNumber = `([А-ЯЁA-Z]{1,4}\d{6,12})(?:\D|$)`
	digitEnd    = `(?:\D|$)`
)

func numberRule(name, desc, pattern string) Rule[string] {
	return Rule[string]{
		Name:        name,
		Description: desc,
		Pattern:     regexp.MustCompile(`(?i)` + pattern),
		Extract: func(_ *scan, m match) (string, error) {
			v, err := capture(m, 1)
			return strings.TrimSpace(v), err
		},
	}
}

// numberRules is ordered by precedence; the first accepted candidate wins.
var numberRules = []Rule[string]{
	numberRule("number.alnum_after_invoice", "Счёт СЭ00846838", `Сч[её]т\s*`+alnumNumber),
	numberRule("number.alnum_order", "Заказ покупателя № ТВЭ01037849", `Заказ.*?№\s*`+alnumNumber),
	numberRule("number.alnum_before_date", "№ СЭ00846838 от", `№\s*([А-ЯЁA-Z]{1,4}\d{6,12})\s*от`),

	numberRule("number.specification", "СПЕЦИФИКАЦИЯ № 12", `Спецификация\s*№\s*(\d+)`),

	numberRule("number.hyphenated", "№ УТ-784", `№\s*([А-ЯЁA-Z]+-\d+)`),
	numberRule("number.hyphenated_after_invoice", "СЧ/СТ … № А-123", `С[ЧТ].*?№\s*([А-ЯЁA-Z]+-\d+)`),

	numberRule("number.accounting_ocr", "Счет и Бух-123", `Сч[её]т\s+и\s+Бух[-\s]*(\d+)`),
	numberRule("number.short_with_date", "Счёт № 36 от", `Сч[её]т\s*№\s*(\d{1,6})\s*от`),
	numberRule("number.short_with_date_ocr", "СТ № 36 от", `С[ЧТ]\s*№\s*(\d{1,6})\s*от`),
	numberRule("number.short", "Счёт № 36", `Сч[её]т\s*№\s*(\d{1,6})`+digitEnd),
	numberRule("number.short_ocr", "СТ № 36", `С[ЧТ]\s*№\s*(\d{1,6})`+digitEnd),

	numberRule("number.contract_invoice", "Счёт-договор № 22980", `Сч[её]т[-\s]*договор.*?№\s*(\d+)`),

	numberRule("number.zero_padded_with_date", "№ 00000007898 от", `№\s*(0{4,}\d+)\s*от`),
	numberRule("number.zero_padded", "СЧ … № 00000007898", `С[ЧТ].*?№\s*(0{4,}\d+)`),

	numberRule("number.generic_invoice", "Счёт … № N", `Сч[её]т.*?№\s*(\d+)`),
	numberRule("number.generic_ocr", "СЧ/СТ … № N", `С[ЧТ].*?№\s*(\d+)`),
	numberRule("number.generic_dated", "№ N от D", `№\s*(\d+)\s*от\s*\d`),
	numberRule("number.invoice_en", "Invoice … № N", `Invoice.*?№\s*(\d+)`),
	numberRule("number.ocr_no_sign", "СТ 00000007883 от", `С[ЧТ]\s+(\d+)\s+от`),
	numberRule("number.ocr_long", "СТ … 12345", `С[ЧТ].*?(\d{5,})`),
	numberRule("number.dated_fallback", "№ 12 от", `№\s*(\d{2,10})\s*от`),
}

// acceptInvoiceNumber rejects candidates that are really bank accounts,
// tax IDs or BICs.
func acceptInvoiceNumber(s *scan, num string) error {
	if num == "" {
		return errNoValue
	}
	switch {
	case isBankAccount(num):
		return rejectf("bank account shape (%d digits)", constants.BankAccountDigits)
	case s.isTaxID(num):
		return rejectf("labelled ИНН")
	case s.isBIC(num):
		return rejectf("BIC in banking context")
	}
	return nil
}

func (s *scan) invoiceNumber() (string, bool) {
	v, _, ok := evaluate(s, FieldNumber, s.eng.numberRules, acceptInvoiceNumber)
	return v, ok
}
