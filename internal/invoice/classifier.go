package invoice

import (
	"strconv"
	"strings"
)

// Document types that look like invoices to a keyword counter but are not.
var exclusionKeywords = []string{
	"информационная карта",
	"участника торгов",
	"участника подрядных торгов",
	"анкета",
	"заявка",
	"справка о деятельности",
	"реквизиты организации",
}

var invoiceKeywords = []string{
	"счёт",
	"счет",
	"счёт-фактура",
	"счет-фактура",
	"invoice",
	"итого",
	"всего к оплате",
	"к доплате",
	"общая стоимость",
}

// classify is the binary invoice gate. Any exclusion phrase rejects the
// text outright; otherwise one indicator phrase is enough.
func (s *scan) classify() (bool, string) {
	for _, kw := range exclusionKeywords {
		if strings.Contains(s.lower, kw) {
			s.record(FieldClassifier, "exclusion", kw, OutcomeRejected, "non-invoice document type")
			return false, "exclusion keyword: " + kw
		}
	}

	score := 0
	for _, kw := range invoiceKeywords {
		if strings.Contains(s.lower, kw) {
			score++
		}
	}
	if score < 1 {
		s.record(FieldClassifier, "indicators", "0", OutcomeRejected, "no invoice indicators")
		return false, "no invoice indicators"
	}
	s.record(FieldClassifier, "indicators", strconv.Itoa(score), OutcomeAccepted, "")
	return true, ""
}
