package invoice

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/joseph-ayodele/invoice-parser/constants"
	"github.com/joseph-ayodele/invoice-parser/internal/core/textnorm"
)

const taxIDGroup = `(\d{12}|\d{10})(?:\D|$)`

func taxIDRule(name, desc, pattern string) Rule[string] {
	return Rule[string]{
		Name:        name,
		Description: desc,
		Pattern:     regexp.MustCompile(`(?i)` + pattern),
		EachMatch:   true,
		Extract: func(_ *scan, m match) (string, error) {
			return capture(m, 1)
		},
	}
}

// supplierTaxIDRules locate the seller's INN, strongest context first.
var supplierTaxIDRules = []Rule[string]{
	taxIDRule("inn.supplier_line", "Поставщик: ... ИНН 7801514385",
		`Поставщик:[^\n]*?ИНН[:\s]*`+taxIDGroup),
	taxIDRule("inn.supplier_pair", "Поставщик: ... 7801514385/780101001",
		`Поставщик:[^\n]*?(\d{10})\s*/\s*\d{9}`),
	taxIDRule("inn.recipient", "Получатель 7720774346/470645001",
		recipientLabel+`[:\s]*`+taxIDGroup),
	taxIDRule("inn.recipient_window", "Получатель ... ИНН 7720774346",
		recipientLabel+`[^\n]{0,100}?ИНН[:\s]*`+taxIDGroup),
	taxIDRule("inn.seller_window", "Продавец: ... ИНН 7801514385",
		`Продавец:[^\n]{0,100}?ИНН[:\s]*`+taxIDGroup),
	taxIDRule("inn.party_window", "Продавец ... ИНН 7801514385",
		sellerLabel+`[^\n]{0,200}?ИНН[:\s]*`+taxIDGroup),
	taxIDRule("inn.before_party", "ИНН 7801514385 ... Продавец",
		`ИНН[:\s]*(\d{12}|\d{10})[^\n]{0,100}?(?:Продавец|Поставщик)`),
}

// Every INN-shaped value worth reporting, in collection order.
var reAllTaxIDs = []*regexp.Regexp{
	regexp.MustCompile(`(?i)ИНН[:\s]*` + taxIDGroup),
	regexp.MustCompile(`(?:^|\D)(\d{10})\s*/\s*\d{9}(?:\D|$)`),
	regexp.MustCompile(`(?i)(?:^|\D)(\d{12})\s*(?:ИП|Индивидуальный\s+предприниматель)`),
}

var reKPPLabel = regexp.MustCompile(`(?i)КПП[\s:]*(\d{9})(?:\D|$)`)

// taxIDSet is the deduplicated INN list with the supplier's, when known, first.
type taxIDSet struct {
	All      []string
	Supplier string
}

// primary is the INN reported for the counterparty: the supplier's, or the
// first one that does not belong to the buyer.
func (t taxIDSet) primary(e *Engine) string {
	if t.Supplier != "" {
		return t.Supplier
	}
	for _, id := range t.All {
		if _, buyer := e.buyerIDs[id]; !buyer {
			return id
		}
	}
	return ""
}

func acceptSupplierTaxID(s *scan, id string) error {
	if len(id) != constants.LegalTaxIDDigits && len(id) != constants.PersonTaxIDDigits {
		return rejectf("%d digits", len(id))
	}
	if _, buyer := s.eng.buyerIDs[id]; buyer {
		return rejectf("buyer")
	}
	return nil
}

func (s *scan) taxIDs() taxIDSet {
	var set taxIDSet
	seen := map[string]struct{}{}
	for _, re := range reAllTaxIDs {
		for _, m := range re.FindAllStringSubmatch(s.text, -1) {
			if _, dup := seen[m[1]]; dup {
				continue
			}
			seen[m[1]] = struct{}{}
			set.All = append(set.All, m[1])
		}
	}

	if v, _, ok := evaluate(s, FieldSupplierID, s.eng.supplierRules, acceptSupplierTaxID); ok {
		set.Supplier = v
		set.All = promote(set.All, v)
	}
	if len(set.All) > 0 {
		s.record(FieldTaxIDs, "", strings.Join(set.All, ","), OutcomeAccepted, "")
	}
	return set
}

// promote moves id to index 0, inserting it when absent.
func promote(ids []string, id string) []string {
	out := make([]string, 0, len(ids)+1)
	out = append(out, id)
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

// kpp finds the supplier's registration code: paired as INN/KPP or labelled
// КПП on the same line as the supplier INN. Without a supplier INN only the
// seller-side lines are searched.
func (s *scan) kpp(supplierID string) (string, bool) {
	if supplierID != "" {
		re := regexp.MustCompile(regexp.QuoteMeta(supplierID) + `\s*/\s*(\d{9})(?:\D|$)`)
		if m := re.FindStringSubmatch(s.text); m != nil {
			s.record(FieldKPP, "kpp.pair", m[1], OutcomeAccepted, "")
			return m[1], true
		}
		for _, line := range strings.Split(s.text, "\n") {
			if !strings.Contains(line, supplierID) {
				continue
			}
			if m := reKPPLabel.FindStringSubmatch(line); m != nil {
				s.record(FieldKPP, "kpp.supplier_line", m[1], OutcomeAccepted, "")
				return m[1], true
			}
		}
	}
	for _, line := range s.partyLines() {
		if m := reKPPLabel.FindStringSubmatch(line); m != nil {
			s.record(FieldKPP, "kpp.party_line", m[1], OutcomeAccepted, "")
			return m[1], true
		}
	}
	s.record(FieldKPP, "", "", OutcomeMiss, "")
	return "", false
}

var (
	rePartyLine = regexp.MustCompile(`(?i)` + partyLabel)
	reAddress   = regexp.MustCompile(`(?i)(?:^|[\s,;:])((?:\d{6}[,\s]|г\.)[^\n]*?)(?:[\s,;]+(?:тел|р/с|ИНН|КПП|БИК|Заказчик|Покупатель|Плательщик)|$)`)
)

const minAddressRunes = 10

// partyLines returns the remainders of lines that carry a seller-side label.
func (s *scan) partyLines() []string {
	var out []string
	for _, line := range strings.Split(s.text, "\n") {
		if loc := rePartyLine.FindStringIndex(line); loc != nil {
			out = append(out, line[loc[1]:])
		}
	}
	return out
}

func (s *scan) address() (string, bool) {
	for _, line := range s.partyLines() {
		m := reAddress.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		addr := strings.TrimRight(textnorm.Clean(m[1]), " ,;:")
		if utf8.RuneCountInString(addr) < minAddressRunes {
			s.record(FieldAddress, "address.party_line", addr, OutcomeRejected, "too short")
			continue
		}
		s.record(FieldAddress, "address.party_line", addr, OutcomeAccepted, "")
		return addr, true
	}
	s.record(FieldAddress, "", "", OutcomeMiss, "")
	return "", false
}
