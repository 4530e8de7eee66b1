package invoice

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/joseph-ayodele/invoice-parser/constants"
	"github.com/joseph-ayodele/invoice-parser/internal/core/textnorm"
)

// Quote characters seen around company names in OCR and spreadsheet text.
const (
	qOpen  = `["“”«„]`
	qClose = `["“”»]`
	notQ   = `[^"“”«»„\n]`
	notQC  = `[^"“”«»„\n,]`
	quotes = `"“”«»„`

	// partyLabel anchors a seller-side label at a word start, so that
	// "Грузополучатель" does not count as "Получатель".
	partyLabel     = `(?:^|[^\p{L}])(?:Получатель|Продавец|Поставщик)`
	recipientLabel = `(?:^|[^\p{L}])Получатель`
	sellerLabel    = `(?:^|[^\p{L}])(?:Продавец|Поставщик)`
)

var (
	// reNameStop marks where a captured name runs into requisites, contacts
	// or the buyer's block.
	reNameStop   = regexp.MustCompile(`(?i)(?:^|[\s,;(])(?:ИНН|БИК|КПП|Банк|тел\.?|р/с|к/с|Сч\.?\s*№?\s*\d|Адрес|Заказчик|Покупатель|Плательщик|Грузополучатель)(?:[^\p{L}]|$)`)
	reKPPTail    = regexp.MustCompile(`(?i),?\s*КПП.*$`)
	reTailJunk   = regexp.MustCompile(`(?:\s*(?:\.{2,}|…))+\s*$|[\s,;:]+$`)
	reLegalForm  = regexp.MustCompile(`(?i)^(Общество\s+с\s+ограниченной\s+ответственностью|Публичное\s+акционерное\s+общество|Закрытое\s+акционерное\s+общество|Открытое\s+акционерное\s+общество|Акционерное\s+общество|Индивидуальный\s+предприниматель|ООО|000|ПАО|ЗАО|ОАО|АО|ИП)(?:[\s"“”«»„]+|$)(.*)$`)
	reStopName   = regexp.MustCompile(`(?i)^(Банк|Сч[её]т|Дата|руб|город)$`)
	reFIO        = regexp.MustCompile(`^[А-ЯЁ][а-яё]+ [А-ЯЁ][а-яё]+ [А-ЯЁ][а-яё]+$`)
	reDigitsOnly = regexp.MustCompile(`^[\d\s]+$`)
)

// Fragments that show a capture came from delivery or proxy boilerplate.
var nameNoise = []string{"самовывоз", "доверенности", "паспорта", "при наличии"}

// cleanName collapses whitespace and cuts the capture at the first
// requisite or buyer marker.
func cleanName(raw string) string {
	c := textnorm.Clean(raw)
	if loc := reNameStop.FindStringIndex(c); loc != nil {
		c = c[:loc[0]]
	}
	c = reKPPTail.ReplaceAllString(c, "")
	c = reTailJunk.ReplaceAllString(c, "")
	return strings.TrimSpace(c)
}

// splitLegalForm separates a leading organisational form from the name.
func splitLegalForm(name string) (constants.LegalForm, string) {
	m := reLegalForm.FindStringSubmatch(name)
	if m == nil {
		return constants.FormNone, name
	}
	form, ok := constants.CanonicalizeLegalForm(m[1])
	if !ok {
		return constants.FormNone, name
	}
	return form, strings.TrimSpace(m[2])
}

// trimQuotes strips surrounding quote characters and closes a dangling
// inner quote so nested names like "Группа компаний "СтиС"" stay balanced.
func trimQuotes(s string) string {
	s = strings.Trim(s, quotes+" ")
	n := 0
	for _, r := range s {
		if strings.ContainsRune(quotes, r) {
			n++
		}
	}
	if n%2 == 1 {
		s += `"`
	}
	return s
}

// formatLegalName renders FORM "name", or ИП Фамилия Имя Отчество.
func formatLegalName(form constants.LegalForm, rest string) string {
	rest = trimQuotes(rest)
	switch form {
	case constants.FormNone:
		return rest
	case constants.FormIP:
		return string(form) + " " + rest
	default:
		return string(form) + ` "` + rest + `"`
	}
}

// normalizeName cleans a raw capture and renders it with its legal form,
// falling back to def when the capture carries none.
func normalizeName(raw string, def constants.LegalForm) string {
	c := cleanName(raw)
	form, rest := splitLegalForm(c)
	if form == constants.FormNone {
		form = def
	}
	return formatLegalName(form, rest)
}

func nameRule(name, desc, pattern string, group int, def constants.LegalForm) Rule[string] {
	return Rule[string]{
		Name:        name,
		Description: desc,
		Pattern:     regexp.MustCompile(`(?i)` + pattern),
		Extract: func(_ *scan, m match) (string, error) {
			raw, err := capture(m, group)
			if err != nil {
				return "", err
			}
			return normalizeName(raw, def), nil
		},
	}
}

// formNameRule handles patterns that capture the form (group 1) and the
// bare name (group 2) separately.
func formNameRule(name, desc, pattern string) Rule[string] {
	return Rule[string]{
		Name:        name,
		Description: desc,
		Pattern:     regexp.MustCompile(`(?i)` + pattern),
		Extract: func(_ *scan, m match) (string, error) {
			form, ok := constants.CanonicalizeLegalForm(m.group(1))
			if !ok {
				return "", rejectf("unknown legal form %q", m.group(1))
			}
			return formatLegalName(form, cleanName(m.group(2))), nil
		},
	}
}

// Stage 1: an explicit "Поставщик:" line.
var directSupplierRules = []Rule[string]{
	nameRule("name.supplier_ao_quoted", `Поставщик: АО "Балтийское Стекло"`,
		`Поставщик:\s*((?:Акционерное\s+Общество|АО|ОАО|ЗАО|ПАО)\s*`+qOpen+notQ+`{3,60}`+qClose+`)`, 1, constants.FormNone),
	nameRule("name.supplier_ooo_quoted", `Поставщик: ООО "Ромашка"`,
		`Поставщик:\s*(ООО\s*`+qOpen+notQ+`{3,60}`+qClose+`)`, 1, constants.FormNone),
	nameRule("name.supplier_before_inn", "Поставщик: ООО Ромашка, ИНН",
		`Поставщик:\s*((?:АО|ОАО|ЗАО|ПАО|ООО)\s*`+qOpen+`?[^,\n]{3,60}?)(?:,\s*ИНН|\s+ИНН)`, 1, constants.FormNone),
	nameRule("name.supplier_ao_full", "Поставщик: Акционерное Общество Ромашка,",
		`Поставщик:\s*(Акционерное\s+Общество\s*`+qOpen+`?[^,\n]{3,60}?)(?:,|\s+ИНН)`, 1, constants.FormNone),
}

// Stage 3: in this layout family "Получатель" is the payee, i.e. the seller.
var recipientRules = []Rule[string]{
	nameRule("name.recipient_after_requisites", "Получатель 7720774346/470645001 ООО ...",
		recipientLabel+`[:\s]*(\d+/\d+)\s+((?:ООО|ИП|ПАО|ЗАО|АО)[^,\n]{3,80})`, 2, constants.FormNone),
	nameRule("name.recipient", `Получатель: ООО "Ромашка"`,
		recipientLabel+`[:\s]*((?:ООО|ИП|ПАО|ЗАО|АО)\s+`+qOpen+`?[^,\n]{3,80})`, 1, constants.FormNone),
	formNameRule("name.seller_form", "Продавец: ООО Ромашка, ИНН",
		sellerLabel+`:\s*(ООО|ИП|АО|ЗАО)\s*`+qOpen+`?(`+notQC+`{3,50})`+qClose+`?(?:,|\s*ИНН)`),
	nameRule("name.seller_before_inn", "Продавец: Ромашка ИНН",
		sellerLabel+`:\s*([^\n,]+?)(?:,\s*ИНН|\s+ИНН)`, 1, constants.FormNone),
}

// Stage 4: a seller label followed by a legal form within the same line.
var supplierContextRules = []Rule[string]{
	nameRule("name.party_form", "Продавец ООО Ромашка",
		partyLabel+`[\s:]*((?:ООО|ИП|АО|ЗАО|ПАО)\s*`+qOpen+`?`+notQ+`{3,50}`+qClose+`?)`, 1, constants.FormNone),
	nameRule("name.party_window", `Поставщик ... ООО "Ромашка"`,
		partyLabel+`[^\n]{0,200}?((?:ООО|ИП|АО)\s*`+qOpen+notQ+`{3,50}`+qClose+`)`, 1, constants.FormNone),
}

// Stage 5: bare legal names anywhere, last resort.
var bareNameRules = []Rule[string]{
	bareRule("name.bare_ooo_greedy", `ООО "Группа "Вложенная""`, `(?i)ООО\s*"(.*)"`, constants.FormOOO),
	bareRule("name.bare_ooo", `ООО «Ромашка»`, `(?i)ООО\s*`+qOpen+`(`+notQC+`{3,40})`+qClose, constants.FormOOO),
	bareRule("name.bare_ooo_ocr", `000 "Ромашка"`, `(?i)000\s*`+qOpen+`(`+notQC+`{3,40})`+qClose, constants.FormOOO),
	bareRule("name.bare_ip", "ИП Иванов Иван Иванович",
		`(?:^|[^\p{L}])(?i:ИП|Индивидуальный\s+предприниматель)\s+([А-ЯЁ][а-яё]+\s+[А-ЯЁ][а-яё]+\s+[А-ЯЁ][а-яё]+)`, constants.FormIP),
	bareRule("name.bare_supplier", "Поставщик: Ромашка", `(?i)Поставщик:\s*([А-ЯЁа-яё\s\-"«»]{3,50})(?:,|\s*ИНН|\n)`, constants.FormNone),
}

// bareRule walks every hit and inserts def when the name has no form. With
// no default a three-word capitalised name is taken for a sole trader.
func bareRule(name, desc, pattern string, def constants.LegalForm) Rule[string] {
	return Rule[string]{
		Name:        name,
		Description: desc,
		Pattern:     regexp.MustCompile(pattern),
		EachMatch:   true,
		Extract: func(_ *scan, m match) (string, error) {
			raw, err := capture(m, 1)
			if err != nil {
				return "", err
			}
			c := cleanName(raw)
			form, rest := splitLegalForm(c)
			if form == constants.FormNone {
				form = def
			}
			if form == constants.FormNone {
				if reFIO.MatchString(trimQuotes(rest)) {
					form = constants.FormIP
				} else {
					form = constants.FormOOO
				}
			}
			if err := checkBareName(rest); err != nil {
				return "", err
			}
			return formatLegalName(form, rest), nil
		},
	}
}

func checkBareName(rest string) error {
	bare := strings.Trim(rest, quotes+" ")
	switch {
	case utf8.RuneCountInString(bare) < 3:
		return rejectf("too short")
	case reDigitsOnly.MatchString(bare):
		return rejectf("digits only")
	case reStopName.MatchString(bare):
		return rejectf("stoplisted %q", bare)
	}
	return nil
}

// acceptName applies the buyer filter, the boilerplate filter and a
// minimum length to a normalized name.
func acceptName(minLen int) func(*scan, string) error {
	return func(s *scan, name string) error {
		if s.eng.isBuyer(name) {
			return rejectf("buyer")
		}
		low := strings.ToLower(name)
		for _, w := range nameNoise {
			if strings.Contains(low, w) {
				return rejectf("boilerplate %q", w)
			}
		}
		if utf8.RuneCountInString(name) < minLen {
			return rejectf("shorter than %d", minLen)
		}
		_, rest := splitLegalForm(name)
		if reStopName.MatchString(strings.Trim(rest, quotes+" ")) {
			return rejectf("stoplisted")
		}
		return nil
	}
}

// isBuyer reports whether a name or number identifies the buyer.
func (e *Engine) isBuyer(v string) bool {
	low := strings.ToLower(v)
	for _, needle := range e.buyerNeedles {
		if strings.Contains(low, needle) {
			return true
		}
	}
	return false
}

func (s *scan) contractorName() (string, bool) {
	stages := []struct {
		rules  []Rule[string]
		minLen int
	}{
		{s.eng.directRules, 5},
		{s.eng.knownRules, 1},
		{s.eng.recipientRules, 5},
		{s.eng.contextRules, 5},
		{s.eng.bareRules, 3},
	}
	for _, st := range stages {
		if len(st.rules) == 0 {
			continue
		}
		if v, _, ok := evaluate(s, FieldName, st.rules, acceptName(st.minLen)); ok {
			return v, true
		}
	}
	return "", false
}
