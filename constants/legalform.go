package constants

import (
	"strings"
)

// LegalForm is the abbreviated organisational form of a Russian company.
type LegalForm string

const (
	FormOOO  LegalForm = "ООО"
	FormAO   LegalForm = "АО"
	FormPAO  LegalForm = "ПАО"
	FormZAO  LegalForm = "ЗАО"
	FormOAO  LegalForm = "ОАО"
	FormIP   LegalForm = "ИП"
	FormNone LegalForm = ""
)

var allLegalForms = []LegalForm{FormOOO, FormAO, FormPAO, FormZAO, FormOAO, FormIP}

// CanonicalizeLegalForm maps spelled-out or OCR-mangled forms to their abbreviation.
func CanonicalizeLegalForm(input string) (LegalForm, bool) {
	if input == "" {
		return FormNone, false
	}

	normalized := strings.ToLower(strings.Join(strings.Fields(input), " "))

	synonyms := map[string]LegalForm{
		"общество с ограниченной ответственностью": FormOOO,
		"000":                            FormOOO,
		"акционерное общество":           FormAO,
		"публичное акционерное общество": FormPAO,
		"закрытое акционерное общество":  FormZAO,
		"открытое акционерное общество":  FormOAO,
		"индивидуальный предприниматель": FormIP,
	}

	if f, ok := synonyms[normalized]; ok {
		return f, true
	}

	for _, f := range allLegalForms {
		if normalized == strings.ToLower(string(f)) {
			return f, true
		}
	}

	return FormNone, false
}
