package invoice

import (
	"regexp"

	"github.com/joseph-ayodele/invoice-parser/internal/core/textnorm"
)

// KnownCompany is an allowlist entry for a trading partner whose documents
// are too noisy for the generic name rules. A hit short-circuits them.
type KnownCompany struct {
	Key     string
	Pattern *regexp.Regexp
	// Name is the canonical output; empty keeps the matched text.
	Name string
}

// DefaultKnownCompanies returns the partners observed in past documents.
// Entries are matched in order.
func DefaultKnownCompanies() []KnownCompany {
	return []KnownCompany{
		{Key: "baltic_glass", Pattern: regexp.MustCompile(`(?i)Балтийское\s+Стекло`), Name: `АО "Балтийское Стекло"`},
		{Key: "metallmaster", Pattern: regexp.MustCompile(`(?i)МЕТАЛЛМАСТЕР-М`)},
		{Key: "alrus", Pattern: regexp.MustCompile(`(?i)АлРус`)},
		{Key: "expert_rental", Pattern: regexp.MustCompile(`(?i)Эксперт\s+Рентал\s+Инжиниринг`), Name: "Эксперт Рентал Инжиниринг"},
		// OCR tends to drop the leading capitals of this one.
		{Key: "expert_rental_ocr", Pattern: regexp.MustCompile(`(?i)ксперт\s+ентал\s+нжиниринг`), Name: "Эксперт Рентал Инжиниринг"},
		{Key: "petrovich", Pattern: regexp.MustCompile(`(?i)Петрович`)},
		{Key: "ozerov", Pattern: regexp.MustCompile(`(?i)ОЗЕРОВ\s+МАКСИМ\s+НИКОЛАЕВИЧ`)},
		{Key: "specmash", Pattern: regexp.MustCompile(`(?i)(?:ООО\s*["“«]?)?Спецмаш["”»]?`), Name: `ООО "Спецмаш"`},
	}
}

func knownCompanyRules(list []KnownCompany) []Rule[string] {
	rules := make([]Rule[string], 0, len(list))
	for _, kc := range list {
		if kc.Pattern == nil {
			continue
		}
		canonical := kc.Name
		rules = append(rules, Rule[string]{
			Name:        "name.known." + kc.Key,
			Description: "allowlisted partner",
			Pattern:     kc.Pattern,
			Extract: func(_ *scan, m match) (string, error) {
				if canonical != "" {
					return canonical, nil
				}
				return textnorm.Clean(m.group(0)), nil
			},
		})
	}
	return rules
}
