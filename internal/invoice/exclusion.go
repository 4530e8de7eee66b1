package invoice

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/joseph-ayodele/invoice-parser/constants"
)

// Numbers that are provably identifiers, never amounts or invoice numbers.
var (
	reTaggedTaxID = regexp.MustCompile(`(?i)(?:ИНН|И\.Н\.Н\.)[\s:]*(\d{10,12})`)
	reTaggedBIC   = regexp.MustCompile(`(?i)(?:БИК|Б\.И\.К\.)[\s:]*(\d{9})`)
	reAccounts    = []*regexp.Regexp{
		regexp.MustCompile(`(?i)Сч\.?\s*№?\s*(\d{20})`),
		regexp.MustCompile(`(?i)сч[её]т[\s№]*(\d{20})`),
		regexp.MustCompile(`(?i)р/с[\s:]*(\d{20})`),
		regexp.MustCompile(`(?i)(?:к/с|кор\.?\s*сч[её]т)[\s:№]*(\d{20})`),
	}
	reBankingMarker = regexp.MustCompile(`(?i)БИК|Банк|К/С|Кор`)
	reAllDigits     = regexp.MustCompile(`^\d+$`)
)

const bankingWindow = 100 // runes on each side of a candidate

// exclusions is the shared knowledge of identifier-shaped numbers in one text.
type exclusions struct {
	taxIDs   map[string]struct{}
	bics     map[string]struct{}
	accounts map[string]struct{}
}

func (s *scan) exclusions() *exclusions {
	if s.excl != nil {
		return s.excl
	}
	x := &exclusions{
		taxIDs:   collect(s.text, reTaggedTaxID),
		bics:     collect(s.text, reTaggedBIC),
		accounts: map[string]struct{}{},
	}
	for _, re := range reAccounts {
		for k := range collect(s.text, re) {
			x.accounts[k] = struct{}{}
		}
	}
	s.excl = x
	return x
}

func collect(text string, re *regexp.Regexp) map[string]struct{} {
	out := map[string]struct{}{}
	for _, m := range re.FindAllStringSubmatch(text, -1) {
		out[m[1]] = struct{}{}
	}
	return out
}

// Contains reports whether num was seen after an ИНН, БИК or account label.
func (x *exclusions) Contains(num string) bool {
	if _, ok := x.taxIDs[num]; ok {
		return true
	}
	if _, ok := x.bics[num]; ok {
		return true
	}
	_, ok := x.accounts[num]
	return ok
}

// isBankAccount matches the 20-digit settlement account shape.
func isBankAccount(num string) bool {
	return len(num) == constants.BankAccountDigits && reAllDigits.MatchString(num)
}

// isTaxID reports a 10/12-digit number that the text labels as ИНН.
func (s *scan) isTaxID(num string) bool {
	if len(num) != constants.LegalTaxIDDigits && len(num) != constants.PersonTaxIDDigits {
		return false
	}
	if !reAllDigits.MatchString(num) {
		return false
	}
	_, ok := s.exclusions().taxIDs[num]
	return ok
}

// isBIC reports a 9-digit number with the 04 bank prefix that is either
// labelled БИК or sits near a banking marker.
func (s *scan) isBIC(num string) bool {
	if len(num) != constants.BICDigits || !strings.HasPrefix(num, "04") || !reAllDigits.MatchString(num) {
		return false
	}
	if _, ok := s.exclusions().bics[num]; ok {
		return true
	}
	idx := strings.Index(s.text, num)
	if idx < 0 {
		return false
	}
	return reBankingMarker.MatchString(runeWindow(s.text, idx, idx+len(num), bankingWindow))
}

// runeWindow returns text[start:end] widened by n runes on both sides.
func runeWindow(text string, start, end, n int) string {
	for i := 0; i < n && start > 0; i++ {
		_, size := utf8.DecodeLastRuneInString(text[:start])
		start -= size
	}
	for i := 0; i < n && end < len(text); i++ {
		_, size := utf8.DecodeRuneInString(text[end:])
		end += size
	}
	return text[start:end]
}
