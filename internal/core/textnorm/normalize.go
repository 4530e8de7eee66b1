package textnorm

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var (
	reCRLF       = regexp.MustCompile(`\r\n?`)
	reTabs       = regexp.MustCompile(`[\t\v\f]+`)
	reMultiSpace = regexp.MustCompile(` {2,}`)
	reMultiBlank = regexp.MustCompile(`\n{3,}`)
)

// Horizontal space variants that OCR and spreadsheet dumps emit in place of
// a plain space, plus zero-width characters that split words.
var spaceReplacer = strings.NewReplacer(
	"\u00a0", " ", // no-break space
	"\u202f", " ", // narrow no-break space
	"\u2007", " ", // figure space
	"\u2009", " ", // thin space
	"\u200a", " ", // hair space
	"\u3000", " ",
	"\u200b", "",
	"\u2060", "",
	"\ufeff", "",
)

// Prepare normalizes a text blob for matching while keeping its line
// structure: tabular regions depend on newlines surviving. Cyrillic is
// composed to NFC so that "й" and "ё" match single-rune patterns.
func Prepare(s string) string {
	if s == "" {
		return s
	}
	s = norm.NFC.String(s)
	s = reCRLF.ReplaceAllString(s, "\n")
	s = spaceReplacer.Replace(s)
	s = reTabs.ReplaceAllString(s, " ")
	s = reMultiSpace.ReplaceAllString(s, " ")
	s = reMultiBlank.ReplaceAllString(s, "\n\n")
	lines := strings.Split(s, "\n")
	for i := range lines {
		lines[i] = strings.TrimRight(lines[i], " ")
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// Clean collapses every whitespace run, newlines included, into one space.
func Clean(s string) string {
	return strings.Join(strings.Fields(spaceReplacer.Replace(s)), " ")
}
