package labeltext

import (
	"regexp"
	"strings"
)

var monthAbbreviations = []string{
	"JAN", "FEB", "MAR", "APR", "MAY", "JUN",
	"JUL", "AUG", "SEP", "OCT", "NOV", "DEC",
}

// expiryKeywords lead an expiry date on a label. Order matters: the regexp
// engine tries them left to right at each position.
var expiryKeywords = []string{"EXP", "Expiry", "Best Before", "Use By", "BB", "Exp Date"}

// Normalize turns NOV into N0V and EXPIRY into EXP1RY, so month names and
// keywords are matched through their digit lookalikes as well.
var (
	monthPattern   = lookalikeAlternation(monthAbbreviations)
	keywordPattern = lookalikeAlternation(expiryKeywords)
	namedDate      = `\d{1,2}[\- .]?` + monthPattern + `[\- .]?\d{2,4}`
)

// expiryPatterns are tried in order; the first one with any match decides.
// Group 1 of each pattern is the date handed to ParseDate.
var expiryPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)` + keywordPattern + `[:\s]*(` + namedDate + `)`),
	regexp.MustCompile(`(?i)(` + namedDate + `)`),
	regexp.MustCompile(`(\d{1,2}[/\-.]\d{1,2}[/\-.]\d{2,4})`),
	regexp.MustCompile(`(\d{2}[/\-.]\d{4})`),
}

// ExtractExpiryDate finds the expiry date printed in cleaned label text and
// returns it as YYYY-MM-DD.
//
// When the winning pattern matches more than once the last match is used,
// since labels print the expiry date after the manufacture date. If that
// match does not parse the result is empty; earlier matches and later
// patterns are not consulted.
func ExtractExpiryDate(text string) (string, bool) {
	for _, pattern := range expiryPatterns {
		matches := pattern.FindAllStringSubmatch(text, -1)
		if len(matches) == 0 {
			continue
		}
		return ParseDate(matches[len(matches)-1][1])
	}
	return "", false
}

// lookalikeAlternation builds a non-capturing group matching any of words,
// letting each O, S and I also match 0, 5 and 1.
func lookalikeAlternation(words []string) string {
	alternatives := make([]string, len(words))
	for i, word := range words {
		alternatives[i] = lookalikeWord(word)
	}
	return `(?:` + strings.Join(alternatives, "|") + `)`
}

func lookalikeWord(word string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(word) {
		switch r {
		case 'O':
			b.WriteString(`[O0]`)
		case 'S':
			b.WriteString(`[S5]`)
		case 'I':
			b.WriteString(`[I1]`)
		case ' ':
			b.WriteString(`\s+`)
		default:
			b.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	return b.String()
}
