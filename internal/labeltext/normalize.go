package labeltext

import (
	"regexp"
	"strings"
)

var (
	// lookalikeDigits maps letters recognizers confuse with digits.
	lookalikeDigits = strings.NewReplacer("O", "0", "S", "5", "I", "1")

	junkChars     = regexp.MustCompile(`[^A-Za-z0-9/\-.\s]`)
	whitespaceRun = regexp.MustCompile(`\s+`)

	// expiryTokenFixes are applied in order; later fixes may see the output
	// of earlier ones.
	expiryTokenFixes = [][2]string{
		{"2S", "25"},
		{"5EP", "SEP"},
		{"N0V", "NOV"},
		{"0CT", "OCT"},
	}

	// droppedZeroDate matches a whole label line such as "3.NOV.25" where the
	// recognizer lost the 0 of "30".
	droppedZeroDate = regexp.MustCompile(`(?i)^3\s*\.?\s*(` + strings.Join(monthAbbreviations, "|") + `)\.?(\d{2})$`)
)

// Normalize substitutes digit lookalikes, strips characters that never occur
// in a barcode or a date, glues digit groups split by stray spaces and
// collapses whitespace. Normalize(Normalize(s)) == Normalize(s).
func Normalize(text string) string {
	if text == "" {
		return ""
	}
	text = lookalikeDigits.Replace(text)
	text = junkChars.ReplaceAllString(text, "")
	text = joinSpacedDigits(text)
	text = whitespaceRun.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// CorrectExpiryTokens repairs misreads seen inside printed expiry dates. It
// must run before Normalize, while month abbreviations are still letters.
func CorrectExpiryTokens(text string) string {
	if text == "" {
		return ""
	}
	text = strings.TrimSpace(whitespaceRun.ReplaceAllString(text, " "))
	for _, fix := range expiryTokenFixes {
		text = strings.ReplaceAll(text, fix[0], fix[1])
	}
	text = droppedZeroDate.ReplaceAllString(text, "30 ${1} ${2}")
	return strings.TrimSpace(text)
}

// joinSpacedDigits drops every whitespace run that sits between two digits,
// so "890 1450 000898" becomes "8901450000898".
func joinSpacedDigits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if !isSpace(s[i]) {
			b.WriteByte(s[i])
			continue
		}
		j := i
		for j < len(s) && isSpace(s[j]) {
			j++
		}
		if i == 0 || j == len(s) || !isDigit(s[i-1]) || !isDigit(s[j]) {
			b.WriteString(s[i:j])
		}
		i = j - 1
	}
	return b.String()
}

// isSpace matches the ASCII set RE2 uses for \s.
func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\f', '\r':
		return true
	}
	return false
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
