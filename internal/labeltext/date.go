package labeltext

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the canonical expiry date form.
const DateLayout = "2006-01-02"

var (
	namedDateGrammar = regexp.MustCompile(`^(\d{1,2})[.\-]?(` + monthPattern + `)[.\-]?(\d{2,4})$`)

	dayMonthYear      = regexp.MustCompile(`^(\d{1,2})[/\-.](\d{1,2})[/\-.](\d{4})$`)
	dayMonthShortYear = regexp.MustCompile(`^(\d{1,2})[/\-.](\d{1,2})[/\-.](\d{2})$`)
	monthYear         = regexp.MustCompile(`^(\d{2})[/\-.](\d{4})$`)

	// lookalikeLetters undoes Normalize inside a month token.
	lookalikeLetters = strings.NewReplacer("0", "O", "5", "S", "1", "I")
)

var monthNumbers = func() map[string]int {
	m := make(map[string]int, len(monthAbbreviations))
	for i, abbr := range monthAbbreviations {
		m[abbr] = i + 1
	}
	return m
}()

// ParseDate turns a date substring found on a label into YYYY-MM-DD.
//
// Month-name dates ("30NOV25", "30-N0V-2025") are tried first, then DD/MM/YYYY,
// DD/MM/YY and MM/YYYY. Two-digit years are read as 20YY. Numeric dates are
// read day first, and a day above 12 is swapped into the month slot. That
// turns a US style 08/15 into a valid date but also makes every unambiguous
// day-first date with a day past the 12th invalid. Dates that do not exist on
// the calendar are rejected.
func ParseDate(candidate string) (string, bool) {
	s := strings.ToUpper(whitespaceRun.ReplaceAllString(candidate, ""))

	if m := namedDateGrammar.FindStringSubmatch(s); m != nil {
		month, ok := monthNumbers[lookalikeLetters.Replace(m[2])]
		if !ok {
			return "", false
		}
		return calendarDate(promoteYear(atoi(m[3])), month, atoi(m[1]))
	}

	for _, grammar := range []*regexp.Regexp{dayMonthYear, dayMonthShortYear} {
		if m := grammar.FindStringSubmatch(s); m != nil {
			day, month := atoi(m[1]), atoi(m[2])
			if day > 12 {
				day, month = month, day
			}
			return calendarDate(promoteYear(atoi(m[3])), month, day)
		}
	}

	if m := monthYear.FindStringSubmatch(s); m != nil {
		return calendarDate(atoi(m[2]), atoi(m[1]), 1)
	}
	return "", false
}

// promoteYear maps two-digit years onto 2000-2099. There is no sliding
// century window.
func promoteYear(year int) int {
	if year < 100 {
		return year + 2000
	}
	return year
}

func calendarDate(year, month, day int) (string, bool) {
	if month < 1 || month > 12 || day < 1 {
		return "", false
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Year() != year || int(t.Month()) != month || t.Day() != day {
		return "", false
	}
	return t.Format(DateLayout), true
}

// atoi is only fed strings the grammars above proved to be 1-4 digits.
func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
