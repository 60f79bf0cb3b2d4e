package parser

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// compactDateRe matches the dominant export format: day, 3-letter month and
// year packed together with a comma and no spaces, e.g. "01Oct,2025".
var compactDateRe = regexp.MustCompile(`(\d{1,2})([A-Za-z]{3}),(\d{4})`)

// dateSearchPatterns locate a date occurrence inside a larger string. The
// order is the precedence order: the compact export format wins, then
// day-first separators, spelled-out months, and ISO last.
var dateSearchPatterns = []*regexp.Regexp{
	compactDateRe,
	regexp.MustCompile(`\d{1,2}[-/.]\d{1,2}[-/.]\d{2,4}`),
	regexp.MustCompile(`(?i)\d{1,2}\s+[A-Za-z]{3,9},?\s+\d{4}`),
	regexp.MustCompile(`(?i)\d{1,2}-[A-Za-z]{3,9}-\d{2,4}`),
	regexp.MustCompile(`(?i)[A-Za-z]{3,9}\s+\d{1,2},\s*\d{4}`),
	regexp.MustCompile(`\d{4}[-/]\d{1,2}[-/]\d{1,2}`),
}

// dateLayouts is the ordered list of conventional formats tried after the
// compact pattern. Day-first layouts come before US month-first ones, so an
// ambiguous token like 05/03/2024 resolves day-first.
var dateLayouts = []string{
	"2 Jan, 2006",
	"2Jan 2006",
	"2 Jan 2006",
	"2-1-2006",
	"2/1/2006",
	"2.1.2006",
	"2-1-06",
	"2/1/06",
	"2.1.06",
	"2006-1-2",
	"2006/1/2",
	"2 January 2006",
	"2-Jan-2006",
	"2-January-2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"1/2/2006",
	"1-2-2006",
}

var monthAbbrevs = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "may": time.May, "jun": time.June,
	"jul": time.July, "aug": time.August, "sep": time.September,
	"oct": time.October, "nov": time.November, "dec": time.December,
}

var digitGroupRe = regexp.MustCompile(`\d+`)

// parseDateToken converts a date token to a calendar date using the ordered
// strategy list: compact pattern, conventional layouts, then a numeric
// fallback that disambiguates day-first vs month-first. Returns false when
// every strategy fails.
func parseDateToken(token string) (time.Time, bool) {
	token = strings.TrimSpace(token)
	if token == "" {
		return time.Time{}, false
	}

	if m := compactDateRe.FindStringSubmatch(token); m != nil {
		day, _ := strconv.Atoi(m[1])
		year, _ := strconv.Atoi(m[3])
		if month, ok := monthAbbrevs[strings.ToLower(m[2])]; ok {
			if t, ok := makeDate(year, month, day); ok {
				return t, true
			}
		}
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, token); err == nil {
			return normalizeCentury(t), true
		}
	}

	// Last structured resort: take the first three integer groups and
	// decide which is the day and which the month.
	groups := digitGroupRe.FindAllString(token, 3)
	if len(groups) >= 3 {
		n1, _ := strconv.Atoi(groups[0])
		n2, _ := strconv.Atoi(groups[1])
		year, _ := strconv.Atoi(groups[2])
		if year < 100 {
			year += 2000
		}
		if n1 >= 1 && n1 <= 31 && n2 >= 1 && n2 <= 12 {
			if t, ok := makeDate(year, time.Month(n2), n1); ok {
				return t, true
			}
		}
		if n1 >= 1 && n1 <= 12 && n2 >= 1 && n2 <= 31 {
			if t, ok := makeDate(year, time.Month(n1), n2); ok {
				return t, true
			}
		}
	}

	return time.Time{}, false
}

// normalizeDate is parseDateToken with the historical fallback: a token no
// strategy can parse yields the current date, flagged so callers can tell a
// sentinel apart from real data.
func normalizeDate(token string, now func() time.Time) (t time.Time, fallback bool) {
	if t, ok := parseDateToken(token); ok {
		return t, false
	}
	if now == nil {
		now = time.Now
	}
	n := now()
	return time.Date(n.Year(), n.Month(), n.Day(), 0, 0, 0, 0, time.UTC), true
}

// findDate locates the first date occurrence in s, in pattern precedence
// order, and returns the matched substring.
func findDate(s string) (string, bool) {
	for _, re := range dateSearchPatterns {
		if m := re.FindString(s); m != "" {
			return m, true
		}
	}
	return "", false
}

// makeDate builds a date and rejects impossible day/month combinations that
// time.Date would silently normalize (e.g. 30 February).
func makeDate(year int, month time.Month, day int) (time.Time, bool) {
	if month < time.January || month > time.December || day < 1 || day > 31 {
		return time.Time{}, false
	}
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	if t.Year() != year || t.Month() != month || t.Day() != day {
		return time.Time{}, false
	}
	return t, true
}

// normalizeCentury maps two-digit years parsed as 19xx/20xx oddities onto
// the 2000s, and strips any time component.
func normalizeCentury(t time.Time) time.Time {
	year := t.Year()
	if year < 100 {
		year += 2000
	}
	return time.Date(year, t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
