package parser

import (
	"regexp"
	"strconv"
	"strings"
)

// amountMatch is one located currency value: the unsigned magnitude, the
// separately observed sign, and the exact substring that matched (needed by
// the text parser to strip the amount out of the description).
type amountMatch struct {
	Value    float64
	Negative bool
	Matched  string
}

// Grouped decimals use Indian digit grouping, where groups after the first
// are two or three digits: 1,64,148.10.
const groupedNumber = `\d{1,3}(?:,\d{2,3})*(?:\.\d{1,2})?`

// amountPatterns is the precedence-ordered matcher list. More specific
// shapes first: currency-prefixed, parenthesized, grouped, decimal, integer.
var amountPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?:₹|Rs\.?|\$)\s*-?` + groupedNumber),
	regexp.MustCompile(`\(` + groupedNumber + `\)`),
	regexp.MustCompile(`-?` + groupedNumber),
	regexp.MustCompile(`-?\d+\.\d{1,2}`),
	regexp.MustCompile(`-?\d+`),
}

// rupeeAmountRe is the strict text-mode pattern: the rupee symbol followed by
// a grouped number. Submatch 1 is the bare number.
var rupeeAmountRe = regexp.MustCompile(`₹\s*(` + groupedNumber + `)`)

var amountJunkRe = regexp.MustCompile(`[₹$,\s()]|Rs\.?`)

// extractAmount locates a currency-like value in s. Patterns are tried in
// precedence order and a match outside the plausible bounds is a non-match,
// so the search continues with the next pattern.
func (r Rules) extractAmount(s string) (amountMatch, bool) {
	trimmed := strings.TrimSpace(s)
	negative := strings.HasPrefix(trimmed, "-") ||
		strings.HasPrefix(trimmed, "(") ||
		strings.Contains(strings.ToLower(trimmed), "debit")

	for _, re := range amountPatterns {
		loc := re.FindStringIndex(trimmed)
		if loc == nil {
			continue
		}
		m := trimmed[loc[0]:loc[1]]
		// A match that is a prefix or suffix of a longer number is a
		// partial read of an out-of-shape value, not an amount.
		if partialNumber(trimmed, loc[0], loc[1]) {
			continue
		}

		cleaned := amountJunkRe.ReplaceAllString(m, "")
		neg := negative
		if strings.HasPrefix(cleaned, "-") {
			neg = true
			cleaned = strings.TrimPrefix(cleaned, "-")
		}
		if cleaned == "" {
			continue
		}

		v, err := strconv.ParseFloat(cleaned, 64)
		if err != nil || !r.amountInBounds(v) {
			continue
		}
		return amountMatch{Value: v, Negative: neg, Matched: m}, true
	}
	return amountMatch{}, false
}

// partialNumber reports whether the match at [start,end) sits inside a
// longer run of digits, or abuts a separator that continues the number.
func partialNumber(s string, start, end int) bool {
	if start > 0 && isDigit(s[start-1]) {
		return true
	}
	if end < len(s) && isDigit(s[end]) {
		return true
	}
	if end+1 < len(s) && (s[end] == ',' || s[end] == '.') && isDigit(s[end+1]) {
		return true
	}
	return false
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

// extractRupeeAmount applies only the rupee-prefixed pattern, as the packed
// text format always carries the symbol. Out-of-bounds values fail.
func (r Rules) extractRupeeAmount(s string) (amountMatch, bool) {
	m := rupeeAmountRe.FindStringSubmatch(s)
	if m == nil {
		return amountMatch{}, false
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64)
	if err != nil || !r.amountInBounds(v) {
		return amountMatch{}, false
	}
	return amountMatch{Value: v, Matched: m[0]}, true
}

// looksLikeAmount reports whether any amount pattern matches, regardless of
// bounds. Used for cell classification, not value extraction.
func looksLikeAmount(s string) bool {
	for _, re := range amountPatterns {
		if re.MatchString(s) {
			return true
		}
	}
	return false
}
