package parser

import (
	"regexp"
	"strings"

	"github.com/insightdelivered/upi-statement-analyzer/internal/models"
)

// Substrings stripped from a fragment when deriving the description.
var (
	clockTimeRe    = regexp.MustCompile(`(?i)\d{1,2}:\d{2}\s*(?:AM|PM)?`)
	txnIDRe        = regexp.MustCompile(`(?i)UPI\s*Transaction\s*ID\s*:?\s*\d+`)
	paidByRe       = regexp.MustCompile(`(?i)Paid\s*by[A-Za-z ]*\d+`)
	multiSpaceRe   = regexp.MustCompile(`\s+`)
	contactNoiseRe = regexp.MustCompile(`(?i)contact\D{0,20}\d{10}`)
)

// parseText extracts candidates from one page's raw text. The export packs
// several transactions onto one physical line with no delimiter other than
// the recurrence of the compact date pattern, so each date occurrence opens
// a fragment that runs to the next occurrence or end of line.
func (e *Engine) parseText(text string) []models.Transaction {
	var out []models.Transaction

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if len(line) < e.rules.MinLineLen {
			continue
		}
		if e.isBoilerplateLine(line) {
			continue
		}

		starts := compactDateRe.FindAllStringIndex(line, -1)
		if len(starts) == 0 {
			continue
		}

		for i, loc := range starts {
			end := len(line)
			if i+1 < len(starts) {
				end = starts[i+1][0]
			}
			fragment := strings.TrimSpace(line[loc[0]:end])
			if len(fragment) < e.rules.MinFragmentLen {
				continue
			}
			if txn, ok := e.parseFragment(fragment); ok {
				out = append(out, txn)
			}
		}
	}
	return out
}

func (e *Engine) isBoilerplateLine(line string) bool {
	lower := strings.ToLower(line)
	for _, kw := range e.rules.SkipVocabulary {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return contactNoiseRe.MatchString(lower)
}

// parseFragment parses one transaction fragment: leading date, rupee amount,
// keyword direction, then the residual description.
func (e *Engine) parseFragment(fragment string) (models.Transaction, bool) {
	dateToken := compactDateRe.FindString(fragment)
	if dateToken == "" {
		return models.Transaction{}, false
	}
	date, fallback := normalizeDate(dateToken, e.now)
	if !e.rules.yearInRange(date.Year()) {
		return models.Transaction{}, false
	}

	amount, ok := e.rules.extractRupeeAmount(fragment)
	if !ok {
		return models.Transaction{}, false
	}

	txn := models.Transaction{
		Date:         date,
		Amount:       amount.Value,
		Type:         e.textDirection(fragment),
		DateFallback: fallback,
	}
	txn.Description = e.deriveDescription(fragment, dateToken, amount.Matched)
	return txn, true
}

// textDirection infers the direction from the packed keyword sets, defaulting
// to Debit: the source statements are dominated by outgoing payments.
func (e *Engine) textDirection(fragment string) models.Direction {
	lower := strings.ToLower(fragment)
	for _, kw := range e.rules.DebitTextKeywords {
		if strings.Contains(lower, kw) {
			return models.Debit
		}
	}
	for _, kw := range e.rules.CreditTextKeywords {
		if strings.Contains(lower, kw) {
			return models.Credit
		}
	}
	return models.Debit
}

// deriveDescription removes every recognized field substring from the
// fragment. When nothing usable remains it falls back to the raw span
// between the date and the amount, then to the sentinel label.
func (e *Engine) deriveDescription(fragment, dateToken, amountToken string) string {
	desc := strings.Replace(fragment, dateToken, "", 1)
	desc = strings.Replace(desc, amountToken, "", 1)
	desc = clockTimeRe.ReplaceAllString(desc, "")
	desc = txnIDRe.ReplaceAllString(desc, "")
	desc = paidByRe.ReplaceAllString(desc, "")
	desc = strings.Trim(multiSpaceRe.ReplaceAllString(desc, " "), " ,-")

	if len(desc) > 1 {
		return desc
	}

	dateEnd := strings.Index(fragment, dateToken) + len(dateToken)
	amountStart := strings.Index(fragment, amountToken)
	if amountStart > dateEnd {
		span := strings.TrimSpace(fragment[dateEnd:amountStart])
		span = multiSpaceRe.ReplaceAllString(span, " ")
		if len(span) > 1 {
			return span
		}
	}
	return models.FallbackDescription
}
