package parser

// Rules holds the tunable vocabulary and plausibility bounds used by the
// extraction heuristics. Tests inject controlled vocabularies; production
// callers use DefaultRules.
type Rules struct {
	// Accepted year range for strictly parsed dates. Dates outside this
	// range are treated as extraction noise, not real transactions.
	MinYear int
	MaxYear int

	// Accepted magnitude range for amounts. Values outside are rejected
	// as noise rather than stored as zero.
	MinAmount float64
	MaxAmount float64

	// Duplicate test parameters for reconciling the two extraction paths.
	DupEpsilon   float64
	DupPrefixLen int

	// Text-mode line filters.
	MinLineLen     int
	MinFragmentLen int

	// Direction keywords matched against individual table cells.
	DebitCellKeywords  []string
	CreditCellKeywords []string

	// Direction keywords matched against packed text fragments. The
	// source text drops spaces ("PaidtoShiv"), so these are spaceless.
	DebitTextKeywords  []string
	CreditTextKeywords []string

	// Vocabulary that marks a table row or cell as header material.
	HeaderVocabulary []string

	// Vocabulary that marks a text line as boilerplate to skip.
	SkipVocabulary []string
}

// DefaultRules returns the rule set tuned for UPI app statement exports.
func DefaultRules() Rules {
	return Rules{
		MinYear:        2020,
		MaxYear:        2030,
		MinAmount:      0.01,
		MaxAmount:      10_000_000,
		DupEpsilon:     0.01,
		DupPrefixLen:   20,
		MinLineLen:     15,
		MinFragmentLen: 10,
		DebitCellKeywords: []string{
			"paid", "sent", "debit", "withdrawal", "deducted", "spent",
		},
		CreditCellKeywords: []string{
			"received", "credit", "deposit", "credited", "added", "refund",
		},
		DebitTextKeywords: []string{
			"paidto", "selftransferto", "paid",
		},
		CreditTextKeywords: []string{
			"receivedfrom", "received", "credited",
		},
		HeaderVocabulary: []string{
			"date", "description", "amount", "transaction",
			"debit", "credit", "balance", "total",
		},
		SkipVocabulary: []string{
			"date&time", "transactiondetails", "transaction statement",
			"statementperiod", "sent received", "contact", "page ",
		},
	}
}

func (r Rules) yearInRange(year int) bool {
	return year >= r.MinYear && year <= r.MaxYear
}

func (r Rules) amountInBounds(v float64) bool {
	if v < 0 {
		v = -v
	}
	return v >= r.MinAmount && v <= r.MaxAmount
}
