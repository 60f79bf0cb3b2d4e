package parser

import (
	"strings"
	"time"

	"github.com/insightdelivered/upi-statement-analyzer/internal/models"
)

// cellClass is the typed classification of one table cell. Every cell gets
// exactly one class, decided in priority order, and the description is the
// residual plain-text set. This keeps the elimination rule explicit instead
// of re-matching patterns during description assembly.
type cellClass int

const (
	cellText cellClass = iota
	cellDate
	cellAmount
	cellKeyword
	cellHeader
	cellShort
)

type classifiedCell struct {
	text  string
	class cellClass

	date   time.Time
	amount amountMatch
}

// parseRow turns one table row into a transaction candidate. A row missing
// either a resolvable date or an in-bounds amount yields no candidate.
func (e *Engine) parseRow(cells []string) (models.Transaction, bool) {
	var nonEmpty []string
	for _, c := range cells {
		if c = strings.TrimSpace(c); c != "" {
			nonEmpty = append(nonEmpty, c)
		}
	}
	if len(nonEmpty) < 2 {
		return models.Transaction{}, false
	}

	classified := make([]classifiedCell, 0, len(nonEmpty))
	for _, c := range nonEmpty {
		classified = append(classified, e.classifyCell(c))
	}

	var txn models.Transaction
	var haveDate, haveAmount bool

	for _, cc := range classified {
		switch cc.class {
		case cellDate:
			if !haveDate {
				txn.Date = cc.date
				haveDate = true
			}
		case cellAmount:
			if !haveAmount {
				txn.Amount = cc.amount.Value
				haveAmount = true
			}
		}
		// Direction keywords lock the type wherever they appear, even
		// inside a cell that stays part of the description.
		if txn.Type == "" {
			txn.Type = e.matchCellDirection(cc.text)
		}
	}

	if !haveDate || !haveAmount {
		return models.Transaction{}, false
	}

	var parts []string
	for _, cc := range classified {
		if cc.class == cellText {
			parts = append(parts, cc.text)
		}
	}
	txn.Description = strings.Join(parts, " ")
	if txn.Description == "" {
		txn.Description = models.UnknownDescription
	}

	// Statements from the source app are dominated by outgoing payments,
	// so an ambiguous row defaults to Debit.
	if txn.Type == "" {
		txn.Type = models.Debit
	}
	return txn, true
}

// classifyCell assigns the single highest-priority class that applies:
// date, amount, bare direction keyword, header vocabulary, then plain text.
func (e *Engine) classifyCell(c string) classifiedCell {
	cc := classifiedCell{text: c, class: cellText}

	if token, ok := findDate(c); ok {
		if t, ok := parseDateToken(token); ok && e.rules.yearInRange(t.Year()) {
			cc.class = cellDate
			cc.date = t
			return cc
		}
	}

	if m, ok := e.rules.extractAmount(c); ok {
		// Only treat the cell as an amount cell when the number is the
		// bulk of the cell; "Paid ₹50 extra fee" stays descriptive text.
		if len(strings.TrimSpace(c)) <= len(m.Matched)+6 {
			cc.class = cellAmount
			cc.amount = m
			return cc
		}
	}

	lower := strings.ToLower(strings.TrimSpace(c))
	if isBareKeyword(lower, e.rules.DebitCellKeywords) || isBareKeyword(lower, e.rules.CreditCellKeywords) {
		cc.class = cellKeyword
		return cc
	}

	for _, h := range e.rules.HeaderVocabulary {
		if lower == h {
			cc.class = cellHeader
			return cc
		}
	}

	if len(c) <= 3 {
		cc.class = cellShort
	}
	return cc
}

// matchCellDirection returns the direction implied by keywords contained in
// the cell, or "" when none matches. Debit keywords take precedence, as the
// source documents are dominated by outgoing payments.
func (e *Engine) matchCellDirection(c string) models.Direction {
	lower := strings.ToLower(c)
	for _, kw := range e.rules.DebitCellKeywords {
		if strings.Contains(lower, kw) {
			return models.Debit
		}
	}
	for _, kw := range e.rules.CreditCellKeywords {
		if strings.Contains(lower, kw) {
			return models.Credit
		}
	}
	return ""
}

// isBareKeyword reports whether the cell is nothing but a direction keyword
// ("DEBIT", "Received"). Cells that merely contain a keyword keep their
// descriptive text.
func isBareKeyword(lower string, keywords []string) bool {
	for _, kw := range keywords {
		if lower == kw {
			return true
		}
	}
	return false
}

// isHeaderRow reports whether a row near the top of a table is the column
// header line rather than data.
func (e *Engine) isHeaderRow(cells []string, rowIdx int) bool {
	if rowIdx >= 3 {
		return false
	}
	joined := strings.ToLower(strings.Join(cells, " "))
	hits := 0
	for _, h := range e.rules.HeaderVocabulary {
		if strings.Contains(joined, h) {
			hits++
		}
	}
	// One vocabulary word can appear in real data ("Paid to Credit
	// Services"); a header line carries several.
	return hits >= 2
}
