// Package parser implements the statement extraction engine: a rule-based,
// best-effort extractor that pulls transaction records out of loosely
// structured statement pages. Two heuristic paths run over every page, a
// table-row parser and a packed-text parser, and a deduplicating merge
// reconciles their output.
package parser

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/insightdelivered/upi-statement-analyzer/internal/models"
)

// Engine is the document orchestrator. It is synchronous and single-writer:
// pages are processed in document order because the duplicate test compares
// each text-path candidate against the accumulated collection.
type Engine struct {
	rules  Rules
	logger *log.Logger
	now    func() time.Time
}

// New returns an engine with the default rule set.
func New(logger *log.Logger) *Engine {
	return NewWithRules(DefaultRules(), logger)
}

// NewWithRules returns an engine with an injected rule set, used by tests
// that need controlled vocabularies.
func NewWithRules(rules Rules, logger *log.Logger) *Engine {
	if logger == nil {
		logger = log.Default()
	}
	return &Engine{rules: rules, logger: logger, now: time.Now}
}

// Parse runs both extraction paths over every page and returns the merged,
// deduplicated, newest-first record collection. Per-row and per-fragment
// failures are absorbed; Parse itself never fails on page content.
func (e *Engine) Parse(pages []models.Page, debug bool) *models.Statement {
	st := &models.Statement{
		Transactions: []models.Transaction{},
		Pages:        len(pages),
	}
	trace := func(format string, args ...any) {
		e.logger.Debug(fmt.Sprintf(format, args...))
		if debug {
			st.DebugTrace = append(st.DebugTrace, fmt.Sprintf(format, args...))
		}
	}

	for pageNum, page := range pages {
		trace("page %d: %d table(s), %d chars of text",
			pageNum+1, len(page.Tables), len(page.Text))

		for tableIdx, table := range page.Tables {
			parsed := 0
			for rowIdx, row := range table {
				if e.isHeaderRow(row, rowIdx) {
					continue
				}
				txn, ok := e.parseRow(row)
				if !ok {
					continue
				}
				txn.Source = models.FromTable
				st.Transactions = append(st.Transactions, txn)
				parsed++
				if len(st.Transactions) <= 5 {
					trace("accepted table candidate: %s %s %.2f %s",
						txn.Date.Format("2006-01-02"), txn.Type, txn.Amount, txn.Description)
				}
			}
			trace("page %d table %d: %d row(s), %d parsed",
				pageNum+1, tableIdx+1, len(table), parsed)
		}

		for _, txn := range e.parseText(page.Text) {
			if e.isDuplicate(txn, st.Transactions) {
				trace("suppressed text duplicate: %s %.2f",
					txn.Date.Format("2006-01-02"), txn.Amount)
				continue
			}
			txn.Source = models.FromText
			st.Transactions = append(st.Transactions, txn)
			if len(st.Transactions) <= 5 {
				trace("accepted text candidate: %s %s %.2f %s",
					txn.Date.Format("2006-01-02"), txn.Type, txn.Amount, txn.Description)
			}
		}
	}

	e.normalize(st)
	trace("extracted %d transaction(s) from %d page(s)", len(st.Transactions), len(pages))
	return st
}

// isDuplicate applies the cross-path duplicate test: same calendar date,
// amount within epsilon, and equal description prefix. Only text-path
// candidates are ever tested; the table structure is trusted not to repeat.
func (e *Engine) isDuplicate(txn models.Transaction, accepted []models.Transaction) bool {
	prefix := descPrefix(txn.Description, e.rules.DupPrefixLen)
	for _, other := range accepted {
		if !sameDay(txn.Date, other.Date) {
			continue
		}
		if math.Abs(txn.Amount-other.Amount) >= e.rules.DupEpsilon {
			continue
		}
		if prefix == descPrefix(other.Description, e.rules.DupPrefixLen) {
			return true
		}
	}
	return false
}

// normalize applies the whole-collection cleanup steps: shape-level column
// defaulting, exact-duplicate removal, and newest-first ordering. Individual
// record fields are never rewritten once set.
func (e *Engine) normalize(st *models.Statement) {
	txns := st.Transactions
	if len(txns) == 0 {
		return
	}

	// A field missing from the collection's shape (zero-valued in every
	// record) gets its default. Per-record gaps are left alone.
	allDateZero, allDescEmpty, allTypeEmpty := true, true, true
	for _, t := range txns {
		if !t.Date.IsZero() {
			allDateZero = false
		}
		if t.Description != "" {
			allDescEmpty = false
		}
		if t.Type != "" {
			allTypeEmpty = false
		}
	}
	for i := range txns {
		if allDateZero {
			n := e.now()
			txns[i].Date = time.Date(n.Year(), n.Month(), n.Day(), 0, 0, 0, 0, time.UTC)
			txns[i].DateFallback = true
		}
		if allDescEmpty {
			txns[i].Description = models.UnknownDescription
		}
		if allTypeEmpty {
			txns[i].Type = models.Debit
		}
	}

	seen := make(map[string]bool, len(txns))
	deduped := txns[:0]
	for _, t := range txns {
		key := fmt.Sprintf("%s|%s|%.2f|%s", t.Date.Format("2006-01-02"), t.Description, t.Amount, t.Type)
		if seen[key] {
			continue
		}
		seen[key] = true
		deduped = append(deduped, t)
	}

	sort.SliceStable(deduped, func(i, j int) bool {
		return deduped[i].Date.After(deduped[j].Date)
	})
	st.Transactions = deduped
}

func descPrefix(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) > n {
		return s[:n]
	}
	return s
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}
