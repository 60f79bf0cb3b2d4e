package parser

import (
	"bytes"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/insightdelivered/upi-statement-analyzer/internal/models"
)

func TestParse_TableAndTextPaths(t *testing.T) {
	e := New(nil)

	pages := []models.Page{
		{
			Text: "15Oct,2025 PaidtoCorner Bakery ₹120 10:15AM",
			Tables: [][][]string{{
				{"Date", "Description", "Amount"},
				{"01-10-2025", "Paid to Shiv Kumar", "₹85"},
				{"02-10-2025", "Received from John", "₹200"},
			}},
		},
	}

	st := e.Parse(pages, false)

	if len(st.Transactions) != 3 {
		t.Fatalf("expected 3 transactions, got %d: %+v", len(st.Transactions), st.Transactions)
	}

	// Newest first.
	if !st.Transactions[0].Date.After(st.Transactions[1].Date) {
		t.Error("expected newest-first ordering")
	}
	if st.Transactions[0].Source != models.FromText {
		t.Errorf("newest record should come from the text path, got %s", st.Transactions[0].Source)
	}
	for _, txn := range st.Transactions[1:] {
		if txn.Source != models.FromTable {
			t.Errorf("expected table-path record, got %s", txn.Source)
		}
	}
}

func TestParse_SuppressesTextDuplicates(t *testing.T) {
	e := New(nil)

	pages := []models.Page{
		{
			// The text path re-discovers the same transaction the table
			// already produced, with identical date, amount and
			// description prefix.
			Text: "01Oct,2025 Paid to Shiv Kumar ₹85 08:38AM",
			Tables: [][][]string{{
				{"01-10-2025", "Paid to Shiv Kumar", "₹85"},
			}},
		},
	}

	st := e.Parse(pages, false)

	if len(st.Transactions) != 1 {
		t.Fatalf("expected the text duplicate to be suppressed, got %d transactions", len(st.Transactions))
	}
	if st.Transactions[0].Source != models.FromTable {
		t.Errorf("the surviving record must be the table-path one, got %s", st.Transactions[0].Source)
	}
	if st.Transactions[0].Amount != 85 {
		t.Errorf("amount: got %v, want 85", st.Transactions[0].Amount)
	}
}

func TestParse_TablePathNeverDeduplicatedAgainstItself(t *testing.T) {
	e := New(nil)

	// Two genuinely identical rows in one table: the table structure is
	// trusted, so both survive the merge. Only the final exact-duplicate
	// sweep collapses them.
	pages := []models.Page{
		{
			Tables: [][][]string{{
				{"01-10-2025", "Paid to Shiv Kumar", "₹85"},
				{"01-10-2025", "Paid to Shiv Kumar", "₹85"},
			}},
		},
	}

	st := e.Parse(pages, false)

	// The exact-duplicate sweep removes the literal repeat.
	if len(st.Transactions) != 1 {
		t.Fatalf("expected 1 transaction after exact-duplicate removal, got %d", len(st.Transactions))
	}
}

func TestParse_Idempotent(t *testing.T) {
	e := New(nil)

	pages := []models.Page{
		{
			Text: "01Oct,2025 PaidtoShiv Kumar ₹85 08:38AM 02Oct,2025 ReceivedfromJohn ₹200 09:00AM",
		},
		{
			Tables: [][][]string{{
				{"03-10-2025", "Paid to Grocery Mart", "₹450.00"},
			}},
		},
	}

	first := e.Parse(pages, false)
	second := e.Parse(pages, false)

	if !reflect.DeepEqual(first.Transactions, second.Transactions) {
		t.Errorf("re-running the pipeline changed the output:\nfirst:  %+v\nsecond: %+v",
			first.Transactions, second.Transactions)
	}
}

func TestParse_EmptyInput(t *testing.T) {
	e := New(nil)

	for _, pages := range [][]models.Page{nil, {}, {{Text: "nothing useful"}}} {
		st := e.Parse(pages, false)
		if st.Transactions == nil {
			t.Fatal("transactions must be an empty slice, not nil")
		}
		if len(st.Transactions) != 0 {
			t.Errorf("expected no transactions, got %d", len(st.Transactions))
		}
	}
}

func TestParse_DebugTrace(t *testing.T) {
	e := New(nil)

	pages := []models.Page{
		{Tables: [][][]string{{{"01-10-2025", "Paid to Shiv Kumar", "₹85"}}}},
	}

	if st := e.Parse(pages, false); len(st.DebugTrace) != 0 {
		t.Error("trace must be empty when debug is off")
	}
	st := e.Parse(pages, true)
	if len(st.DebugTrace) == 0 {
		t.Error("expected a debug trace")
	}
	if len(st.Transactions) != 1 {
		t.Error("debug mode must not alter the record collection")
	}
}

func TestIsDuplicate(t *testing.T) {
	e := New(nil)
	date := time.Date(2025, time.October, 1, 0, 0, 0, 0, time.UTC)
	accepted := []models.Transaction{
		{Date: date, Amount: 85, Description: "Paid to Shiv Kumar"},
	}

	dup := models.Transaction{Date: date, Amount: 85.005, Description: "Paid to Shiv Kumar"}
	if !e.isDuplicate(dup, accepted) {
		t.Error("expected duplicate within epsilon and equal prefix")
	}

	differentDay := dup
	differentDay.Date = date.AddDate(0, 0, 1)
	if e.isDuplicate(differentDay, accepted) {
		t.Error("different date must not be a duplicate")
	}

	differentAmount := dup
	differentAmount.Amount = 86
	if e.isDuplicate(differentAmount, accepted) {
		t.Error("amount outside epsilon must not be a duplicate")
	}

	differentDesc := dup
	differentDesc.Description = "Paid to someone else entirely"
	if e.isDuplicate(differentDesc, accepted) {
		t.Error("different description prefix must not be a duplicate")
	}
}

func TestNormalize_ShapeDefaults(t *testing.T) {
	e := New(nil)
	e.now = func() time.Time { return time.Date(2025, time.October, 3, 12, 0, 0, 0, time.UTC) }

	st := &models.Statement{Transactions: []models.Transaction{
		{Amount: 85},
		{Amount: 200},
	}}
	e.normalize(st)

	for _, txn := range st.Transactions {
		if txn.Date.IsZero() {
			t.Error("date column absent from the collection shape must be defaulted")
		}
		if !txn.DateFallback {
			t.Error("defaulted dates must carry the fallback flag")
		}
		if txn.Description != models.UnknownDescription {
			t.Errorf("description: got %q, want %q", txn.Description, models.UnknownDescription)
		}
		if txn.Type != models.Debit {
			t.Errorf("type: got %q, want Debit", txn.Type)
		}
	}
}

func TestNormalize_DoesNotDefaultPerRecord(t *testing.T) {
	e := New(nil)
	date := time.Date(2025, time.October, 1, 0, 0, 0, 0, time.UTC)

	// One record has a description, so the column is present in the
	// collection's shape and the other record keeps its empty value.
	st := &models.Statement{Transactions: []models.Transaction{
		{Date: date, Amount: 85, Description: "Paid to Shiv Kumar", Type: models.Debit},
		{Date: date.AddDate(0, 0, 1), Amount: 200, Type: models.Credit},
	}}
	e.normalize(st)

	var empty int
	for _, txn := range st.Transactions {
		if txn.Description == "" {
			empty++
		}
	}
	if empty != 1 {
		t.Errorf("expected the per-record gap to survive, got %d empty descriptions", empty)
	}
}

func TestParseReader_InvalidDocument(t *testing.T) {
	e := New(nil)

	data := []byte("this is not a statement document at all")
	_, err := e.ParseReader(bytes.NewReader(data), int64(len(data)), false)
	if err == nil {
		t.Fatal("expected an error for a non-document input")
	}
	if !errors.Is(err, models.ErrInvalidDocument) {
		t.Errorf("expected ErrInvalidDocument, got %v", err)
	}
}
