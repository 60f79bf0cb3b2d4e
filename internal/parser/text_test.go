package parser

import (
	"testing"
	"time"

	"github.com/insightdelivered/upi-statement-analyzer/internal/models"
)

func TestParseText_PackedLine(t *testing.T) {
	e := New(nil)

	line := "01Oct,2025 PaidtoShiv Kumar ₹85 08:38AM UPITransactionID:12345 01Oct,2025 ReceivedfromJohn ₹200 09:00AM"
	txns := e.parseText(line)

	if len(txns) != 2 {
		t.Fatalf("expected 2 transactions, got %d", len(txns))
	}

	wantDate := time.Date(2025, time.October, 1, 0, 0, 0, 0, time.UTC)

	first := txns[0]
	if !first.Date.Equal(wantDate) {
		t.Errorf("first date: got %s, want %s", first.Date, wantDate)
	}
	if first.Amount != 85 {
		t.Errorf("first amount: got %v, want 85", first.Amount)
	}
	if first.Type != models.Debit {
		t.Errorf("first type: got %s, want Debit", first.Type)
	}
	if first.Description != "PaidtoShiv Kumar" {
		t.Errorf("first description: got %q", first.Description)
	}

	second := txns[1]
	if second.Amount != 200 {
		t.Errorf("second amount: got %v, want 200", second.Amount)
	}
	if second.Type != models.Credit {
		t.Errorf("second type: got %s, want Credit", second.Type)
	}
	if second.Description != "ReceivedfromJohn" {
		t.Errorf("second description: got %q", second.Description)
	}
}

func TestParseText_LineFilters(t *testing.T) {
	e := New(nil)

	tests := []struct {
		name string
		text string
	}{
		{"short line", "01Oct,2025 ₹9"},
		{"boilerplate header", "Date&Time TransactionDetails Amount and more text"},
		{"statement period line", "StatementPeriod 01Oct,2025 to 31Oct,2025 summary ₹500"},
		{"contact noise", "For queries contact us on 9876543210 anytime today now"},
		{"no date occurrence", "PaidtoShiv Kumar ₹85 08:38AM without any date token"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if txns := e.parseText(tt.text); len(txns) != 0 {
				t.Errorf("expected no transactions, got %d", len(txns))
			}
		})
	}
}

func TestParseText_FragmentValidation(t *testing.T) {
	e := New(nil)

	t.Run("fragment without amount is dropped", func(t *testing.T) {
		txns := e.parseText("01Oct,2025 PaidtoShiv Kumar no amount present here")
		if len(txns) != 0 {
			t.Errorf("expected no transactions, got %d", len(txns))
		}
	})

	t.Run("out-of-range year is dropped", func(t *testing.T) {
		txns := e.parseText("01Oct,2045 PaidtoShiv Kumar ₹85 08:38AM")
		if len(txns) != 0 {
			t.Errorf("expected no transactions, got %d", len(txns))
		}
	})

	t.Run("out-of-bounds amount is dropped", func(t *testing.T) {
		txns := e.parseText("01Oct,2025 PaidtoShiv Kumar ₹5,00,00,000 08:38AM")
		if len(txns) != 0 {
			t.Errorf("expected no transactions, got %d", len(txns))
		}
	})

	t.Run("unparseable date uses flagged sentinel", func(t *testing.T) {
		e := New(nil)
		e.now = func() time.Time { return time.Date(2025, time.October, 3, 12, 0, 0, 0, time.UTC) }

		txns := e.parseText("99Xyz,2025 PaidtoShiv Kumar ₹85 08:38AM")
		if len(txns) != 1 {
			t.Fatalf("expected 1 transaction, got %d", len(txns))
		}
		if !txns[0].DateFallback {
			t.Error("expected DateFallback to be set")
		}
		want := time.Date(2025, time.October, 3, 0, 0, 0, 0, time.UTC)
		if !txns[0].Date.Equal(want) {
			t.Errorf("sentinel date: got %s, want %s", txns[0].Date, want)
		}
	})
}

func TestDeriveDescription(t *testing.T) {
	e := New(nil)

	tests := []struct {
		name     string
		fragment string
		date     string
		amount   string
		want     string
	}{
		{
			name:     "strips identifier and bank substrings",
			fragment: "01Oct,2025 PaidtoShiv Kumar ₹85 08:38AM UPITransactionID:12345 PaidbyHDFC1234",
			date:     "01Oct,2025",
			amount:   "₹85",
			want:     "PaidtoShiv Kumar",
		},
		{
			name:     "falls back to date-amount span",
			fragment: "01Oct,2025 X ₹85",
			date:     "01Oct,2025",
			amount:   "₹85",
			want:     models.FallbackDescription,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := e.deriveDescription(tt.fragment, tt.date, tt.amount)
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}
