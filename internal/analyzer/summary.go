package analyzer

import (
	"fmt"
	"sort"
	"time"

	"github.com/insightdelivered/upi-statement-analyzer/internal/models"
)

// CategoryTotal is spend aggregated per category, largest first.
type CategoryTotal struct {
	Category string  `json:"category"`
	Amount   float64 `json:"amount"`
}

// MonthTotal is spend aggregated per calendar month, oldest first.
type MonthTotal struct {
	Month  string  `json:"month"` // YYYY-MM
	Amount float64 `json:"amount"`
}

// MerchantStat aggregates debits per description.
type MerchantStat struct {
	Merchant string  `json:"merchant"`
	Total    float64 `json:"total"`
	Count    int     `json:"count"`
	Average  float64 `json:"average"`
}

// Summary is the aggregate view over one extracted statement.
type Summary struct {
	TotalSpending      float64             `json:"totalSpending"`
	TotalIncome        float64             `json:"totalIncome"`
	NetBalance         float64             `json:"netBalance"`
	TransactionCount   int                 `json:"transactionCount"`
	AverageTransaction float64             `json:"averageTransaction"`
	Largest            *models.Transaction `json:"largestTransaction,omitempty"`
	ByCategory         []CategoryTotal     `json:"spendingByCategory"`
	Monthly            []MonthTotal        `json:"monthlySpending"`
	TopMerchants       []MerchantStat      `json:"topMerchants"`
	From               time.Time           `json:"from,omitzero"`
	To                 time.Time           `json:"to,omitzero"`
}

// maxTopMerchants caps the merchant leaderboard.
const maxTopMerchants = 10

// Period selects the bucket size for spending trends.
type Period string

const (
	Daily   Period = "daily"
	Weekly  Period = "weekly"
	Monthly Period = "monthly"
)

// PeriodTotal is spend aggregated per time bucket, oldest first.
type PeriodTotal struct {
	Period string  `json:"period"`
	Amount float64 `json:"amount"`
}

// SpendingTrends buckets debit amounts by the given period. Weekly buckets
// are keyed by ISO year and week number; an unrecognized period falls back
// to monthly.
func SpendingTrends(txns []models.Transaction, period Period) []PeriodTotal {
	byPeriod := map[string]float64{}
	for _, t := range txns {
		if t.Type != models.Debit {
			continue
		}
		byPeriod[periodKey(t.Date, period)] += t.Amount
	}

	out := make([]PeriodTotal, 0, len(byPeriod))
	for k, v := range byPeriod {
		out = append(out, PeriodTotal{Period: k, Amount: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Period < out[j].Period })
	return out
}

func periodKey(d time.Time, period Period) string {
	switch period {
	case Daily:
		return d.Format("2006-01-02")
	case Weekly:
		year, week := d.ISOWeek()
		return fmt.Sprintf("%d-W%02d", year, week)
	default:
		return d.Format("2006-01")
	}
}

// Analyze computes the aggregate view. Debits count toward spending, credits
// toward income; category and merchant breakdowns cover debits only.
func Analyze(txns []models.Transaction, categorizer *Categorizer) Summary {
	s := Summary{
		ByCategory:   []CategoryTotal{},
		Monthly:      []MonthTotal{},
		TopMerchants: []MerchantStat{},
	}
	if len(txns) == 0 {
		return s
	}
	if categorizer == nil {
		categorizer = NewCategorizer()
	}

	byCategory := map[string]float64{}
	byMonth := map[string]float64{}
	byMerchant := map[string]*MerchantStat{}
	var debitCount int

	for i := range txns {
		t := txns[i]
		s.TransactionCount++

		if s.From.IsZero() || t.Date.Before(s.From) {
			s.From = t.Date
		}
		if t.Date.After(s.To) {
			s.To = t.Date
		}

		if t.Type == models.Credit {
			s.TotalIncome += t.Amount
			continue
		}

		s.TotalSpending += t.Amount
		debitCount++
		byCategory[categorizer.Categorize(t.Description)] += t.Amount
		byMonth[t.Date.Format("2006-01")] += t.Amount

		m := byMerchant[t.Description]
		if m == nil {
			m = &MerchantStat{Merchant: t.Description}
			byMerchant[t.Description] = m
		}
		m.Total += t.Amount
		m.Count++

		if s.Largest == nil || t.Amount > s.Largest.Amount {
			s.Largest = &txns[i]
		}
	}

	s.NetBalance = s.TotalIncome - s.TotalSpending
	if debitCount > 0 {
		s.AverageTransaction = s.TotalSpending / float64(debitCount)
	}

	for cat, amount := range byCategory {
		s.ByCategory = append(s.ByCategory, CategoryTotal{Category: cat, Amount: amount})
	}
	sort.Slice(s.ByCategory, func(i, j int) bool {
		if s.ByCategory[i].Amount != s.ByCategory[j].Amount {
			return s.ByCategory[i].Amount > s.ByCategory[j].Amount
		}
		return s.ByCategory[i].Category < s.ByCategory[j].Category
	})

	for month, amount := range byMonth {
		s.Monthly = append(s.Monthly, MonthTotal{Month: month, Amount: amount})
	}
	sort.Slice(s.Monthly, func(i, j int) bool { return s.Monthly[i].Month < s.Monthly[j].Month })

	for _, m := range byMerchant {
		m.Average = m.Total / float64(m.Count)
		s.TopMerchants = append(s.TopMerchants, *m)
	}
	sort.Slice(s.TopMerchants, func(i, j int) bool {
		if s.TopMerchants[i].Total != s.TopMerchants[j].Total {
			return s.TopMerchants[i].Total > s.TopMerchants[j].Total
		}
		return s.TopMerchants[i].Merchant < s.TopMerchants[j].Merchant
	})
	if len(s.TopMerchants) > maxTopMerchants {
		s.TopMerchants = s.TopMerchants[:maxTopMerchants]
	}

	return s
}
