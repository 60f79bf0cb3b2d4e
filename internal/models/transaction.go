package models

import (
	"errors"
	"time"
)

// Direction marks whether money left or entered the account.
type Direction string

const (
	Debit  Direction = "Debit"
	Credit Direction = "Credit"
)

// Source identifies which extraction path produced a record.
type Source string

const (
	FromTable Source = "table"
	FromText  Source = "text"
)

// Transaction is a single extracted statement entry. Amount is always an
// unsigned magnitude; Type carries the sign's meaning.
type Transaction struct {
	Date        time.Time `json:"date"`
	Description string    `json:"description"`
	Amount      float64   `json:"amount"`
	Type        Direction `json:"type"`
	Source      Source    `json:"source,omitempty"`
	// DateFallback is set when the date could not be parsed and the
	// current time was substituted. Strict consumers should drop these.
	DateFallback bool `json:"-"`
}

// Statement is the engine's terminal artifact: the deduplicated,
// newest-first record collection plus the diagnostic trace.
type Statement struct {
	Transactions []Transaction `json:"transactions"`
	Pages        int           `json:"pages"`
	DebugTrace   []string      `json:"debugTrace,omitempty"`
}

// Sentinel descriptions used when no usable text survives stripping.
const (
	UnknownDescription  = "Unknown Transaction"
	FallbackDescription = "Transaction"
)

// Error taxonomy for a whole-document parse. Per-row and per-fragment
// failures are absorbed and never surface through these.
var (
	// ErrInvalidDocument means the input could not be opened or decoded
	// as a statement document at all.
	ErrInvalidDocument = errors.New("invalid statement document")
	// ErrExtraction means the document opened but the pass failed in an
	// unexpected way.
	ErrExtraction = errors.New("statement extraction failed")
)
