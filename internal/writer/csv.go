package writer

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/insightdelivered/upi-statement-analyzer/internal/models"
)

// CSVWriter writes an extracted statement to CSV. When Categorize is set a
// derived Category column is appended to the engine's verbatim columns.
type CSVWriter struct {
	IncludeMetadata bool
	Categorize      func(description string) string
}

// WriteToFile writes the statement to a CSV file at the given path.
func (w *CSVWriter) WriteToFile(path string, st *models.Statement) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output file %q: %w", path, err)
	}
	defer f.Close()

	return w.Write(f, st)
}

// Write writes the statement in CSV format to the given writer.
func (w *CSVWriter) Write(out io.Writer, st *models.Statement) error {
	cw := csv.NewWriter(out)
	defer cw.Flush()

	if w.IncludeMetadata {
		cw.Write([]string{"# Pages", strconv.Itoa(st.Pages)})
		cw.Write([]string{"# Transactions", strconv.Itoa(len(st.Transactions))})
	}

	header := []string{"Date", "Description", "Type", "Amount"}
	if w.Categorize != nil {
		header = append(header, "Category")
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write CSV header: %w", err)
	}

	for _, txn := range st.Transactions {
		row := []string{
			txn.Date.Format("2006-01-02"),
			txn.Description,
			string(txn.Type),
			strconv.FormatFloat(txn.Amount, 'f', 2, 64),
		}
		if w.Categorize != nil {
			row = append(row, w.Categorize(txn.Description))
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write CSV row: %w", err)
		}
	}

	return cw.Error()
}
