// Package extractor turns statement PDFs into per-page text and recovered
// tables. Extraction is layered: it tries the structured row API first, then
// coordinate-based reconstruction, then plain-text fallbacks, and gates every
// result on a readability check so garbage from exotic font encodings is
// never handed to the parsing engine.
package extractor

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strings"
	"unicode"

	"github.com/ledongthuc/pdf"

	"github.com/insightdelivered/upi-statement-analyzer/internal/models"
)

// columnGap is the horizontal distance (in PDF points) between positioned
// text runs that is treated as a column boundary when rebuilding tables.
const columnGap = 15.0

// ExtractPages reads a statement PDF from disk and returns its pages. The
// file handle is released on every exit path.
func ExtractPages(path string) ([]models.Page, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open document: %w", err)
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat document: %w", err)
	}
	return ExtractPagesReader(f, fi.Size())
}

// ExtractPagesReader extracts pages from an already-open document stream.
// The reader is re-read as needed and never closed. A document that opens
// but yields no readable text produces an empty page slice, not an error:
// zero extracted records is a valid outcome.
func ExtractPagesReader(ra io.ReaderAt, size int64) (pages []models.Page, err error) {
	defer func() {
		if r := recover(); r != nil {
			pages = nil
			err = fmt.Errorf("document decode crashed: %v", r)
		}
	}()

	r, err := pdf.NewReader(ra, size)
	if err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}

	numPages := r.NumPage()
	if numPages == 0 {
		return nil, fmt.Errorf("document has no pages")
	}

	for i := 1; i <= numPages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		pages = append(pages, models.Page{
			Text:   pageText(page),
			Tables: pageTables(page),
		})
	}

	if pagesReadable(pages) {
		return pages, nil
	}
	return recoverPages(pages, documentPlainText(r)), nil
}

// recoverPages applies the whole-document fallback: when no per-page method
// produced readable content, a document-level plain text decode sometimes
// recovers statements whose fonts defeat the page-level paths. When that too
// fails the result is an empty page slice, not an error.
func recoverPages(pages []models.Page, docText string) []models.Page {
	if pagesReadable(pages) {
		return pages
	}
	if textReadable(docText) {
		return []models.Page{{Text: docText}}
	}
	return []models.Page{}
}

func documentPlainText(r *pdf.Reader) string {
	reader, err := r.GetPlainText()
	if err != nil {
		return ""
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, reader); err != nil {
		return ""
	}
	return strings.TrimSpace(buf.String())
}

// pageText extracts one page's text, trying methods in order of layout
// fidelity and keeping the first readable result. When nothing passes the
// readability gate the longest candidate is returned so the engine can still
// attempt a best-effort parse.
func pageText(page pdf.Page) string {
	candidates := []string{
		textByRow(page),
		textByContent(page),
		textByPlainText(page),
	}
	best := ""
	for _, c := range candidates {
		if textReadable(c) {
			return c
		}
		if len(c) > len(best) {
			best = c
		}
	}
	return best
}

func textByRow(page pdf.Page) string {
	rows, err := page.GetTextByRow()
	if err != nil {
		return ""
	}
	var lines []string
	for _, row := range rows {
		var parts []string
		for _, word := range row.Content {
			parts = append(parts, word.S)
		}
		if line := strings.TrimSpace(strings.Join(parts, " ")); line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}

// positionedRow is one reconstructed line of positioned text runs, already
// ordered left to right.
type positionedRow struct {
	y     int
	items []positionedItem
}

type positionedItem struct {
	x float64
	s string
}

// contentRows groups a page's positioned text runs into rows by rounded Y
// coordinate, ordered top-to-bottom (PDF Y grows upward) and left-to-right.
func contentRows(page pdf.Page) []positionedRow {
	content := page.Content()
	if len(content.Text) == 0 {
		return nil
	}

	byY := make(map[int][]positionedItem)
	for _, t := range content.Text {
		if strings.TrimSpace(t.S) == "" {
			continue
		}
		yKey := int(math.Round(t.Y))
		byY[yKey] = append(byY[yKey], positionedItem{x: t.X, s: t.S})
	}

	rows := make([]positionedRow, 0, len(byY))
	for y, items := range byY {
		sort.Slice(items, func(a, b int) bool { return items[a].x < items[b].x })
		rows = append(rows, positionedRow{y: y, items: items})
	}
	sort.Slice(rows, func(a, b int) bool { return rows[a].y > rows[b].y })
	return rows
}

// textByContent rebuilds page text from positioned runs, inserting a column
// separator wherever a large horizontal gap appears.
func textByContent(page pdf.Page) string {
	var lines []string
	for _, row := range contentRows(page) {
		var b strings.Builder
		var prevX float64
		for j, item := range row.items {
			if j > 0 && item.x-prevX > columnGap {
				b.WriteString("  ")
			}
			b.WriteString(item.s)
			prevX = item.x
		}
		if line := strings.TrimSpace(b.String()); line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}

func textByPlainText(page pdf.Page) string {
	fonts := make(map[string]*pdf.Font)
	for _, name := range page.Fonts() {
		f := page.Font(name)
		fonts[name] = &f
	}
	text, err := page.GetPlainText(fonts)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(text)
}

// pageTables recovers tabular structure from positioned content: each row
// whose runs split into two or more cells at column gaps becomes a table
// row. Statement exports carry at most one table per page, so all such rows
// form a single table.
func pageTables(page pdf.Page) [][][]string {
	var rows [][]string
	for _, row := range contentRows(page) {
		cells := splitCells(row.items)
		if len(cells) >= 2 {
			rows = append(rows, cells)
		}
	}
	if len(rows) == 0 {
		return nil
	}
	return [][][]string{rows}
}

// splitCells merges adjacent runs into cells, breaking at large X gaps.
func splitCells(items []positionedItem) []string {
	var cells []string
	var cur strings.Builder
	var prevX float64
	for j, item := range items {
		if j > 0 && item.x-prevX > columnGap {
			if c := strings.TrimSpace(cur.String()); c != "" {
				cells = append(cells, c)
			}
			cur.Reset()
		} else if j > 0 {
			cur.WriteString(" ")
		}
		cur.WriteString(item.s)
		prevX = item.x
	}
	if c := strings.TrimSpace(cur.String()); c != "" {
		cells = append(cells, c)
	}
	return cells
}

// statementWords is vocabulary expected in a genuine statement export. Text
// containing none of it is treated as undecodable garbage.
var statementWords = []string{
	"upi", "paid", "received", "transaction", "statement", "date",
	"amount", "bank", "credited", "debited", "transfer", "balance", "₹",
}

// textQuality returns the ratio of readable characters to total characters.
// A strict ASCII-leaning check: identity-encoded fonts produce accented
// garbage that unicode.IsLetter would wrongly accept.
func textQuality(text string) float64 {
	total, readable := 0, 0
	for _, r := range text {
		total++
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') ||
			(r >= '0' && r <= '9') || unicode.IsSpace(r) ||
			strings.ContainsRune(`.,-/:;()'"&@#!?+=*`, r) ||
			r == '₹' || r == '$' {
			readable++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(readable) / float64(total)
}

func textReadable(text string) bool {
	if len(strings.TrimSpace(text)) <= 50 {
		return false
	}
	if textQuality(text) <= 0.6 {
		return false
	}
	lower := strings.ToLower(text)
	for _, w := range statementWords {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return false
}

func pagesReadable(pages []models.Page) bool {
	var combined strings.Builder
	for _, p := range pages {
		combined.WriteString(p.Text)
		combined.WriteString("\n")
		for _, table := range p.Tables {
			for _, row := range table {
				combined.WriteString(strings.Join(row, " "))
				combined.WriteString("\n")
			}
		}
	}
	return textReadable(combined.String())
}
