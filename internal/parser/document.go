package parser

import (
	"fmt"
	"io"

	"github.com/insightdelivered/upi-statement-analyzer/internal/extractor"
	"github.com/insightdelivered/upi-statement-analyzer/internal/models"
)

// ParseFile extracts pages from a statement PDF on disk and runs the engine
// over them. Open/decode failures surface as models.ErrInvalidDocument; any
// other failure during the pass surfaces as models.ErrExtraction. Zero
// extracted records is not an error.
func (e *Engine) ParseFile(path string, debug bool) (st *models.Statement, err error) {
	defer func() {
		if r := recover(); r != nil {
			st = nil
			err = fmt.Errorf("%w: %v", models.ErrExtraction, r)
		}
	}()

	pages, extractErr := extractor.ExtractPages(path)
	if extractErr != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrInvalidDocument, extractErr)
	}
	return e.Parse(pages, debug), nil
}

// ParseReader is ParseFile for an already-open document stream. The reader
// must be positioned at the start; the extractor re-reads it as needed and
// never closes it.
func (e *Engine) ParseReader(r io.ReaderAt, size int64, debug bool) (st *models.Statement, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			st = nil
			err = fmt.Errorf("%w: %v", models.ErrExtraction, rec)
		}
	}()

	pages, extractErr := extractor.ExtractPagesReader(r, size)
	if extractErr != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrInvalidDocument, extractErr)
	}
	return e.Parse(pages, debug), nil
}
