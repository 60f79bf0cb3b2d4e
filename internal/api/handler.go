// Package api exposes the extraction engine over HTTP: a multipart PDF
// upload comes in, the parsed record collection plus a spending summary
// comes out.
package api

import (
	"bytes"
	"errors"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/gofiber/fiber/v2"

	"github.com/insightdelivered/upi-statement-analyzer/internal/analyzer"
	"github.com/insightdelivered/upi-statement-analyzer/internal/models"
	"github.com/insightdelivered/upi-statement-analyzer/internal/parser"
	"github.com/insightdelivered/upi-statement-analyzer/internal/writer"
)

const version = "1.0.0"

// ParseResponse is the JSON response from POST /api/parse.
type ParseResponse struct {
	Success      bool                   `json:"success"`
	Error        string                 `json:"error,omitempty"`
	Count        int                    `json:"count"`
	Transactions []TransactionView      `json:"transactions"`
	Summary      *analyzer.Summary      `json:"summary,omitempty"`
	Trends       []analyzer.PeriodTotal `json:"trends,omitempty"`
	CSV          string                 `json:"csv,omitempty"`
	DebugTrace   []string               `json:"debugTrace,omitempty"`
	Version      string                 `json:"version,omitempty"`
}

// TransactionView is a Transaction plus the derived category column that
// API consumers expect alongside the engine's verbatim fields.
type TransactionView struct {
	models.Transaction
	Category string `json:"category"`
}

// Handler wires the engine, categorizer and logger into fiber routes.
type Handler struct {
	Engine      *parser.Engine
	Categorizer *analyzer.Categorizer
	Logger      *log.Logger
}

// NewHandler returns a handler with default engine and categorizer wiring.
func NewHandler(logger *log.Logger) *Handler {
	return &Handler{
		Engine:      parser.New(logger),
		Categorizer: analyzer.NewCategorizer(),
		Logger:      logger,
	}
}

// RegisterRoutes sets up the API routes on the fiber app.
func (h *Handler) RegisterRoutes(app *fiber.App) {
	app.Get("/api/health", h.handleHealth)
	app.Post("/api/parse", h.handleParse)
}

func (h *Handler) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"version": version,
	})
}

func (h *Handler) handleParse(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return writeError(c, fiber.StatusBadRequest, "No file uploaded. Use form field 'file'.")
	}
	if !strings.HasSuffix(strings.ToLower(fh.Filename), ".pdf") {
		return writeError(c, fiber.StatusBadRequest, "Only PDF files are supported.")
	}

	file, err := fh.Open()
	if err != nil {
		return writeError(c, fiber.StatusBadRequest, "Uploaded file could not be opened.")
	}
	defer file.Close()

	debug := c.FormValue("debug") == "true"

	st, err := h.Engine.ParseReader(file, fh.Size, debug)
	if err != nil {
		h.Logger.Error("parse failed", "file", fh.Filename, "error", err)
		status := fiber.StatusInternalServerError
		if errors.Is(err, models.ErrInvalidDocument) {
			status = fiber.StatusUnprocessableEntity
		}
		return writeError(c, status, err.Error())
	}

	summary := analyzer.Analyze(st.Transactions, h.Categorizer)

	var trends []analyzer.PeriodTotal
	if p := c.FormValue("trends"); p != "" {
		trends = analyzer.SpendingTrends(st.Transactions, analyzer.Period(p))
	}

	views := make([]TransactionView, 0, len(st.Transactions))
	for _, txn := range st.Transactions {
		views = append(views, TransactionView{
			Transaction: txn,
			Category:    h.Categorizer.Categorize(txn.Description),
		})
	}

	var csvBuf bytes.Buffer
	cw := &writer.CSVWriter{Categorize: h.Categorizer.Categorize}
	if err := cw.Write(&csvBuf, st); err != nil {
		return writeError(c, fiber.StatusInternalServerError, "CSV generation failed: "+err.Error())
	}

	h.Logger.Info("parsed statement", "file", fh.Filename, "pages", st.Pages, "transactions", len(st.Transactions))

	return c.JSON(ParseResponse{
		Success:      true,
		Count:        len(views),
		Transactions: views,
		Summary:      &summary,
		Trends:       trends,
		CSV:          csvBuf.String(),
		DebugTrace:   st.DebugTrace,
		Version:      version,
	})
}

func writeError(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(ParseResponse{
		Success:      false,
		Error:        msg,
		Transactions: []TransactionView{},
	})
}
