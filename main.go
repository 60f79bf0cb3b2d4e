package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/gofiber/fiber/v2"

	"github.com/insightdelivered/upi-statement-analyzer/internal/analyzer"
	"github.com/insightdelivered/upi-statement-analyzer/internal/api"
	"github.com/insightdelivered/upi-statement-analyzer/internal/parser"
	"github.com/insightdelivered/upi-statement-analyzer/internal/writer"
)

const version = "1.0.0"

func main() {
	outputFlag := flag.String("output", "", "Output CSV file path (defaults to input filename with .csv extension)")
	categoriesFlag := flag.String("categories", "", "YAML file with a custom category table")
	debugFlag := flag.Bool("debug", false, "Print the per-page extraction trace")
	summaryFlag := flag.Bool("summary", false, "Print a spending summary after conversion")
	serveFlag := flag.Bool("serve", false, "Run the HTTP API instead of converting files")
	addrFlag := flag.String("addr", ":8080", "Listen address for -serve")
	versionFlag := flag.Bool("version", false, "Print version and exit")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `UPI Statement Analyzer
by Insight Delivered (QEA AutoLens)

Extracts transactions from UPI payment app statement PDFs and writes
them as CSV, with keyword-based spending categories.

Usage:
  upi-statement-analyzer [flags] <statement.pdf> [statement2.pdf ...]
  upi-statement-analyzer -serve [-addr :8080]

Flags:
`)
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  # Convert a statement to CSV
  upi-statement-analyzer statement.pdf

  # Custom output path with a spending summary
  upi-statement-analyzer -output=transactions.csv -summary statement.pdf

  # Run the upload API
  upi-statement-analyzer -serve -addr :9000
`)
	}

	flag.Parse()

	if *versionFlag {
		fmt.Printf("upi-statement-analyzer v%s\n", version)
		os.Exit(0)
	}

	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "upi-analyzer",
	})
	if *debugFlag {
		logger.SetLevel(log.DebugLevel)
	}

	categorizer := analyzer.NewCategorizer()
	if *categoriesFlag != "" {
		loaded, err := analyzer.LoadCategorizer(*categoriesFlag)
		if err != nil {
			logger.Fatal("could not load category table", "error", err)
		}
		categorizer = loaded
	}

	if *serveFlag {
		serve(*addrFlag, categorizer, logger)
		return
	}

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(0)
	}

	engine := parser.New(logger)
	for _, inputPath := range flag.Args() {
		if err := processFile(engine, categorizer, inputPath, *outputFlag, *debugFlag, *summaryFlag); err != nil {
			logger.Fatal("processing failed", "file", inputPath, "error", err)
		}
	}
}

func serve(addr string, categorizer *analyzer.Categorizer, logger *log.Logger) {
	app := fiber.New(fiber.Config{
		BodyLimit: 32 << 20,
		AppName:   "upi-statement-analyzer v" + version,
	})
	handler := api.NewHandler(logger)
	handler.Categorizer = categorizer
	handler.RegisterRoutes(app)

	logger.Info("starting API", "addr", addr)
	if err := app.Listen(addr); err != nil {
		logger.Fatal("server stopped", "error", err)
	}
}

func processFile(engine *parser.Engine, categorizer *analyzer.Categorizer, inputPath, outputPath string, debug, summary bool) error {
	if ext := strings.ToLower(filepath.Ext(inputPath)); ext != ".pdf" {
		return fmt.Errorf("expected .pdf file, got %q", ext)
	}

	fmt.Printf("Processing: %s\n", inputPath)

	st, err := engine.ParseFile(inputPath, debug)
	if err != nil {
		return err
	}

	fmt.Printf("  Extracted %d transaction(s) from %d page(s)\n", len(st.Transactions), st.Pages)
	if len(st.Transactions) == 0 {
		fmt.Println("  Warning: no transactions found. The statement layout may not match expected patterns.")
	}

	if debug {
		for _, line := range st.DebugTrace {
			fmt.Printf("  debug: %s\n", line)
		}
	}

	outPath := outputPath
	if outPath == "" {
		outPath = strings.TrimSuffix(inputPath, filepath.Ext(inputPath)) + ".csv"
	}

	w := &writer.CSVWriter{Categorize: categorizer.Categorize}
	if err := w.WriteToFile(outPath, st); err != nil {
		return fmt.Errorf("CSV write failed: %w", err)
	}
	fmt.Printf("  Output: %s\n", outPath)

	if summary {
		printSummary(analyzer.Analyze(st.Transactions, categorizer))
	}

	fmt.Println("  Done.")
	return nil
}

func printSummary(s analyzer.Summary) {
	fmt.Printf("  Total spending: %.2f\n", s.TotalSpending)
	fmt.Printf("  Total income:   %.2f\n", s.TotalIncome)
	fmt.Printf("  Net balance:    %.2f\n", s.NetBalance)
	if !s.From.IsZero() {
		fmt.Printf("  Period: %s to %s\n", s.From.Format("2006-01-02"), s.To.Format("2006-01-02"))
	}
	for _, c := range s.ByCategory {
		fmt.Printf("    %-20s %.2f\n", c.Category, c.Amount)
	}
	if s.Largest != nil {
		fmt.Printf("  Largest debit: %.2f (%s)\n", s.Largest.Amount, s.Largest.Description)
	}
}
