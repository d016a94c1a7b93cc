package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/joho/godotenv"

	"github.com/eshaham/shufersal-receipts/internal/api"
	"github.com/eshaham/shufersal-receipts/internal/parser"
	"github.com/eshaham/shufersal-receipts/internal/writer"
)

const version = "1.0.0"

func main() {
	formatFlag := flag.String("format", "json", "Output format: json, csv, xlsx")
	outputFlag := flag.String("output", "", "Output file path (defaults to input filename with new extension)")
	headerFlag := flag.Bool("header", true, "Include receipt metadata header rows in CSV")
	serveFlag := flag.Bool("serve", false, "Run the HTTP API instead of converting files")
	addrFlag := flag.String("addr", "", "HTTP listen address (default :8080, or PORT from env)")
	versionFlag := flag.Bool("version", false, "Print version and exit")
	helpFlag := flag.Bool("help", false, "Show usage help")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `Shufersal Delivery Receipt Parser

Converts plain-text Shufersal delivery-note dumps into structured
JSON, CSV, or XLSX records, and classifies promotion messages.

Usage:
  shufersal-receipts [flags] <receipt.txt> [receipt2.txt ...]
  shufersal-receipts --serve

Flags:
`)
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  # Parse a receipt dump to JSON
  shufersal-receipts receipt.txt

  # Parse to CSV with a custom output path
  shufersal-receipts --format=csv --output=items.csv receipt.txt

  # Export to an Excel workbook
  shufersal-receipts --format=xlsx receipt.txt

  # Run the HTTP API
  shufersal-receipts --serve --addr=:8080
`)
	}

	flag.Parse()

	if *versionFlag {
		fmt.Printf("shufersal-receipts v%s\n", version)
		os.Exit(0)
	}

	if *serveFlag {
		if err := serve(*addrFlag); err != nil {
			fatalf("Server error: %v\n", err)
		}
		return
	}

	if *helpFlag || flag.NArg() == 0 {
		flag.Usage()
		os.Exit(0)
	}

	format := strings.ToLower(*formatFlag)
	switch format {
	case "json", "csv", "xlsx":
	default:
		fatalf("Unknown format %q. Supported: json, csv, xlsx\n", *formatFlag)
	}

	for _, inputPath := range flag.Args() {
		if err := processFile(inputPath, format, *outputFlag, *headerFlag); err != nil {
			fmt.Fprintf(os.Stderr, "Error processing %s: %v\n", inputPath, err)
			os.Exit(1)
		}
	}
}

func processFile(inputPath, format, outputPath string, includeHeader bool) error {
	body, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}

	fmt.Printf("Processing: %s\n", inputPath)

	text := string(body)
	if !parser.IsDeliveryNote(text) {
		return fmt.Errorf("input does not look like a delivery document")
	}

	receipt, err := parser.ParseReceipt(text)
	if err != nil {
		return fmt.Errorf("parsing failed: %w", err)
	}

	fmt.Printf("  Order %s: %d item(s), total %.2f\n",
		receipt.OrderCode, len(receipt.Items), receipt.TotalAmount)

	if err := receipt.Validate(); err != nil {
		fmt.Printf("  Warning: %v\n", err)
	}

	outPath := outputPath
	if outPath == "" {
		base := strings.TrimSuffix(inputPath, filepath.Ext(inputPath))
		outPath = base + "." + format
	}

	switch format {
	case "json":
		data, err := json.MarshalIndent(receipt, "", "  ")
		if err != nil {
			return fmt.Errorf("JSON encoding failed: %w", err)
		}
		if err := os.WriteFile(outPath, append(data, '\n'), 0o644); err != nil {
			return fmt.Errorf("JSON write failed: %w", err)
		}
	case "csv":
		w := &writer.CSVWriter{IncludeHeader: includeHeader}
		if err := w.WriteToFile(outPath, receipt); err != nil {
			return fmt.Errorf("CSV write failed: %w", err)
		}
	case "xlsx":
		w := &writer.XLSXWriter{}
		if err := w.WriteToFile(outPath, receipt); err != nil {
			return fmt.Errorf("XLSX write failed: %w", err)
		}
	}

	fmt.Printf("  Output: %s\n", outPath)
	fmt.Println("  Done.")
	return nil
}

func serve(addr string) error {
	// .env is optional; real env vars win either way.
	_ = godotenv.Load()

	if addr == "" {
		if port := os.Getenv("PORT"); port != "" {
			addr = ":" + port
		} else {
			addr = ":8080"
		}
	}

	app := fiber.New(fiber.Config{
		AppName:   "shufersal-receipts v" + version,
		BodyLimit: 8 << 20,
	})
	app.Use(logger.New())
	api.RegisterRoutes(app)

	fmt.Printf("Listening on %s\n", addr)
	return app.Listen(addr)
}

func fatalf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format, args...)
	os.Exit(1)
}
