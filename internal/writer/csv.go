package writer

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/eshaham/shufersal-receipts/internal/models"
)

// CSVWriter writes a parsed receipt to CSV format, one row per item.
type CSVWriter struct {
	IncludeHeader bool
}

// WriteToFile writes the receipt to a CSV file at the given path.
func (w *CSVWriter) WriteToFile(path string, receipt *models.ReceiptDetails) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file %q: %w", path, err)
	}
	defer f.Close()

	return w.Write(f, receipt)
}

// Write writes the receipt in CSV format to the given writer.
func (w *CSVWriter) Write(out io.Writer, receipt *models.ReceiptDetails) error {
	writer := csv.NewWriter(out)
	defer writer.Flush()

	// Write receipt metadata as comment rows
	if w.IncludeHeader {
		writer.Write([]string{"# Order", receipt.OrderCode})
		writer.Write([]string{"# Order Date", receipt.OrderDate})
		writer.Write([]string{"# Delivery Date", receipt.DeliveryDate})
		writer.Write([]string{"# Customer", receipt.CustomerName})
		writer.Write([]string{"# Address", receipt.Address})
		writer.Write([]string{"# Subtotal", formatAmount(receipt.Subtotal)})
		if receipt.DeliveryFee != 0 {
			writer.Write([]string{"# Delivery Fee", formatAmount(receipt.DeliveryFee)})
		}
		if receipt.VATAmount != 0 {
			writer.Write([]string{"# VAT", formatAmount(receipt.VATAmount)})
		}
		writer.Write([]string{"# Total", formatAmount(receipt.TotalAmount)})
	}

	// Write column headers
	header := []string{"Product Code", "Product Name", "Barcode", "Selling Method", "Ordered", "Supplied", "Unit Price", "Total", "Discounts"}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	// Write item rows
	for _, item := range receipt.Items {
		var discounts float64
		for _, promo := range item.Promotions {
			discounts += promo.DiscountAmount
		}
		row := []string{
			item.ProductCode,
			item.ProductName,
			item.Barcode,
			string(item.SellingMethod),
			formatQuantity(item.OrderedQuantity),
			formatQuantity(item.SuppliedQuantity),
			formatAmount(item.Price),
			formatAmount(item.TotalPrice),
			formatAmount(discounts),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	return nil
}

func formatAmount(amount float64) string {
	if amount == 0 {
		return ""
	}
	return strconv.FormatFloat(amount, 'f', 2, 64)
}

func formatQuantity(qty float64) string {
	return strconv.FormatFloat(qty, 'f', -1, 64)
}
