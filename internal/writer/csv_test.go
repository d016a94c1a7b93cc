package writer

import (
	"bytes"
	"strings"
	"testing"

	"github.com/eshaham/shufersal-receipts/internal/models"
)

func sampleDetails() *models.ReceiptDetails {
	return &models.ReceiptDetails{
		OrderCode:     "00123456",
		OrderDate:     "08:30 15/01/24",
		DeliveryDate:  "14:00 16/01/24",
		CustomerName:  "ישראל ישראלי",
		CustomerPhone: "0501234567",
		Address:       "הרצל 12 תל אביב, קומה 3, דירה 7",
		Items: []models.ReceiptItem{
			{
				ProductCode:      "P_123456",
				ProductName:      "חלב תנובה 3%",
				OrderedQuantity:  2,
				SuppliedQuantity: 2,
				SellingMethod:    models.SellingUnit,
				Price:            6.45,
				TotalPrice:       12.90,
				Promotions: []models.ReceiptPromotion{
					{Code: "556677", Description: "שני במחיר מיוחד", DiscountAmount: 2.45},
				},
			},
			{
				ProductCode:      "P_7290000000001",
				ProductName:      "עגבניות שרי",
				Barcode:          "7290000000001",
				OrderedQuantity:  1.00,
				SuppliedQuantity: 0.90,
				SellingMethod:    models.SellingWeight,
				Price:            9.90,
				TotalPrice:       8.90,
				Promotions:       []models.ReceiptPromotion{},
			},
		},
		Subtotal:    19.35,
		VATAmount:   7.17,
		DeliveryFee: 30.00,
		TotalAmount: 49.35,
	}
}

func TestCSVWriter_Write(t *testing.T) {
	receipt := sampleDetails()

	var buf bytes.Buffer
	w := &CSVWriter{IncludeHeader: true}
	if err := w.Write(&buf, receipt); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	output := buf.String()

	// Metadata headers
	if !strings.Contains(output, "# Order,00123456") {
		t.Error("expected order metadata header")
	}
	if !strings.Contains(output, "# Total,49.35") {
		t.Error("expected total metadata header")
	}

	// Column headers
	if !strings.Contains(output, "Product Code,Product Name,Barcode,Selling Method,Ordered,Supplied,Unit Price,Total,Discounts") {
		t.Error("expected column headers")
	}

	// Item rows
	if !strings.Contains(output, "P_123456") {
		t.Error("expected first item code")
	}
	if !strings.Contains(output, "7290000000001") {
		t.Error("expected second item barcode")
	}
	if !strings.Contains(output, "2.45") {
		t.Error("expected first item discount total")
	}

	lines := strings.Split(strings.TrimSpace(output), "\n")
	// 9 metadata lines + 1 header + 2 items = 12
	if len(lines) != 12 {
		t.Errorf("expected 12 lines, got %d", len(lines))
	}
}

func TestCSVWriter_WriteNoHeader(t *testing.T) {
	receipt := sampleDetails()

	var buf bytes.Buffer
	w := &CSVWriter{IncludeHeader: false}
	if err := w.Write(&buf, receipt); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	output := buf.String()

	if strings.Contains(output, "# Order") {
		t.Error("should not have metadata when header=false")
	}
	if !strings.Contains(output, "Product Code,Product Name") {
		t.Error("expected column headers even without metadata")
	}
}

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		input    float64
		expected string
	}{
		{6.45, "6.45"},
		{1234.56, "1234.56"},
		{0, ""},
		{30.00, "30.00"},
	}

	for _, tt := range tests {
		got := formatAmount(tt.input)
		if got != tt.expected {
			t.Errorf("formatAmount(%f): got %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestFormatQuantity(t *testing.T) {
	if got := formatQuantity(2); got != "2" {
		t.Errorf("formatQuantity(2): got %q", got)
	}
	if got := formatQuantity(0.9); got != "0.9" {
		t.Errorf("formatQuantity(0.9): got %q", got)
	}
}
