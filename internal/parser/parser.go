// Package parser turns the plain-text rendering of a Shufersal delivery
// note into a structured, validated receipt record.
//
// The input is the text dump of a Hebrew, fixed-layout delivery document.
// Numeric columns sit left of the description in byte order even though
// the document reads right-to-left, so every pattern below anchors on the
// leading amount tokens.
package parser

import (
	"strings"

	"github.com/eshaham/shufersal-receipts/internal/models"
)

// Hebrew label anchors of the delivery-note layout. Labels are matched as
// substrings since surrounding whitespace varies between dumps.
const (
	labelDeliveryNote = "תעודת משלוח"
	labelOrderNumber  = "מס. הזמנה:"
	labelOrderDate    = "ת. הזמנה:"
	labelDeliveryDate = "ת. אספקה:"
	labelCustomer     = "שם לקוח:"
	labelPhone        = "טלפון:"
	labelAddress      = "כתובת:"
	labelFloor        = "קומה.:"
	labelApartment    = "דירה.:"
	itemTableHeader   = `הערות סה"כ מחיר סופק הוזמן תאור קוד פריט`
	labelSubtotal     = "סך הכל"
	labelDeliveryFee1 = "דמי"
	labelDeliveryFee2 = "משלוח"
	labelTotal        = "סכום לתשלום"
	labelVAT          = `מע"מ`
)

// Forward scan windows. Bounded so a malformed dump cannot drag a label
// scan across the whole document.
const (
	labelScanWindow = 20
	fieldScanWindow = 10
)

// ParseReceipt parses a complete delivery-note text dump. It is a pure
// function of its input: no partial record is returned on failure.
func ParseReceipt(text string) (*models.ReceiptDetails, error) {
	lines := splitLines(text)

	orderCode, err := extractOrderNumber(lines)
	if err != nil {
		return nil, err
	}
	orderDate, deliveryDate, err := extractDates(lines)
	if err != nil {
		return nil, err
	}
	customerName, customerPhone, err := extractCustomerInfo(lines)
	if err != nil {
		return nil, err
	}
	address, err := extractAddress(lines)
	if err != nil {
		return nil, err
	}
	items, err := parseReceiptItems(lines)
	if err != nil {
		return nil, err
	}
	summary, err := parseSummary(lines)
	if err != nil {
		return nil, err
	}

	return &models.ReceiptDetails{
		OrderCode:     orderCode,
		OrderDate:     orderDate,
		DeliveryDate:  deliveryDate,
		CustomerName:  customerName,
		CustomerPhone: customerPhone,
		Address:       address,
		Items:         items,
		Subtotal:      summary.subtotal,
		VATAmount:     summary.vatAmount,
		DeliveryFee:   summary.deliveryFee,
		TotalAmount:   summary.totalAmount,
	}, nil
}

// IsDeliveryNote reports whether the text looks like a Shufersal delivery
// document at all, without attempting a full parse.
func IsDeliveryNote(text string) bool {
	return strings.Contains(text, labelDeliveryNote)
}

// splitLines is the shared substrate every extractor walks: the raw text
// split into an ordered sequence of trimmed lines.
func splitLines(text string) []string {
	raw := strings.Split(text, "\n")
	lines := make([]string, len(raw))
	for i, line := range raw {
		lines[i] = strings.TrimSpace(line)
	}
	return lines
}

// indexContaining returns the index of the first line at or after start
// that contains substr, or -1.
func indexContaining(lines []string, substr string, start int) int {
	for i := start; i < len(lines); i++ {
		if strings.Contains(lines[i], substr) {
			return i
		}
	}
	return -1
}

// indexEqual returns the index of the first line at or after start that
// equals s exactly, or -1.
func indexEqual(lines []string, s string, start int) int {
	for i := start; i < len(lines); i++ {
		if lines[i] == s {
			return i
		}
	}
	return -1
}
