package parser

import (
	"fmt"
	"regexp"
	"strings"
)

// Summary rows put the amount first, e.g.:
//
//	"19.35 :סך הכל"       (labeled form, amount then colon)
//	"49.35 סכום לתשלום"   (total form, amount then label)
var (
	labeledAmountRe = regexp.MustCompile(`^([\d.]+)\s*:`)
	leadingAmountRe = regexp.MustCompile(`^([\d.]+)\s`)
)

type receiptSummary struct {
	subtotal    float64
	vatAmount   float64
	deliveryFee float64
	totalAmount float64
}

// parseSummary resolves the money block. The grand total is mandatory;
// subtotal, delivery fee and VAT default to 0 when their label is absent
// (receipts without a delivery fee or VAT line are valid).
func parseSummary(lines []string) (receiptSummary, error) {
	var s receiptSummary

	subtotalLine := findLine(lines, func(line string) bool {
		return strings.Contains(line, labelSubtotal)
	})
	deliveryLine := findLine(lines, func(line string) bool {
		return strings.Contains(line, labelDeliveryFee1) && strings.Contains(line, labelDeliveryFee2)
	})
	totalLine := findLine(lines, func(line string) bool {
		return strings.Contains(line, labelTotal)
	})
	vatLine := findLine(lines, func(line string) bool {
		return strings.Contains(line, "%") && strings.Contains(line, labelVAT)
	})

	if totalLine == "" {
		return s, fmt.Errorf("%w: label %q", ErrMissingTotal, labelTotal)
	}

	if m := labeledAmountRe.FindStringSubmatch(subtotalLine); m != nil {
		s.subtotal, _ = parseAmount(m[1])
	}
	if m := labeledAmountRe.FindStringSubmatch(deliveryLine); m != nil {
		s.deliveryFee, _ = parseAmount(m[1])
	}
	if m := labeledAmountRe.FindStringSubmatch(vatLine); m != nil {
		s.vatAmount, _ = parseAmount(m[1])
	}

	m := leadingAmountRe.FindStringSubmatch(totalLine)
	if m == nil {
		return s, fmt.Errorf("%w: total line %q has no leading amount", ErrUnparsableField, totalLine)
	}
	total, err := parseAmount(m[1])
	if err != nil {
		return s, fmt.Errorf("%w: total %q: %v", ErrUnparsableField, m[1], err)
	}
	s.totalAmount = total

	return s, nil
}

// findLine returns the first line satisfying pred, or "".
func findLine(lines []string, pred func(string) bool) string {
	for _, line := range lines {
		if pred(line) {
			return line
		}
	}
	return ""
}
