package parser

import (
	"strconv"
	"strings"
)

// placeholderAmount marks a not-applicable figure on the document,
// e.g. the unit price of a promotional giveaway line.
const placeholderAmount = "----"

// parseAmount converts an amount token like "1,234.56" or "₪12.90" to a
// float64. The "----" placeholder resolves to 0, not an error.
func parseAmount(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == placeholderAmount {
		return 0, nil
	}
	s = strings.ReplaceAll(s, "₪", "")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, " ", "") // non-breaking space

	if s == "" {
		return 0, nil
	}
	return strconv.ParseFloat(s, 64)
}

// zeroPad left-pads a numeric string with zeros to the given width.
func zeroPad(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return strings.Repeat("0", width-len(s)) + s
}
