package parser

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	// digitsOnly matches an entire line of digits (order id, phone).
	digitsOnly = regexp.MustCompile(`^\d+$`)
	// timestampPattern matches a "HH:MM DD/MM/YY" style token anywhere in
	// a line. Example: "08:30 15/01/24".
	timestampPattern = regexp.MustCompile(`[\d:]+\s+[\d/]+`)
	// floorPattern / apartmentPattern split the two address lines.
	// Example: "קומה.: 3 הרצל 12"
	floorPattern     = regexp.MustCompile(`קומה\.: (\d+)\s+(.+)`)
	apartmentPattern = regexp.MustCompile(`דירה\.: (\d+)\s+(.+)`)
)

// extractOrderNumber resolves the order id from the header block.
//
// The source document renders the header as two columns — labels on one
// side, values on the other — which the text dump collapses into a run of
// colon-terminated label lines followed by a run of value lines. The two
// runs are paired by position: the value for the Nth label is the Nth
// non-empty line after the label run ends. A length mismatch between the
// runs fails the parse rather than guessing.
func extractOrderNumber(lines []string) (string, error) {
	start := indexContaining(lines, labelDeliveryNote, 0)
	if start == -1 {
		return "", fmt.Errorf("%w: delivery document marker %q", ErrMissingSection, labelDeliveryNote)
	}

	var labels []string
	labelsEnd := -1
	for i := start + 1; i < len(lines) && i < start+labelScanWindow; i++ {
		line := lines[i]
		if strings.HasSuffix(line, ":") {
			labels = append(labels, line)
			if line == labelOrderNumber {
				labelsEnd = i
				break
			}
		}
	}
	if labelsEnd == -1 || len(labels) == 0 {
		return "", fmt.Errorf("%w: order number label %q", ErrMissingField, labelOrderNumber)
	}

	orderLabelIndex := -1
	for i, label := range labels {
		if label == labelOrderNumber {
			orderLabelIndex = i
			break
		}
	}
	if orderLabelIndex == -1 {
		return "", fmt.Errorf("%w: order number label %q", ErrMissingField, labelOrderNumber)
	}

	var values []string
	for i := labelsEnd + 1; i < len(lines) && i < labelsEnd+labelScanWindow; i++ {
		line := lines[i]
		if strings.Contains(line, labelOrderDate) || strings.Contains(line, labelDeliveryDate) {
			break
		}
		if line != "" {
			values = append(values, line)
		}
	}

	if len(values) != len(labels) {
		return "", fmt.Errorf("%w: header label/value mismatch: %d labels, %d values",
			ErrUnparsableField, len(labels), len(values))
	}

	orderNumber := values[orderLabelIndex]
	if !digitsOnly.MatchString(orderNumber) {
		return "", fmt.Errorf("%w: order number %q is not numeric", ErrUnparsableField, orderNumber)
	}

	return zeroPad(orderNumber, 8), nil
}

// extractDates resolves the order and delivery timestamps. Both labels
// precede both values, so the scan starts after the later label and takes
// timestamp-shaped lines in encounter order.
func extractDates(lines []string) (orderDate, deliveryDate string, err error) {
	orderLabel := indexContaining(lines, labelOrderDate, 0)
	deliveryLabel := indexContaining(lines, labelDeliveryDate, 0)
	if orderLabel == -1 || deliveryLabel == -1 {
		return "", "", fmt.Errorf("%w: date labels %q / %q", ErrMissingSection, labelOrderDate, labelDeliveryDate)
	}

	start := max(orderLabel, deliveryLabel) + 1
	for i := start; i < len(lines) && i < start+fieldScanWindow; i++ {
		line := lines[i]
		if !timestampPattern.MatchString(line) {
			continue
		}
		if orderDate == "" {
			orderDate = line
		} else {
			deliveryDate = line
			break
		}
	}

	if orderDate == "" || deliveryDate == "" {
		return "", "", fmt.Errorf("%w: order/delivery dates", ErrUnparsableField)
	}
	return orderDate, deliveryDate, nil
}

// extractCustomerInfo resolves name and phone. The three customer labels
// appear in fixed order; the first non-numeric non-empty line after them
// is the name, the first all-digit line is the phone.
func extractCustomerInfo(lines []string) (name, phone string, err error) {
	nameLabel := indexEqual(lines, labelCustomer, 0)
	if nameLabel == -1 {
		return "", "", fmt.Errorf("%w: customer labels", ErrMissingSection)
	}
	phoneLabel := indexEqual(lines, labelPhone, nameLabel+1)
	if phoneLabel == -1 {
		return "", "", fmt.Errorf("%w: customer labels", ErrMissingSection)
	}
	addressLabel := indexEqual(lines, labelAddress, phoneLabel+1)
	if addressLabel == -1 {
		return "", "", fmt.Errorf("%w: customer labels", ErrMissingSection)
	}

	start := addressLabel + 1
	for i := start; i < len(lines) && i < start+fieldScanWindow; i++ {
		line := lines[i]
		if line == "" {
			continue
		}
		if name == "" && !digitsOnly.MatchString(line) {
			name = line
		} else if digitsOnly.MatchString(line) {
			phone = line
			break
		}
	}

	if name == "" || phone == "" {
		return "", "", fmt.Errorf("%w: customer name/phone", ErrUnparsableField)
	}
	return name, phone, nil
}

// extractAddress composes the delivery address from the floor and
// apartment lines. The floor line carries the street, the apartment line
// carries the city and postal code.
func extractAddress(lines []string) (string, error) {
	floorIdx := indexContaining(lines, labelFloor, 0)
	aptIdx := indexContaining(lines, labelApartment, 0)
	if floorIdx == -1 || aptIdx == -1 {
		return "", fmt.Errorf("%w: address lines %q / %q", ErrMissingSection, labelFloor, labelApartment)
	}

	floorMatch := floorPattern.FindStringSubmatch(lines[floorIdx])
	aptMatch := apartmentPattern.FindStringSubmatch(lines[aptIdx])
	if floorMatch == nil || aptMatch == nil {
		return "", fmt.Errorf("%w: address", ErrUnparsableField)
	}

	floor, street := floorMatch[1], floorMatch[2]
	apartment, city := aptMatch[1], aptMatch[2]

	return fmt.Sprintf("%s %s, קומה %s, דירה %s", street, city, floor, apartment), nil
}
