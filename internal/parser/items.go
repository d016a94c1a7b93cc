package parser

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/eshaham/shufersal-receipts/internal/models"
)

// parsedItemLine is the raw field set recovered from one item row before
// it is folded into a models.ReceiptItem.
type parsedItemLine struct {
	totalPrice  float64
	price       float64
	suppliedQty float64
	orderedQty  float64
	unit        string
	description string
	code        string
	barcode     string
}

// Item row shapes. Column order in byte terms is:
//
//	TOTAL  UNIT_PRICE  SUPPLIED  ORDERED  UNIT  [BARCODE]  DESCRIPTION  [CODE]
//
// Weight rows carry a trailing "קג" after the prices and a "ימ" marker
// before the code, e.g.:
//
//	"8.90 9.90 קג 0.90 1.00 ימ 7290000000001 עגבניות שרי"
//
// Unit rows carry integer quantities and the unit tag inline, e.g.:
//
//	"12.90 6.45 2 2 יח חלב תנובה 3% 123456"
//
// A "----" in a price column means the figure is not applicable (0).
var (
	weightItemBarcodeRe = regexp.MustCompile(
		`^([\d.]+|-{4})\s+([\d.]+|-{4})\s+קג\s+([\d.]+)\s+([\d.]+)\s+ימ\s+(\d{13})\s+(.+)$`)
	weightItemCodeRe = regexp.MustCompile(
		`^([\d.]+|-{4})\s+([\d.]+|-{4})\s+קג\s+([\d.]+)\s+([\d.]+)\s+ימ\s+(.+?)\s+(\d+)$`)
	genericItemBarcodeRe = regexp.MustCompile(
		`^([\d.]+|-{4})\s+([\d.]+|-{4})\s+(\d+)\s+(\d+)\s+(יח|קג|ימ)\s+([A-Z]+\s+)?(\d{13})\s+(.+)$`)
	genericItemCodeRe = regexp.MustCompile(
		`^([\d.]+|-{4})\s+([\d.]+|-{4})\s+(\d+)\s+(\d+)\s+(יח|קג|ימ)\s+(.+?)\s+(\d+)$`)

	// descBarcodeRe recovers a barcode that ended up inside the
	// description of a plain-code row. Best-effort: the primary shapes
	// only treat a 13-digit run as a barcode in its expected position.
	descBarcodeRe = regexp.MustCompile(`^(\d{13})\s+(.+)`)
)

// itemShape pairs a row pattern with its field extractor. The chain is
// evaluated in order, first match wins. Order matters: the weight shapes
// must come first because the looser generic shapes can accidentally
// match the tail of a weight row.
type itemShape struct {
	re      *regexp.Regexp
	extract func(m []string) (parsedItemLine, error)
}

var itemShapes = []itemShape{
	{weightItemBarcodeRe, extractWeightBarcodeItem},
	{weightItemCodeRe, extractWeightCodeItem},
	{genericItemBarcodeRe, extractGenericBarcodeItem},
	{genericItemCodeRe, extractGenericCodeItem},
}

// parseItemLine classifies one trimmed line against the shape chain.
// Returns nil when the line is not an item row.
func parseItemLine(line string) (*parsedItemLine, error) {
	for _, shape := range itemShapes {
		m := shape.re.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		item, err := shape.extract(m)
		if err != nil {
			return nil, fmt.Errorf("%w: item line %q: %v", ErrUnparsableField, line, err)
		}
		return &item, nil
	}
	return nil, nil
}

func extractWeightBarcodeItem(m []string) (parsedItemLine, error) {
	item, err := amountFields(m[1], m[2], m[3], m[4])
	if err != nil {
		return parsedItemLine{}, err
	}
	item.unit = "קג"
	item.barcode = m[5]
	item.description = m[6]
	item.code = m[5]
	return item, nil
}

func extractWeightCodeItem(m []string) (parsedItemLine, error) {
	item, err := amountFields(m[1], m[2], m[3], m[4])
	if err != nil {
		return parsedItemLine{}, err
	}
	item.unit = "קג"
	item.description = m[5]
	item.code = m[6]
	return item, nil
}

func extractGenericBarcodeItem(m []string) (parsedItemLine, error) {
	item, err := amountFields(m[1], m[2], m[3], m[4])
	if err != nil {
		return parsedItemLine{}, err
	}
	item.unit = m[5]
	item.barcode = m[7]
	item.description = m[6] + m[8] // m[6] is an optional Latin prefix
	item.code = m[7]
	return item, nil
}

func extractGenericCodeItem(m []string) (parsedItemLine, error) {
	item, err := amountFields(m[1], m[2], m[3], m[4])
	if err != nil {
		return parsedItemLine{}, err
	}
	item.unit = m[5]
	item.description = m[6]
	item.code = m[7]

	// Secondary barcode recovery: some rows embed the barcode at the
	// head of the description instead of the expected column.
	if bm := descBarcodeRe.FindStringSubmatch(item.description); bm != nil {
		item.barcode = bm[1]
	}
	return item, nil
}

func amountFields(total, price, supplied, ordered string) (parsedItemLine, error) {
	var item parsedItemLine
	var err error
	if item.totalPrice, err = parseAmount(total); err != nil {
		return item, err
	}
	if item.price, err = parseAmount(price); err != nil {
		return item, err
	}
	if item.suppliedQty, err = parseAmount(supplied); err != nil {
		return item, err
	}
	if item.orderedQty, err = parseAmount(ordered); err != nil {
		return item, err
	}
	return item, nil
}

// promotionLineRe matches a discount row attached to the preceding item:
//
//	"10.45- 2.45- מבצע: 556677 שני במחיר מיוחד"
//
// i.e. negated subtotal, negated discount, optional quantity, then the
// promotion code and description.
var promotionLineRe = regexp.MustCompile(
	`^([\d.]+)-\s+([\d.]+)-\s+(?:[\d.]+\s+)?מבצע:\s+(\d+)\s+(.+)$`)

// parsePromotionLine matches one line against the promotion row shape.
// Returns nil when the line is not a promotion row.
func parsePromotionLine(line string) (*models.ReceiptPromotion, error) {
	m := promotionLineRe.FindStringSubmatch(line)
	if m == nil {
		return nil, nil
	}
	discount, err := parseAmount(m[2])
	if err != nil {
		return nil, fmt.Errorf("%w: promotion line %q: %v", ErrUnparsableField, line, err)
	}
	return &models.ReceiptPromotion{
		Code:           m[3],
		Description:    strings.TrimSpace(m[4]),
		DiscountAmount: discount,
	}, nil
}

// itemSection bounds one item table; a paginated document has several.
type itemSection struct {
	start, end int
}

// findItemSections locates every item table in the document. Each table
// starts two lines after its header (skipping the rule line) and ends at
// the summary block or the next page's header.
func findItemSections(lines []string) ([]itemSection, error) {
	var sections []itemSection
	for i := range lines {
		if !strings.Contains(lines[i], itemTableHeader) {
			continue
		}
		end := len(lines)
		for j := i + 1; j < len(lines); j++ {
			if strings.Contains(lines[j], labelSubtotal) || strings.Contains(lines[j], itemTableHeader) {
				end = j
				break
			}
		}
		sections = append(sections, itemSection{start: i + 2, end: end})
	}
	if len(sections) == 0 {
		return nil, fmt.Errorf("%w: item table header", ErrNoItemsFound)
	}
	return sections, nil
}

// parseReceiptItems folds the item-table lines into receipt items. The
// accumulator holds the currently open item; an item row flushes the
// previous one and opens a new one, a promotion row attaches to the open
// item. Promotion rows before any item are dropped (stray lines occur in
// real dumps). Sections are concatenated in encounter order, and the
// open item survives a page break.
func parseReceiptItems(lines []string) ([]models.ReceiptItem, error) {
	sections, err := findItemSections(lines)
	if err != nil {
		return nil, err
	}

	items := []models.ReceiptItem{}
	var current *models.ReceiptItem

	for _, section := range sections {
		for i := section.start; i < section.end && i < len(lines); i++ {
			line := lines[i]

			// Skip blank lines and horizontal rules.
			if line == "" || (strings.HasPrefix(line, "-") && !strings.Contains(line, " ")) {
				continue
			}

			parsed, err := parseItemLine(line)
			if err != nil {
				return nil, err
			}
			if parsed != nil {
				if current != nil {
					items = append(items, *current)
				}
				current = openItem(parsed)
				continue
			}

			promo, err := parsePromotionLine(line)
			if err != nil {
				return nil, err
			}
			if promo != nil && current != nil {
				current.Promotions = append(current.Promotions, *promo)
			}
			// Anything else inside the table is noise (continuation
			// text, remarks) and is ignored.
		}
	}

	if current != nil {
		items = append(items, *current)
	}
	return items, nil
}

// openItem starts a new receipt item from a classified row. When the row
// carried a barcode, the product name drops the 13-digit prefix some
// dumps duplicate into the description.
func openItem(parsed *parsedItemLine) *models.ReceiptItem {
	name := parsed.description
	if parsed.barcode != "" {
		if bm := descBarcodeRe.FindStringSubmatch(name); bm != nil {
			name = bm[2]
		}
	}

	return &models.ReceiptItem{
		ProductCode:      "P_" + parsed.code,
		ProductName:      name,
		Barcode:          parsed.barcode,
		OrderedQuantity:  parsed.orderedQty,
		SuppliedQuantity: parsed.suppliedQty,
		SellingMethod:    sellingMethodOf(parsed.unit),
		Price:            parsed.price,
		TotalPrice:       parsed.totalPrice,
		Promotions:       []models.ReceiptPromotion{},
	}
}

// sellingMethodOf maps the document's unit tag to a selling method.
// "יח" is per-unit; everything else ("קג", "ימ") is weight-priced.
func sellingMethodOf(unit string) models.SellingMethod {
	if unit == "יח" {
		return models.SellingUnit
	}
	return models.SellingWeight
}
