package writer

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/eshaham/shufersal-receipts/internal/models"
)

// XLSXWriter writes a parsed receipt to an Excel workbook with one sheet
// of items and a summary block underneath.
type XLSXWriter struct{}

// WriteToFile writes the receipt workbook to the given path.
func (w *XLSXWriter) WriteToFile(path string, receipt *models.ReceiptDetails) error {
	f, err := w.build(receipt)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook %q: %w", path, err)
	}
	return nil
}

// Write streams the receipt workbook to the given writer.
func (w *XLSXWriter) Write(out io.Writer, receipt *models.ReceiptDetails) error {
	f, err := w.build(receipt)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.WriteTo(out); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func (w *XLSXWriter) build(receipt *models.ReceiptDetails) (*excelize.File, error) {
	f := excelize.NewFile()
	const sheet = "Receipt"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, fmt.Errorf("failed to create sheet: %w", err)
		}
	}
	_ = f.DeleteSheet("Sheet1")

	write := func(col, row int, v any) {
		cell, _ := excelize.CoordinatesToCellName(col, row)
		_ = f.SetCellValue(sheet, cell, v)
	}

	// Metadata block
	write(1, 1, "Order")
	write(2, 1, receipt.OrderCode)
	write(1, 2, "Order Date")
	write(2, 2, receipt.OrderDate)
	write(1, 3, "Delivery Date")
	write(2, 3, receipt.DeliveryDate)
	write(1, 4, "Customer")
	write(2, 4, receipt.CustomerName)
	write(1, 5, "Address")
	write(2, 5, receipt.Address)

	// Item table
	headers := []string{"Product Code", "Product Name", "Barcode", "Selling Method", "Ordered", "Supplied", "Unit Price", "Total", "Discounts"}
	headerRow := 7
	for i, h := range headers {
		write(i+1, headerRow, h)
	}

	row := headerRow + 1
	for _, item := range receipt.Items {
		var discounts float64
		for _, promo := range item.Promotions {
			discounts += promo.DiscountAmount
		}
		write(1, row, item.ProductCode)
		write(2, row, item.ProductName)
		write(3, row, item.Barcode)
		write(4, row, string(item.SellingMethod))
		write(5, row, item.OrderedQuantity)
		write(6, row, item.SuppliedQuantity)
		write(7, row, item.Price)
		write(8, row, item.TotalPrice)
		write(9, row, discounts)
		row++
	}

	// Summary block
	row++
	write(1, row, "Subtotal")
	write(2, row, receipt.Subtotal)
	row++
	write(1, row, "Delivery Fee")
	write(2, row, receipt.DeliveryFee)
	row++
	write(1, row, "VAT")
	write(2, row, receipt.VATAmount)
	row++
	write(1, row, "Total")
	write(2, row, receipt.TotalAmount)

	return f, nil
}
