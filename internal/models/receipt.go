package models

import (
	"fmt"
	"math"
)

// SellingMethod says how an item is priced on the delivery note.
type SellingMethod string

const (
	SellingUnit   SellingMethod = "unit"
	SellingWeight SellingMethod = "weight"
)

// ReceiptPromotion is a discount line attached to a receipt item.
type ReceiptPromotion struct {
	Code           string  `json:"code"`
	Description    string  `json:"description"`
	DiscountAmount float64 `json:"discountAmount"`
}

// ReceiptItem is one product row on the delivery note.
// SuppliedQuantity may differ from OrderedQuantity (substitutions, stock-outs).
type ReceiptItem struct {
	ProductCode      string             `json:"productCode"`
	ProductName      string             `json:"productName"`
	Barcode          string             `json:"barcode,omitempty"`
	OrderedQuantity  float64            `json:"orderedQuantity"`
	SuppliedQuantity float64            `json:"suppliedQuantity"`
	SellingMethod    SellingMethod      `json:"sellingMethod"`
	Price            float64            `json:"price"`
	TotalPrice       float64            `json:"totalPrice"`
	Promotions       []ReceiptPromotion `json:"promotions"`
}

// ReceiptDetails is the fully parsed delivery note.
type ReceiptDetails struct {
	OrderCode     string        `json:"orderCode"`
	OrderDate     string        `json:"orderDate"`
	DeliveryDate  string        `json:"deliveryDate"`
	CustomerName  string        `json:"customerName"`
	CustomerPhone string        `json:"customerPhone"`
	Address       string        `json:"address"`
	Items         []ReceiptItem `json:"items"`
	Subtotal      float64       `json:"subtotal"`
	VATAmount     float64       `json:"vatAmount"`
	DeliveryFee   float64       `json:"deliveryFee"`
	TotalAmount   float64       `json:"totalAmount"`
}

// amountTolerance covers float drift when cross-checking money columns.
const amountTolerance = 0.01

// Validate cross-checks the parsed amounts against each other:
// subtotal + delivery fee must equal the grand total, and the item totals
// minus promotion discounts must equal the subtotal.
func (r *ReceiptDetails) Validate() error {
	if diff := math.Abs(r.Subtotal + r.DeliveryFee - r.TotalAmount); diff >= amountTolerance {
		return fmt.Errorf("subtotal %.2f + delivery fee %.2f does not match total %.2f",
			r.Subtotal, r.DeliveryFee, r.TotalAmount)
	}

	var itemsTotal, discounts float64
	for _, item := range r.Items {
		itemsTotal += item.TotalPrice
		for _, promo := range item.Promotions {
			discounts += promo.DiscountAmount
		}
	}
	if diff := math.Abs(itemsTotal - discounts - r.Subtotal); diff >= amountTolerance {
		return fmt.Errorf("item totals %.2f - discounts %.2f does not match subtotal %.2f",
			itemsTotal, discounts, r.Subtotal)
	}

	return nil
}
