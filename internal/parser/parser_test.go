package parser

import (
	"errors"
	"math"
	"reflect"
	"strings"
	"testing"

	"github.com/eshaham/shufersal-receipts/internal/models"
)

// sampleReceipt is a complete delivery-note dump covering a unit item
// with a promotion, a weight item sold by barcode, and a giveaway line
// with placeholder prices.
const sampleReceipt = `שופרסל דיל אונליין
תעודת משלוח
מס. עוסק:
מס. הזמנה:
512615147
123456
ת. הזמנה:
ת. אספקה:
08:30 15/01/24
14:00 16/01/24
שם לקוח:
טלפון:
כתובת:
ישראל ישראלי
0501234567
קומה.: 3 הרצל 12
דירה.: 7 תל אביב
הערות סה"כ מחיר סופק הוזמן תאור קוד פריט
--------------------------------------------
12.90 6.45 2 2 יח חלב תנובה 3% 123456
10.45- 2.45- מבצע: 556677 שני במחיר מיוחד
8.90 9.90 קג 0.90 1.00 ימ 7290000000001 עגבניות שרי
---- ---- 1 1 יח 7290000000002 מתנה קפה נמס
19.35 :סך הכל
30.00 :דמי משלוח
7.17 :מע"מ 17%
49.35 סכום לתשלום`

func TestParseReceipt(t *testing.T) {
	receipt, err := ParseReceipt(sampleReceipt)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if receipt.OrderCode != "00123456" {
		t.Errorf("order code: got %q, want %q", receipt.OrderCode, "00123456")
	}
	if !strings.Contains(receipt.OrderDate, "15/01/24") {
		t.Errorf("order date: got %q, want it to contain 15/01/24", receipt.OrderDate)
	}
	if !strings.Contains(receipt.DeliveryDate, "16/01/24") {
		t.Errorf("delivery date: got %q, want it to contain 16/01/24", receipt.DeliveryDate)
	}
	if receipt.CustomerName != "ישראל ישראלי" {
		t.Errorf("customer name: got %q", receipt.CustomerName)
	}
	if receipt.CustomerPhone != "0501234567" {
		t.Errorf("customer phone: got %q", receipt.CustomerPhone)
	}
	if want := "הרצל 12 תל אביב, קומה 3, דירה 7"; receipt.Address != want {
		t.Errorf("address: got %q, want %q", receipt.Address, want)
	}

	if len(receipt.Items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(receipt.Items))
	}

	milk := receipt.Items[0]
	if milk.ProductCode != "P_123456" {
		t.Errorf("item 0 product code: got %q", milk.ProductCode)
	}
	if milk.ProductName != "חלב תנובה 3%" {
		t.Errorf("item 0 product name: got %q", milk.ProductName)
	}
	if milk.SellingMethod != models.SellingUnit {
		t.Errorf("item 0 selling method: got %q", milk.SellingMethod)
	}
	if milk.OrderedQuantity != 2 || milk.SuppliedQuantity != 2 {
		t.Errorf("item 0 quantities: got %v/%v", milk.OrderedQuantity, milk.SuppliedQuantity)
	}
	if milk.Price != 6.45 || milk.TotalPrice != 12.90 {
		t.Errorf("item 0 prices: got %v/%v", milk.Price, milk.TotalPrice)
	}
	if len(milk.Promotions) != 1 {
		t.Fatalf("item 0: expected 1 promotion, got %d", len(milk.Promotions))
	}
	promo := milk.Promotions[0]
	if promo.Code != "556677" || promo.DiscountAmount != 2.45 {
		t.Errorf("item 0 promotion: got %+v", promo)
	}
	if promo.Description != "שני במחיר מיוחד" {
		t.Errorf("item 0 promotion description: got %q", promo.Description)
	}

	tomatoes := receipt.Items[1]
	if tomatoes.ProductCode != "P_7290000000001" {
		t.Errorf("item 1 product code: got %q", tomatoes.ProductCode)
	}
	if tomatoes.Barcode != "7290000000001" {
		t.Errorf("item 1 barcode: got %q", tomatoes.Barcode)
	}
	if tomatoes.SellingMethod != models.SellingWeight {
		t.Errorf("item 1 selling method: got %q", tomatoes.SellingMethod)
	}
	if tomatoes.SuppliedQuantity != 0.90 || tomatoes.OrderedQuantity != 1.00 {
		t.Errorf("item 1 quantities: got %v/%v", tomatoes.SuppliedQuantity, tomatoes.OrderedQuantity)
	}
	if len(tomatoes.Promotions) != 0 {
		t.Errorf("item 1: expected no promotions, got %d", len(tomatoes.Promotions))
	}

	giveaway := receipt.Items[2]
	if giveaway.TotalPrice != 0 || giveaway.Price != 0 {
		t.Errorf("giveaway prices: got %v/%v, want 0/0", giveaway.Price, giveaway.TotalPrice)
	}
	if giveaway.Barcode != "7290000000002" {
		t.Errorf("giveaway barcode: got %q", giveaway.Barcode)
	}

	if receipt.Subtotal != 19.35 {
		t.Errorf("subtotal: got %v", receipt.Subtotal)
	}
	if receipt.DeliveryFee != 30.00 {
		t.Errorf("delivery fee: got %v", receipt.DeliveryFee)
	}
	if receipt.VATAmount != 7.17 {
		t.Errorf("VAT: got %v", receipt.VATAmount)
	}
	if receipt.TotalAmount != 49.35 {
		t.Errorf("total: got %v", receipt.TotalAmount)
	}
}

func TestParseReceipt_Deterministic(t *testing.T) {
	first, err := ParseReceipt(sampleReceipt)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := ParseReceipt(sampleReceipt)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Error("repeated parses of identical input differ")
	}
}

func TestParseReceipt_AmountInvariants(t *testing.T) {
	receipt, err := ParseReceipt(sampleReceipt)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if diff := math.Abs(receipt.Subtotal + receipt.DeliveryFee - receipt.TotalAmount); diff >= 0.01 {
		t.Errorf("subtotal + delivery fee deviates from total by %v", diff)
	}

	var itemsTotal, discounts float64
	for _, item := range receipt.Items {
		itemsTotal += item.TotalPrice
		for _, promo := range item.Promotions {
			discounts += promo.DiscountAmount
		}
	}
	if diff := math.Abs(itemsTotal - discounts - receipt.Subtotal); diff >= 0.01 {
		t.Errorf("item totals - discounts deviates from subtotal by %v", diff)
	}

	if err := receipt.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestParseReceipt_OrderCodeShape(t *testing.T) {
	receipt, err := ParseReceipt(sampleReceipt)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(receipt.OrderCode) != 8 {
		t.Errorf("order code %q is not 8 characters", receipt.OrderCode)
	}
	for _, r := range receipt.OrderCode {
		if r < '0' || r > '9' {
			t.Errorf("order code %q contains non-digit %q", receipt.OrderCode, r)
		}
	}
}

func TestParseReceipt_NoDeliveryFeeOrVAT(t *testing.T) {
	// A receipt without delivery fee and VAT lines is valid; both
	// default to 0 and the total equals the subtotal.
	text := sampleReceipt
	text = strings.Replace(text, "30.00 :דמי משלוח\n", "", 1)
	text = strings.Replace(text, "7.17 :מע\"מ 17%\n", "", 1)
	text = strings.Replace(text, "49.35 סכום לתשלום", "19.35 סכום לתשלום", 1)

	receipt, err := ParseReceipt(text)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if receipt.DeliveryFee != 0 {
		t.Errorf("delivery fee: got %v, want 0", receipt.DeliveryFee)
	}
	if receipt.VATAmount != 0 {
		t.Errorf("VAT: got %v, want 0", receipt.VATAmount)
	}
	if receipt.TotalAmount != 19.35 {
		t.Errorf("total: got %v", receipt.TotalAmount)
	}
	if err := receipt.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestParseReceipt_Failures(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(string) string
		wantErr error
	}{
		{
			name: "missing delivery document marker",
			mutate: func(s string) string {
				return strings.Replace(s, "תעודת משלוח", "מסמך אחר", 1)
			},
			wantErr: ErrMissingSection,
		},
		{
			name: "missing item table header",
			mutate: func(s string) string {
				return strings.Replace(s, `הערות סה"כ מחיר סופק הוזמן תאור קוד פריט`, "", 1)
			},
			wantErr: ErrNoItemsFound,
		},
		{
			name: "missing grand total",
			mutate: func(s string) string {
				return strings.Replace(s, "49.35 סכום לתשלום", "", 1)
			},
			wantErr: ErrMissingTotal,
		},
		{
			name: "non-numeric order id",
			mutate: func(s string) string {
				return strings.Replace(s, "\n123456\n", "\nABC123\n", 1)
			},
			wantErr: ErrUnparsableField,
		},
		{
			name: "missing customer labels",
			mutate: func(s string) string {
				return strings.Replace(s, "שם לקוח:", "", 1)
			},
			wantErr: ErrMissingSection,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			receipt, err := ParseReceipt(tt.mutate(sampleReceipt))
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("got error %v, want %v", err, tt.wantErr)
			}
			if receipt != nil {
				t.Error("expected no partial record on failure")
			}
		})
	}
}

func TestParseReceipt_PaginatedItemTables(t *testing.T) {
	// A second page repeats the item table header; items from both
	// sections are concatenated in encounter order.
	text := strings.Replace(sampleReceipt,
		"8.90 9.90 קג 0.90 1.00 ימ 7290000000001 עגבניות שרי",
		"8.90 9.90 קג 0.90 1.00 ימ 7290000000001 עגבניות שרי\n"+
			`הערות סה"כ מחיר סופק הוזמן תאור קוד פריט`+"\n"+
			"--------------------------------------------",
		1)

	receipt, err := ParseReceipt(text)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(receipt.Items) != 3 {
		t.Fatalf("expected 3 items across pages, got %d", len(receipt.Items))
	}
	if receipt.Items[2].Barcode != "7290000000002" {
		t.Errorf("last item barcode: got %q", receipt.Items[2].Barcode)
	}
}

func TestIsDeliveryNote(t *testing.T) {
	if !IsDeliveryNote(sampleReceipt) {
		t.Error("sample receipt not recognized as a delivery note")
	}
	if IsDeliveryNote("some unrelated text") {
		t.Error("unrelated text recognized as a delivery note")
	}
}
