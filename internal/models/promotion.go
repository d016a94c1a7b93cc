package models

// PromotionType classifies the discount mechanic described by a
// free-text promotion message.
type PromotionType string

const (
	PromotionSimpleDiscount PromotionType = "simple_discount"
	PromotionXForY          PromotionType = "x_for_y"
	PromotionBuyXGetY       PromotionType = "buy_x_get_y"
	PromotionPersonalCoupon PromotionType = "personal_coupon"
	PromotionUnknown        PromotionType = "unknown"
)

// PromotionConditions holds the numeric terms of a promotion.
// Only the fields for the tagged Type are populated; the rest stay zero
// and are omitted from JSON.
type PromotionConditions struct {
	Type PromotionType `json:"type"`

	// SimpleDiscount
	OriginalPrice   float64 `json:"originalPrice,omitempty"`
	DiscountedPrice float64 `json:"discountedPrice,omitempty"`
	DiscountPercent float64 `json:"discountPercent,omitempty"`

	// XForY ("3 for 10")
	RequiredQuantity      int     `json:"requiredQuantity,omitempty"`
	BundlePrice           float64 `json:"bundlePrice,omitempty"`
	EffectivePricePerUnit float64 `json:"effectivePricePerUnit,omitempty"`

	// BuyXGetY ("2+1")
	BuyQuantity       int     `json:"buyQuantity,omitempty"`
	GetQuantity       int     `json:"getQuantity,omitempty"`
	EffectiveDiscount float64 `json:"effectiveDiscount,omitempty"` // percent

	// PersonalCoupon
	CouponCode     string  `json:"couponCode,omitempty"`
	DiscountAmount float64 `json:"discountAmount,omitempty"`
}

// PromotionInfo is the classified view of one promotion order entry.
// ParticipatingProducts is filled by the order-detail layer, not by the
// classifier itself.
type PromotionInfo struct {
	Code                  string              `json:"code"`
	Message               string              `json:"message"`
	Type                  PromotionType       `json:"type"`
	Conditions            PromotionConditions `json:"conditions"`
	CouponCode            string              `json:"couponCode,omitempty"`
	ParticipatingProducts []string            `json:"participatingProducts,omitempty"`
}

// PromotionOrderEntry is the slice of an order entry the classifier
// needs: the raw message plus its identifying codes.
type PromotionOrderEntry struct {
	PromotionCode    string `json:"promotionCode"`
	PromotionMessage string `json:"promotionMessage"`
	CouponCode       string `json:"couponCode,omitempty"`
}
