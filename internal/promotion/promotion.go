// Package promotion classifies the free-text promotion messages Shufersal
// attaches to order line items into typed discount semantics.
//
// Classification is best-effort inference over free text and never fails:
// an unrecognized message resolves to the Unknown type.
package promotion

import (
	"regexp"
	"strconv"

	"github.com/eshaham/shufersal-receipts/internal/models"
)

// Message shapes, one per promotion type. Examples:
//
//	"2+1"              buy two get one
//	"3ב10"             three for 10 shekels
//	"2 יח ב20.00"      two units for a bundle price
//	"10.00 הנחה ישיר"  flat discount
var (
	buyXGetYRe       = regexp.MustCompile(`\d\+\d`)
	xForYRe          = regexp.MustCompile(`\dב\d+`)
	unitQuantityRe   = regexp.MustCompile(`\d יח`)
	leadingDecimalRe = regexp.MustCompile(`^\d+\.\d+\s`)
	directSuffixRe   = regexp.MustCompile(`ישיר$`)

	xForYTermsRe    = regexp.MustCompile(`(\d+)ב(\d+)`)
	buyXGetYTermsRe = regexp.MustCompile(`(\d+)\+(\d+)`)
)

// typeRule pairs a predicate with the type it implies. The rules form a
// precedence chain, not independent checks: BuyXGetY is tested before
// XForY because some bundle messages would satisfy both.
type typeRule struct {
	matches func(message string) bool
	result  models.PromotionType
}

var typeRules = []typeRule{
	{func(m string) bool { return buyXGetYRe.MatchString(m) }, models.PromotionBuyXGetY},
	{func(m string) bool { return xForYRe.MatchString(m) || unitQuantityRe.MatchString(m) }, models.PromotionXForY},
	{func(m string) bool { return leadingDecimalRe.MatchString(m) || directSuffixRe.MatchString(m) }, models.PromotionSimpleDiscount},
}

// InferType classifies a promotion message. A non-"0" coupon code wins
// over any message shape.
func InferType(message, couponCode string) models.PromotionType {
	if couponCode != "" && couponCode != "0" {
		return models.PromotionPersonalCoupon
	}
	for _, rule := range typeRules {
		if rule.matches(message) {
			return rule.result
		}
	}
	return models.PromotionUnknown
}

// ParseConditions computes the type-specific numeric terms of a
// promotion. basePrice and actualPrice are per-unit prices already
// rounded to currency precision by the caller; the ratios derived here
// are plain division with no further rounding.
func ParseConditions(message string, typ models.PromotionType, basePrice, actualPrice float64, quantity int, couponCode string) models.PromotionConditions {
	conditions := models.PromotionConditions{Type: typ}

	switch typ {
	case models.PromotionSimpleDiscount:
		conditions.OriginalPrice = basePrice
		conditions.DiscountedPrice = actualPrice
		conditions.DiscountPercent = (basePrice - actualPrice) / basePrice * 100

	case models.PromotionXForY:
		if m := xForYTermsRe.FindStringSubmatch(message); m != nil {
			required, _ := strconv.Atoi(m[1])
			bundle, _ := strconv.ParseFloat(m[2], 64)
			conditions.RequiredQuantity = required
			conditions.BundlePrice = bundle
			conditions.EffectivePricePerUnit = bundle / float64(required)
		}

	case models.PromotionBuyXGetY:
		if m := buyXGetYTermsRe.FindStringSubmatch(message); m != nil {
			buy, _ := strconv.Atoi(m[1])
			get, _ := strconv.Atoi(m[2])
			conditions.BuyQuantity = buy
			conditions.GetQuantity = get
			conditions.EffectiveDiscount = float64(get) / float64(buy+get) * 100
		}

	case models.PromotionPersonalCoupon:
		conditions.CouponCode = couponCode
		conditions.DiscountAmount = basePrice*float64(quantity) - actualPrice
	}

	return conditions
}

// ExtractInfo classifies one promotion order entry end to end.
func ExtractInfo(entry models.PromotionOrderEntry, basePricePerUnit, actualPricePerUnit float64, quantity int) models.PromotionInfo {
	typ := InferType(entry.PromotionMessage, entry.CouponCode)
	conditions := ParseConditions(entry.PromotionMessage, typ, basePricePerUnit, actualPricePerUnit, quantity, entry.CouponCode)

	return models.PromotionInfo{
		Code:       entry.PromotionCode,
		Message:    entry.PromotionMessage,
		Type:       typ,
		Conditions: conditions,
		CouponCode: entry.CouponCode,
	}
}
