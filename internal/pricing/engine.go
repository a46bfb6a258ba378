package pricing

import (
	"github.com/google/uuid"
	"github.com/spicekart/storefront-backend/internal/coupons"
	"github.com/spicekart/storefront-backend/pkg/enums"
	"github.com/spicekart/storefront-backend/pkg/money"
	"github.com/spicekart/storefront-backend/pkg/types"
)

// Policy carries the pricing knobs injected from configuration. Amounts are
// integer paise.
type Policy struct {
	TaxRatePercent             float64
	FreeShippingThresholdCents int64
	FlatShippingCents          int64
}

// Line is one cart line as seen at quote time. CompareAtPriceCents, when
// present and above the unit price, contributes to informational savings only.
type Line struct {
	ProductID           uuid.UUID
	VariantID           uuid.UUID
	Name                string
	Quantity            int
	UnitPriceCents      int64
	CompareAtPriceCents *int64
}

// Engine computes price breakdowns. It performs no I/O; callers hand it the
// lines and an already-validated coupon.
type Engine struct {
	policy Policy
}

// NewEngine builds an engine with the given policy.
func NewEngine(policy Policy) *Engine {
	return &Engine{policy: policy}
}

// Quote prices the given lines. Tax applies to the pre-discount subtotal,
// shipping eligibility to the discounted subtotal. The total never goes
// negative. An empty cart quotes to all zeros.
func (e *Engine) Quote(lines []Line, coupon *coupons.Applied) types.PriceBreakdown {
	var breakdown types.PriceBreakdown

	for _, line := range lines {
		qty := int64(line.Quantity)
		breakdown.SubtotalCents += qty * line.UnitPriceCents
		if line.CompareAtPriceCents != nil && *line.CompareAtPriceCents > line.UnitPriceCents {
			breakdown.SavingsCents += qty * (*line.CompareAtPriceCents - line.UnitPriceCents)
		}
	}

	if breakdown.SubtotalCents == 0 {
		return breakdown
	}

	if coupon != nil {
		breakdown.CouponCode = &coupon.Code
		breakdown.CouponDiscountCents = e.discountFor(coupon, breakdown.SubtotalCents)
	}

	discounted := breakdown.SubtotalCents - breakdown.CouponDiscountCents
	if discounted < e.policy.FreeShippingThresholdCents {
		breakdown.ShippingCents = e.policy.FlatShippingCents
	}

	breakdown.TaxCents = money.PercentOf(breakdown.SubtotalCents, e.policy.TaxRatePercent)
	breakdown.TotalCents = money.ClampNonNegative(
		breakdown.SubtotalCents - breakdown.CouponDiscountCents + breakdown.ShippingCents + breakdown.TaxCents,
	)
	return breakdown
}

func (e *Engine) discountFor(coupon *coupons.Applied, subtotalCents int64) int64 {
	switch coupon.DiscountType {
	case enums.DiscountTypePercentage:
		return money.Min(money.PercentOf(subtotalCents, float64(coupon.Value)), subtotalCents)
	case enums.DiscountTypeFixed:
		return money.Min(coupon.Value, subtotalCents)
	default:
		return 0
	}
}
