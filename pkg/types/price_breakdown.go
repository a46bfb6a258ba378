package types

// PriceBreakdown is the fully itemized result of pricing a cart. It is
// derived data; nothing persists it until an order is created. The identity
// TotalCents = SubtotalCents - CouponDiscountCents + ShippingCents + TaxCents
// holds for every breakdown the pricing engine produces.
type PriceBreakdown struct {
	SubtotalCents       int64   `json:"subtotal_cents"`
	SavingsCents        int64   `json:"savings_cents"`
	CouponCode          *string `json:"coupon_code,omitempty"`
	CouponDiscountCents int64   `json:"coupon_discount_cents"`
	ShippingCents       int64   `json:"shipping_cents"`
	TaxCents            int64   `json:"tax_cents"`
	TotalCents          int64   `json:"total_cents"`
}

// IsConsistent re-checks the pricing identity and the non-negative total.
func (p PriceBreakdown) IsConsistent() bool {
	if p.TotalCents < 0 {
		return false
	}
	return p.TotalCents == p.SubtotalCents-p.CouponDiscountCents+p.ShippingCents+p.TaxCents
}
