package coupons

import "github.com/spicekart/storefront-backend/pkg/enums"

// Applied is a validated coupon ready to be priced into a quote. Value holds
// percent points for percentage coupons and paise for fixed coupons.
type Applied struct {
	Code         string             `json:"code"`
	DiscountType enums.DiscountType `json:"discount_type"`
	Value        int64              `json:"value"`
}

// PreviewRequest is the body for the speculative coupon apply endpoint.
type PreviewRequest struct {
	Code string `json:"code" validate:"required,min=1,max=64"`
}

// PreviewResponse reports the discount a coupon would yield against the
// caller's current cart subtotal. Nothing is mutated.
type PreviewResponse struct {
	Code          string `json:"code"`
	DiscountCents int64  `json:"discount_cents"`
	SubtotalCents int64  `json:"subtotal_cents"`
	TotalCents    int64  `json:"total_cents"`
}
