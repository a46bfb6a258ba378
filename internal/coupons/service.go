package coupons

import (
	"context"
	"fmt"
	"time"

	pkgerrors "github.com/spicekart/storefront-backend/pkg/errors"
	"gorm.io/gorm"
)

// Rejection reasons surfaced in coupon error details.
const (
	ReasonNotFound     = "not_found"
	ReasonInactive     = "inactive"
	ReasonExpired      = "expired"
	ReasonBelowMinimum = "below_minimum"
	ReasonLimitReached = "limit_reached"
)

// Service validates coupons against a cart subtotal. Validation never mutates
// usage counts; redemption happens inside order finalize only.
type Service interface {
	Apply(ctx context.Context, code string, subtotalCents int64, now time.Time) (*Applied, error)
}

type service struct {
	repo Repository
}

// NewService builds a coupon service with the required dependencies.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("coupons repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Apply(ctx context.Context, code string, subtotalCents int64, now time.Time) (*Applied, error) {
	if code == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "coupon code required")
	}

	coupon, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, rejection(ReasonNotFound, nil)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load coupon")
	}

	if !coupon.Active || now.Before(coupon.StartsAt) {
		return nil, rejection(ReasonInactive, nil)
	}
	if now.After(coupon.EndsAt) {
		return nil, rejection(ReasonExpired, nil)
	}
	if subtotalCents < coupon.MinOrderValueCents {
		return nil, rejection(ReasonBelowMinimum, map[string]any{
			"min_order_value_cents": coupon.MinOrderValueCents,
			"shortfall_cents":       coupon.MinOrderValueCents - subtotalCents,
		})
	}
	if coupon.UsedCount >= coupon.UsageLimit {
		return nil, rejection(ReasonLimitReached, nil)
	}

	return &Applied{
		Code:         coupon.Code,
		DiscountType: coupon.DiscountType,
		Value:        coupon.DiscountValue,
	}, nil
}

func rejection(reason string, extra map[string]any) error {
	details := map[string]any{"reason": reason}
	for key, value := range extra {
		details[key] = value
	}
	return pkgerrors.New(pkgerrors.CodeCoupon, "coupon not applicable").WithDetails(details)
}
