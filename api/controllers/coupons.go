package controllers

import (
	"net/http"
	"time"

	"github.com/spicekart/storefront-backend/api/responses"
	"github.com/spicekart/storefront-backend/api/validators"
	cartsvc "github.com/spicekart/storefront-backend/internal/cart"
	couponsvc "github.com/spicekart/storefront-backend/internal/coupons"
	"github.com/spicekart/storefront-backend/internal/pricing"
	pkgerrors "github.com/spicekart/storefront-backend/pkg/errors"
	"github.com/spicekart/storefront-backend/pkg/logger"
)

// CouponPreview reports what a coupon would do to the buyer's current cart.
// Nothing is mutated and no usage is consumed; the binding apply happens at
// checkout submit.
func CouponPreview(coupons couponsvc.Service, carts cartsvc.Service, engine *pricing.Engine, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		buyerID, err := requireBuyer(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload couponsvc.PreviewRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		lines, err := carts.Snapshot(r.Context(), buyerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if len(lines) == 0 {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty"))
			return
		}

		var subtotal int64
		for _, line := range lines {
			subtotal += int64(line.Quantity) * line.UnitPriceCents
		}

		applied, err := coupons.Apply(r.Context(), payload.Code, subtotal, time.Now().UTC())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		quote := engine.Quote(lines, applied)
		responses.WriteSuccess(w, couponsvc.PreviewResponse{
			Code:          applied.Code,
			DiscountCents: quote.CouponDiscountCents,
			SubtotalCents: quote.SubtotalCents,
			TotalCents:    quote.TotalCents,
		})
	}
}
