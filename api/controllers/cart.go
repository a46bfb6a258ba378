package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/spicekart/storefront-backend/api/middleware"
	"github.com/spicekart/storefront-backend/api/responses"
	"github.com/spicekart/storefront-backend/api/validators"
	cartsvc "github.com/spicekart/storefront-backend/internal/cart"
	"github.com/spicekart/storefront-backend/internal/pricing"
	pkgerrors "github.com/spicekart/storefront-backend/pkg/errors"
	"github.com/spicekart/storefront-backend/pkg/logger"
	"github.com/spicekart/storefront-backend/pkg/types"
)

type cartView struct {
	Lines []pricing.Line       `json:"lines"`
	Quote types.PriceBreakdown `json:"quote"`
}

// CartFetch returns the buyer's cart priced from the live catalog. No coupon
// is applied here; coupons only bind at checkout.
func CartFetch(svc cartsvc.Service, engine *pricing.Engine, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		buyerID, err := requireBuyer(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		lines, err := svc.Snapshot(r.Context(), buyerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, cartView{Lines: lines, Quote: engine.Quote(lines, nil)})
	}
}

type setItemRequest struct {
	Quantity int `json:"quantity" validate:"min=0,max=999"`
}

// CartSetItem writes the absolute quantity for a variant. Quantity zero
// removes the line.
func CartSetItem(svc cartsvc.Service, engine *pricing.Engine, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		buyerID, err := requireBuyer(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		variantID, err := uuid.Parse(chi.URLParam(r, "variantId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid variant id"))
			return
		}

		var payload setItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.SetQuantity(r.Context(), buyerID, variantID, payload.Quantity); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		lines, err := svc.Snapshot(r.Context(), buyerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, cartView{Lines: lines, Quote: engine.Quote(lines, nil)})
	}
}

// CartRemoveItem drops a variant from the cart regardless of quantity.
func CartRemoveItem(svc cartsvc.Service, engine *pricing.Engine, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		buyerID, err := requireBuyer(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		variantID, err := uuid.Parse(chi.URLParam(r, "variantId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid variant id"))
			return
		}

		if err := svc.RemoveLine(r.Context(), buyerID, variantID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		lines, err := svc.Snapshot(r.Context(), buyerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, cartView{Lines: lines, Quote: engine.Quote(lines, nil)})
	}
}

// CartClear empties the buyer's cart.
func CartClear(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		buyerID, err := requireBuyer(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Clear(r.Context(), buyerID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, nil)
	}
}

func requireBuyer(r *http.Request) (uuid.UUID, error) {
	buyerID := middleware.BuyerIDFromContext(r.Context())
	if buyerID == uuid.Nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "buyer identity missing")
	}
	return buyerID, nil
}
