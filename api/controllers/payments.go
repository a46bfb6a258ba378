package controllers

import (
	"net/http"

	"github.com/spicekart/storefront-backend/api/responses"
	"github.com/spicekart/storefront-backend/api/validators"
	checkoutsvc "github.com/spicekart/storefront-backend/internal/checkout"
	"github.com/spicekart/storefront-backend/internal/orders"
	paymentsvc "github.com/spicekart/storefront-backend/internal/payments"
	"github.com/spicekart/storefront-backend/pkg/logger"
)

type verifyPaymentRequest struct {
	ProviderOrderID   string `json:"provider_order_id" validate:"required"`
	ProviderPaymentID string `json:"provider_payment_id" validate:"required"`
	Signature         string `json:"signature" validate:"required"`
}

// PaymentVerify applies a browser payment callback. The signature is the sole
// proof of payment; a mismatch mutates nothing.
func PaymentVerify(payments paymentsvc.Service, checkout checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		buyerID, err := requireBuyer(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload verifyPaymentRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := payments.Verify(r.Context(), paymentsvc.VerifyInput{
			BuyerID:           buyerID,
			ProviderOrderID:   payload.ProviderOrderID,
			ProviderPaymentID: payload.ProviderPaymentID,
			Signature:         payload.Signature,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := checkout.MarkCompleted(r.Context(), order); err != nil && logg != nil {
			logg.Error(r.Context(), "checkout state sync failed", err)
		}
		responses.WriteSuccess(w, orders.Summarize(order))
	}
}

type failPaymentRequest struct {
	ProviderOrderID string `json:"provider_order_id" validate:"required"`
	Reason          string `json:"reason" validate:"max=500"`
}

// PaymentFailed records a provider decline reported by the storefront so the
// buyer can step back and retry.
func PaymentFailed(payments paymentsvc.Service, checkout checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := requireBuyer(r); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload failPaymentRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := payments.Fail(r.Context(), payload.ProviderOrderID, payload.Reason)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := checkout.MarkFailed(r.Context(), order); err != nil && logg != nil {
			logg.Error(r.Context(), "checkout state sync failed", err)
		}
		responses.WriteSuccess(w, nil)
	}
}
