package payments

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/spicekart/storefront-backend/internal/orders"
	"github.com/spicekart/storefront-backend/pkg/db/models"
	pkgerrors "github.com/spicekart/storefront-backend/pkg/errors"
	"github.com/spicekart/storefront-backend/pkg/metrics"
)

// Verification outcome labels recorded on the funnel metrics.
const (
	OutcomeVerified          = "verified"
	OutcomeSignatureMismatch = "signature_mismatch"
	OutcomeReplay            = "replay"
	OutcomeFailed            = "failed"
)

// VerifyInput is a provider payment callback. BuyerID is uuid.Nil for
// server-to-server webhooks, which carry their own authentication.
type VerifyInput struct {
	BuyerID           uuid.UUID
	ProviderOrderID   string
	ProviderPaymentID string
	Signature         string
}

// Service applies provider payment callbacks to orders.
type Service interface {
	Verify(ctx context.Context, input VerifyInput) (*models.Order, error)
	Fail(ctx context.Context, providerOrderID, reason string) (*models.Order, error)
}

type service struct {
	gateway Gateway
	orders  orders.Service
	metrics *metrics.CheckoutMetrics
}

// NewService builds a payments service with the required dependencies.
func NewService(gateway Gateway, orderSvc orders.Service, checkoutMetrics *metrics.CheckoutMetrics) (Service, error) {
	if gateway == nil {
		return nil, fmt.Errorf("payment gateway required")
	}
	if orderSvc == nil {
		return nil, fmt.Errorf("orders service required")
	}
	return &service{
		gateway: gateway,
		orders:  orderSvc,
		metrics: checkoutMetrics,
	}, nil
}

// Verify checks the callback signature and finalizes the order. Signature
// failure is fatal for the attempt and mutates nothing; re-delivery of an
// already applied payment returns the final order unchanged.
func (s *service) Verify(ctx context.Context, input VerifyInput) (*models.Order, error) {
	if input.ProviderOrderID == "" || input.ProviderPaymentID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "provider order and payment ids required")
	}

	if !s.gateway.VerifySignature(input.ProviderOrderID, input.ProviderPaymentID, input.Signature) {
		s.metrics.IncVerification(OutcomeSignatureMismatch)
		return nil, pkgerrors.New(pkgerrors.CodeSignature, "payment signature could not be verified")
	}

	order, err := s.orders.FindByProviderOrderID(ctx, input.ProviderOrderID)
	if err != nil {
		s.metrics.IncVerification(OutcomeFailed)
		return nil, err
	}
	if input.BuyerID != uuid.Nil && order.BuyerID != input.BuyerID {
		s.metrics.IncVerification(OutcomeFailed)
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "order does not belong to buyer")
	}

	finalized, err := s.orders.Finalize(ctx, orders.FinalizeInput{
		OrderID:           order.ID,
		ProviderPaymentID: input.ProviderPaymentID,
	})
	if err != nil {
		s.metrics.IncVerification(OutcomeFailed)
		return nil, err
	}

	s.metrics.IncVerification(OutcomeVerified)
	return finalized, nil
}

// Fail records a provider decline so the buyer can retry with a fresh intent.
func (s *service) Fail(ctx context.Context, providerOrderID, reason string) (*models.Order, error) {
	if providerOrderID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "provider order id required")
	}
	order, err := s.orders.FindByProviderOrderID(ctx, providerOrderID)
	if err != nil {
		return nil, err
	}
	if err := s.orders.FailPayment(ctx, order.ID, reason); err != nil {
		return nil, err
	}
	return order, nil
}
