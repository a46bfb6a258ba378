package razorpaywebhook

import (
	"context"

	"github.com/spicekart/storefront-backend/internal/checkout"
	"github.com/spicekart/storefront-backend/internal/orders"
	pkgerrors "github.com/spicekart/storefront-backend/pkg/errors"
	"github.com/spicekart/storefront-backend/pkg/logger"
)

type ServiceParams struct {
	Orders   orders.Service
	Checkout checkout.Service
	Logger   *logger.Logger
}

// Service applies provider webhook events to orders. The transport layer has
// already verified the body signature; events reaching HandleEvent are
// authentic.
type Service struct {
	orders   orders.Service
	checkout checkout.Service
	logg     *logger.Logger
}

func NewService(params ServiceParams) (*Service, error) {
	if params.Orders == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "orders service required")
	}
	if params.Checkout == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "checkout service required")
	}
	return &Service{
		orders:   params.Orders,
		checkout: params.Checkout,
		logg:     params.Logger,
	}, nil
}

// HandleEvent dispatches a verified webhook event. Unknown event names are
// acknowledged without side effects so the provider stops re-delivering them.
func (s *Service) HandleEvent(ctx context.Context, event *Event) error {
	if event == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "event required")
	}

	switch event.Name {
	case EventPaymentCaptured:
		return s.handleCaptured(ctx, event.Payload.Payment.Entity)
	case EventPaymentFailed:
		return s.handleFailed(ctx, event.Payload.Payment.Entity)
	default:
		return nil
	}
}

func (s *Service) handleCaptured(ctx context.Context, payment PaymentEntity) error {
	if payment.OrderID == "" || payment.ID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "payment entity incomplete")
	}

	order, err := s.orders.FindByProviderOrderID(ctx, payment.OrderID)
	if err != nil {
		return err
	}

	finalized, err := s.orders.Finalize(ctx, orders.FinalizeInput{
		OrderID:           order.ID,
		ProviderPaymentID: payment.ID,
	})
	if err != nil {
		return err
	}

	// The buyer's checkout state is advisory here; the order row already
	// holds the truth.
	if err := s.checkout.MarkCompleted(ctx, finalized); err != nil && s.logg != nil {
		s.logg.Error(ctx, "webhook checkout sync failed", err)
	}
	return nil
}

func (s *Service) handleFailed(ctx context.Context, payment PaymentEntity) error {
	if payment.OrderID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "payment entity incomplete")
	}

	order, err := s.orders.FindByProviderOrderID(ctx, payment.OrderID)
	if err != nil {
		return err
	}
	if err := s.orders.FailPayment(ctx, order.ID, payment.ErrorDescription); err != nil {
		return err
	}
	if err := s.checkout.MarkFailed(ctx, order); err != nil && s.logg != nil {
		s.logg.Error(ctx, "webhook checkout sync failed", err)
	}
	return nil
}
