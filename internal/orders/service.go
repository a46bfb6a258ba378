package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spicekart/storefront-backend/internal/coupons"
	"github.com/spicekart/storefront-backend/pkg/db/models"
	"github.com/spicekart/storefront-backend/pkg/enums"
	pkgerrors "github.com/spicekart/storefront-backend/pkg/errors"
	"github.com/spicekart/storefront-backend/pkg/metrics"
	"gorm.io/gorm"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service writes and finalizes orders. Drafts are atomic with their items;
// finalize is idempotent through the payment_status CAS.
type Service interface {
	CreateDraft(ctx context.Context, input DraftInput) (*models.Order, error)
	AttachPaymentIntent(ctx context.Context, orderID uuid.UUID, providerOrderID string) (*models.PaymentIntent, error)
	Finalize(ctx context.Context, input FinalizeInput) (*models.Order, error)
	ConfirmPayOnDelivery(ctx context.Context, orderID, buyerID uuid.UUID) (*models.Order, error)
	FailPayment(ctx context.Context, orderID uuid.UUID, reason string) error
	FindByNumberForBuyer(ctx context.Context, orderNumber string, buyerID uuid.UUID) (*models.Order, error)
	ListForBuyer(ctx context.Context, buyerID uuid.UUID, limit, offset int) ([]models.Order, error)
	FindByProviderOrderID(ctx context.Context, providerOrderID string) (*models.Order, error)
	ExpireStale(ctx context.Context, olderThan time.Duration) (int64, error)
}

type service struct {
	repo    Repository
	coupons coupons.Repository
	tx      txRunner
	metrics *metrics.CheckoutMetrics
}

// NewService builds an order service with the required dependencies.
func NewService(repo Repository, couponRepo coupons.Repository, tx txRunner, checkoutMetrics *metrics.CheckoutMetrics) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if couponRepo == nil {
		return nil, fmt.Errorf("coupons repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{
		repo:    repo,
		coupons: couponRepo,
		tx:      tx,
		metrics: checkoutMetrics,
	}, nil
}

func (s *service) CreateDraft(ctx context.Context, input DraftInput) (*models.Order, error) {
	if input.BuyerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "buyer identity missing")
	}
	if len(input.Lines) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}
	if !input.PaymentMethod.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown payment method")
	}
	if input.ShippingAddressID == uuid.Nil || input.BillingAddressID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "shipping and billing addresses required")
	}
	if !input.Breakdown.IsConsistent() {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "price breakdown inconsistent")
	}

	orderNumber, err := NewOrderNumber(time.Now().UTC())
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint order number")
	}

	order := &models.Order{
		ID:                  uuid.New(),
		BuyerID:             input.BuyerID,
		OrderNumber:         orderNumber,
		Status:              enums.OrderStatusPending,
		PaymentStatus:       enums.PaymentStatusPending,
		PaymentMethod:       input.PaymentMethod,
		Currency:            input.Currency,
		CouponCode:          input.Breakdown.CouponCode,
		SubtotalCents:       input.Breakdown.SubtotalCents,
		SavingsCents:        input.Breakdown.SavingsCents,
		CouponDiscountCents: input.Breakdown.CouponDiscountCents,
		ShippingCents:       input.Breakdown.ShippingCents,
		TaxCents:            input.Breakdown.TaxCents,
		TotalCents:          input.Breakdown.TotalCents,
		ShippingAddressID:   input.ShippingAddressID,
		BillingAddressID:    input.BillingAddressID,
	}

	items := make([]models.OrderItem, 0, len(input.Lines))
	for _, line := range input.Lines {
		items = append(items, models.OrderItem{
			ID:             uuid.New(),
			OrderID:        order.ID,
			ProductID:      line.ProductID,
			VariantID:      line.VariantID,
			Name:           line.Name,
			Quantity:       line.Quantity,
			UnitPriceCents: line.UnitPriceCents,
			LineTotalCents: int64(line.Quantity) * line.UnitPriceCents,
		})
	}

	// Order and items commit together; an item failure leaves no dangling
	// order row.
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if _, err := repo.Create(ctx, order); err != nil {
			return err
		}
		return repo.CreateItems(ctx, items)
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist draft order")
	}

	order.Items = items
	s.metrics.IncOrderCreated(string(input.PaymentMethod), order.TotalCents)
	return order, nil
}

func (s *service) AttachPaymentIntent(ctx context.Context, orderID uuid.UUID, providerOrderID string) (*models.PaymentIntent, error) {
	if providerOrderID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "provider order id required")
	}
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}

	intent := &models.PaymentIntent{
		ID:              uuid.New(),
		OrderID:         order.ID,
		ProviderOrderID: providerOrderID,
		AmountCents:     order.TotalCents,
		Currency:        order.Currency,
		Status:          enums.PaymentStatusPending,
	}
	saved, err := s.repo.CreatePaymentIntent(ctx, intent)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist payment intent")
	}
	return saved, nil
}

// Finalize applies a verified payment. The pending->paid transition and the
// coupon redemption commit in one transaction; re-delivery of the same
// payment finds the CAS already taken and returns the final order unchanged.
func (s *service) Finalize(ctx context.Context, input FinalizeInput) (*models.Order, error) {
	if input.OrderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}

	var finalized *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		swapped, err := repo.MarkPaid(ctx, input.OrderID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark order paid")
		}

		order, err := repo.FindByID(ctx, input.OrderID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}

		if !swapped {
			if order.PaymentStatus == enums.PaymentStatusPaid {
				finalized = order
				return nil
			}
			return pkgerrors.New(pkgerrors.CodeStateConflict, "payment already resolved")
		}

		if order.CouponCode != nil {
			if err := s.coupons.WithTx(tx).Redeem(ctx, *order.CouponCode); err != nil {
				if errors.Is(err, coupons.ErrLimitReached) {
					return pkgerrors.New(pkgerrors.CodeCoupon, "coupon not applicable").
						WithDetails(map[string]any{"reason": coupons.ReasonLimitReached})
				}
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "redeem coupon")
			}
		}

		if input.ProviderPaymentID != "" {
			updates := map[string]any{
				"provider_payment_id": input.ProviderPaymentID,
				"status":              string(enums.PaymentStatusPaid),
			}
			if err := repo.UpdatePaymentIntent(ctx, order.ID, updates); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update payment intent")
			}
		}

		finalized = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return finalized, nil
}

func (s *service) ConfirmPayOnDelivery(ctx context.Context, orderID, buyerID uuid.UUID) (*models.Order, error) {
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	if order.BuyerID != buyerID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "order does not belong to buyer")
	}
	if order.PaymentMethod != enums.PaymentMethodCashOnDelivery {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "order is not pay-on-delivery")
	}

	var confirmed *models.Order
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		swapped, err := repo.ConfirmPayOnDelivery(ctx, orderID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "confirm order")
		}
		current, err := repo.FindByID(ctx, orderID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}
		if !swapped {
			if current.Status == enums.OrderStatusProcessing {
				confirmed = current
				return nil
			}
			return pkgerrors.New(pkgerrors.CodeStateConflict, "order cannot be confirmed in current state")
		}
		if current.CouponCode != nil {
			if err := s.coupons.WithTx(tx).Redeem(ctx, *current.CouponCode); err != nil {
				if errors.Is(err, coupons.ErrLimitReached) {
					return pkgerrors.New(pkgerrors.CodeCoupon, "coupon not applicable").
						WithDetails(map[string]any{"reason": coupons.ReasonLimitReached})
				}
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "redeem coupon")
			}
		}
		confirmed = current
		return nil
	})
	if err != nil {
		return nil, err
	}
	return confirmed, nil
}

// FailPayment records a provider decline. The guarded update keeps an already
// paid order untouched.
func (s *service) FailPayment(ctx context.Context, orderID uuid.UUID, reason string) error {
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		swapped, err := repo.MarkPaymentFailed(ctx, orderID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark payment failed")
		}
		if !swapped {
			return nil
		}
		updates := map[string]any{
			"status":         string(enums.PaymentStatusFailed),
			"failure_reason": reason,
		}
		if err := repo.UpdatePaymentIntent(ctx, orderID, updates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update payment intent")
		}
		return nil
	})
}

func (s *service) FindByNumberForBuyer(ctx context.Context, orderNumber string, buyerID uuid.UUID) (*models.Order, error) {
	order, err := s.repo.FindByNumberForBuyer(ctx, orderNumber, buyerID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return order, nil
}

func (s *service) ListForBuyer(ctx context.Context, buyerID uuid.UUID, limit, offset int) ([]models.Order, error) {
	if buyerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "buyer identity missing")
	}
	records, err := s.repo.ListByBuyer(ctx, buyerID, limit, offset)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	return records, nil
}

func (s *service) FindByProviderOrderID(ctx context.Context, providerOrderID string) (*models.Order, error) {
	order, err := s.repo.FindByProviderOrderID(ctx, providerOrderID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return order, nil
}

// ExpireStale cancels pending drafts older than the given age and reports how
// many rows were touched.
func (s *service) ExpireStale(ctx context.Context, olderThan time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-olderThan)
	cancelled, err := s.repo.CancelPendingBefore(ctx, cutoff)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "cancel stale orders")
	}
	return cancelled, nil
}

// Summarize shapes an order for the confirmation read-back.
func Summarize(order *models.Order) Summary {
	items := make([]SummaryItem, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, SummaryItem{
			Name:           item.Name,
			Quantity:       item.Quantity,
			UnitPriceCents: item.UnitPriceCents,
			LineTotalCents: item.LineTotalCents,
		})
	}
	return Summary{
		OrderNumber:   order.OrderNumber,
		Status:        order.Status,
		PaymentStatus: order.PaymentStatus,
		PaymentMethod: order.PaymentMethod,
		Currency:      order.Currency,
		Breakdown:     order.Breakdown(),
		Items:         items,
	}
}
