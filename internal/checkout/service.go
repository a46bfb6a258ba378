package checkout

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spicekart/storefront-backend/internal/addresses"
	"github.com/spicekart/storefront-backend/internal/cart"
	"github.com/spicekart/storefront-backend/internal/coupons"
	"github.com/spicekart/storefront-backend/internal/orders"
	"github.com/spicekart/storefront-backend/internal/payments"
	"github.com/spicekart/storefront-backend/internal/pricing"
	"github.com/spicekart/storefront-backend/pkg/db/models"
	"github.com/spicekart/storefront-backend/pkg/enums"
	pkgerrors "github.com/spicekart/storefront-backend/pkg/errors"
	"github.com/spicekart/storefront-backend/pkg/types"
)

// Service drives the checkout machine. Every step entry reprices the cart
// from a fresh snapshot; nothing displayed to the buyer survives from an
// earlier request.
type Service interface {
	Current(ctx context.Context, buyerID uuid.UUID) (*View, error)
	SubmitAddress(ctx context.Context, buyerID uuid.UUID, input AddressSubmission) (*View, error)
	Back(ctx context.Context, buyerID uuid.UUID) (*View, error)
	Submit(ctx context.Context, buyerID uuid.UUID, input SubmitInput) (*View, error)
	ConfirmPayOnDelivery(ctx context.Context, buyerID uuid.UUID) (*View, error)
	MarkCompleted(ctx context.Context, order *models.Order) error
	MarkFailed(ctx context.Context, order *models.Order) error
}

type service struct {
	store     *Store
	carts     cart.Service
	coupons   coupons.Service
	engine    *pricing.Engine
	addresses addresses.Service
	orders    orders.Service
	gateway   payments.Gateway
	currency  string
}

// NewService builds the checkout orchestrator with the required dependencies.
func NewService(
	store *Store,
	carts cart.Service,
	couponSvc coupons.Service,
	engine *pricing.Engine,
	addressSvc addresses.Service,
	orderSvc orders.Service,
	gateway payments.Gateway,
	currency string,
) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("checkout store required")
	}
	if carts == nil {
		return nil, fmt.Errorf("cart service required")
	}
	if couponSvc == nil {
		return nil, fmt.Errorf("coupon service required")
	}
	if engine == nil {
		return nil, fmt.Errorf("pricing engine required")
	}
	if addressSvc == nil {
		return nil, fmt.Errorf("address service required")
	}
	if orderSvc == nil {
		return nil, fmt.Errorf("orders service required")
	}
	if gateway == nil {
		return nil, fmt.Errorf("payment gateway required")
	}
	if currency == "" {
		return nil, fmt.Errorf("currency required")
	}
	return &service{
		store:     store,
		carts:     carts,
		coupons:   couponSvc,
		engine:    engine,
		addresses: addressSvc,
		orders:    orderSvc,
		gateway:   gateway,
		currency:  currency,
	}, nil
}

func (s *service) Current(ctx context.Context, buyerID uuid.UUID) (*View, error) {
	state, err := s.store.Load(ctx, buyerID)
	if err != nil {
		return nil, err
	}
	if state.Step.IsTerminal() {
		return s.view(state, state.Draft.Lines, state.Draft.Breakdown), nil
	}

	lines, breakdown, err := s.reprice(ctx, buyerID, state, false)
	if err != nil {
		return nil, err
	}
	if err := s.store.Save(ctx, buyerID, state); err != nil {
		return nil, err
	}
	return s.view(state, lines, breakdown), nil
}

func (s *service) SubmitAddress(ctx context.Context, buyerID uuid.UUID, input AddressSubmission) (*View, error) {
	state, err := s.store.Load(ctx, buyerID)
	if err != nil {
		return nil, err
	}
	if state.Step != enums.CheckoutStepAddress {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "address can only be set during address selection").
			WithDetails(map[string]any{"step": state.Step.String()})
	}

	shipping, err := s.resolveShipping(ctx, buyerID, input)
	if err != nil {
		return nil, err
	}
	billingID := shipping.ID
	if input.BillingAddressID != nil {
		billing, err := s.addresses.Get(ctx, buyerID, *input.BillingAddressID)
		if err != nil {
			return nil, err
		}
		billingID = billing.ID
	}

	state.Draft.ShippingAddressID = &shipping.ID
	state.Draft.BillingAddressID = &billingID
	if err := state.Advance(enums.CheckoutStepReview); err != nil {
		return nil, err
	}

	lines, breakdown, err := s.reprice(ctx, buyerID, state, false)
	if err != nil {
		return nil, err
	}
	if err := s.store.Save(ctx, buyerID, state); err != nil {
		return nil, err
	}
	return s.view(state, lines, breakdown), nil
}

func (s *service) Back(ctx context.Context, buyerID uuid.UUID) (*View, error) {
	state, err := s.store.Load(ctx, buyerID)
	if err != nil {
		return nil, err
	}
	if err := state.Back(); err != nil {
		return nil, err
	}

	lines, breakdown, err := s.reprice(ctx, buyerID, state, false)
	if err != nil {
		return nil, err
	}
	if err := s.store.Save(ctx, buyerID, state); err != nil {
		return nil, err
	}
	return s.view(state, lines, breakdown), nil
}

// Submit turns the reviewed cart into a draft order and, for deferred payment
// methods, a provider order the storefront can open the payment widget with.
func (s *service) Submit(ctx context.Context, buyerID uuid.UUID, input SubmitInput) (*View, error) {
	state, err := s.store.Load(ctx, buyerID)
	if err != nil {
		return nil, err
	}
	if state.Step != enums.CheckoutStepReview {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "submit is only valid from review").
			WithDetails(map[string]any{"step": state.Step.String()})
	}
	if !input.PaymentMethod.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown payment method")
	}
	if state.Draft.ShippingAddressID == nil || state.Draft.BillingAddressID == nil {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "addresses missing from draft")
	}

	state.Draft.CouponCode = input.CouponCode
	state.Draft.PaymentMethod = &input.PaymentMethod

	// Strict repricing: an invalid coupon fails the submit instead of being
	// silently dropped.
	lines, breakdown, err := s.reprice(ctx, buyerID, state, true)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	order, err := s.orders.CreateDraft(ctx, orders.DraftInput{
		BuyerID:           buyerID,
		PaymentMethod:     input.PaymentMethod,
		Currency:          s.currency,
		Lines:             lines,
		Breakdown:         breakdown,
		ShippingAddressID: *state.Draft.ShippingAddressID,
		BillingAddressID:  *state.Draft.BillingAddressID,
	})
	if err != nil {
		return nil, err
	}

	state.Draft.OrderID = &order.ID
	state.Draft.OrderNumber = &order.OrderNumber

	if input.PaymentMethod.IsDeferred() && order.TotalCents > 0 {
		providerOrderID, err := s.gateway.CreateRemoteOrder(ctx, order.TotalCents, order.Currency, order.OrderNumber)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create provider order")
		}
		if _, err := s.orders.AttachPaymentIntent(ctx, order.ID, providerOrderID); err != nil {
			return nil, err
		}
		state.Draft.ProviderOrderID = &providerOrderID
	}

	if err := state.Advance(enums.CheckoutStepPayment); err != nil {
		return nil, err
	}

	// A fully discounted order has nothing to collect; complete it in place.
	if input.PaymentMethod.IsDeferred() && order.TotalCents == 0 {
		if _, err := s.orders.Finalize(ctx, orders.FinalizeInput{OrderID: order.ID}); err != nil {
			return nil, err
		}
		if err := state.Advance(enums.CheckoutStepCompleted); err != nil {
			return nil, err
		}
		_ = s.carts.Clear(ctx, buyerID)
	}

	if err := s.store.Save(ctx, buyerID, state); err != nil {
		return nil, err
	}
	return s.view(state, lines, breakdown), nil
}

func (s *service) ConfirmPayOnDelivery(ctx context.Context, buyerID uuid.UUID) (*View, error) {
	state, err := s.store.Load(ctx, buyerID)
	if err != nil {
		return nil, err
	}
	if state.Step != enums.CheckoutStepPayment {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "confirmation is only valid from payment").
			WithDetails(map[string]any{"step": state.Step.String()})
	}
	if state.Draft.PaymentMethod == nil || *state.Draft.PaymentMethod != enums.PaymentMethodCashOnDelivery {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "draft is not pay-on-delivery")
	}
	if state.Draft.OrderID == nil {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "no draft order to confirm")
	}

	order, err := s.orders.ConfirmPayOnDelivery(ctx, *state.Draft.OrderID, buyerID)
	if err != nil {
		return nil, err
	}

	if err := state.Advance(enums.CheckoutStepCompleted); err != nil {
		return nil, err
	}
	state.Draft.Breakdown = order.Breakdown()
	if err := s.store.Save(ctx, buyerID, state); err != nil {
		return nil, err
	}
	_ = s.carts.Clear(ctx, buyerID)
	return s.view(state, state.Draft.Lines, order.Breakdown()), nil
}

// MarkCompleted reflects a finalized payment into the buyer's checkout state.
// A stale or missing state is left alone; the order row is the source of
// truth.
func (s *service) MarkCompleted(ctx context.Context, order *models.Order) error {
	state, err := s.store.Load(ctx, order.BuyerID)
	if err != nil {
		return err
	}
	if state.Step != enums.CheckoutStepPayment || state.Draft.OrderID == nil || *state.Draft.OrderID != order.ID {
		return nil
	}
	if err := state.Advance(enums.CheckoutStepCompleted); err != nil {
		return err
	}
	state.Draft.Breakdown = order.Breakdown()
	if err := s.store.Save(ctx, order.BuyerID, state); err != nil {
		return err
	}
	_ = s.carts.Clear(ctx, order.BuyerID)
	return nil
}

// MarkFailed moves the machine to failed after a provider decline. The draft
// survives so the buyer can step back and retry with a fresh intent.
func (s *service) MarkFailed(ctx context.Context, order *models.Order) error {
	state, err := s.store.Load(ctx, order.BuyerID)
	if err != nil {
		return err
	}
	if state.Step != enums.CheckoutStepPayment || state.Draft.OrderID == nil || *state.Draft.OrderID != order.ID {
		return nil
	}
	if err := state.Advance(enums.CheckoutStepFailed); err != nil {
		return err
	}
	return s.store.Save(ctx, order.BuyerID, state)
}

func (s *service) resolveShipping(ctx context.Context, buyerID uuid.UUID, input AddressSubmission) (*models.Address, error) {
	switch {
	case input.NewAddress != nil:
		return s.addresses.Create(ctx, buyerID, *input.NewAddress)
	case input.AddressID != nil:
		return s.addresses.Get(ctx, buyerID, *input.AddressID)
	default:
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "address_id or new_address required")
	}
}

// reprice refreshes the draft's lines and breakdown from a live snapshot.
// When strict is false an invalid coupon is dropped from the draft instead of
// failing the call.
func (s *service) reprice(ctx context.Context, buyerID uuid.UUID, state *State, strict bool) ([]pricing.Line, types.PriceBreakdown, error) {
	lines, err := s.carts.Snapshot(ctx, buyerID)
	if err != nil {
		return nil, types.PriceBreakdown{}, err
	}

	var subtotal int64
	for _, line := range lines {
		subtotal += int64(line.Quantity) * line.UnitPriceCents
	}

	var applied *coupons.Applied
	if state.Draft.CouponCode != nil {
		applied, err = s.coupons.Apply(ctx, *state.Draft.CouponCode, subtotal, time.Now().UTC())
		if err != nil {
			if strict {
				return nil, types.PriceBreakdown{}, err
			}
			if typed := pkgerrors.As(err); typed != nil && typed.Code() == pkgerrors.CodeCoupon {
				state.Draft.CouponCode = nil
				applied = nil
			} else {
				return nil, types.PriceBreakdown{}, err
			}
		}
	}

	breakdown := s.engine.Quote(lines, applied)
	state.Draft.Lines = lines
	state.Draft.Breakdown = breakdown
	return lines, breakdown, nil
}

func (s *service) view(state *State, lines []pricing.Line, breakdown types.PriceBreakdown) *View {
	view := &View{
		Step:  state.Step,
		Lines: lines,
		Quote: breakdown,
		Draft: state.Draft,
	}
	if state.Step == enums.CheckoutStepPayment &&
		state.Draft.PaymentMethod != nil && state.Draft.PaymentMethod.IsDeferred() {
		view.PaymentKeyID = s.gateway.KeyID()
	}
	return view
}
