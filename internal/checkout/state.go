package checkout

import (
	"time"

	"github.com/google/uuid"
	"github.com/spicekart/storefront-backend/internal/pricing"
	"github.com/spicekart/storefront-backend/pkg/enums"
	pkgerrors "github.com/spicekart/storefront-backend/pkg/errors"
	"github.com/spicekart/storefront-backend/pkg/types"
)

// Draft accumulates everything the buyer has chosen so far. It survives
// backward transitions untouched so nothing gets re-entered.
type Draft struct {
	Lines             []pricing.Line       `json:"lines,omitempty"`
	Breakdown         types.PriceBreakdown `json:"breakdown"`
	CouponCode        *string              `json:"coupon_code,omitempty"`
	ShippingAddressID *uuid.UUID           `json:"shipping_address_id,omitempty"`
	BillingAddressID  *uuid.UUID           `json:"billing_address_id,omitempty"`
	PaymentMethod     *enums.PaymentMethod `json:"payment_method,omitempty"`
	OrderID           *uuid.UUID           `json:"order_id,omitempty"`
	OrderNumber       *string              `json:"order_number,omitempty"`
	ProviderOrderID   *string              `json:"provider_order_id,omitempty"`
}

// State is the serializable checkout machine for one buyer. Every mutation
// goes through Advance or Back so the step graph stays closed.
type State struct {
	Step      enums.CheckoutStep `json:"step"`
	Draft     Draft              `json:"draft"`
	UpdatedAt time.Time          `json:"updated_at"`
}

// NewState starts a fresh checkout at address selection.
func NewState() *State {
	return &State{Step: enums.CheckoutStepAddress, UpdatedAt: time.Now().UTC()}
}

var forwardEdges = map[enums.CheckoutStep][]enums.CheckoutStep{
	enums.CheckoutStepAddress: {enums.CheckoutStepReview},
	enums.CheckoutStepReview:  {enums.CheckoutStepPayment},
	enums.CheckoutStepPayment: {enums.CheckoutStepCompleted, enums.CheckoutStepFailed},
}

var backEdges = map[enums.CheckoutStep]enums.CheckoutStep{
	enums.CheckoutStepReview:  enums.CheckoutStepAddress,
	enums.CheckoutStepPayment: enums.CheckoutStepReview,
	enums.CheckoutStepFailed:  enums.CheckoutStepReview,
}

// Advance moves the machine forward one step, enforcing the gates: review
// needs a shipping address on the draft, and failed is reachable from payment
// only.
func (s *State) Advance(to enums.CheckoutStep) error {
	if !edgeExists(s.Step, to) {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "checkout step transition disallowed").
			WithDetails(map[string]any{"from": s.Step.String(), "to": to.String()})
	}
	if to == enums.CheckoutStepReview && s.Draft.ShippingAddressID == nil {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "shipping address required before review")
	}
	s.Step = to
	s.UpdatedAt = time.Now().UTC()
	return nil
}

// Back moves one step backward, keeping the draft intact. Terminal completed
// has no way back.
func (s *State) Back() error {
	previous, ok := backEdges[s.Step]
	if !ok {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "cannot go back from current step").
			WithDetails(map[string]any{"from": s.Step.String()})
	}
	s.Step = previous
	s.UpdatedAt = time.Now().UTC()
	return nil
}

func edgeExists(from, to enums.CheckoutStep) bool {
	for _, candidate := range forwardEdges[from] {
		if candidate == to {
			return true
		}
	}
	return false
}
