package checkout

import (
	"github.com/google/uuid"
	"github.com/spicekart/storefront-backend/internal/addresses"
	"github.com/spicekart/storefront-backend/internal/pricing"
	"github.com/spicekart/storefront-backend/pkg/enums"
	"github.com/spicekart/storefront-backend/pkg/types"
)

// AddressSubmission either references a saved address or carries a brand new
// one. Billing defaults to the shipping address when not given.
type AddressSubmission struct {
	AddressID        *uuid.UUID             `json:"address_id,omitempty"`
	NewAddress       *addresses.CreateInput `json:"new_address,omitempty"`
	BillingAddressID *uuid.UUID             `json:"billing_address_id,omitempty"`
}

// SubmitInput finalizes the review step into a draft order.
type SubmitInput struct {
	PaymentMethod enums.PaymentMethod `json:"payment_method"`
	CouponCode    *string             `json:"coupon_code,omitempty"`
}

// View is the state handed back to the storefront after every checkout call.
// The quote is always recomputed from a fresh cart snapshot.
type View struct {
	Step         enums.CheckoutStep   `json:"step"`
	Lines        []pricing.Line       `json:"lines"`
	Quote        types.PriceBreakdown `json:"quote"`
	Draft        Draft                `json:"draft"`
	PaymentKeyID string               `json:"payment_key_id,omitempty"`
}
