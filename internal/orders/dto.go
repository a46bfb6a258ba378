package orders

import (
	"github.com/google/uuid"
	"github.com/spicekart/storefront-backend/internal/pricing"
	"github.com/spicekart/storefront-backend/pkg/enums"
	"github.com/spicekart/storefront-backend/pkg/types"
)

// DraftInput freezes everything a draft order needs at submit time. Lines and
// the breakdown come from the same fresh snapshot; the writer trusts neither
// captured cart prices nor client-supplied totals.
type DraftInput struct {
	BuyerID           uuid.UUID
	PaymentMethod     enums.PaymentMethod
	Currency          string
	Lines             []pricing.Line
	Breakdown         types.PriceBreakdown
	ShippingAddressID uuid.UUID
	BillingAddressID  uuid.UUID
}

// FinalizeInput identifies a verified payment ready to be applied.
type FinalizeInput struct {
	OrderID           uuid.UUID
	ProviderPaymentID string
}

// Summary is the confirmation read-back shape.
type Summary struct {
	OrderNumber   string               `json:"order_number"`
	Status        enums.OrderStatus    `json:"status"`
	PaymentStatus enums.PaymentStatus  `json:"payment_status"`
	PaymentMethod enums.PaymentMethod  `json:"payment_method"`
	Currency      string               `json:"currency"`
	Breakdown     types.PriceBreakdown `json:"breakdown"`
	Items         []SummaryItem        `json:"items"`
}

// SummaryItem is one frozen line on the confirmation page.
type SummaryItem struct {
	Name           string `json:"name"`
	Quantity       int    `json:"quantity"`
	UnitPriceCents int64  `json:"unit_price_cents"`
	LineTotalCents int64  `json:"line_total_cents"`
}
