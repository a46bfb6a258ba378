package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/spicekart/storefront-backend/pkg/enums"
)

// PaymentIntent bridges a local order to the payment provider's remote order.
// It is created only after the local order exists, so every provider order is
// traceable back to a draft even when the buyer abandons the tab.
type PaymentIntent struct {
	ID                uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID           uuid.UUID           `gorm:"column:order_id;type:uuid;not null;index"`
	ProviderOrderID   string              `gorm:"column:provider_order_id;not null;uniqueIndex"`
	ProviderPaymentID *string             `gorm:"column:provider_payment_id"`
	AmountCents       int64               `gorm:"column:amount_cents;not null"`
	Currency          string              `gorm:"column:currency;type:text;not null"`
	Status            enums.PaymentStatus `gorm:"column:status;type:text;not null;default:'pending'"`
	FailureReason     *string             `gorm:"column:failure_reason"`
	CreatedAt         time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
