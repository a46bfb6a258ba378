package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/spicekart/storefront-backend/pkg/enums"
	"github.com/spicekart/storefront-backend/pkg/types"
)

// Order is one checkout attempt. The order number is a human-facing label,
// never the primary key. Status transitions are monotonic and the totals
// columns are the frozen PriceBreakdown of the moment the draft was created.
type Order struct {
	ID                  uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	BuyerID             uuid.UUID           `gorm:"column:buyer_id;type:uuid;not null;index"`
	OrderNumber         string              `gorm:"column:order_number;not null;uniqueIndex"`
	Status              enums.OrderStatus   `gorm:"column:status;type:text;not null;default:'pending'"`
	PaymentStatus       enums.PaymentStatus `gorm:"column:payment_status;type:text;not null;default:'pending'"`
	PaymentMethod       enums.PaymentMethod `gorm:"column:payment_method;type:text;not null"`
	Currency            string              `gorm:"column:currency;type:text;not null;default:'INR'"`
	CouponCode          *string             `gorm:"column:coupon_code"`
	SubtotalCents       int64               `gorm:"column:subtotal_cents;not null"`
	SavingsCents        int64               `gorm:"column:savings_cents;not null;default:0"`
	CouponDiscountCents int64               `gorm:"column:coupon_discount_cents;not null;default:0"`
	ShippingCents       int64               `gorm:"column:shipping_cents;not null;default:0"`
	TaxCents            int64               `gorm:"column:tax_cents;not null;default:0"`
	TotalCents          int64               `gorm:"column:total_cents;not null"`
	ShippingAddressID   uuid.UUID           `gorm:"column:shipping_address_id;type:uuid;not null"`
	BillingAddressID    uuid.UUID           `gorm:"column:billing_address_id;type:uuid;not null"`
	Items               []OrderItem         `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	PaymentIntent       *PaymentIntent      `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CancelledAt         *time.Time          `gorm:"column:cancelled_at"`
	CreatedAt           time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt           time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

// Breakdown reconstructs the persisted totals as a PriceBreakdown.
func (o Order) Breakdown() types.PriceBreakdown {
	return types.PriceBreakdown{
		SubtotalCents:       o.SubtotalCents,
		SavingsCents:        o.SavingsCents,
		CouponCode:          o.CouponCode,
		CouponDiscountCents: o.CouponDiscountCents,
		ShippingCents:       o.ShippingCents,
		TaxCents:            o.TaxCents,
		TotalCents:          o.TotalCents,
	}
}

// OrderItem is the immutable snapshot of one cart line at draft time. Items
// are owned by their order and written in the same transaction.
type OrderItem struct {
	ID             uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID        uuid.UUID `gorm:"column:order_id;type:uuid;not null;index"`
	ProductID      uuid.UUID `gorm:"column:product_id;type:uuid;not null"`
	VariantID      uuid.UUID `gorm:"column:variant_id;type:uuid;not null"`
	Name           string    `gorm:"column:name;not null"`
	Quantity       int       `gorm:"column:quantity;not null"`
	UnitPriceCents int64     `gorm:"column:unit_price_cents;not null"`
	LineTotalCents int64     `gorm:"column:line_total_cents;not null"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime"`
}
