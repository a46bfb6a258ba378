package models

import (
	"time"

	"github.com/google/uuid"
)

// CartRecord is the buyer's open cart. The cart store owns these rows; the
// checkout core only reads snapshots and proxies quantity changes during the
// review step.
type CartRecord struct {
	ID        uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	BuyerID   uuid.UUID  `gorm:"column:buyer_id;type:uuid;not null;uniqueIndex"`
	Items     []CartItem `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

// CartItem is one line of the cart with the price captured at add time.
// Totals are never computed off these captured prices alone: pricing always
// re-reads the live variant before a total is displayed or charged.
type CartItem struct {
	ID                  uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CartID              uuid.UUID `gorm:"column:cart_id;type:uuid;not null;index"`
	ProductID           uuid.UUID `gorm:"column:product_id;type:uuid;not null"`
	VariantID           uuid.UUID `gorm:"column:variant_id;type:uuid;not null"`
	Quantity            int       `gorm:"column:quantity;not null"`
	UnitPriceCents      int64     `gorm:"column:unit_price_cents;not null"`
	CompareAtPriceCents *int64    `gorm:"column:compare_at_price_cents"`
	WeightGrams         int       `gorm:"column:weight_grams;not null;default:0"`
	CreatedAt           time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt           time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
