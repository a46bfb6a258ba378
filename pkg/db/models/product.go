package models

import (
	"time"

	"github.com/google/uuid"
)

// Product is catalog data owned by the content side of the platform; the
// checkout core only reads it to refresh price and stock on cart snapshots.
type Product struct {
	ID        uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Title     string           `gorm:"column:title;not null"`
	Slug      string           `gorm:"column:slug;not null;uniqueIndex"`
	IsActive  bool             `gorm:"column:is_active;not null;default:true"`
	Variants  []ProductVariant `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}

// ProductVariant is a purchasable SKU (pack size) with its own price and
// stock.
type ProductVariant struct {
	ID                  uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID           uuid.UUID `gorm:"column:product_id;type:uuid;not null;index"`
	SKU                 string    `gorm:"column:sku;not null;uniqueIndex"`
	Label               string    `gorm:"column:label;not null"`
	UnitPriceCents      int64     `gorm:"column:unit_price_cents;not null"`
	CompareAtPriceCents *int64    `gorm:"column:compare_at_price_cents"`
	WeightGrams         int       `gorm:"column:weight_grams;not null;default:0"`
	StockQty            int       `gorm:"column:stock_qty;not null;default:0"`
	CreatedAt           time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt           time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
