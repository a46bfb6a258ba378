package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/spicekart/storefront-backend/pkg/enums"
)

// Coupon is a named discount rule. Codes are matched case-insensitively and
// stored upper-cased. For percentage coupons DiscountValue is whole percent;
// for fixed coupons it is paise. used_count <= usage_limit always holds; the
// increment happens only at order finalize, guarded in SQL.
type Coupon struct {
	ID                 uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Code               string             `gorm:"column:code;not null;uniqueIndex"`
	DiscountType       enums.DiscountType `gorm:"column:discount_type;type:text;not null"`
	DiscountValue      int64              `gorm:"column:discount_value;not null"`
	MinOrderValueCents int64              `gorm:"column:min_order_value_cents;not null;default:0"`
	UsageLimit         int                `gorm:"column:usage_limit;not null"`
	UsedCount          int                `gorm:"column:used_count;not null;default:0"`
	StartsAt           time.Time          `gorm:"column:starts_at;not null"`
	EndsAt             time.Time          `gorm:"column:ends_at;not null"`
	Active             bool               `gorm:"column:active;not null;default:true"`
	CreatedAt          time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt          time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}
