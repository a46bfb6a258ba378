package coupons

import (
	"context"
	"errors"

	"github.com/spicekart/storefront-backend/pkg/db/models"
	"gorm.io/gorm"
)

// ErrLimitReached reports that the guarded redeem increment matched no row
// because the coupon's usage limit is exhausted.
var ErrLimitReached = errors.New("coupon usage limit reached")

// Repository defines persistence operations for coupons.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindByCode(ctx context.Context, code string) (*models.Coupon, error)
	Redeem(ctx context.Context, code string) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a coupons repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) FindByCode(ctx context.Context, code string) (*models.Coupon, error) {
	var coupon models.Coupon
	err := r.db.WithContext(ctx).
		Where("lower(code) = lower(?)", code).
		First(&coupon).Error
	if err != nil {
		return nil, err
	}
	return &coupon, nil
}

// Redeem increments used_count with the limit guard in the predicate so two
// concurrent finalizes can never both consume the last redemption.
func (r *repository) Redeem(ctx context.Context, code string) error {
	result := r.db.WithContext(ctx).Exec(
		`UPDATE coupons
		 SET used_count = used_count + 1, updated_at = CURRENT_TIMESTAMP
		 WHERE lower(code) = lower(?) AND used_count < usage_limit`,
		code,
	)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrLimitReached
	}
	return nil
}
