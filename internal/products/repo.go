package products

import (
	"context"

	"github.com/google/uuid"
	"github.com/spicekart/storefront-backend/pkg/db/models"
	"gorm.io/gorm"
)

// VariantDetail pairs a variant with its parent product's display data.
type VariantDetail struct {
	Variant models.ProductVariant
	Title   string
	Active  bool
}

// Repository exposes the catalog reads the checkout core needs. Prices and
// stock always come from these lookups, never from values cached in carts.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindVariant(ctx context.Context, variantID uuid.UUID) (*VariantDetail, error)
	FindVariants(ctx context.Context, variantIDs []uuid.UUID) (map[uuid.UUID]VariantDetail, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a products repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) FindVariant(ctx context.Context, variantID uuid.UUID) (*VariantDetail, error) {
	var variant models.ProductVariant
	err := r.db.WithContext(ctx).
		Where("id = ?", variantID).
		First(&variant).Error
	if err != nil {
		return nil, err
	}

	var product models.Product
	err = r.db.WithContext(ctx).
		Where("id = ?", variant.ProductID).
		First(&product).Error
	if err != nil {
		return nil, err
	}

	return &VariantDetail{Variant: variant, Title: product.Title, Active: product.IsActive}, nil
}

func (r *repository) FindVariants(ctx context.Context, variantIDs []uuid.UUID) (map[uuid.UUID]VariantDetail, error) {
	details := make(map[uuid.UUID]VariantDetail, len(variantIDs))
	if len(variantIDs) == 0 {
		return details, nil
	}

	var variants []models.ProductVariant
	err := r.db.WithContext(ctx).
		Where("id IN ?", variantIDs).
		Find(&variants).Error
	if err != nil {
		return nil, err
	}

	productIDs := make([]uuid.UUID, 0, len(variants))
	for _, variant := range variants {
		productIDs = append(productIDs, variant.ProductID)
	}

	var parents []models.Product
	err = r.db.WithContext(ctx).
		Where("id IN ?", productIDs).
		Find(&parents).Error
	if err != nil {
		return nil, err
	}
	parentByID := make(map[uuid.UUID]models.Product, len(parents))
	for _, product := range parents {
		parentByID[product.ID] = product
	}

	for _, variant := range variants {
		parent := parentByID[variant.ProductID]
		details[variant.ID] = VariantDetail{Variant: variant, Title: parent.Title, Active: parent.IsActive}
	}
	return details, nil
}
