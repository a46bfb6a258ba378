package cart

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/spicekart/storefront-backend/internal/pricing"
	"github.com/spicekart/storefront-backend/internal/products"
	"github.com/spicekart/storefront-backend/pkg/db/models"
	pkgerrors "github.com/spicekart/storefront-backend/pkg/errors"
	"gorm.io/gorm"
)

// Service is the checkout core's view of the cart store. Snapshots re-read
// live variant prices so a total computed from one can never be stale.
type Service interface {
	Snapshot(ctx context.Context, buyerID uuid.UUID) ([]pricing.Line, error)
	SetQuantity(ctx context.Context, buyerID, variantID uuid.UUID, quantity int) error
	RemoveLine(ctx context.Context, buyerID, variantID uuid.UUID) error
	Clear(ctx context.Context, buyerID uuid.UUID) error
}

type service struct {
	repo    Repository
	catalog products.Repository
}

// NewService builds a cart service with the required dependencies.
func NewService(repo Repository, catalog products.Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if catalog == nil {
		return nil, fmt.Errorf("products repository required")
	}
	return &service{repo: repo, catalog: catalog}, nil
}

// Snapshot returns pricing lines for the buyer's cart with unit prices read
// from the catalog at call time. Lines whose variant has vanished or whose
// product went inactive are dropped rather than priced from captured values.
func (s *service) Snapshot(ctx context.Context, buyerID uuid.UUID) ([]pricing.Line, error) {
	record, err := s.repo.FindByBuyer(ctx, buyerID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	if len(record.Items) == 0 {
		return nil, nil
	}

	variantIDs := make([]uuid.UUID, 0, len(record.Items))
	for _, item := range record.Items {
		variantIDs = append(variantIDs, item.VariantID)
	}
	details, err := s.catalog.FindVariants(ctx, variantIDs)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load variants")
	}

	lines := make([]pricing.Line, 0, len(record.Items))
	for _, item := range record.Items {
		detail, ok := details[item.VariantID]
		if !ok || !detail.Active {
			continue
		}
		lines = append(lines, pricing.Line{
			ProductID:           item.ProductID,
			VariantID:           item.VariantID,
			Name:                fmt.Sprintf("%s (%s)", detail.Title, detail.Variant.Label),
			Quantity:            item.Quantity,
			UnitPriceCents:      detail.Variant.UnitPriceCents,
			CompareAtPriceCents: detail.Variant.CompareAtPriceCents,
		})
	}
	return lines, nil
}

// SetQuantity writes the given quantity for a variant, creating the cart and
// line as needed. Quantity zero removes the line.
func (s *service) SetQuantity(ctx context.Context, buyerID, variantID uuid.UUID, quantity int) error {
	if quantity < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity must not be negative")
	}
	if quantity == 0 {
		return s.RemoveLine(ctx, buyerID, variantID)
	}

	detail, err := s.catalog.FindVariant(ctx, variantID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return pkgerrors.New(pkgerrors.CodeNotFound, "variant not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load variant")
	}
	if !detail.Active {
		return pkgerrors.New(pkgerrors.CodeValidation, "product is no longer available")
	}
	if quantity > detail.Variant.StockQty {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity exceeds available stock").
			WithDetails(map[string]any{"stock_qty": detail.Variant.StockQty})
	}

	record, err := s.repo.EnsureForBuyer(ctx, buyerID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "open cart")
	}

	item := &models.CartItem{
		ID:                  uuid.New(),
		CartID:              record.ID,
		ProductID:           detail.Variant.ProductID,
		VariantID:           variantID,
		Quantity:            quantity,
		UnitPriceCents:      detail.Variant.UnitPriceCents,
		CompareAtPriceCents: detail.Variant.CompareAtPriceCents,
		WeightGrams:         detail.Variant.WeightGrams,
	}
	if err := s.repo.UpsertItem(ctx, item); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save cart line")
	}
	return nil
}

func (s *service) RemoveLine(ctx context.Context, buyerID, variantID uuid.UUID) error {
	record, err := s.repo.FindByBuyer(ctx, buyerID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	if err := s.repo.DeleteItem(ctx, record.ID, variantID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remove cart line")
	}
	return nil
}

// Clear empties the cart after an order completes.
func (s *service) Clear(ctx context.Context, buyerID uuid.UUID) error {
	record, err := s.repo.FindByBuyer(ctx, buyerID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	if err := s.repo.ClearItems(ctx, record.ID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart")
	}
	return nil
}
