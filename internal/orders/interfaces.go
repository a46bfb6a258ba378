package orders

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/spicekart/storefront-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository defines persistence operations for orders and their children.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, order *models.Order) (*models.Order, error)
	CreateItems(ctx context.Context, items []models.OrderItem) error
	CreatePaymentIntent(ctx context.Context, intent *models.PaymentIntent) (*models.PaymentIntent, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	FindByNumberForBuyer(ctx context.Context, orderNumber string, buyerID uuid.UUID) (*models.Order, error)
	ListByBuyer(ctx context.Context, buyerID uuid.UUID, limit, offset int) ([]models.Order, error)
	FindByProviderOrderID(ctx context.Context, providerOrderID string) (*models.Order, error)
	MarkPaid(ctx context.Context, orderID uuid.UUID) (bool, error)
	MarkPaymentFailed(ctx context.Context, orderID uuid.UUID) (bool, error)
	ConfirmPayOnDelivery(ctx context.Context, orderID uuid.UUID) (bool, error)
	UpdatePaymentIntent(ctx context.Context, orderID uuid.UUID, updates map[string]any) error
	CancelPendingBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
