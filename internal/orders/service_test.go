package orders

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/spicekart/storefront-backend/internal/coupons"
	"github.com/spicekart/storefront-backend/internal/pricing"
	"github.com/spicekart/storefront-backend/pkg/db/models"
	"github.com/spicekart/storefront-backend/pkg/enums"
	pkgerrors "github.com/spicekart/storefront-backend/pkg/errors"
	"github.com/spicekart/storefront-backend/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type testTxRunner struct {
	db *gorm.DB
}

func (t testTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	tx := t.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return tx.Error
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit().Error
}

// failingItemsRepo forces the item insert to fail after the order row is
// written, exercising the rollback path.
type failingItemsRepo struct {
	Repository
}

func (f failingItemsRepo) WithTx(tx *gorm.DB) Repository {
	return failingItemsRepo{Repository: f.Repository.WithTx(tx)}
}

func (f failingItemsRepo) CreateItems(ctx context.Context, items []models.OrderItem) error {
	return errors.New("disk on fire")
}

func newTestService(t *testing.T, db *gorm.DB) Service {
	t.Helper()
	svc, err := NewService(NewRepository(db), coupons.NewRepository(db), testTxRunner{db: db}, nil)
	require.NoError(t, err)
	return svc
}

func draftInput(buyerID uuid.UUID) DraftInput {
	return DraftInput{
		BuyerID:       buyerID,
		PaymentMethod: enums.PaymentMethodRazorpay,
		Currency:      "INR",
		Lines: []pricing.Line{{
			ProductID:      uuid.New(),
			VariantID:      uuid.New(),
			Name:           "Kashmiri Chilli (250g)",
			Quantity:       3,
			UnitPriceCents: 15000,
		}},
		Breakdown: types.PriceBreakdown{
			SubtotalCents: 45000,
			ShippingCents: 5000,
			TaxCents:      2250,
			TotalCents:    52250,
		},
		ShippingAddressID: uuid.New(),
		BillingAddressID:  uuid.New(),
	}
}

func TestCreateDraftWritesOrderAndItems(t *testing.T) {
	db := setupOrdersTestDB(t)
	svc := newTestService(t, db)
	buyerID := uuid.New()

	order, err := svc.CreateDraft(context.Background(), draftInput(buyerID))
	require.NoError(t, err)
	assert.Regexp(t, `^SPK-\d{8}-[0-9a-f]{6}$`, order.OrderNumber)
	assert.Equal(t, enums.OrderStatusPending, order.Status)
	assert.Equal(t, enums.PaymentStatusPending, order.PaymentStatus)

	reloaded, err := NewRepository(db).FindByID(context.Background(), order.ID)
	require.NoError(t, err)
	require.Len(t, reloaded.Items, 1)
	assert.Equal(t, int64(45000), reloaded.Items[0].LineTotalCents)
}

func TestCreateDraftRejectsEmptyCart(t *testing.T) {
	db := setupOrdersTestDB(t)
	svc := newTestService(t, db)

	input := draftInput(uuid.New())
	input.Lines = nil
	_, err := svc.CreateDraft(context.Background(), input)

	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestCreateDraftRollsBackOnItemFailure(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := failingItemsRepo{Repository: NewRepository(db)}
	svc, err := NewService(repo, coupons.NewRepository(db), testTxRunner{db: db}, nil)
	require.NoError(t, err)

	_, err = svc.CreateDraft(context.Background(), draftInput(uuid.New()))
	require.Error(t, err)

	var count int64
	require.NoError(t, db.Table("orders").Count(&count).Error)
	assert.Zero(t, count, "a failed item write must not leave an order behind")
}

func seedFinalizeFixture(t *testing.T, db *gorm.DB, couponCode *string, usageLimit, usedCount int) *models.Order {
	t.Helper()
	if couponCode != nil {
		coupon := &models.Coupon{
			ID:            uuid.New(),
			Code:          *couponCode,
			DiscountType:  enums.DiscountTypePercentage,
			DiscountValue: 10,
			UsageLimit:    usageLimit,
			UsedCount:     usedCount,
			StartsAt:      time.Now().Add(-time.Hour),
			EndsAt:        time.Now().Add(time.Hour),
			Active:        true,
		}
		require.NoError(t, db.Create(coupon).Error)
	}
	order := seedOrder(t, db, func(o *models.Order) {
		o.CouponCode = couponCode
	})
	intent := &models.PaymentIntent{
		ID:              uuid.New(),
		OrderID:         order.ID,
		ProviderOrderID: "order_" + uuid.NewString()[:8],
		AmountCents:     order.TotalCents,
		Currency:        "INR",
		Status:          enums.PaymentStatusPending,
	}
	require.NoError(t, db.Create(intent).Error)
	return order
}

func TestFinalizeIsIdempotent(t *testing.T) {
	db := setupOrdersTestDB(t)
	svc := newTestService(t, db)
	code := "WELCOME10"
	order := seedFinalizeFixture(t, db, &code, 100, 0)

	input := FinalizeInput{OrderID: order.ID, ProviderPaymentID: "pay_abc"}
	first, err := svc.Finalize(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, enums.PaymentStatusPaid, first.PaymentStatus)

	// Webhook and browser callback both land; the second is a no-op.
	second, err := svc.Finalize(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, enums.PaymentStatusPaid, second.PaymentStatus)

	coupon, err := coupons.NewRepository(db).FindByCode(context.Background(), code)
	require.NoError(t, err)
	assert.Equal(t, 1, coupon.UsedCount, "redeem must run exactly once")
}

func TestFinalizeFailsWhenCouponExhausted(t *testing.T) {
	db := setupOrdersTestDB(t)
	svc := newTestService(t, db)
	code := "SOLDOUT"
	order := seedFinalizeFixture(t, db, &code, 1, 1)

	_, err := svc.Finalize(context.Background(), FinalizeInput{OrderID: order.ID, ProviderPaymentID: "pay_abc"})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeCoupon, typed.Code())

	// The whole transaction rolled back, so the order is still pending.
	reloaded, err := NewRepository(db).FindByID(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.PaymentStatusPending, reloaded.PaymentStatus)
}

func TestConfirmPayOnDeliveryCompletesWithPendingPayment(t *testing.T) {
	db := setupOrdersTestDB(t)
	svc := newTestService(t, db)
	order := seedOrder(t, db, func(o *models.Order) {
		o.PaymentMethod = enums.PaymentMethodCashOnDelivery
	})

	confirmed, err := svc.ConfirmPayOnDelivery(context.Background(), order.ID, order.BuyerID)
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusProcessing, confirmed.Status)
	assert.Equal(t, enums.PaymentStatusPending, confirmed.PaymentStatus)
}

func TestConfirmPayOnDeliveryRejectsForeignBuyer(t *testing.T) {
	db := setupOrdersTestDB(t)
	svc := newTestService(t, db)
	order := seedOrder(t, db, func(o *models.Order) {
		o.PaymentMethod = enums.PaymentMethodCashOnDelivery
	})

	_, err := svc.ConfirmPayOnDelivery(context.Background(), order.ID, uuid.New())
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeForbidden, typed.Code())
}

func TestExpireStaleCancelsOldDrafts(t *testing.T) {
	db := setupOrdersTestDB(t)
	svc := newTestService(t, db)
	stale := seedOrder(t, db, nil)
	require.NoError(t, db.Exec(
		`UPDATE orders SET created_at = ? WHERE id = ?`,
		time.Now().Add(-72*time.Hour), stale.ID,
	).Error)

	cancelled, err := svc.ExpireStale(context.Background(), 48*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(1), cancelled)
}
