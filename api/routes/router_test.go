package routes

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/spicekart/storefront-backend/internal/addresses"
	checkoutsvc "github.com/spicekart/storefront-backend/internal/checkout"
	"github.com/spicekart/storefront-backend/internal/coupons"
	ordersvc "github.com/spicekart/storefront-backend/internal/orders"
	paymentsvc "github.com/spicekart/storefront-backend/internal/payments"
	"github.com/spicekart/storefront-backend/internal/pricing"
	razorpaywebhook "github.com/spicekart/storefront-backend/internal/webhooks/razorpay"
	pkgauth "github.com/spicekart/storefront-backend/pkg/auth"
	"github.com/spicekart/storefront-backend/pkg/config"
	"github.com/spicekart/storefront-backend/pkg/db/models"
	"github.com/spicekart/storefront-backend/pkg/logger"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

type stubCartService struct{}

func (stubCartService) Snapshot(ctx context.Context, buyerID uuid.UUID) ([]pricing.Line, error) {
	return nil, nil
}

func (stubCartService) SetQuantity(ctx context.Context, buyerID, variantID uuid.UUID, quantity int) error {
	return nil
}

func (stubCartService) RemoveLine(ctx context.Context, buyerID, variantID uuid.UUID) error {
	return nil
}

func (stubCartService) Clear(ctx context.Context, buyerID uuid.UUID) error {
	return nil
}

type stubCouponService struct{}

func (stubCouponService) Apply(ctx context.Context, code string, subtotalCents int64, now time.Time) (*coupons.Applied, error) {
	return &coupons.Applied{Code: code}, nil
}

type stubAddressService struct{}

func (stubAddressService) Create(ctx context.Context, buyerID uuid.UUID, input addresses.CreateInput) (*models.Address, error) {
	panic("unimplemented")
}

func (stubAddressService) Get(ctx context.Context, buyerID, id uuid.UUID) (*models.Address, error) {
	panic("unimplemented")
}

func (stubAddressService) List(ctx context.Context, buyerID uuid.UUID) ([]models.Address, error) {
	return nil, nil
}

type stubCheckoutService struct{}

func (stubCheckoutService) Current(ctx context.Context, buyerID uuid.UUID) (*checkoutsvc.View, error) {
	return &checkoutsvc.View{}, nil
}

func (stubCheckoutService) SubmitAddress(ctx context.Context, buyerID uuid.UUID, input checkoutsvc.AddressSubmission) (*checkoutsvc.View, error) {
	panic("unimplemented")
}

func (stubCheckoutService) Back(ctx context.Context, buyerID uuid.UUID) (*checkoutsvc.View, error) {
	panic("unimplemented")
}

func (stubCheckoutService) Submit(ctx context.Context, buyerID uuid.UUID, input checkoutsvc.SubmitInput) (*checkoutsvc.View, error) {
	panic("unimplemented")
}

func (stubCheckoutService) ConfirmPayOnDelivery(ctx context.Context, buyerID uuid.UUID) (*checkoutsvc.View, error) {
	panic("unimplemented")
}

func (stubCheckoutService) MarkCompleted(ctx context.Context, order *models.Order) error {
	return nil
}

func (stubCheckoutService) MarkFailed(ctx context.Context, order *models.Order) error {
	return nil
}

type stubPaymentService struct{}

func (stubPaymentService) Verify(ctx context.Context, input paymentsvc.VerifyInput) (*models.Order, error) {
	panic("unimplemented")
}

func (stubPaymentService) Fail(ctx context.Context, providerOrderID, reason string) (*models.Order, error) {
	panic("unimplemented")
}

type stubOrderService struct{}

func (stubOrderService) CreateDraft(ctx context.Context, input ordersvc.DraftInput) (*models.Order, error) {
	panic("unimplemented")
}

func (stubOrderService) AttachPaymentIntent(ctx context.Context, orderID uuid.UUID, providerOrderID string) (*models.PaymentIntent, error) {
	panic("unimplemented")
}

func (stubOrderService) Finalize(ctx context.Context, input ordersvc.FinalizeInput) (*models.Order, error) {
	panic("unimplemented")
}

func (stubOrderService) ConfirmPayOnDelivery(ctx context.Context, orderID, buyerID uuid.UUID) (*models.Order, error) {
	panic("unimplemented")
}

func (stubOrderService) FailPayment(ctx context.Context, orderID uuid.UUID, reason string) error {
	panic("unimplemented")
}

func (stubOrderService) FindByNumberForBuyer(ctx context.Context, orderNumber string, buyerID uuid.UUID) (*models.Order, error) {
	panic("unimplemented")
}

func (stubOrderService) ListForBuyer(ctx context.Context, buyerID uuid.UUID, limit, offset int) ([]models.Order, error) {
	return nil, nil
}

func (stubOrderService) FindByProviderOrderID(ctx context.Context, providerOrderID string) (*models.Order, error) {
	panic("unimplemented")
}

func (stubOrderService) ExpireStale(ctx context.Context, olderThan time.Duration) (int64, error) {
	panic("unimplemented")
}

type inMemoryStore struct {
	mu   sync.Mutex
	data map[string]string
}

func newInMemoryStore() *inMemoryStore {
	return &inMemoryStore{data: map[string]string{}}
}

func (s *inMemoryStore) Get(ctx context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data[key], nil
}

func (s *inMemoryStore) SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.data[key]; ok {
		return false, nil
	}
	s.data[key] = fmt.Sprint(value)
	return true, nil
}

func (s *inMemoryStore) IdempotencyKey(scope, id string) string {
	return fmt.Sprintf("spk:idempotency:%s:%s", scope, id)
}

func (s *inMemoryStore) Del(ctx context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, key := range keys {
		delete(s.data, key)
	}
	return nil
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", Port: "8080"},
		JWT: config.JWTConfig{
			Secret:            "router-test-secret",
			Issuer:            "spicekart-test",
			ExpirationMinutes: 15,
		},
		Webhook: config.WebhookConfig{Secret: "webhook-test-secret", IdempotencyTTL: time.Hour},
	}
}

func newTestRouter(t *testing.T, cfg *config.Config) http.Handler {
	t.Helper()
	logg := logger.New(logger.Options{ServiceName: "test-routing", Level: logger.ParseLevel("debug"), Output: io.Discard})

	webhookService, err := razorpaywebhook.NewService(razorpaywebhook.ServiceParams{
		Orders:   stubOrderService{},
		Checkout: stubCheckoutService{},
		Logger:   logg,
	})
	if err != nil {
		t.Fatalf("build webhook service: %v", err)
	}
	guard, err := razorpaywebhook.NewIdempotencyGuard(newInMemoryStore(), cfg.Webhook.IdempotencyTTL, "razorpay-webhook")
	if err != nil {
		t.Fatalf("build idempotency guard: %v", err)
	}

	return NewRouter(
		cfg,
		logg,
		stubPinger{},
		stubPinger{},
		pricing.NewEngine(pricing.Policy{TaxRatePercent: 5, FreeShippingThresholdCents: 50000, FlatShippingCents: 5000}),
		stubCartService{},
		stubCouponService{},
		stubAddressService{},
		stubCheckoutService{},
		stubPaymentService{},
		stubOrderService{},
		webhookService,
		guard,
		nil,
	)
}

func buildToken(t *testing.T, cfg *config.Config) string {
	t.Helper()
	token, err := pkgauth.MintAccessToken(cfg.JWT, time.Now().UTC(), pkgauth.AccessTokenPayload{
		BuyerID: uuid.New(),
		Email:   "buyer@example.com",
		JTI:     uuid.NewString(),
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func TestHealthLiveNeedsNoToken(t *testing.T) {
	router := newTestRouter(t, testConfig())

	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func TestProtectedGroupRejectsMissingJWT(t *testing.T) {
	router := newTestRouter(t, testConfig())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token got %d", resp.Code)
	}
}

func TestProtectedGroupSucceedsWithJWT(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(t, cfg)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 with token got %d (%s)", resp.Code, resp.Body.String())
	}
}

func TestOrderListAcceptsJWT(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(t, cfg)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders", nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d (%s)", resp.Code, resp.Body.String())
	}
}

func TestWebhookRouteBypassesAuth(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(t, cfg)

	body := `{"event":"invoice.paid"}`
	mac := hmac.New(sha256.New, []byte(cfg.Webhook.Secret))
	mac.Write([]byte(body))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/razorpay", strings.NewReader(body))
	req.Header.Set("X-Razorpay-Signature", hex.EncodeToString(mac.Sum(nil)))
	req.Header.Set("X-Razorpay-Event-Id", "evt_router_test")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d (%s)", resp.Code, resp.Body.String())
	}
}

func TestWebhookRouteRejectsBadSignature(t *testing.T) {
	router := newTestRouter(t, testConfig())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/razorpay", strings.NewReader(`{"event":"payment.captured"}`))
	req.Header.Set("X-Razorpay-Signature", "not-a-signature")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}
