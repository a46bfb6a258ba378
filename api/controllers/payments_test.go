package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	ordersvc "github.com/spicekart/storefront-backend/internal/orders"
	paymentsvc "github.com/spicekart/storefront-backend/internal/payments"
	"github.com/spicekart/storefront-backend/pkg/db/models"
	"github.com/spicekart/storefront-backend/pkg/enums"
	pkgerrors "github.com/spicekart/storefront-backend/pkg/errors"
)

type stubPaymentService struct {
	order   *models.Order
	err     error
	verifys []paymentsvc.VerifyInput
	fails   []string
}

func (s *stubPaymentService) Verify(ctx context.Context, input paymentsvc.VerifyInput) (*models.Order, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.verifys = append(s.verifys, input)
	return s.order, nil
}

func (s *stubPaymentService) Fail(ctx context.Context, providerOrderID, reason string) (*models.Order, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.fails = append(s.fails, providerOrderID)
	return s.order, nil
}

func paidOrder() *models.Order {
	return &models.Order{
		ID:            uuid.New(),
		BuyerID:       uuid.New(),
		OrderNumber:   "SPK-20260815-000042",
		Status:        enums.OrderStatusProcessing,
		PaymentStatus: enums.PaymentStatusPaid,
		PaymentMethod: enums.PaymentMethodRazorpay,
		Currency:      "INR",
		SubtotalCents: 45000,
		ShippingCents: 5000,
		TaxCents:      2250,
		TotalCents:    52250,
	}
}

func TestPaymentVerifySucceeds(t *testing.T) {
	payments := &stubPaymentService{order: paidOrder()}
	checkout := &stubCheckoutService{}
	handler := PaymentVerify(payments, checkout, nil)

	body := `{"provider_order_id":"order_razor123","provider_payment_id":"pay_razor456","signature":"deadbeef"}`
	req := withBuyer(httptest.NewRequest(http.MethodPost, "/api/v1/payments/verify", strings.NewReader(body)), uuid.New())
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d (%s)", resp.Code, resp.Body.String())
	}

	var envelope struct {
		Data ordersvc.Summary `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.OrderNumber != "SPK-20260815-000042" {
		t.Fatalf("unexpected order number %q", envelope.Data.OrderNumber)
	}
	if envelope.Data.PaymentStatus != enums.PaymentStatusPaid {
		t.Fatalf("unexpected payment status %q", envelope.Data.PaymentStatus)
	}
	if len(payments.verifys) != 1 || payments.verifys[0].ProviderPaymentID != "pay_razor456" {
		t.Fatalf("verify input not forwarded: %+v", payments.verifys)
	}
	if len(checkout.completed) != 1 {
		t.Fatalf("expected checkout to be marked completed")
	}
}

func TestPaymentVerifyRejectsMissingSignature(t *testing.T) {
	payments := &stubPaymentService{order: paidOrder()}
	handler := PaymentVerify(payments, &stubCheckoutService{}, nil)

	body := `{"provider_order_id":"order_razor123","provider_payment_id":"pay_razor456"}`
	req := withBuyer(httptest.NewRequest(http.MethodPost, "/api/v1/payments/verify", strings.NewReader(body)), uuid.New())
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
	if len(payments.verifys) != 0 {
		t.Fatalf("verify should not reach the service")
	}
}

func TestPaymentVerifySignatureMismatchMutatesNothing(t *testing.T) {
	payments := &stubPaymentService{err: pkgerrors.New(pkgerrors.CodeSignature, "payment signature mismatch")}
	checkout := &stubCheckoutService{}
	handler := PaymentVerify(payments, checkout, nil)

	body := `{"provider_order_id":"order_razor123","provider_payment_id":"pay_razor456","signature":"bad"}`
	req := withBuyer(httptest.NewRequest(http.MethodPost, "/api/v1/payments/verify", strings.NewReader(body)), uuid.New())
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
	if len(checkout.completed) != 0 {
		t.Fatalf("checkout must stay untouched on signature mismatch")
	}
}

func TestPaymentFailedRecordsDecline(t *testing.T) {
	order := paidOrder()
	order.PaymentStatus = enums.PaymentStatusFailed
	payments := &stubPaymentService{order: order}
	checkout := &stubCheckoutService{}
	handler := PaymentFailed(payments, checkout, nil)

	body := `{"provider_order_id":"order_razor123","reason":"card declined"}`
	req := withBuyer(httptest.NewRequest(http.MethodPost, "/api/v1/payments/failed", strings.NewReader(body)), uuid.New())
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d (%s)", resp.Code, resp.Body.String())
	}
	if len(payments.fails) != 1 || payments.fails[0] != "order_razor123" {
		t.Fatalf("fail input not forwarded: %+v", payments.fails)
	}
	if len(checkout.failed) != 1 {
		t.Fatalf("expected checkout to be marked failed")
	}
}

func TestPaymentFailedRequiresBuyer(t *testing.T) {
	handler := PaymentFailed(&stubPaymentService{}, &stubCheckoutService{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/payments/failed", strings.NewReader(`{"provider_order_id":"order_razor123"}`))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}
