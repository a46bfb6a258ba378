package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	ordersvc "github.com/spicekart/storefront-backend/internal/orders"
	"github.com/spicekart/storefront-backend/pkg/db/models"
	"github.com/spicekart/storefront-backend/pkg/enums"
	pkgerrors "github.com/spicekart/storefront-backend/pkg/errors"
)

type stubOrderService struct {
	records    []models.Order
	order      *models.Order
	err        error
	lastLimit  int
	lastOffset int
	lastNumber string
}

func (s *stubOrderService) CreateDraft(ctx context.Context, input ordersvc.DraftInput) (*models.Order, error) {
	return s.order, s.err
}

func (s *stubOrderService) AttachPaymentIntent(ctx context.Context, orderID uuid.UUID, providerOrderID string) (*models.PaymentIntent, error) {
	return nil, s.err
}

func (s *stubOrderService) Finalize(ctx context.Context, input ordersvc.FinalizeInput) (*models.Order, error) {
	return s.order, s.err
}

func (s *stubOrderService) ConfirmPayOnDelivery(ctx context.Context, orderID, buyerID uuid.UUID) (*models.Order, error) {
	return s.order, s.err
}

func (s *stubOrderService) FailPayment(ctx context.Context, orderID uuid.UUID, reason string) error {
	return s.err
}

func (s *stubOrderService) FindByNumberForBuyer(ctx context.Context, orderNumber string, buyerID uuid.UUID) (*models.Order, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.lastNumber = orderNumber
	return s.order, nil
}

func (s *stubOrderService) ListForBuyer(ctx context.Context, buyerID uuid.UUID, limit, offset int) ([]models.Order, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.lastLimit = limit
	s.lastOffset = offset
	return s.records, nil
}

func (s *stubOrderService) FindByProviderOrderID(ctx context.Context, providerOrderID string) (*models.Order, error) {
	return s.order, s.err
}

func (s *stubOrderService) ExpireStale(ctx context.Context, olderThan time.Duration) (int64, error) {
	return 0, s.err
}

func TestOrderListReturnsSummaries(t *testing.T) {
	svc := &stubOrderService{records: []models.Order{*paidOrder(), *paidOrder()}}
	handler := OrderList(svc, nil)

	req := withBuyer(httptest.NewRequest(http.MethodGet, "/api/v1/orders?limit=5&offset=10", nil), uuid.New())
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d (%s)", resp.Code, resp.Body.String())
	}
	if svc.lastLimit != 5 || svc.lastOffset != 10 {
		t.Fatalf("pagination not forwarded: limit=%d offset=%d", svc.lastLimit, svc.lastOffset)
	}

	var envelope struct {
		Data []ordersvc.Summary `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(envelope.Data) != 2 {
		t.Fatalf("expected 2 summaries, got %d", len(envelope.Data))
	}
	if envelope.Data[0].Breakdown.TotalCents != 52250 {
		t.Fatalf("unexpected total %d", envelope.Data[0].Breakdown.TotalCents)
	}
}

func TestOrderListDefaultsPagination(t *testing.T) {
	svc := &stubOrderService{}
	handler := OrderList(svc, nil)

	req := withBuyer(httptest.NewRequest(http.MethodGet, "/api/v1/orders", nil), uuid.New())
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if svc.lastLimit != 20 || svc.lastOffset != 0 {
		t.Fatalf("defaults not applied: limit=%d offset=%d", svc.lastLimit, svc.lastOffset)
	}
}

func TestOrderListRejectsBadLimit(t *testing.T) {
	handler := OrderList(&stubOrderService{}, nil)

	req := withBuyer(httptest.NewRequest(http.MethodGet, "/api/v1/orders?limit=abc", nil), uuid.New())
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestOrderDetailReturnsSummary(t *testing.T) {
	svc := &stubOrderService{order: paidOrder()}
	handler := OrderDetail(svc, nil)

	router := chi.NewRouter()
	router.Get("/orders/{orderNumber}", handler)

	req := withBuyer(httptest.NewRequest(http.MethodGet, "/orders/SPK-20260815-000042", nil), uuid.New())
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d (%s)", resp.Code, resp.Body.String())
	}
	if svc.lastNumber != "SPK-20260815-000042" {
		t.Fatalf("order number not forwarded: %q", svc.lastNumber)
	}

	var envelope struct {
		Data ordersvc.Summary `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.Status != enums.OrderStatusProcessing {
		t.Fatalf("unexpected status %q", envelope.Data.Status)
	}
}

func TestOrderDetailNotFound(t *testing.T) {
	svc := &stubOrderService{err: pkgerrors.New(pkgerrors.CodeNotFound, "order not found")}
	handler := OrderDetail(svc, nil)

	router := chi.NewRouter()
	router.Get("/orders/{orderNumber}", handler)

	req := withBuyer(httptest.NewRequest(http.MethodGet, "/orders/SPK-20260815-999999", nil), uuid.New())
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
}
