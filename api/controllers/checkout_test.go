package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	checkoutsvc "github.com/spicekart/storefront-backend/internal/checkout"
	"github.com/spicekart/storefront-backend/internal/pricing"
	"github.com/spicekart/storefront-backend/pkg/db/models"
	"github.com/spicekart/storefront-backend/pkg/enums"
	pkgerrors "github.com/spicekart/storefront-backend/pkg/errors"
	"github.com/spicekart/storefront-backend/pkg/types"
)

type stubCheckoutService struct {
	view      *checkoutsvc.View
	err       error
	addresses []checkoutsvc.AddressSubmission
	submits   []checkoutsvc.SubmitInput
	completed []string
	failed    []string
	backs     int
	codCalls  int
}

func (s *stubCheckoutService) Current(ctx context.Context, buyerID uuid.UUID) (*checkoutsvc.View, error) {
	return s.view, s.err
}

func (s *stubCheckoutService) SubmitAddress(ctx context.Context, buyerID uuid.UUID, input checkoutsvc.AddressSubmission) (*checkoutsvc.View, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.addresses = append(s.addresses, input)
	return s.view, nil
}

func (s *stubCheckoutService) Back(ctx context.Context, buyerID uuid.UUID) (*checkoutsvc.View, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.backs++
	return s.view, nil
}

func (s *stubCheckoutService) Submit(ctx context.Context, buyerID uuid.UUID, input checkoutsvc.SubmitInput) (*checkoutsvc.View, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.submits = append(s.submits, input)
	return s.view, nil
}

func (s *stubCheckoutService) ConfirmPayOnDelivery(ctx context.Context, buyerID uuid.UUID) (*checkoutsvc.View, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.codCalls++
	return s.view, nil
}

func (s *stubCheckoutService) MarkCompleted(ctx context.Context, order *models.Order) error {
	s.completed = append(s.completed, order.OrderNumber)
	return nil
}

func (s *stubCheckoutService) MarkFailed(ctx context.Context, order *models.Order) error {
	s.failed = append(s.failed, order.OrderNumber)
	return nil
}

func reviewView() *checkoutsvc.View {
	return &checkoutsvc.View{
		Step:  enums.CheckoutStepReview,
		Lines: []pricing.Line{testLine(3, 15000)},
		Quote: types.PriceBreakdown{
			SubtotalCents: 45000,
			ShippingCents: 5000,
			TaxCents:      2250,
			TotalCents:    52250,
		},
	}
}

func TestCheckoutCurrentReturnsView(t *testing.T) {
	svc := &stubCheckoutService{view: reviewView()}
	handler := CheckoutCurrent(svc, nil)

	req := withBuyer(httptest.NewRequest(http.MethodGet, "/api/v1/checkout", nil), uuid.New())
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d (%s)", resp.Code, resp.Body.String())
	}

	var envelope struct {
		Data checkoutsvc.View `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.Step != enums.CheckoutStepReview {
		t.Fatalf("unexpected step %q", envelope.Data.Step)
	}
	if envelope.Data.Quote.TotalCents != 52250 {
		t.Fatalf("unexpected total %d", envelope.Data.Quote.TotalCents)
	}
}

func TestCheckoutCurrentRequiresBuyer(t *testing.T) {
	handler := CheckoutCurrent(&stubCheckoutService{view: reviewView()}, nil)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/checkout", nil))

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestCheckoutAddressPassesSubmission(t *testing.T) {
	svc := &stubCheckoutService{view: reviewView()}
	handler := CheckoutAddress(svc, nil)

	addressID := uuid.New()
	body := `{"address_id":"` + addressID.String() + `"}`
	req := withBuyer(httptest.NewRequest(http.MethodPost, "/api/v1/checkout/address", strings.NewReader(body)), uuid.New())
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d (%s)", resp.Code, resp.Body.String())
	}
	if len(svc.addresses) != 1 {
		t.Fatalf("expected one submission, got %d", len(svc.addresses))
	}
	if svc.addresses[0].AddressID == nil || *svc.addresses[0].AddressID != addressID {
		t.Fatalf("address id not forwarded")
	}
}

func TestCheckoutAddressRejectsUnknownFields(t *testing.T) {
	svc := &stubCheckoutService{view: reviewView()}
	handler := CheckoutAddress(svc, nil)

	req := withBuyer(httptest.NewRequest(http.MethodPost, "/api/v1/checkout/address", strings.NewReader(`{"bogus":true}`)), uuid.New())
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
	if len(svc.addresses) != 0 {
		t.Fatalf("submission should not reach the service")
	}
}

func TestCheckoutSubmitForwardsPaymentMethod(t *testing.T) {
	svc := &stubCheckoutService{view: reviewView()}
	handler := CheckoutSubmit(svc, nil)

	req := withBuyer(httptest.NewRequest(http.MethodPost, "/api/v1/checkout/submit", strings.NewReader(`{"payment_method":"cod"}`)), uuid.New())
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d (%s)", resp.Code, resp.Body.String())
	}
	if len(svc.submits) != 1 || svc.submits[0].PaymentMethod != enums.PaymentMethodCashOnDelivery {
		t.Fatalf("payment method not forwarded: %+v", svc.submits)
	}
}

func TestCheckoutBackPropagatesStateConflict(t *testing.T) {
	svc := &stubCheckoutService{err: pkgerrors.New(pkgerrors.CodeStateConflict, "no draft in progress")}
	handler := CheckoutBack(svc, nil)

	req := withBuyer(httptest.NewRequest(http.MethodPost, "/api/v1/checkout/back", nil), uuid.New())
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 got %d", resp.Code)
	}
}

func TestCheckoutConfirmCODCompletes(t *testing.T) {
	view := reviewView()
	view.Step = enums.CheckoutStepCompleted
	svc := &stubCheckoutService{view: view}
	handler := CheckoutConfirmCOD(svc, nil)

	req := withBuyer(httptest.NewRequest(http.MethodPost, "/api/v1/checkout/confirm-cod", nil), uuid.New())
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d (%s)", resp.Code, resp.Body.String())
	}
	if svc.codCalls != 1 {
		t.Fatalf("expected one confirm call, got %d", svc.codCalls)
	}
}
