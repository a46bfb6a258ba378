package payments

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	pkgrazorpay "github.com/spicekart/storefront-backend/pkg/razorpay"
)

// Gateway abstracts the payment provider. The checkout flow only ever creates
// remote orders and verifies signatures; captures happen on the provider side.
type Gateway interface {
	CreateRemoteOrder(ctx context.Context, amountCents int64, currency, receipt string) (string, error)
	VerifySignature(providerOrderID, providerPaymentID, signature string) bool
	KeyID() string
}

type razorpayGateway struct {
	client *pkgrazorpay.Client
}

// NewRazorpayGateway wraps the shared Razorpay client as a Gateway.
func NewRazorpayGateway(client *pkgrazorpay.Client) (Gateway, error) {
	if client == nil {
		return nil, fmt.Errorf("razorpay client required")
	}
	return &razorpayGateway{client: client}, nil
}

func (g *razorpayGateway) CreateRemoteOrder(ctx context.Context, amountCents int64, currency, receipt string) (string, error) {
	return g.client.CreateOrder(ctx, amountCents, currency, receipt)
}

// VerifySignature recomputes the provider's hex HMAC-SHA256 over
// "<orderID>|<paymentID>" and compares in constant time. Any malformed input
// fails closed.
func (g *razorpayGateway) VerifySignature(providerOrderID, providerPaymentID, signature string) bool {
	return verifySignature(g.client.Secret(), providerOrderID, providerPaymentID, signature)
}

func (g *razorpayGateway) KeyID() string {
	return g.client.KeyID()
}

func verifySignature(secret, providerOrderID, providerPaymentID, signature string) bool {
	if secret == "" || providerOrderID == "" || providerPaymentID == "" || signature == "" {
		return false
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(providerOrderID + "|" + providerPaymentID))
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
