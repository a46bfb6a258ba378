package middleware

import (
	"context"

	"github.com/google/uuid"
)

type contextKey string

const (
	ctxBuyerID contextKey = "buyer_id"
	ctxEmail   contextKey = "buyer_email"
)

// BuyerIDFromContext returns the authenticated buyer id, or uuid.Nil when absent.
func BuyerIDFromContext(ctx context.Context) uuid.UUID {
	if ctx == nil {
		return uuid.Nil
	}
	if v, ok := ctx.Value(ctxBuyerID).(uuid.UUID); ok {
		return v
	}
	return uuid.Nil
}

func EmailFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxEmail).(string); ok {
		return v
	}
	return ""
}

// WithBuyerID injects the buyer identifier into the context.
func WithBuyerID(ctx context.Context, buyerID uuid.UUID) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxBuyerID, buyerID)
}
