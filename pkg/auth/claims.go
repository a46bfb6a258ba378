package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	BuyerID uuid.UUID
	Email   string
	JTI     string
}

// AccessTokenClaims represents the typed JWT issued to storefront buyers.
type AccessTokenClaims struct {
	BuyerID uuid.UUID `json:"buyer_id"`
	Email   string    `json:"email,omitempty"`
	jwt.RegisteredClaims
}
