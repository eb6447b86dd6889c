package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenRequest exchanges the operator API key for an access token.
type TokenRequest struct {
	APIKey   string `json:"api_key" validate:"required"`
	Operator string `json:"operator" validate:"omitempty,max=64"`
}

// TokenResponse returns the issued access token.
type TokenResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresIn   int64     `json:"expires_in"`
	IssuedAt    time.Time `json:"issued_at"`
}

// JWTClaims represents the JWT payload for access tokens.
type JWTClaims struct {
	Operator string `json:"operator"`
	jwt.RegisteredClaims
}
