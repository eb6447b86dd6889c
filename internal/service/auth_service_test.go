package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/sma-gradebook/internal/models"
	appErrors "github.com/noah-isme/sma-gradebook/pkg/errors"
)

func newAuthFixture(t *testing.T) *AuthService {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("front-office-key"), bcrypt.MinCost)
	require.NoError(t, err)
	return NewAuthService(nil, zap.NewNop(), AuthConfig{
		AccessTokenSecret: "secret",
		AccessTokenExpiry: time.Hour,
		APIKeyHash:        string(hash),
	})
}

func TestAuthServiceIssueAndValidate(t *testing.T) {
	svc := newAuthFixture(t)

	resp, err := svc.IssueToken(context.Background(), models.TokenRequest{APIKey: "front-office-key", Operator: "registrar"})
	require.NoError(t, err)
	assert.Equal(t, "Bearer", resp.TokenType)
	assert.Equal(t, int64(3600), resp.ExpiresIn)

	claims, err := svc.ValidateToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "registrar", claims.Operator)
	assert.Equal(t, "registrar", claims.Subject)
}

func TestAuthServiceDefaultOperator(t *testing.T) {
	svc := newAuthFixture(t)

	resp, err := svc.IssueToken(context.Background(), models.TokenRequest{APIKey: "front-office-key"})
	require.NoError(t, err)

	claims, err := svc.ValidateToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, DefaultOperator, claims.Operator)
}

func TestAuthServiceRejectsWrongKey(t *testing.T) {
	svc := newAuthFixture(t)

	_, err := svc.IssueToken(context.Background(), models.TokenRequest{APIKey: "guess"})
	assert.ErrorIs(t, err, appErrors.ErrUnauthorized)

	_, err = svc.IssueToken(context.Background(), models.TokenRequest{})
	assert.ErrorIs(t, err, appErrors.ErrValidation)
}

func TestAuthServiceRejectsForeignToken(t *testing.T) {
	svc := newAuthFixture(t)
	other := NewAuthService(nil, nil, AuthConfig{AccessTokenSecret: "other", APIKeyHash: svc.config.APIKeyHash})
	resp, err := other.IssueToken(context.Background(), models.TokenRequest{APIKey: "front-office-key"})
	require.NoError(t, err)

	_, err = svc.ValidateToken(resp.AccessToken)
	assert.ErrorIs(t, err, appErrors.ErrUnauthorized)
	_, err = svc.ValidateToken("not-a-token")
	assert.ErrorIs(t, err, appErrors.ErrUnauthorized)
}

func TestAuthServiceDisabled(t *testing.T) {
	svc := NewAuthService(nil, nil, AuthConfig{})

	assert.False(t, svc.Enabled())
	_, err := svc.IssueToken(context.Background(), models.TokenRequest{APIKey: "anything"})
	assert.ErrorIs(t, err, appErrors.ErrUnavailable)
}
