package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/sma-gradebook/internal/middleware"
	"github.com/noah-isme/sma-gradebook/internal/models"
	"github.com/noah-isme/sma-gradebook/internal/service"
)

func newEnabledAuthService(t *testing.T, apiKey string) *service.AuthService {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(apiKey), bcrypt.MinCost)
	require.NoError(t, err)
	return service.NewAuthService(nil, nil, service.AuthConfig{
		AccessTokenSecret: "test-secret",
		AccessTokenExpiry: time.Hour,
		APIKeyHash:        string(hash),
	})
}

func TestAuthHandlerToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewAuthHandler(newEnabledAuthService(t, "letmein"))

	body, _ := json.Marshal(models.TokenRequest{APIKey: "letmein", Operator: "registrar"})
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/auth/token", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	handler.Token(c)

	require.Equal(t, http.StatusOK, rec.Code)
	var token models.TokenResponse
	decodeEnvelope(t, rec, &token)
	assert.Equal(t, "Bearer", token.TokenType)
	assert.NotEmpty(t, token.AccessToken)
	assert.EqualValues(t, 3600, token.ExpiresIn)
}

func TestAuthHandlerTokenRejectsWrongKey(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewAuthHandler(newEnabledAuthService(t, "letmein"))

	body, _ := json.Marshal(models.TokenRequest{APIKey: "guess"})
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/auth/token", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	handler.Token(c)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthHandlerTokenWhenDisabled(t *testing.T) {
	f := newGradebookFixture(t, nil)
	rec := f.do(t, http.MethodPost, "/api/v1/auth/token", map[string]string{"api_key": "anything"})
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestMutatingRoutesRequireTokenWhenGuarded(t *testing.T) {
	auth := newEnabledAuthService(t, "letmein")
	f := newGradebookFixture(t, func(action string) []gin.HandlerFunc {
		return []gin.HandlerFunc{middleware.JWT(auth)}
	})

	rec := f.do(t, http.MethodPost, "/api/v1/data/sample", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	issued, err := auth.IssueToken(context.Background(), models.TokenRequest{APIKey: "letmein"})
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/data/sample", nil)
	req.Header.Set("Authorization", "Bearer "+issued.AccessToken)
	rec = httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusCreated, rec.Code)

	assert.Equal(t, http.StatusOK, f.do(t, http.MethodGet, "/api/v1/students", nil).Code)
}
