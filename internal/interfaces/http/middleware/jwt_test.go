package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pos/backend/internal/infrastructure/auth"
	"github.com/pos/backend/internal/infrastructure/config"
	"github.com/pos/backend/internal/infrastructure/logger"
	"github.com/pos/backend/internal/interfaces/http/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestJWTService() *auth.JWTService {
	return auth.NewJWTService(config.JWTConfig{
		Secret:                "test-secret-key-at-least-32-chars",
		AccessTokenExpiration: 12 * time.Hour,
		Issuer:                "pos-test",
	})
}

func issueTestToken(t *testing.T, svc *auth.JWTService, role string) (string, uuid.UUID) {
	t.Helper()
	operatorID := uuid.New()
	token, _, err := svc.IssueToken(operatorID, "mostrador1", role)
	require.NoError(t, err)
	return token, operatorID
}

func newJWTRouter(cfg JWTMiddlewareConfig) *gin.Engine {
	router := gin.New()
	router.Use(RequestID())
	router.Use(JWTAuthMiddlewareWithConfig(cfg))
	handler := func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"operator_id": GetOperatorID(c),
			"role":        GetOperatorRole(c),
			"ctx":         logger.GetOperatorID(c.Request.Context()),
		})
	}
	router.GET("/api/v1/sales/1", handler)
	router.POST("/api/v1/auth/login", handler)
	return router
}

func TestJWTAuthMiddleware(t *testing.T) {
	svc := newTestJWTService()

	t.Run("valid token sets operator", func(t *testing.T) {
		router := newJWTRouter(DefaultJWTConfig(svc))
		token, operatorID := issueTestToken(t, svc, "supervisor")

		req := httptest.NewRequest(http.MethodGet, "/api/v1/sales/1", nil)
		req.Header.Set(AuthHeaderKey, BearerPrefix+token)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		var body map[string]string
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, operatorID.String(), body["operator_id"])
		assert.Equal(t, "supervisor", body["role"])
		assert.Equal(t, operatorID.String(), body["ctx"])
	})

	t.Run("missing header", func(t *testing.T) {
		router := newJWTRouter(DefaultJWTConfig(svc))

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/sales/1", nil))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		var resp dto.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, dto.ErrCodeUnauthorized, resp.Error.Code)
		assert.NotEmpty(t, resp.Error.RequestID)
	})

	t.Run("malformed scheme", func(t *testing.T) {
		router := newJWTRouter(DefaultJWTConfig(svc))
		token, _ := issueTestToken(t, svc, "cajero")

		req := httptest.NewRequest(http.MethodGet, "/api/v1/sales/1", nil)
		req.Header.Set(AuthHeaderKey, "Token "+token)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("token signed with another secret", func(t *testing.T) {
		router := newJWTRouter(DefaultJWTConfig(svc))
		other := auth.NewJWTService(config.JWTConfig{
			Secret:                "another-secret-key-of-32-chars!!",
			AccessTokenExpiration: time.Hour,
			Issuer:                "pos-test",
		})
		token, _ := issueTestToken(t, other, "cajero")

		req := httptest.NewRequest(http.MethodGet, "/api/v1/sales/1", nil)
		req.Header.Set(AuthHeaderKey, BearerPrefix+token)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "Invalid token")
	})

	t.Run("skip paths need no token", func(t *testing.T) {
		router := newJWTRouter(DefaultJWTConfig(svc))

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", nil))

		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestJWTAuthMiddleware_OperatorHeader(t *testing.T) {
	svc := newTestJWTService()
	operatorID := uuid.New().String()

	t.Run("rejected unless enabled", func(t *testing.T) {
		router := newJWTRouter(DefaultJWTConfig(svc))

		req := httptest.NewRequest(http.MethodGet, "/api/v1/sales/1", nil)
		req.Header.Set(OperatorHeaderKey, operatorID)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("accepted when enabled, without a role", func(t *testing.T) {
		cfg := DefaultJWTConfig(svc)
		cfg.AllowOperatorHeader = true
		router := newJWTRouter(cfg)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/sales/1", nil)
		req.Header.Set(OperatorHeaderKey, operatorID)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		var body map[string]string
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, operatorID, body["operator_id"])
		assert.Empty(t, body["role"])
	})

	t.Run("invalid uuid", func(t *testing.T) {
		cfg := DefaultJWTConfig(svc)
		cfg.AllowOperatorHeader = true
		router := newJWTRouter(cfg)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/sales/1", nil)
		req.Header.Set(OperatorHeaderKey, "caja-1")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
