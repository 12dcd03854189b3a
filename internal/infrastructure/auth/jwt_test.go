package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pos/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestJWTService() *JWTService {
	return NewJWTService(config.JWTConfig{
		Secret:                "test-secret-key-that-is-at-least-32-characters",
		AccessTokenExpiration: 12 * time.Hour,
		Issuer:                "pos-test",
	})
}

func TestJWTService_IssueAndValidate(t *testing.T) {
	service := newTestJWTService()
	operatorID := uuid.New()

	token, expiresAt, err := service.IssueToken(operatorID, "caja1", "cajero")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(12*time.Hour), expiresAt, time.Minute)

	claims, err := service.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, operatorID.String(), claims.OperatorID)
	assert.Equal(t, "caja1", claims.Username)
	assert.False(t, claims.IsSupervisor())

	parsed, err := claims.OperatorUUID()
	require.NoError(t, err)
	assert.Equal(t, operatorID, parsed)
}

func TestJWTService_ValidateToken_Rejections(t *testing.T) {
	service := newTestJWTService()

	t.Run("expired", func(t *testing.T) {
		past := newTestJWTService()
		past.now = func() time.Time { return time.Now().Add(-13 * time.Hour) }
		token, _, err := past.IssueToken(uuid.New(), "caja1", "cajero")
		require.NoError(t, err)

		_, err = service.ValidateToken(token)
		assert.ErrorIs(t, err, ErrExpiredToken)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := NewJWTService(config.JWTConfig{Secret: "another-secret-another-secret-xx", AccessTokenExpiration: time.Hour, Issuer: "pos-test"})
		token, _, err := other.IssueToken(uuid.New(), "caja1", "cajero")
		require.NoError(t, err)

		_, err = service.ValidateToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		other := NewJWTService(config.JWTConfig{Secret: "test-secret-key-that-is-at-least-32-characters", AccessTokenExpiration: time.Hour, Issuer: "someone-else"})
		token, _, err := other.IssueToken(uuid.New(), "caja1", "cajero")
		require.NoError(t, err)

		_, err = service.ValidateToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := service.ValidateToken("not-a-token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("missing operator", func(t *testing.T) {
		claims := Claims{RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "pos-test",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		}}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(service.secret)
		require.NoError(t, err)

		_, err = service.ValidateToken(token)
		assert.ErrorIs(t, err, ErrMissingOperator)
	})

	t.Run("none algorithm", func(t *testing.T) {
		claims := Claims{
			RegisteredClaims: jwt.RegisteredClaims{Issuer: "pos-test", ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
			OperatorID:       uuid.New().String(),
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = service.ValidateToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}
