package middleware

import (
	"net/http"
	"slices"

	"github.com/gin-gonic/gin"
	"github.com/pos/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// RoleConfig holds configuration for role middleware
type RoleConfig struct {
	// Logger for middleware logging
	Logger *zap.Logger
}

// RequireRole creates middleware that lets only operators holding one of the
// given roles through. The role comes from the access token, so requests
// authenticated by X-Operator-ID never pass.
func RequireRole(roles ...string) gin.HandlerFunc {
	return RequireRoleWithConfig(RoleConfig{}, roles...)
}

// RequireRoleWithConfig creates role middleware with custom config
func RequireRoleWithConfig(cfg RoleConfig, roles ...string) gin.HandlerFunc {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	return func(c *gin.Context) {
		role := GetOperatorRole(c)
		if role == "" || !slices.Contains(roles, role) {
			log.Warn("Role check failed",
				zap.String("operator_id", GetOperatorID(c)),
				zap.String("role", role),
				zap.Strings("required_any", roles),
				zap.String("path", c.Request.URL.Path),
			)
			c.AbortWithStatusJSON(http.StatusForbidden, dto.NewErrorResponseWithRequestID(
				dto.ErrCodeForbidden,
				"Operator role is not allowed to perform this action",
				c.GetString(RequestIDKey),
			))
			return
		}
		c.Next()
	}
}

// HasRole reports whether the authenticated operator holds role
func HasRole(c *gin.Context, role string) bool {
	return GetOperatorRole(c) == role
}
