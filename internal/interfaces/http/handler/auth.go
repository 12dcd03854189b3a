package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/pos/backend/internal/application/identity"
	"go.uber.org/zap"
)

// IdentityService is what the login and operator endpoints need
type IdentityService interface {
	Login(ctx context.Context, req identity.LoginRequest) (*identity.LoginResponse, error)
	CreateOperator(ctx context.Context, req identity.CreateOperatorRequest) (*identity.OperatorResponse, error)
}

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	BaseHandler
	identity IdentityService
	logger   *zap.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(svc IdentityService, logger *zap.Logger) *AuthHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthHandler{identity: svc, logger: logger}
}

// Login handles POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req identity.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	result, err := h.identity.Login(c.Request.Context(), req)
	if err != nil {
		h.logger.Info("login rejected",
			zap.String("username", req.Username),
			zap.String("client_ip", c.ClientIP()),
		)
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// CreateOperator handles POST /operators. Supervisors only.
func (h *AuthHandler) CreateOperator(c *gin.Context) {
	var req identity.CreateOperatorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	op, err := h.identity.CreateOperator(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, op)
}
