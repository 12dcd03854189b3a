package identity

import (
	"time"

	"github.com/google/uuid"
	"github.com/pos/backend/internal/domain/identity"
)

// LoginRequest carries operator credentials
type LoginRequest struct {
	Username string `json:"username" binding:"required,max=50"`
	Password string `json:"password" binding:"required,max=128"`
}

// LoginResponse is a bearer token for the operator
type LoginResponse struct {
	AccessToken string           `json:"access_token"`
	TokenType   string           `json:"token_type"`
	ExpiresAt   time.Time        `json:"expires_at"`
	Operator    OperatorResponse `json:"operator"`
}

// OverrideCredentials are supervisor credentials typed at the counter to
// authorize a restricted action
type OverrideCredentials struct {
	Username string `json:"username" binding:"required,max=50"`
	Password string `json:"password" binding:"required,max=128"`
}

// CreateOperatorRequest registers a new operator
type CreateOperatorRequest struct {
	Username    string `json:"username" binding:"required,min=3,max=50"`
	DisplayName string `json:"display_name" binding:"max=100"`
	Password    string `json:"password" binding:"required,min=8,max=128"`
	Role        string `json:"role" binding:"required,oneof=cajero deposito supervisor"`
}

// OperatorResponse is an operator without credentials
type OperatorResponse struct {
	ID          uuid.UUID `json:"id"`
	Username    string    `json:"username"`
	DisplayName string    `json:"display_name"`
	Role        string    `json:"role"`
	Active      bool      `json:"active"`
}

// ToOperatorResponse converts a domain operator
func ToOperatorResponse(op *identity.Operator) OperatorResponse {
	return OperatorResponse{
		ID:          op.ID,
		Username:    op.Username,
		DisplayName: op.DisplayName,
		Role:        string(op.Role),
		Active:      op.Active,
	}
}
