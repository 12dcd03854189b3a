package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pos/backend/internal/application/register"
	"github.com/shopspring/decimal"
)

// RegisterService is what the cash register endpoints need
type RegisterService interface {
	Open(ctx context.Context, operatorID uuid.UUID, req register.OpenSessionRequest) (*register.SessionResponse, error)
	GetOpenSession(ctx context.Context, operatorID uuid.UUID) (*register.SessionResponse, error)
	Close(ctx context.Context, operatorID uuid.UUID, req register.CloseSessionRequest) (*register.SummaryResponse, error)
	Summary(ctx context.Context, operatorID uuid.UUID, counted *decimal.Decimal) (*register.SummaryResponse, error)
}

// RegisterHandler handles the operator's cash drawer sessions
type RegisterHandler struct {
	BaseHandler
	sessions RegisterService
}

// NewRegisterHandler creates a new RegisterHandler
func NewRegisterHandler(sessions RegisterService) *RegisterHandler {
	return &RegisterHandler{sessions: sessions}
}

// Current handles GET /register/session
func (h *RegisterHandler) Current(c *gin.Context) {
	operatorID, ok := h.operator(c)
	if !ok {
		return
	}

	session, err := h.sessions.GetOpenSession(c.Request.Context(), operatorID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, session)
}

// Open handles POST /register/open
func (h *RegisterHandler) Open(c *gin.Context) {
	operatorID, ok := h.operator(c)
	if !ok {
		return
	}

	var req register.OpenSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	session, err := h.sessions.Open(c.Request.Context(), operatorID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, session)
}

// Close handles POST /register/close
func (h *RegisterHandler) Close(c *gin.Context) {
	operatorID, ok := h.operator(c)
	if !ok {
		return
	}

	var req register.CloseSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	summary, err := h.sessions.Close(c.Request.Context(), operatorID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, summary)
}

// Summary handles GET /register/summary. The optional counted query value
// previews the difference before closing.
func (h *RegisterHandler) Summary(c *gin.Context) {
	operatorID, ok := h.operator(c)
	if !ok {
		return
	}

	var counted *decimal.Decimal
	if raw := c.Query("counted"); raw != "" {
		d, err := decimal.NewFromString(raw)
		if err != nil {
			h.BadRequest(c, "Invalid counted amount")
			return
		}
		counted = &d
	}

	summary, err := h.sessions.Summary(c.Request.Context(), operatorID, counted)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, summary)
}
