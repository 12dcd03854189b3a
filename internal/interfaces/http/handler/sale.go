package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pos/backend/internal/application/checkout"
	fulfillmentapp "github.com/pos/backend/internal/application/fulfillment"
	"github.com/pos/backend/internal/interfaces/http/middleware"
)

// CheckoutService is what the sale and layaway endpoints need
type CheckoutService interface {
	RegisterSale(ctx context.Context, operatorID uuid.UUID, req checkout.RegisterSaleRequest) (*checkout.SaleResponse, error)
	GetSale(ctx context.Context, id int64) (*checkout.SaleResponse, error)
	ModifySale(ctx context.Context, operatorID uuid.UUID, id int64, req checkout.ModifySaleRequest) (*checkout.SaleResponse, error)
	RegisterReturn(ctx context.Context, operatorID uuid.UUID, id int64, req checkout.RegisterReturnRequest) (*checkout.SaleResponse, error)
	ListConsignments(ctx context.Context, filter fulfillmentapp.ListFilter) ([]checkout.ConsignmentResponse, error)
	GetConsignment(ctx context.Context, id int64) (*checkout.ConsignmentResponse, error)
	AddConsignmentPayment(ctx context.Context, operatorID uuid.UUID, id int64, req checkout.AddPaymentRequest) (*checkout.PaymentResultResponse, error)
}

// SaleHandler handles counter sales, their edits and returns
type SaleHandler struct {
	BaseHandler
	checkout CheckoutService
}

// NewSaleHandler creates a new SaleHandler
func NewSaleHandler(svc CheckoutService) *SaleHandler {
	return &SaleHandler{checkout: svc}
}

// Register handles POST /sales
func (h *SaleHandler) Register(c *gin.Context) {
	operatorID, ok := h.operator(c)
	if !ok {
		return
	}

	var req checkout.RegisterSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	result, err := h.checkout.RegisterSale(c.Request.Context(), operatorID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, result)
}

// Get handles GET /sales/:id
func (h *SaleHandler) Get(c *gin.Context) {
	id, ok := h.id(c, "id")
	if !ok {
		return
	}

	result, err := h.checkout.GetSale(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Modify handles PUT /sales/:id
func (h *SaleHandler) Modify(c *gin.Context) {
	operatorID, ok := h.operator(c)
	if !ok {
		return
	}
	id, ok := h.id(c, "id")
	if !ok {
		return
	}

	var req checkout.ModifySaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	result, err := h.checkout.ModifySale(c.Request.Context(), operatorID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Return handles POST /sales/:id/returns
func (h *SaleHandler) Return(c *gin.Context) {
	operatorID, ok := h.operator(c)
	if !ok {
		return
	}
	id, ok := h.id(c, "id")
	if !ok {
		return
	}

	var req checkout.RegisterReturnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	result, err := h.checkout.RegisterReturn(c.Request.Context(), operatorID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, result)
}

// ListConsignments handles GET /consignments
func (h *SaleHandler) ListConsignments(c *gin.Context) {
	var filter fulfillmentapp.ListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}

	result, err := h.checkout.ListConsignments(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	page, pageSize := pageOf(filter)
	h.SuccessList(c, result, len(result), page, pageSize)
}

// GetConsignment handles GET /consignments/:id
func (h *SaleHandler) GetConsignment(c *gin.Context) {
	id, ok := h.id(c, "id")
	if !ok {
		return
	}

	result, err := h.checkout.GetConsignment(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// AddConsignmentPayment handles POST /consignments/:id/payments.
// A repeated Idempotency-Key replays the first result.
func (h *SaleHandler) AddConsignmentPayment(c *gin.Context) {
	operatorID, ok := h.operator(c)
	if !ok {
		return
	}
	id, ok := h.id(c, "id")
	if !ok {
		return
	}

	var req checkout.AddPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	req.IdempotencyKey = c.GetHeader(middleware.IdempotencyKeyHeader)
	if len(req.IdempotencyKey) > 128 {
		h.BadRequest(c, "Idempotency-Key is too long")
		return
	}

	result, err := h.checkout.AddConsignmentPayment(c.Request.Context(), operatorID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}
