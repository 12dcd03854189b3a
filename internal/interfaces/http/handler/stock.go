package handler

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pos/backend/internal/infrastructure/persistence"
)

// StockStore reads and sets tracked stock levels
type StockStore interface {
	Get(ctx context.Context, sku string) (*persistence.StockLevel, error)
	Set(ctx context.Context, sku string, quantity int) (*persistence.StockLevel, error)
}

// StockHandler exposes the stock levels sales draw from
type StockHandler struct {
	BaseHandler
	stock StockStore
}

// NewStockHandler creates a new StockHandler
func NewStockHandler(stock StockStore) *StockHandler {
	return &StockHandler{stock: stock}
}

// SetStockRequest replaces the on-hand quantity of a SKU
type SetStockRequest struct {
	Quantity *int `json:"quantity" binding:"required,min=0"`
}

// StockResponse is the stock level of a SKU
type StockResponse struct {
	SKU       string    `json:"sku"`
	Quantity  int       `json:"quantity"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toStockResponse(l *persistence.StockLevel) StockResponse {
	return StockResponse{SKU: l.SKU, Quantity: l.Quantity, UpdatedAt: l.UpdatedAt}
}

// Get handles GET /stock/:sku
func (h *StockHandler) Get(c *gin.Context) {
	level, err := h.stock.Get(c.Request.Context(), c.Param("sku"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toStockResponse(level))
}

// Set handles PUT /stock/:sku. Setting a quantity starts tracking the SKU.
func (h *StockHandler) Set(c *gin.Context) {
	sku := c.Param("sku")
	if sku == "" || len(sku) > 50 {
		h.BadRequest(c, "Invalid sku")
		return
	}

	var req SetStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	level, err := h.stock.Set(c.Request.Context(), sku, *req.Quantity)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toStockResponse(level))
}
