package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	fulfillmentapp "github.com/pos/backend/internal/application/fulfillment"
	"github.com/pos/backend/internal/domain/fulfillment"
	"github.com/pos/backend/internal/interfaces/http/middleware"
)

// DraftService is what the draft and warehouse endpoints need from the
// fulfillment use cases
type DraftService interface {
	CreateDraft(ctx context.Context, operatorID uuid.UUID, req fulfillmentapp.CreateDraftRequest) (*fulfillmentapp.OrderResponse, error)
	GetDraft(ctx context.Context, id int64) (*fulfillmentapp.OrderResponse, error)
	ListDrafts(ctx context.Context, status string, filter fulfillmentapp.ListFilter) ([]fulfillmentapp.OrderResponse, error)
	ListPending(ctx context.Context, filter fulfillmentapp.ListFilter) ([]fulfillmentapp.OrderResponse, error)
	DeleteDraft(ctx context.Context, operatorID uuid.UUID, id int64) error
	ReloadDraft(ctx context.Context, id int64) (*fulfillmentapp.CartResponse, error)
	SendToWarehouse(ctx context.Context, operatorID uuid.UUID, id int64, req fulfillmentapp.VersionedRequest) (*fulfillmentapp.OrderResponse, error)
	ToggleItem(ctx context.Context, operatorID uuid.UUID, id int64, sku string, req fulfillmentapp.VersionedRequest) (*fulfillmentapp.ToggleResponse, error)
	Advance(ctx context.Context, operatorID uuid.UUID, id int64, req fulfillmentapp.AdvanceRequest) (*fulfillmentapp.OrderResponse, error)
}

// DraftHandler handles saved carts: quotes, budgets and warehouse orders
type DraftHandler struct {
	BaseHandler
	drafts DraftService
}

// NewDraftHandler creates a new DraftHandler
func NewDraftHandler(drafts DraftService) *DraftHandler {
	return &DraftHandler{drafts: drafts}
}

// draftListQuery is the query string of GET /drafts
type draftListQuery struct {
	fulfillmentapp.ListFilter
	Status string `form:"status"`
}

// Create handles POST /drafts
func (h *DraftHandler) Create(c *gin.Context) {
	operatorID, ok := h.operator(c)
	if !ok {
		return
	}

	var req fulfillmentapp.CreateDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	order, err := h.drafts.CreateDraft(c.Request.Context(), operatorID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, order)
}

// List handles GET /drafts. Status defaults to quotes.
func (h *DraftHandler) List(c *gin.Context) {
	var query draftListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BindError(c, err)
		return
	}
	if query.Status == "" {
		query.Status = string(fulfillment.DraftStatusQuote)
	}

	orders, err := h.drafts.ListDrafts(c.Request.Context(), query.Status, query.ListFilter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	page, pageSize := pageOf(query.ListFilter)
	h.SuccessList(c, orders, len(orders), page, pageSize)
}

// Get handles GET /drafts/:id
func (h *DraftHandler) Get(c *gin.Context) {
	id, ok := h.id(c, "id")
	if !ok {
		return
	}

	order, err := h.drafts.GetDraft(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// Delete handles DELETE /drafts/:id
func (h *DraftHandler) Delete(c *gin.Context) {
	operatorID, ok := h.operator(c)
	if !ok {
		return
	}
	id, ok := h.id(c, "id")
	if !ok {
		return
	}

	if err := h.drafts.DeleteDraft(c.Request.Context(), operatorID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Reload handles GET /drafts/:id/reload
func (h *DraftHandler) Reload(c *gin.Context) {
	id, ok := h.id(c, "id")
	if !ok {
		return
	}

	cart, err := h.drafts.ReloadDraft(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, cart)
}

// Send handles POST /drafts/:id/send
func (h *DraftHandler) Send(c *gin.Context) {
	operatorID, ok := h.operator(c)
	if !ok {
		return
	}
	id, ok := h.id(c, "id")
	if !ok {
		return
	}

	var req fulfillmentapp.VersionedRequest
	if !bindOptionalJSON(c, &req) {
		return
	}

	order, err := h.drafts.SendToWarehouse(c.Request.Context(), operatorID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// Pending handles GET /fulfillment/orders
func (h *DraftHandler) Pending(c *gin.Context) {
	var filter fulfillmentapp.ListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}

	orders, err := h.drafts.ListPending(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	page, pageSize := pageOf(filter)
	h.SuccessList(c, orders, len(orders), page, pageSize)
}

// Toggle handles POST /fulfillment/orders/:id/items/:sku/toggle
func (h *DraftHandler) Toggle(c *gin.Context) {
	operatorID, ok := h.operator(c)
	if !ok {
		return
	}
	id, ok := h.id(c, "id")
	if !ok {
		return
	}
	sku := c.Param("sku")
	if sku == "" {
		h.BadRequest(c, "Invalid sku")
		return
	}

	var req fulfillmentapp.VersionedRequest
	if !bindOptionalJSON(c, &req) {
		return
	}

	result, err := h.drafts.ToggleItem(c.Request.Context(), operatorID, id, sku, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Advance handles POST /fulfillment/orders/:id/advance
func (h *DraftHandler) Advance(c *gin.Context) {
	operatorID, ok := h.operator(c)
	if !ok {
		return
	}
	id, ok := h.id(c, "id")
	if !ok {
		return
	}

	var req fulfillmentapp.AdvanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	order, err := h.drafts.Advance(c.Request.Context(), operatorID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

func pageOf(f fulfillmentapp.ListFilter) (page, pageSize int) {
	page, pageSize = 1, 20
	if f.Page > 0 {
		page = f.Page
	}
	if f.PageSize > 0 {
		pageSize = f.PageSize
	}
	return page, pageSize
}

// bindOptionalJSON binds a body when one was sent. Version-only requests may
// come without a body, which means "skip the version check".
func bindOptionalJSON(c *gin.Context, obj any) bool {
	if c.Request.ContentLength == 0 {
		return true
	}
	if err := c.ShouldBindJSON(obj); err != nil {
		middleware.HandleValidationError(c, err)
		return false
	}
	return true
}
