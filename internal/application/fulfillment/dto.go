package fulfillment

import (
	"time"

	"github.com/google/uuid"
	"github.com/pos/backend/internal/domain/fulfillment"
	"github.com/pos/backend/internal/domain/payment"
	"github.com/shopspring/decimal"
)

// ==================== Requests ====================

// CreateDraftRequest saves a cart as a quote, a budget or a warehouse order
type CreateDraftRequest struct {
	CustomerID   *int64           `json:"customer_id"`
	CustomerName string           `json:"customer_name" binding:"max=200"`
	Status       string           `json:"status" binding:"required,oneof=Borrador Presupuesto 'Pendiente en deposito'"`
	Items        []DraftItemInput `json:"items" binding:"required,min=1,dive"`
	Payments     []PaymentInput   `json:"payments" binding:"omitempty,dive"`
	Discount     *decimal.Decimal `json:"discount"`
	TaxRegime    string           `json:"tax_regime" binding:"omitempty,oneof=sin_iva medio_iva con_iva"`
	Notes        string           `json:"notes" binding:"max=500"`
}

// DraftItemInput is a cart line
type DraftItemInput struct {
	SKU       string          `json:"sku" binding:"required,max=50"`
	Name      string          `json:"name" binding:"max=200"`
	Quantity  int             `json:"quantity" binding:"required,gt=0"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// PaymentInput is a payment taken with the cart
type PaymentInput struct {
	Method string          `json:"method" binding:"required,oneof=efectivo tarjeta transferencia uala brubank"`
	Amount decimal.Decimal `json:"amount"`
}

// VersionedRequest carries the version the client last saw. Zero skips the check.
type VersionedRequest struct {
	Version int `json:"version" binding:"min=0"`
}

// AdvanceRequest asks for the next fulfillment phase
type AdvanceRequest struct {
	Target  string `json:"target" binding:"required"`
	Version int    `json:"version" binding:"min=0"`
}

// ListFilter pages through orders. Query matches customer names and SKUs,
// ignoring accents and case.
type ListFilter struct {
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	Query    string `form:"q" binding:"max=100"`
}

// ==================== Responses ====================

// LineItemResponse is an order line
type LineItemResponse struct {
	SKU       string          `json:"sku"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Amount    decimal.Decimal `json:"amount"`
	State     string          `json:"state"`
}

// PaymentResponse is a recorded payment
type PaymentResponse struct {
	ID        int64           `json:"id,omitempty"`
	Method    string          `json:"method"`
	Amount    decimal.Decimal `json:"amount"`
	SessionID int64           `json:"session_id,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// OrderResponse is the full view of a saved cart
type OrderResponse struct {
	ID                int64              `json:"id"`
	CustomerID        *int64             `json:"customer_id,omitempty"`
	CustomerName      string             `json:"customer_name,omitempty"`
	Status            string             `json:"status"`
	Phase             string             `json:"phase,omitempty"`
	Items             []LineItemResponse `json:"items"`
	ReadyCount        int                `json:"ready_count"`
	Total             decimal.Decimal    `json:"total"`
	Paid              decimal.Decimal    `json:"paid"`
	Payments          []PaymentResponse  `json:"payments"`
	Notes             string             `json:"notes,omitempty"`
	CreatedBy         uuid.UUID          `json:"created_by"`
	SeenAt            *time.Time         `json:"seen_at,omitempty"`
	PackingStartedAt  *time.Time         `json:"packing_started_at,omitempty"`
	PackingFinishedAt *time.Time         `json:"packing_finished_at,omitempty"`
	ReceivedAt        *time.Time         `json:"received_at,omitempty"`
	DeliveredAt       *time.Time         `json:"delivered_at,omitempty"`
	Version           int                `json:"version"`
	CreatedAt         time.Time          `json:"created_at"`
	UpdatedAt         time.Time          `json:"updated_at"`
}

// ToggleResponse is the order after an item toggle plus any phases it entered
type ToggleResponse struct {
	Order         OrderResponse `json:"order"`
	SKU           string        `json:"sku"`
	ItemState     string        `json:"item_state"`
	PhasesEntered []string      `json:"phases_entered"`
}

// CartLineResponse is a line of a reloaded cart
type CartLineResponse struct {
	SKU       string          `json:"sku"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// CartResponse is a quote loaded back into the counter
type CartResponse struct {
	DraftID      int64              `json:"draft_id"`
	CustomerID   *int64             `json:"customer_id,omitempty"`
	CustomerName string             `json:"customer_name,omitempty"`
	Lines        []CartLineResponse `json:"lines"`
	Total        decimal.Decimal    `json:"total"`
}

// ToOrderResponse converts a domain order
func ToOrderResponse(o *fulfillment.Order) OrderResponse {
	items := make([]LineItemResponse, len(o.Items))
	for i, item := range o.Items {
		items[i] = LineItemResponse{
			SKU:       item.SKU,
			Name:      item.Name,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Amount:    item.Amount(),
			State:     string(item.State),
		}
	}
	return OrderResponse{
		ID:                o.ID,
		CustomerID:        o.Customer.ID,
		CustomerName:      o.Customer.Name,
		Status:            o.Status.String(),
		Phase:             o.Phase.String(),
		Items:             items,
		ReadyCount:        o.ReadyCount(),
		Total:             o.Total,
		Paid:              payment.SumPayments(o.Payments),
		Payments:          toPaymentResponses(o.Payments),
		Notes:             o.Notes,
		CreatedBy:         o.CreatedBy,
		SeenAt:            o.SeenAt,
		PackingStartedAt:  o.PackingStartedAt,
		PackingFinishedAt: o.PackingFinishedAt,
		ReceivedAt:        o.ReceivedAt,
		DeliveredAt:       o.DeliveredAt,
		Version:           o.Version,
		CreatedAt:         o.CreatedAt,
		UpdatedAt:         o.UpdatedAt,
	}
}

// ToOrderResponses converts a list of domain orders
func ToOrderResponses(orders []fulfillment.Order) []OrderResponse {
	out := make([]OrderResponse, len(orders))
	for i := range orders {
		out[i] = ToOrderResponse(&orders[i])
	}
	return out
}

func toPaymentResponses(payments []payment.Payment) []PaymentResponse {
	out := make([]PaymentResponse, len(payments))
	for i, p := range payments {
		out[i] = PaymentResponse{ID: p.ID, Method: p.Method.String(), Amount: p.Amount, CreatedAt: p.CreatedAt}
	}
	return out
}

func toCartResponse(c *fulfillment.Cart) CartResponse {
	lines := make([]CartLineResponse, len(c.Lines))
	for i, l := range c.Lines {
		lines[i] = CartLineResponse{SKU: l.SKU, Name: l.Name, Quantity: l.Quantity, UnitPrice: l.UnitPrice}
	}
	return CartResponse{
		DraftID:      c.OrderID,
		CustomerID:   c.Customer.ID,
		CustomerName: c.Customer.Name,
		Lines:        lines,
		Total:        c.Total,
	}
}
