package fulfillment

import (
	"github.com/google/uuid"
	"github.com/pos/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Aggregate type constant
const AggregateTypeOrder = "Order"

// Event type constants
const (
	EventTypeOrderCreated      = "OrderCreated"
	EventTypeOrderQueued       = "OrderQueued"
	EventTypeOrderItemToggled  = "OrderItemToggled"
	EventTypeOrderPhaseChanged = "OrderPhaseChanged"
	EventTypeOrderDeleted      = "OrderDeleted"
)

// OrderCreatedEvent is raised when a cart is saved
type OrderCreatedEvent struct {
	shared.BaseDomainEvent
	OrderID int64           `json:"order_id"`
	Status  DraftStatus     `json:"status"`
	Total   decimal.Decimal `json:"total"`
	Items   int             `json:"items"`
}

// NewOrderCreatedEvent creates a new OrderCreatedEvent
func NewOrderCreatedEvent(o *Order) *OrderCreatedEvent {
	return &OrderCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderCreated, AggregateTypeOrder, o.ID, o.CreatedBy),
		OrderID:         o.ID,
		Status:          o.Status,
		Total:           o.Total,
		Items:           len(o.Items),
	}
}

// EventType returns the event type name
func (e *OrderCreatedEvent) EventType() string {
	return EventTypeOrderCreated
}

// OrderQueuedEvent is raised when a quote is sent to the warehouse
type OrderQueuedEvent struct {
	shared.BaseDomainEvent
	OrderID int64 `json:"order_id"`
}

// NewOrderQueuedEvent creates a new OrderQueuedEvent
func NewOrderQueuedEvent(o *Order) *OrderQueuedEvent {
	return &OrderQueuedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderQueued, AggregateTypeOrder, o.ID, o.UpdatedBy),
		OrderID:         o.ID,
	}
}

// EventType returns the event type name
func (e *OrderQueuedEvent) EventType() string {
	return EventTypeOrderQueued
}

// ItemToggledEvent is raised when the warehouse checks or unchecks an item
type ItemToggledEvent struct {
	shared.BaseDomainEvent
	OrderID int64     `json:"order_id"`
	SKU     string    `json:"sku"`
	State   ItemState `json:"state"`
}

// NewItemToggledEvent creates a new ItemToggledEvent
func NewItemToggledEvent(o *Order, sku string, state ItemState, operatorID uuid.UUID) *ItemToggledEvent {
	return &ItemToggledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderItemToggled, AggregateTypeOrder, o.ID, operatorID),
		OrderID:         o.ID,
		SKU:             sku,
		State:           state,
	}
}

// EventType returns the event type name
func (e *ItemToggledEvent) EventType() string {
	return EventTypeOrderItemToggled
}

// PhaseChangedEvent is raised each time an order enters a fulfillment phase
type PhaseChangedEvent struct {
	shared.BaseDomainEvent
	OrderID int64 `json:"order_id"`
	From    Phase `json:"from"`
	To      Phase `json:"to"`
}

// NewPhaseChangedEvent creates a new PhaseChangedEvent
func NewPhaseChangedEvent(o *Order, from, to Phase, operatorID uuid.UUID) *PhaseChangedEvent {
	return &PhaseChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderPhaseChanged, AggregateTypeOrder, o.ID, operatorID),
		OrderID:         o.ID,
		From:            from,
		To:              to,
	}
}

// EventType returns the event type name
func (e *PhaseChangedEvent) EventType() string {
	return EventTypeOrderPhaseChanged
}

// OrderDeletedEvent is raised when a saved cart is discarded
type OrderDeletedEvent struct {
	shared.BaseDomainEvent
	OrderID int64       `json:"order_id"`
	Status  DraftStatus `json:"status"`
}

// NewOrderDeletedEvent creates a new OrderDeletedEvent
func NewOrderDeletedEvent(o *Order, operatorID uuid.UUID) *OrderDeletedEvent {
	return &OrderDeletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderDeleted, AggregateTypeOrder, o.ID, operatorID),
		OrderID:         o.ID,
		Status:          o.Status,
	}
}

// EventType returns the event type name
func (e *OrderDeletedEvent) EventType() string {
	return EventTypeOrderDeleted
}
