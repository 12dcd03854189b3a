package sale

import (
	"github.com/google/uuid"
	"github.com/pos/backend/internal/domain/payment"
	"github.com/pos/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Aggregate type constant
const AggregateTypeSale = "Sale"

// Event type constants
const (
	EventTypeSaleRegistered             = "SaleRegistered"
	EventTypeSaleModified               = "SaleModified"
	EventTypeSaleReturned               = "SaleReturned"
	EventTypeConsignmentPaymentRecorded = "ConsignmentPaymentRecorded"
	EventTypeConsignmentSettled         = "ConsignmentSettled"
)

// SaleRegisteredEvent is raised when a sale is committed
type SaleRegisteredEvent struct {
	shared.BaseDomainEvent
	SaleID    int64           `json:"sale_id"`
	SessionID int64           `json:"session_id"`
	Status    Status          `json:"status"`
	Total     decimal.Decimal `json:"total"`
	Paid      decimal.Decimal `json:"paid"`
}

// NewSaleRegisteredEvent creates a new SaleRegisteredEvent
func NewSaleRegisteredEvent(s *Sale) *SaleRegisteredEvent {
	return &SaleRegisteredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSaleRegistered, AggregateTypeSale, s.ID, s.CreatedBy),
		SaleID:          s.ID,
		SessionID:       s.SessionID,
		Status:          s.Status,
		Total:           s.Total,
		Paid:            s.AmountPaid(),
	}
}

// EventType returns the event type name
func (e *SaleRegisteredEvent) EventType() string {
	return EventTypeSaleRegistered
}

// SaleModifiedEvent is raised when a sale's lines are replaced
type SaleModifiedEvent struct {
	shared.BaseDomainEvent
	SaleID        int64           `json:"sale_id"`
	Reason        string          `json:"reason"`
	PreviousTotal decimal.Decimal `json:"previous_total"`
	NewTotal      decimal.Decimal `json:"new_total"`
}

// NewSaleModifiedEvent creates a new SaleModifiedEvent
func NewSaleModifiedEvent(s *Sale, mod Modification) *SaleModifiedEvent {
	return &SaleModifiedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSaleModified, AggregateTypeSale, s.ID, mod.CreatedBy),
		SaleID:          s.ID,
		Reason:          mod.Reason,
		PreviousTotal:   mod.PreviousTotal,
		NewTotal:        mod.NewTotal,
	}
}

// EventType returns the event type name
func (e *SaleModifiedEvent) EventType() string {
	return EventTypeSaleModified
}

// SaleReturnedEvent is raised when goods are brought back
type SaleReturnedEvent struct {
	shared.BaseDomainEvent
	SaleID   int64           `json:"sale_id"`
	Total    decimal.Decimal `json:"total"`
	Refunded decimal.Decimal `json:"refunded"`
	Full     bool            `json:"full"`
}

// NewSaleReturnedEvent creates a new SaleReturnedEvent
func NewSaleReturnedEvent(s *Sale, ret Return) *SaleReturnedEvent {
	return &SaleReturnedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSaleReturned, AggregateTypeSale, s.ID, ret.CreatedBy),
		SaleID:          s.ID,
		Total:           ret.Total,
		Refunded:        ret.RefundTotal(),
		Full:            ret.Full,
	}
}

// EventType returns the event type name
func (e *SaleReturnedEvent) EventType() string {
	return EventTypeSaleReturned
}

// ConsignmentPaymentRecordedEvent is raised for every layaway payment
type ConsignmentPaymentRecordedEvent struct {
	shared.BaseDomainEvent
	SaleID    int64           `json:"sale_id"`
	Method    payment.Method  `json:"method"`
	Amount    decimal.Decimal `json:"amount"`
	Remaining decimal.Decimal `json:"remaining"`
}

// NewConsignmentPaymentRecordedEvent creates a new ConsignmentPaymentRecordedEvent
func NewConsignmentPaymentRecordedEvent(s *Sale, p payment.Payment, operatorID uuid.UUID) *ConsignmentPaymentRecordedEvent {
	return &ConsignmentPaymentRecordedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeConsignmentPaymentRecorded, AggregateTypeSale, s.ID, operatorID),
		SaleID:          s.ID,
		Method:          p.Method,
		Amount:          p.Amount,
		Remaining:       s.RemainingBalance(),
	}
}

// EventType returns the event type name
func (e *ConsignmentPaymentRecordedEvent) EventType() string {
	return EventTypeConsignmentPaymentRecorded
}

// ConsignmentSettledEvent is raised when a layaway sale is fully paid
type ConsignmentSettledEvent struct {
	shared.BaseDomainEvent
	SaleID int64           `json:"sale_id"`
	Total  decimal.Decimal `json:"total"`
}

// NewConsignmentSettledEvent creates a new ConsignmentSettledEvent
func NewConsignmentSettledEvent(s *Sale, operatorID uuid.UUID) *ConsignmentSettledEvent {
	return &ConsignmentSettledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeConsignmentSettled, AggregateTypeSale, s.ID, operatorID),
		SaleID:          s.ID,
		Total:           s.Total,
	}
}

// EventType returns the event type name
func (e *ConsignmentSettledEvent) EventType() string {
	return EventTypeConsignmentSettled
}
