package register

import (
	"github.com/pos/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Aggregate type constant
const AggregateTypeSession = "RegisterSession"

// Event type constants
const (
	EventTypeSessionOpened = "RegisterSessionOpened"
	EventTypeSessionClosed = "RegisterSessionClosed"
)

// SessionOpenedEvent is raised when an operator opens the drawer
type SessionOpenedEvent struct {
	shared.BaseDomainEvent
	SessionID     int64           `json:"session_id"`
	OpeningAmount decimal.Decimal `json:"opening_amount"`
}

// NewSessionOpenedEvent creates a new SessionOpenedEvent
func NewSessionOpenedEvent(s *Session) *SessionOpenedEvent {
	return &SessionOpenedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSessionOpened, AggregateTypeSession, s.ID, s.OperatorID),
		SessionID:       s.ID,
		OpeningAmount:   s.OpeningAmount,
	}
}

// EventType returns the event type name
func (e *SessionOpenedEvent) EventType() string {
	return EventTypeSessionOpened
}

// SessionClosedEvent is raised when the counted cash is recorded
type SessionClosedEvent struct {
	shared.BaseDomainEvent
	SessionID     int64           `json:"session_id"`
	CountedAmount decimal.Decimal `json:"counted_amount"`
}

// NewSessionClosedEvent creates a new SessionClosedEvent
func NewSessionClosedEvent(s *Session) *SessionClosedEvent {
	counted := decimal.Zero
	if s.CountedAmount != nil {
		counted = *s.CountedAmount
	}
	return &SessionClosedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSessionClosed, AggregateTypeSession, s.ID, s.OperatorID),
		SessionID:       s.ID,
		CountedAmount:   counted,
	}
}

// EventType returns the event type name
func (e *SessionClosedEvent) EventType() string {
	return EventTypeSessionClosed
}
