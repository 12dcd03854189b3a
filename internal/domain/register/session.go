// Package register models cash-register sessions: the open/close bracket in
// which an operator's drawer is active and sales may be entered.
package register

import (
	"time"

	"github.com/google/uuid"
	"github.com/pos/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Common register errors
var (
	ErrNoOpenSession      = shared.NewDomainError("NO_OPEN_SESSION", "No open register session for this operator")
	ErrSessionAlreadyOpen = shared.NewDomainError("SESSION_ALREADY_OPEN", "Session already open for this operator")
)

// Session is a cash-register session aggregate root
type Session struct {
	shared.BaseAggregateRoot
	OperatorID    uuid.UUID
	OpeningAmount decimal.Decimal
	CountedAmount *decimal.Decimal
	OpenedAt      time.Time
	ClosedAt      *time.Time
}

// NewSession opens a session with a starting cash amount
func NewSession(operatorID uuid.UUID, openingAmount decimal.Decimal) (*Session, error) {
	if operatorID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_OPERATOR", "Operator ID cannot be empty")
	}
	if openingAmount.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Opening amount must be positive")
	}

	s := &Session{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		OperatorID:        operatorID,
		OpeningAmount:     openingAmount,
	}
	s.OpenedAt = s.CreatedAt
	return s, nil
}

// RecordOpened raises the opening event once the store has assigned an ID
func (s *Session) RecordOpened() {
	s.AddDomainEvent(NewSessionOpenedEvent(s))
}

// IsOpen returns true while no closing amount has been recorded
func (s *Session) IsOpen() bool {
	return s.ClosedAt == nil
}

// Close records the counted cash. A mismatch with the expected amount is
// reported in the summary and never blocks the close.
func (s *Session) Close(counted decimal.Decimal) error {
	if !s.IsOpen() {
		return shared.NewDomainError("SESSION_CLOSED", "Session is already closed")
	}
	if counted.IsNegative() {
		return shared.NewDomainError("INVALID_AMOUNT", "Counted amount cannot be negative")
	}

	now := time.Now()
	s.CountedAmount = &counted
	s.ClosedAt = &now
	s.UpdatedAt = now
	s.AddDomainEvent(NewSessionClosedEvent(s))
	return nil
}
