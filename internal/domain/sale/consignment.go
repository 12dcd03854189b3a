package sale

import (
	"time"

	"github.com/google/uuid"
	"github.com/pos/backend/internal/domain/payment"
	"github.com/pos/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// RemainingBalance returns total minus payments, never below zero
func (s *Sale) RemainingBalance() decimal.Decimal {
	remaining := payment.RemainingBalance(s.Payments, s.Total)
	if remaining.IsNegative() {
		return decimal.Zero
	}
	return remaining
}

// SuggestedAmount is the amount offered by default for the next layaway payment
func (s *Sale) SuggestedAmount() decimal.Decimal {
	return s.RemainingBalance()
}

// Settlement is the outcome of a layaway payment
type Settlement struct {
	Payment   payment.Payment
	Requested decimal.Decimal
	Remaining decimal.Decimal
	FullyPaid bool
}

// AddPayment applies a layaway payment. Amounts above the remaining balance are
// truncated to it; when the payments reach the total the sale is marked paid.
// The payment is booked to the given register session.
func (s *Sale) AddPayment(method payment.Method, amount decimal.Decimal, sessionID int64, operatorID uuid.UUID) (*Settlement, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Payment amount must be positive")
	}
	if !method.IsValid() {
		return nil, shared.NewDomainError("INVALID_PAYMENT_METHOD", "Payment method is not accepted: "+method.String())
	}
	switch s.Status {
	case StatusConsignment:
	case StatusConsignmentPaid:
		return nil, shared.NewDomainError("ALREADY_PAID", "Layaway sale is already fully paid")
	default:
		return nil, shared.NewDomainError("INVALID_STATE", "Only layaway sales accept later payments")
	}

	remaining := s.RemainingBalance()
	if remaining.IsZero() {
		return nil, shared.NewDomainError("ALREADY_PAID", "Layaway sale has no balance left")
	}

	applied := decimal.Min(amount, remaining)
	now := time.Now()
	p := payment.Payment{Method: method, Amount: applied, SessionID: sessionID, CreatedAt: now}
	s.Payments = append(s.Payments, p)
	s.UpdatedAt = now

	result := &Settlement{
		Payment:   p,
		Requested: amount,
		Remaining: s.RemainingBalance(),
	}
	s.AddDomainEvent(NewConsignmentPaymentRecordedEvent(s, p, operatorID))

	if payment.IsSufficient(s.Payments, s.Total) {
		s.Status = StatusConsignmentPaid
		result.FullyPaid = true
		s.AddDomainEvent(NewConsignmentSettledEvent(s, operatorID))
	}

	return result, nil
}
