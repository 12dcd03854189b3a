package payment

import (
	"time"

	"github.com/pos/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Payment is an amount received through one instrument
type Payment struct {
	ID        int64
	Method    Method
	Amount    decimal.Decimal
	SessionID int64
	CreatedAt time.Time
}

// NewPayment creates a payment. Zero amounts are accepted, negative ones are not.
func NewPayment(method Method, amount decimal.Decimal) (*Payment, error) {
	if !method.IsValid() {
		return nil, shared.NewDomainError("INVALID_PAYMENT_METHOD", "Payment method is not accepted: "+method.String())
	}
	if amount.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Payment amount cannot be negative")
	}
	return &Payment{
		Method:    method,
		Amount:    amount,
		CreatedAt: time.Now(),
	}, nil
}

// TotalsByMethod groups payment amounts per instrument
func TotalsByMethod(payments []Payment) map[Method]decimal.Decimal {
	totals := make(map[Method]decimal.Decimal)
	for _, p := range payments {
		totals[p.Method] = totals[p.Method].Add(p.Amount)
	}
	return totals
}
