package sale

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pos/backend/internal/domain/payment"
	"github.com/pos/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ReturnLine is a quantity of one SKU brought back
type ReturnLine struct {
	SKU       string
	Quantity  int
	UnitPrice decimal.Decimal
}

// Return records goods brought back and the money refunded for them
type Return struct {
	ID        int64
	SaleID    int64
	Lines     []ReturnLine
	Refunds   []payment.Payment
	Reason    string
	Total     decimal.Decimal
	Full      bool
	CreatedBy uuid.UUID
	CreatedAt time.Time
}

// RefundTotal returns the sum of refunded amounts
func (r *Return) RefundTotal() decimal.Decimal {
	return payment.SumPayments(r.Refunds)
}

// RegisterReturn takes back goods. Refunds may not exceed the value of the
// returned goods, nor what was paid less earlier refunds. When everything
// comes back only the second limit applies.
func (s *Sale) RegisterReturn(lines []ReturnLine, refunds []payment.Payment, reason string, operatorID uuid.UUID) (*Return, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, shared.NewDomainError("INVALID_REASON", "A reason is required to register a return")
	}
	if s.Status == StatusReturned {
		return nil, shared.NewDomainError("INVALID_STATE", "Sale was already fully returned")
	}
	if len(lines) == 0 {
		return nil, shared.NewDomainError("NO_ITEMS", "A return needs at least one item")
	}

	requested := make(map[string]int, len(lines))
	priced := make([]ReturnLine, 0, len(lines))
	for _, line := range lines {
		item := s.Item(line.SKU)
		if item == nil {
			return nil, shared.NewDomainError("ITEM_NOT_FOUND", "Sale has no item with SKU "+line.SKU)
		}
		if line.Quantity <= 0 {
			return nil, shared.NewDomainError("INVALID_QUANTITY", "Returned quantity must be positive")
		}
		requested[line.SKU] += line.Quantity
		if requested[line.SKU] > item.Returnable() {
			return nil, shared.NewDomainError("INVALID_QUANTITY",
				fmt.Sprintf("Cannot return %d of %s, only %d left", requested[line.SKU], line.SKU, item.Returnable()))
		}
		priced = append(priced, ReturnLine{SKU: line.SKU, Quantity: line.Quantity, UnitPrice: item.UnitPrice})
	}

	full := true
	for _, item := range s.Items {
		if item.Returnable() != requested[item.SKU] {
			full = false
			break
		}
	}

	value := s.returnValue(payment.ComputeSubtotal(priced))
	limit := s.Refundable()
	if !full && value.LessThan(limit) {
		limit = value
	}

	for _, r := range refunds {
		if !r.Method.IsValid() {
			return nil, shared.NewDomainError("INVALID_PAYMENT_METHOD", "Payment method is not accepted: "+r.Method.String())
		}
		if r.Amount.IsNegative() {
			return nil, shared.NewDomainError("INVALID_AMOUNT", "Refund amount cannot be negative")
		}
	}
	if refunded := payment.SumPayments(refunds); refunded.GreaterThan(limit) {
		return nil, shared.NewDomainError("REFUND_EXCEEDS_LIMIT",
			fmt.Sprintf("Refund of %s exceeds the allowed %s", refunded, limit))
	}

	for sku, qty := range requested {
		s.Item(sku).ReturnedQuantity += qty
	}
	if full {
		s.Status = StatusReturned
	}

	now := time.Now()
	ret := Return{
		SaleID:    s.ID,
		Lines:     priced,
		Refunds:   append([]payment.Payment(nil), refunds...),
		Reason:    reason,
		Total:     value,
		Full:      full,
		CreatedBy: operatorID,
		CreatedAt: now,
	}
	s.Returns = append(s.Returns, ret)
	s.UpdatedAt = now
	s.AddDomainEvent(NewSaleReturnedEvent(s, ret))

	return &ret, nil
}

// RefundedAmount returns the sum refunded by all returns so far
func (s *Sale) RefundedAmount() decimal.Decimal {
	total := decimal.Zero
	for i := range s.Returns {
		total = total.Add(s.Returns[i].RefundTotal())
	}
	return total
}

// Refundable returns what was paid less what was already refunded, never negative
func (s *Sale) Refundable() decimal.Decimal {
	return decimal.Max(s.AmountPaid().Sub(s.RefundedAmount()), decimal.Zero)
}

// returnValue is the share of the sale total carried by the returned goods:
// the discount is spread over the lines in proportion to their subtotal.
func (s *Sale) returnValue(subtotal decimal.Decimal) decimal.Decimal {
	if !s.Subtotal.IsPositive() {
		return decimal.Zero
	}
	return s.Total.Mul(subtotal).Div(s.Subtotal)
}

// LinePrice returns the unit price
func (l ReturnLine) LinePrice() decimal.Decimal {
	return l.UnitPrice
}

// LineQuantity returns the returned quantity
func (l ReturnLine) LineQuantity() int {
	return l.Quantity
}
