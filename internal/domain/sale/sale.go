// Package sale models registered sales: checkout, later modification, returns
// and the incremental settlement of layaway ("consigna") sales.
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

// Item is a sold product line
type Item struct {
	ID               int64
	SKU              string
	Name             string
	Quantity         int
	UnitPrice        decimal.Decimal
	ReturnedQuantity int
}

// NewItem creates a sale line
func NewItem(sku, name string, quantity int, unitPrice decimal.Decimal) (*Item, error) {
	sku = strings.TrimSpace(sku)
	if sku == "" {
		return nil, shared.NewDomainError("INVALID_SKU", "SKU cannot be empty")
	}
	if quantity <= 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if unitPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}
	return &Item{SKU: sku, Name: name, Quantity: quantity, UnitPrice: unitPrice}, nil
}

// LinePrice returns the unit price
func (i Item) LinePrice() decimal.Decimal {
	return i.UnitPrice
}

// LineQuantity returns the quantity
func (i Item) LineQuantity() int {
	return i.Quantity
}

// Returnable returns how many units can still be returned
func (i Item) Returnable() int {
	return i.Quantity - i.ReturnedQuantity
}

// Sale is a registered sale aggregate root
type Sale struct {
	shared.OperatedAggregateRoot
	CustomerID    *int64
	Origin        Origin
	ConsumerType  ConsumerType
	TaxRegime     payment.TaxRegime
	Notes         string
	Status        Status
	SessionID     int64
	Items         []Item
	Payments      []payment.Payment
	Subtotal      decimal.Decimal
	Discount      decimal.Decimal
	Tax           decimal.Decimal
	Total         decimal.Decimal
	Returns       []Return
	Modifications []Modification
}

// NewSaleParams carries everything needed to register a sale
type NewSaleParams struct {
	OperatorID   uuid.UUID
	SessionID    int64
	CustomerID   *int64
	Origin       Origin
	ConsumerType ConsumerType
	TaxRegime    payment.TaxRegime
	Discount     decimal.Decimal
	Notes        string
	Consignment  bool
	Items        []Item
	Payments     []payment.Payment
}

// NewSale validates and prices a sale. Regular sales need payments covering
// the total; layaway sales may start with a partial payment or none.
func NewSale(p NewSaleParams) (*Sale, error) {
	if p.SessionID == 0 {
		return nil, shared.NewDomainError("NO_OPEN_SESSION", "Sales require an open register session")
	}
	if !p.Origin.IsValid() {
		return nil, shared.NewDomainError("INVALID_ORIGIN", fmt.Sprintf("Unknown sale origin: %s", p.Origin))
	}
	if !p.ConsumerType.IsValid() {
		return nil, shared.NewDomainError("INVALID_CONSUMER_TYPE", fmt.Sprintf("Unknown consumer type: %s", p.ConsumerType))
	}
	if !p.TaxRegime.IsValid() {
		return nil, shared.NewDomainError("INVALID_TAX_REGIME", fmt.Sprintf("Unknown tax regime: %s", p.TaxRegime))
	}

	s := &Sale{
		OperatedAggregateRoot: shared.NewOperatedAggregateRoot(p.OperatorID),
		CustomerID:            p.CustomerID,
		Origin:                p.Origin,
		ConsumerType:          p.ConsumerType,
		TaxRegime:             p.TaxRegime,
		Notes:                 p.Notes,
		SessionID:             p.SessionID,
		Status:                StatusDelivered,
	}
	if p.Consignment {
		s.Status = StatusConsignment
	}

	if err := s.setLines(p.Items, p.Payments, p.Discount); err != nil {
		return nil, err
	}
	if s.Status == StatusConsignment && payment.IsSufficient(s.Payments, s.Total) {
		s.Status = StatusConsignmentPaid
	}

	return s, nil
}

// setLines replaces items and payments and reprices the sale
func (s *Sale) setLines(items []Item, payments []payment.Payment, discount decimal.Decimal) error {
	if len(items) == 0 {
		return shared.NewDomainError("NO_ITEMS", "A sale needs at least one item")
	}
	if discount.IsNegative() {
		return shared.NewDomainError("INVALID_DISCOUNT", "Discount cannot be negative")
	}
	for _, item := range items {
		if item.Quantity <= 0 {
			return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive for "+item.SKU)
		}
	}

	kept := make([]payment.Payment, 0, len(payments))
	for _, p := range payments {
		if !p.Method.IsValid() {
			return shared.NewDomainError("INVALID_PAYMENT_METHOD", "Payment method is not accepted: "+p.Method.String())
		}
		if p.Amount.IsNegative() {
			return shared.NewDomainError("INVALID_AMOUNT", "Payment amount cannot be negative")
		}
		if p.Amount.IsZero() {
			continue
		}
		if p.CreatedAt.IsZero() {
			p.CreatedAt = time.Now()
		}
		if p.SessionID == 0 {
			p.SessionID = s.SessionID
		}
		kept = append(kept, p)
	}

	totals := payment.ComputeTotals(items, discount, s.TaxRegime)
	if totals.Total.IsNegative() {
		return shared.NewDomainError("INVALID_DISCOUNT", "Discount cannot exceed the sale amount")
	}

	if !s.IsConsignment() {
		if len(kept) == 0 {
			return shared.NewDomainError("NO_PAYMENTS", "A sale needs at least one payment")
		}
		if !payment.IsSufficient(kept, totals.Total) {
			return shared.NewDomainError("INSUFFICIENT_PAYMENT",
				fmt.Sprintf("Payments cover %s of %s", payment.SumPayments(kept), totals.Total))
		}
	}

	s.Items = append([]Item(nil), items...)
	s.Payments = kept
	s.Subtotal = totals.Subtotal
	s.Discount = totals.Discount
	s.Tax = totals.Tax
	s.Total = totals.Total
	return nil
}

// RecordRegistered raises the registration event once the store has assigned an ID
func (s *Sale) RecordRegistered() {
	s.AddDomainEvent(NewSaleRegisteredEvent(s))
}

// AmountPaid returns the sum of all recorded payments
func (s *Sale) AmountPaid() decimal.Decimal {
	return payment.SumPayments(s.Payments)
}

// Item returns the line with the given SKU
func (s *Sale) Item(sku string) *Item {
	for i := range s.Items {
		if s.Items[i].SKU == sku {
			return &s.Items[i]
		}
	}
	return nil
}

// IsConsignment returns true for layaway sales, settled or not
func (s *Sale) IsConsignment() bool {
	return s.Status == StatusConsignment || s.Status == StatusConsignmentPaid
}

// Modification records an edit made to a registered sale
type Modification struct {
	ID            int64
	Reason        string
	PreviousTotal decimal.Decimal
	NewTotal      decimal.Decimal
	CreatedBy     uuid.UUID
	CreatedAt     time.Time
}

// Modify replaces the items and payments of a sale from the register session
// sessionID. Sales with returns cannot be modified. Recorded payments are
// matched by ID; see carryPayments.
func (s *Sale) Modify(items []Item, payments []payment.Payment, discount decimal.Decimal, reason string, operatorID uuid.UUID, sessionID int64) (*Modification, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, shared.NewDomainError("INVALID_REASON", "A reason is required to modify a sale")
	}
	if s.Status == StatusReturned || len(s.Returns) > 0 {
		return nil, shared.NewDomainError("INVALID_STATE", "A sale with returns cannot be modified")
	}

	payments, err := s.carryPayments(payments, sessionID)
	if err != nil {
		return nil, err
	}

	previous := s.Total
	if err := s.setLines(items, payments, discount); err != nil {
		return nil, err
	}
	if s.Status == StatusConsignment && payment.IsSufficient(s.Payments, s.Total) {
		s.Status = StatusConsignmentPaid
	} else if s.Status == StatusConsignmentPaid && !payment.IsSufficient(s.Payments, s.Total) {
		s.Status = StatusConsignment
	}

	now := time.Now()
	mod := Modification{
		Reason:        reason,
		PreviousTotal: previous,
		NewTotal:      s.Total,
		CreatedBy:     operatorID,
		CreatedAt:     now,
	}
	s.Modifications = append(s.Modifications, mod)
	s.UpdatedAt = now
	s.AddDomainEvent(NewSaleModifiedEvent(s, mod))

	return &mod, nil
}

// carryPayments resolves the payments requested for a modification. A payment
// with an ID refers to a recorded one and keeps its session and time; one
// without is new and is booked to sessionID. Payments booked in another
// session belong to that session's cash count and must come back unchanged.
func (s *Sale) carryPayments(requested []payment.Payment, sessionID int64) ([]payment.Payment, error) {
	recorded := make(map[int64]payment.Payment, len(s.Payments))
	for _, p := range s.Payments {
		if p.ID != 0 {
			recorded[p.ID] = p
		}
	}

	seen := make(map[int64]bool, len(requested))
	out := make([]payment.Payment, 0, len(requested))
	for _, p := range requested {
		if p.ID == 0 {
			p.SessionID = sessionID
			out = append(out, p)
			continue
		}
		old, ok := recorded[p.ID]
		if !ok || seen[p.ID] {
			return nil, shared.NewDomainError("INVALID_PAYMENT", fmt.Sprintf("Sale has no payment %d", p.ID))
		}
		seen[p.ID] = true
		if old.SessionID != sessionID && (old.Method != p.Method || !old.Amount.Equal(p.Amount)) {
			return nil, errLockedPayment(old)
		}
		p.SessionID = old.SessionID
		p.CreatedAt = old.CreatedAt
		out = append(out, p)
	}

	for id, old := range recorded {
		if !seen[id] && old.SessionID != sessionID {
			return nil, errLockedPayment(old)
		}
	}
	return out, nil
}

func errLockedPayment(p payment.Payment) error {
	return shared.NewDomainError("INVALID_PAYMENT_CHANGE",
		fmt.Sprintf("Payment %d was taken in register session %d and cannot be changed", p.ID, p.SessionID))
}
