package fulfillment

import (
	"strings"

	"github.com/pos/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ItemState is the warehouse checklist state of a line item
type ItemState string

const (
	ItemPending ItemState = "pendiente"
	ItemReady   ItemState = "listo"
)

// Toggled returns the opposite state
func (s ItemState) Toggled() ItemState {
	if s == ItemReady {
		return ItemPending
	}
	return ItemReady
}

// LineItem is a product line owned by one order
type LineItem struct {
	ID        int64
	SKU       string
	Name      string
	Quantity  int
	UnitPrice decimal.Decimal
	State     ItemState
}

// NewLineItem creates a pending line item
func NewLineItem(sku, name string, quantity int, unitPrice decimal.Decimal) (*LineItem, error) {
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
	return &LineItem{
		SKU:       sku,
		Name:      name,
		Quantity:  quantity,
		UnitPrice: unitPrice,
		State:     ItemPending,
	}, nil
}

// LinePrice returns the unit price
func (i LineItem) LinePrice() decimal.Decimal {
	return i.UnitPrice
}

// LineQuantity returns the quantity
func (i LineItem) LineQuantity() int {
	return i.Quantity
}

// Amount returns unit price times quantity
func (i LineItem) Amount() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// IsReady returns true if the warehouse has checked the item
func (i LineItem) IsReady() bool {
	return i.State == ItemReady
}
