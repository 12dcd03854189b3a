package sale

import (
	"context"

	"github.com/pos/backend/internal/domain/payment"
	"github.com/pos/backend/internal/domain/shared"
)

// Store defines the interface for sale persistence. Every mutating method is
// one transaction.
type Store interface {
	// RegisterSale commits a sale with its items and payments and takes the
	// sold units out of stock. It assigns the sale ID.
	RegisterSale(ctx context.Context, s *Sale) error

	// FindByID finds a sale with items, payments and returns
	FindByID(ctx context.Context, id int64) (*Sale, error)

	// FetchConsignments returns layaway sales that still have a balance, most recent first
	FetchConsignments(ctx context.Context, filter shared.Filter) ([]Sale, error)

	// RecordPayment inserts a layaway payment and, when it settles the sale,
	// updates the sale status in the same transaction. The write is rejected
	// with shared.ErrConcurrencyConflict on a stale version.
	RecordPayment(ctx context.Context, s *Sale, p *payment.Payment) error

	// Modify replaces items and payments, adjusting stock by the difference,
	// and stores the modification record.
	Modify(ctx context.Context, s *Sale, mod *Modification) error

	// RegisterReturn stores a return and puts the returned units back in stock
	RegisterReturn(ctx context.Context, s *Sale, ret *Return) error
}
