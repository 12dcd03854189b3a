package fulfillment

import (
	"context"

	"github.com/pos/backend/internal/domain/shared"
)

// OrderStore defines the interface for order persistence
type OrderStore interface {
	// Create persists a new order with its items and payments and assigns its ID
	Create(ctx context.Context, order *Order) error

	// FindByID finds an order by ID
	FindByID(ctx context.Context, id int64) (*Order, error)

	// FetchPending returns orders queued for the warehouse, most recent first
	FetchPending(ctx context.Context, filter shared.Filter) ([]Order, error)

	// FetchByStatus returns orders in a draft status, most recent first
	FetchByStatus(ctx context.Context, status DraftStatus, filter shared.Filter) ([]Order, error)

	// UpdateStatus persists status, phase, phase timestamps and item states.
	// The write is rejected with shared.ErrConcurrencyConflict when the stored
	// version differs from order.Version.
	UpdateStatus(ctx context.Context, order *Order) error

	// Delete removes an order and its items
	Delete(ctx context.Context, id int64) error
}
