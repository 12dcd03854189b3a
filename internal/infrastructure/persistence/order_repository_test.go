package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/pos/backend/internal/domain/fulfillment"
	"github.com/pos/backend/internal/domain/payment"
	"github.com/pos/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestOrder(t *testing.T, status fulfillment.DraftStatus, customer string, skus ...string) *fulfillment.Order {
	t.Helper()
	items := make([]fulfillment.LineItem, 0, len(skus))
	for _, sku := range skus {
		item, err := fulfillment.NewLineItem(sku, "Remera "+sku, 2, decimal.NewFromInt(500))
		require.NoError(t, err)
		items = append(items, *item)
	}
	total := payment.ComputeSubtotal(items)
	order, err := fulfillment.NewOrder(uuid.New(), status, fulfillment.Customer{Name: customer}, items, total)
	require.NoError(t, err)
	return order
}

func TestGormOrderRepository_CreateAndFind(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormOrderRepository(db)
	ctx := context.Background()

	order := newTestOrder(t, fulfillment.DraftStatusQueued, "María Peña", "A-1", "B-2")
	order.AttachPayments([]payment.Payment{{Method: payment.MethodCash, Amount: decimal.NewFromInt(800)}})
	require.NoError(t, repo.Create(ctx, order))
	require.NotZero(t, order.ID)
	for _, item := range order.Items {
		assert.NotZero(t, item.ID)
	}

	found, err := repo.FindByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, "María Peña", found.Customer.Name)
	assert.Equal(t, fulfillment.DraftStatusQueued, found.Status)
	assert.Equal(t, fulfillment.PhaseRevision, found.Phase)
	require.Len(t, found.Items, 2)
	assert.Equal(t, "A-1", found.Items[0].SKU)
	assert.Equal(t, "B-2", found.Items[1].SKU)
	assert.Equal(t, fulfillment.ItemPending, found.Items[0].State)
	require.Len(t, found.Payments, 1)
	assert.True(t, found.Payments[0].Amount.Equal(decimal.NewFromInt(800)))
	assert.True(t, found.Total.Equal(decimal.NewFromInt(2000)))
	assert.Equal(t, 1, found.Version)
}

func TestGormOrderRepository_FindByID_NotFound(t *testing.T) {
	repo := NewGormOrderRepository(setupTestDB(t))

	_, err := repo.FindByID(context.Background(), 404)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormOrderRepository_FetchByStatus(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormOrderRepository(db)
	ctx := context.Background()

	quote := newTestOrder(t, fulfillment.DraftStatusQuote, "Lucía Gómez", "Q-1")
	queued := newTestOrder(t, fulfillment.DraftStatusQueued, "José Peña", "Z-9")
	other := newTestOrder(t, fulfillment.DraftStatusQueued, "Ana Ruiz", "X-5")
	require.NoError(t, repo.Create(ctx, quote))
	require.NoError(t, repo.Create(ctx, queued))
	require.NoError(t, repo.Create(ctx, other))

	t.Run("filters by status", func(t *testing.T) {
		orders, err := repo.FetchByStatus(ctx, fulfillment.DraftStatusQuote, shared.DefaultFilter())
		require.NoError(t, err)
		require.Len(t, orders, 1)
		assert.Equal(t, quote.ID, orders[0].ID)
	})

	t.Run("pending returns queued orders", func(t *testing.T) {
		orders, err := repo.FetchPending(ctx, shared.DefaultFilter())
		require.NoError(t, err)
		assert.Len(t, orders, 2)
	})

	t.Run("search ignores accents and case", func(t *testing.T) {
		filter := shared.DefaultFilter()
		filter.Search = "PENA"
		orders, err := repo.FetchPending(ctx, filter)
		require.NoError(t, err)
		require.Len(t, orders, 1)
		assert.Equal(t, queued.ID, orders[0].ID)
	})

	t.Run("search matches SKUs", func(t *testing.T) {
		filter := shared.DefaultFilter()
		filter.Search = "x-5"
		orders, err := repo.FetchPending(ctx, filter)
		require.NoError(t, err)
		require.Len(t, orders, 1)
		assert.Equal(t, other.ID, orders[0].ID)
	})

	t.Run("paginates", func(t *testing.T) {
		filter := shared.DefaultFilter()
		filter.PageSize = 1
		filter.Page = 2
		orders, err := repo.FetchPending(ctx, filter)
		require.NoError(t, err)
		assert.Len(t, orders, 1)
	})
}

func TestGormOrderRepository_UpdateStatus(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormOrderRepository(db)
	ctx := context.Background()
	operator := uuid.New()

	order := newTestOrder(t, fulfillment.DraftStatusQueued, "Cliente", "A-1", "B-2")
	require.NoError(t, repo.Create(ctx, order))

	_, err := order.ToggleItem("A-1", operator)
	require.NoError(t, err)
	require.NoError(t, repo.UpdateStatus(ctx, order))
	assert.Equal(t, 2, order.Version)

	found, err := repo.FindByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, fulfillment.PhasePacking, found.Phase)
	assert.Equal(t, fulfillment.ItemReady, found.Items[0].State)
	assert.Equal(t, fulfillment.ItemPending, found.Items[1].State)
	assert.NotNil(t, found.SeenAt)
	assert.NotNil(t, found.PackingStartedAt)
	assert.Nil(t, found.PackingFinishedAt)
	assert.Equal(t, operator, found.UpdatedBy)
	assert.Equal(t, 2, found.Version)

	t.Run("stale version is rejected", func(t *testing.T) {
		stale := found
		stale.Version = 1
		err := repo.UpdateStatus(ctx, stale)
		assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)
		assert.Equal(t, 1, stale.Version)
	})

	t.Run("missing order", func(t *testing.T) {
		ghost := newTestOrder(t, fulfillment.DraftStatusQueued, "Nadie", "G-1")
		ghost.ID = 9999
		err := repo.UpdateStatus(ctx, ghost)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestGormOrderRepository_Delete(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormOrderRepository(db)
	ctx := context.Background()

	order := newTestOrder(t, fulfillment.DraftStatusQuote, "Cliente", "A-1")
	require.NoError(t, repo.Create(ctx, order))

	require.NoError(t, repo.Delete(ctx, order.ID))
	_, err := repo.FindByID(ctx, order.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	var items int64
	require.NoError(t, db.Table("order_items").Where("order_id = ?", order.ID).Count(&items).Error)
	assert.Zero(t, items)

	assert.ErrorIs(t, repo.Delete(ctx, order.ID), shared.ErrNotFound)
}

func TestFoldSearch(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"María  Peña", "maria pena"},
		{"ÁÉÍÓÚ ü", "aeiou u"},
		{"  SKU-12 ", "sku-12"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, foldSearch(tt.in))
		})
	}
}
