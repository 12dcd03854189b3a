package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/pos/backend/internal/domain/payment"
	"github.com/pos/backend/internal/domain/register"
	"github.com/pos/backend/internal/domain/sale"
	"github.com/pos/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestSession(t *testing.T, repo *GormSessionRepository, operatorID uuid.UUID) *register.Session {
	t.Helper()
	session, err := register.NewSession(operatorID, decimal.NewFromInt(1000))
	require.NoError(t, err)
	require.NoError(t, repo.Open(context.Background(), session))
	return session
}

func TestGormSessionRepository_OpenAndGetOpen(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormSessionRepository(db)
	ctx := context.Background()
	operatorID := uuid.New()

	_, err := repo.GetOpen(ctx, operatorID)
	assert.ErrorIs(t, err, register.ErrNoOpenSession)

	session := openTestSession(t, repo, operatorID)
	require.NotZero(t, session.ID)

	found, err := repo.GetOpen(ctx, operatorID)
	require.NoError(t, err)
	assert.Equal(t, session.ID, found.ID)
	assert.True(t, found.OpeningAmount.Equal(decimal.NewFromInt(1000)))
	assert.True(t, found.IsOpen())

	t.Run("second open session is rejected", func(t *testing.T) {
		again, err := register.NewSession(operatorID, decimal.NewFromInt(50))
		require.NoError(t, err)
		assert.ErrorIs(t, repo.Open(ctx, again), register.ErrSessionAlreadyOpen)
	})

	t.Run("other operators are independent", func(t *testing.T) {
		other := openTestSession(t, repo, uuid.New())
		assert.NotEqual(t, session.ID, other.ID)
	})
}

func TestGormSessionRepository_Close(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormSessionRepository(db)
	ctx := context.Background()
	operatorID := uuid.New()

	session := openTestSession(t, repo, operatorID)
	require.NoError(t, session.Close(decimal.NewFromInt(1500)))
	require.NoError(t, repo.Close(ctx, session))
	assert.Equal(t, 2, session.Version)

	_, err := repo.GetOpen(ctx, operatorID)
	assert.ErrorIs(t, err, register.ErrNoOpenSession)

	t.Run("operator can open a new session after closing", func(t *testing.T) {
		next := openTestSession(t, repo, operatorID)
		assert.NotEqual(t, session.ID, next.ID)
	})

	t.Run("stale close is rejected", func(t *testing.T) {
		session.Version = 1
		assert.ErrorIs(t, repo.Close(ctx, session), shared.ErrConcurrencyConflict)
	})
}

func TestGormSessionRepository_Activity(t *testing.T) {
	db := setupTestDB(t)
	sessions := NewGormSessionRepository(db)
	sales := NewGormSaleRepository(db)
	ctx := context.Background()

	session := openTestSession(t, sessions, uuid.New())
	other := openTestSession(t, sessions, uuid.New())

	card := payment.Payment{Method: payment.MethodCard, Amount: decimal.NewFromInt(600)}
	require.NoError(t, sales.RegisterSale(ctx, newTestSale(t, session.ID, false, cash(400), card)))
	require.NoError(t, sales.RegisterSale(ctx, newTestSale(t, session.ID, true, cash(200))))
	require.NoError(t, sales.RegisterSale(ctx, newTestSale(t, other.ID, false, cash(1000))))

	// a layaway payment taken in this session for a sale made in the other one
	layaway := newTestSale(t, other.ID, true)
	require.NoError(t, sales.RegisterSale(ctx, layaway))
	result, err := layaway.AddPayment(payment.MethodCash, decimal.NewFromInt(300), session.ID, uuid.New())
	require.NoError(t, err)
	require.NoError(t, sales.RecordPayment(ctx, layaway, &result.Payment))

	// a refund handed out of this session
	sold := newTestSale(t, other.ID, false, cash(1000))
	require.NoError(t, sales.RegisterSale(ctx, sold))
	refund := cash(500)
	refund.SessionID = session.ID
	ret, err := sold.RegisterReturn([]sale.ReturnLine{{SKU: "SKU-1", Quantity: 1}}, []payment.Payment{refund}, "falla", uuid.New())
	require.NoError(t, err)
	require.NoError(t, sales.RegisterReturn(ctx, sold, ret))

	activity, err := sessions.Activity(ctx, session.ID)
	require.NoError(t, err)
	assert.True(t, activity.PaymentsByMethod[payment.MethodCash].Equal(decimal.NewFromInt(400)),
		"cash: 400 + 200 + 300 - 500, got %s", activity.PaymentsByMethod[payment.MethodCash])
	assert.True(t, activity.PaymentsByMethod[payment.MethodCard].Equal(decimal.NewFromInt(600)))
	assert.Equal(t, 1, activity.SalesByStatus[string(sale.StatusDelivered)])
	assert.Equal(t, 1, activity.SalesByStatus[string(sale.StatusConsignment)])

	summary := register.NewSummary(session, *activity, nil, session.OpenedAt)
	assert.True(t, summary.Expected.Equal(decimal.NewFromInt(2000)))
}

func TestGormSessionRepository_ActivityAfterModify(t *testing.T) {
	db := setupTestDB(t)
	sessions := NewGormSessionRepository(db)
	sales := NewGormSaleRepository(db)
	ctx := context.Background()

	first := openTestSession(t, sessions, uuid.New())
	layaway := newTestSale(t, first.ID, true, cash(400))
	require.NoError(t, sales.RegisterSale(ctx, layaway))
	require.NoError(t, first.Close(decimal.NewFromInt(1400)))
	require.NoError(t, sessions.Close(ctx, first))

	second := openTestSession(t, sessions, uuid.New())
	requested := []payment.Payment{
		{ID: layaway.Payments[0].ID, Method: payment.MethodCash, Amount: decimal.NewFromInt(400)},
		cash(100),
	}
	mod, err := layaway.Modify(layaway.Items, requested, decimal.NewFromInt(50), "descuento", uuid.New(), second.ID)
	require.NoError(t, err)
	require.NoError(t, sales.Modify(ctx, layaway, mod))

	before, err := sessions.Activity(ctx, first.ID)
	require.NoError(t, err)
	assert.True(t, before.PaymentsByMethod[payment.MethodCash].Equal(decimal.NewFromInt(400)),
		"closed session keeps its cash, got %s", before.PaymentsByMethod[payment.MethodCash])

	after, err := sessions.Activity(ctx, second.ID)
	require.NoError(t, err)
	assert.True(t, after.PaymentsByMethod[payment.MethodCash].Equal(decimal.NewFromInt(100)),
		"only the new payment is booked here, got %s", after.PaymentsByMethod[payment.MethodCash])

	found, err := sales.FindByID(ctx, layaway.ID)
	require.NoError(t, err)
	require.Len(t, found.Payments, 2)
	assert.Equal(t, layaway.Payments[0].ID, found.Payments[0].ID)
	assert.Equal(t, first.ID, found.Payments[0].SessionID)
	assert.Equal(t, second.ID, found.Payments[1].SessionID)
}
