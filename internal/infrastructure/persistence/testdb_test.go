package persistence

import (
	"testing"

	"github.com/pos/backend/internal/infrastructure/persistence/models"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupTestDB creates an in-memory SQLite database with the POS schema.
// A single connection keeps every transaction on the same in-memory database.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(
		&models.OperatorModel{},
		&models.RegisterSessionModel{},
		&models.OrderModel{},
		&models.OrderItemModel{},
		&models.OrderPaymentModel{},
		&models.SaleModel{},
		&models.SaleItemModel{},
		&models.SalePaymentModel{},
		&models.SaleReturnModel{},
		&models.ReturnLineModel{},
		&models.SaleRefundModel{},
		&models.SaleModificationModel{},
		&models.StockItemModel{},
	))
	return db
}
