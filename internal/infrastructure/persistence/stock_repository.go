package persistence

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/pos/backend/internal/domain/shared"
	"github.com/pos/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// StockLevel is the on-hand quantity of one SKU
type StockLevel struct {
	SKU       string
	Quantity  int
	UpdatedAt time.Time
}

// GormStockRepository reads and sets on-hand quantities. Sales adjust the same
// rows inside their own transactions.
type GormStockRepository struct {
	db *gorm.DB
}

// NewGormStockRepository creates a new GormStockRepository
func NewGormStockRepository(db *gorm.DB) *GormStockRepository {
	return &GormStockRepository{db: db}
}

// Get returns the stock level of a tracked SKU, or shared.ErrNotFound
func (r *GormStockRepository) Get(ctx context.Context, sku string) (*StockLevel, error) {
	var row models.StockItemModel
	if err := r.db.WithContext(ctx).First(&row, "sku = ?", sku).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &StockLevel{SKU: row.SKU, Quantity: row.Quantity, UpdatedAt: row.UpdatedAt}, nil
}

// Set starts tracking a SKU or overwrites its quantity
func (r *GormStockRepository) Set(ctx context.Context, sku string, quantity int) (*StockLevel, error) {
	if quantity < 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Stock quantity cannot be negative")
	}
	row := models.StockItemModel{SKU: sku, Quantity: quantity, UpdatedAt: time.Now()}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "sku"}},
		DoUpdates: clause.AssignmentColumns([]string{"quantity", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return nil, err
	}
	return &StockLevel{SKU: row.SKU, Quantity: row.Quantity, UpdatedAt: row.UpdatedAt}, nil
}

// adjustStock adds delta[sku] to every tracked SKU; negative deltas take units out.
// Rows are locked in SKU order so concurrent sales cannot deadlock. SKUs without
// a stock row are not tracked and are skipped.
func adjustStock(tx *gorm.DB, deltas map[string]int) error {
	skus := make([]string, 0, len(deltas))
	for sku, delta := range deltas {
		if delta != 0 {
			skus = append(skus, sku)
		}
	}
	if len(skus) == 0 {
		return nil
	}
	sort.Strings(skus)

	var rows []models.StockItemModel
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("sku IN ?", skus).
		Order("sku").
		Find(&rows).Error; err != nil {
		return err
	}

	now := time.Now()
	for _, row := range rows {
		next := row.Quantity + deltas[row.SKU]
		if next < 0 {
			return shared.NewDomainError(shared.ErrInsufficientStock.Code,
				fmt.Sprintf("Only %d units of %s in stock", row.Quantity, row.SKU))
		}
		if err := tx.Model(&models.StockItemModel{}).
			Where("sku = ?", row.SKU).
			Updates(map[string]interface{}{"quantity": next, "updated_at": now}).Error; err != nil {
			return err
		}
	}
	return nil
}
