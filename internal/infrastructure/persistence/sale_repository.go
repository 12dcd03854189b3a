package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/pos/backend/internal/domain/payment"
	"github.com/pos/backend/internal/domain/sale"
	"github.com/pos/backend/internal/domain/shared"
	"github.com/pos/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormSaleRepository implements sale.Store using GORM. Each mutating method
// runs in a single transaction together with its stock movements.
type GormSaleRepository struct {
	db *gorm.DB
}

// NewGormSaleRepository creates a new GormSaleRepository
func NewGormSaleRepository(db *gorm.DB) *GormSaleRepository {
	return &GormSaleRepository{db: db}
}

// RegisterSale inserts the sale, its items and payments and takes the units out of stock
func (r *GormSaleRepository) RegisterSale(ctx context.Context, s *sale.Sale) error {
	model := models.SaleModelFromDomain(s)
	var paymentRows []models.SalePaymentModel

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(model).Error; err != nil {
			return err
		}
		rows, err := insertPayments(tx, model.ID, s.Payments)
		if err != nil {
			return err
		}
		paymentRows = rows
		return adjustStock(tx, itemDeltas(s.Items, -1))
	})
	if err != nil {
		return err
	}

	s.ID = model.ID
	for i := range s.Items {
		s.Items[i].ID = model.Items[i].ID
	}
	for i := range s.Payments {
		s.Payments[i].ID = paymentRows[i].ID
	}
	return nil
}

// FindByID finds a sale with items, payments, returns and modifications
func (r *GormSaleRepository) FindByID(ctx context.Context, id int64) (*sale.Sale, error) {
	var model models.SaleModel
	if err := r.withChildren(r.db.WithContext(ctx)).
		Preload("Returns", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC, id ASC") }).
		Preload("Returns.Lines", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Preload("Returns.Refunds", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Preload("Modifications", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC, id ASC") }).
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FetchConsignments returns layaway sales that still have a balance
func (r *GormSaleRepository) FetchConsignments(ctx context.Context, filter shared.Filter) ([]sale.Sale, error) {
	query := r.db.WithContext(ctx).Model(&models.SaleModel{}).Where("status = ?", sale.StatusConsignment)
	query = applyPage(r.withChildren(query), filter, SaleSortFields)

	var rows []models.SaleModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}

	sales := make([]sale.Sale, len(rows))
	for i := range rows {
		sales[i] = *rows[i].ToDomain()
	}
	return sales, nil
}

// RecordPayment inserts a layaway payment and stores the sale status it led to
func (r *GormSaleRepository) RecordPayment(ctx context.Context, s *sale.Sale, p *payment.Payment) error {
	updatedAt := stampTime(s.UpdatedAt)
	var row models.SalePaymentModel

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := updateVersioned(tx, &models.SaleModel{}, s.ID, s.Version, map[string]interface{}{
			"status":     s.Status,
			"updated_at": updatedAt,
		}); err != nil {
			return err
		}
		row = models.SalePaymentModelFromDomain(s.ID, *p)
		return tx.Create(&row).Error
	})
	if err != nil {
		return err
	}

	p.ID = row.ID
	if n := len(s.Payments); n > 0 && s.Payments[n-1].ID == 0 {
		s.Payments[n-1].ID = row.ID
	}
	s.Committed(updatedAt)
	return nil
}

// Modify replaces items and payments, moves the stock difference and keeps the modification record
func (r *GormSaleRepository) Modify(ctx context.Context, s *sale.Sale, mod *sale.Modification) error {
	updatedAt := stampTime(s.UpdatedAt)
	model := models.SaleModelFromDomain(s)
	var paymentRows []models.SalePaymentModel
	modRow := models.SaleModificationModel{
		SaleID:        s.ID,
		Reason:        mod.Reason,
		PreviousTotal: mod.PreviousTotal,
		NewTotal:      mod.NewTotal,
		CreatedBy:     mod.CreatedBy,
		CreatedAt:     mod.CreatedAt,
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var previous []models.SaleItemModel
		if err := tx.Where("sale_id = ?", s.ID).Find(&previous).Error; err != nil {
			return err
		}

		if err := updateVersioned(tx, &models.SaleModel{}, s.ID, s.Version, map[string]interface{}{
			"status":     s.Status,
			"subtotal":   s.Subtotal,
			"discount":   s.Discount,
			"tax":        s.Tax,
			"total":      s.Total,
			"updated_at": updatedAt,
		}); err != nil {
			return err
		}

		if err := tx.Where("sale_id = ?", s.ID).Delete(&models.SaleItemModel{}).Error; err != nil {
			return err
		}
		for i := range model.Items {
			model.Items[i].ID = 0
		}
		if len(model.Items) > 0 {
			if err := tx.Create(&model.Items).Error; err != nil {
				return err
			}
		}

		rows, err := syncPayments(tx, s.ID, s.Payments)
		if err != nil {
			return err
		}
		paymentRows = rows

		if err := tx.Create(&modRow).Error; err != nil {
			return err
		}

		deltas := make(map[string]int, len(previous)+len(s.Items))
		for _, old := range previous {
			deltas[old.SKU] += old.Quantity
		}
		for sku, delta := range itemDeltas(s.Items, -1) {
			deltas[sku] += delta
		}
		return adjustStock(tx, deltas)
	})
	if err != nil {
		return err
	}

	for i := range s.Items {
		s.Items[i].ID = model.Items[i].ID
	}
	for i := range s.Payments {
		s.Payments[i].ID = paymentRows[i].ID
	}
	mod.ID = modRow.ID
	if n := len(s.Modifications); n > 0 {
		s.Modifications[n-1].ID = modRow.ID
	}
	s.Committed(updatedAt)
	return nil
}

// RegisterReturn stores the return with its lines and refunds and puts the units back in stock
func (r *GormSaleRepository) RegisterReturn(ctx context.Context, s *sale.Sale, ret *sale.Return) error {
	updatedAt := stampTime(s.UpdatedAt)
	row := models.SaleReturnModelFromDomain(s.ID, ret)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := updateVersioned(tx, &models.SaleModel{}, s.ID, s.Version, map[string]interface{}{
			"status":     s.Status,
			"updated_at": updatedAt,
		}); err != nil {
			return err
		}

		for _, item := range s.Items {
			if err := tx.Model(&models.SaleItemModel{}).
				Where("id = ? AND sale_id = ?", item.ID, s.ID).
				Update("returned_quantity", item.ReturnedQuantity).Error; err != nil {
				return err
			}
		}

		if err := tx.Create(row).Error; err != nil {
			return err
		}

		deltas := make(map[string]int, len(ret.Lines))
		for _, line := range ret.Lines {
			deltas[line.SKU] += line.Quantity
		}
		return adjustStock(tx, deltas)
	})
	if err != nil {
		return err
	}

	ret.ID = row.ID
	ret.SaleID = s.ID
	if n := len(s.Returns); n > 0 {
		s.Returns[n-1].ID = row.ID
		s.Returns[n-1].SaleID = s.ID
	}
	s.Committed(updatedAt)
	return nil
}

func (r *GormSaleRepository) withChildren(query *gorm.DB) *gorm.DB {
	return query.
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC, id ASC") }).
		Preload("Payments", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC, id ASC") })
}

func insertPayments(tx *gorm.DB, saleID int64, payments []payment.Payment) ([]models.SalePaymentModel, error) {
	rows := make([]models.SalePaymentModel, len(payments))
	for i, p := range payments {
		rows[i] = models.SalePaymentModelFromDomain(saleID, p)
		rows[i].ID = 0
	}
	if len(rows) == 0 {
		return rows, nil
	}
	if err := tx.Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// syncPayments brings sale_payments in line with payments. Rows of recorded
// payments are updated in place so they keep their session and time, rows no
// longer listed are removed and new payments are inserted.
func syncPayments(tx *gorm.DB, saleID int64, payments []payment.Payment) ([]models.SalePaymentModel, error) {
	kept := make([]int64, 0, len(payments))
	for _, p := range payments {
		if p.ID != 0 {
			kept = append(kept, p.ID)
		}
	}
	stale := tx.Where("sale_id = ?", saleID)
	if len(kept) > 0 {
		stale = stale.Where("id NOT IN ?", kept)
	}
	if err := stale.Delete(&models.SalePaymentModel{}).Error; err != nil {
		return nil, err
	}

	rows := make([]models.SalePaymentModel, len(payments))
	var added []payment.Payment
	for i, p := range payments {
		rows[i] = models.SalePaymentModelFromDomain(saleID, p)
		if p.ID == 0 {
			added = append(added, p)
			continue
		}
		res := tx.Model(&models.SalePaymentModel{}).
			Where("id = ? AND sale_id = ?", p.ID, saleID).
			Updates(map[string]interface{}{"method": p.Method, "amount": p.Amount})
		if res.Error != nil {
			return nil, res.Error
		}
		if res.RowsAffected == 0 {
			return nil, fmt.Errorf("payment %d of sale %d: %w", p.ID, saleID, shared.ErrNotFound)
		}
	}

	inserted, err := insertPayments(tx, saleID, added)
	if err != nil {
		return nil, err
	}
	next := 0
	for i := range rows {
		if rows[i].ID == 0 {
			rows[i] = inserted[next]
			next++
		}
	}
	return rows, nil
}

// itemDeltas turns item quantities into stock deltas, multiplied by sign
func itemDeltas(items []sale.Item, sign int) map[string]int {
	deltas := make(map[string]int, len(items))
	for _, item := range items {
		deltas[item.SKU] += sign * item.Quantity
	}
	return deltas
}

func stampTime(t time.Time) time.Time {
	if t.IsZero() {
		return time.Now()
	}
	return t
}

var _ sale.Store = (*GormSaleRepository)(nil)
