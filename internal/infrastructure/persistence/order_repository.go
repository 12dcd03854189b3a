package persistence

import (
	"context"
	"errors"

	"github.com/pos/backend/internal/domain/fulfillment"
	"github.com/pos/backend/internal/domain/shared"
	"github.com/pos/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormOrderRepository implements fulfillment.OrderStore using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// Create inserts the order with its items and payments
func (r *GormOrderRepository) Create(ctx context.Context, order *fulfillment.Order) error {
	model := models.OrderModelFromDomain(order)
	model.SearchKey = searchKeyFor(order)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(model).Error
	})
	if err != nil {
		return err
	}

	order.ID = model.ID
	for i := range order.Items {
		order.Items[i].ID = model.Items[i].ID
	}
	for i := range order.Payments {
		order.Payments[i].ID = model.Payments[i].ID
	}
	return nil
}

// FindByID finds an order by its ID
func (r *GormOrderRepository) FindByID(ctx context.Context, id int64) (*fulfillment.Order, error) {
	var model models.OrderModel
	if err := r.withChildren(r.db.WithContext(ctx)).
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FetchPending returns orders queued for the warehouse
func (r *GormOrderRepository) FetchPending(ctx context.Context, filter shared.Filter) ([]fulfillment.Order, error) {
	return r.FetchByStatus(ctx, fulfillment.DraftStatusQueued, filter)
}

// FetchByStatus returns orders in the given draft status
func (r *GormOrderRepository) FetchByStatus(ctx context.Context, status fulfillment.DraftStatus, filter shared.Filter) ([]fulfillment.Order, error) {
	query := r.db.WithContext(ctx).Model(&models.OrderModel{}).Where("status = ?", status)
	if filter.Search != "" {
		query = applySearch(query, filter.Search)
	}
	query = applyPage(r.withChildren(query), filter, OrderSortFields)

	var rows []models.OrderModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}

	orders := make([]fulfillment.Order, len(rows))
	for i := range rows {
		orders[i] = *rows[i].ToDomain()
	}
	return orders, nil
}

// UpdateStatus saves the fulfillment progress with optimistic locking (version check).
// order.Version is only advanced once the transaction commits.
func (r *GormOrderRepository) UpdateStatus(ctx context.Context, order *fulfillment.Order) error {
	updatedAt := stampTime(order.UpdatedAt)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := updateVersioned(tx, &models.OrderModel{}, order.ID, order.Version, map[string]interface{}{
			"status":              order.Status,
			"phase":               order.Phase,
			"notes":               order.Notes,
			"updated_by":          order.UpdatedBy,
			"seen_at":             order.SeenAt,
			"packing_started_at":  order.PackingStartedAt,
			"packing_finished_at": order.PackingFinishedAt,
			"received_at":         order.ReceivedAt,
			"delivered_at":        order.DeliveredAt,
			"updated_at":          updatedAt,
		}); err != nil {
			return err
		}

		for _, item := range order.Items {
			if err := tx.Model(&models.OrderItemModel{}).
				Where("id = ? AND order_id = ?", item.ID, order.ID).
				Update("state", item.State).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	order.Committed(updatedAt)
	return nil
}

// Delete removes an order with its items and payments
func (r *GormOrderRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", id).Delete(&models.OrderItemModel{}).Error; err != nil {
			return err
		}
		if err := tx.Where("order_id = ?", id).Delete(&models.OrderPaymentModel{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.OrderModel{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

func (r *GormOrderRepository) withChildren(query *gorm.DB) *gorm.DB {
	return query.
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC, id ASC") }).
		Preload("Payments", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC, id ASC") })
}

func searchKeyFor(order *fulfillment.Order) string {
	terms := make([]string, 0, len(order.Items)*2)
	for _, item := range order.Items {
		terms = append(terms, item.SKU, item.Name)
	}
	return orderSearchKey(order.Customer.Name, terms...)
}

var _ fulfillment.OrderStore = (*GormOrderRepository)(nil)
