package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/pos/backend/internal/domain/payment"
	"github.com/pos/backend/internal/domain/register"
	"github.com/pos/backend/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormSessionRepository implements register.SessionStore using GORM
type GormSessionRepository struct {
	db *gorm.DB
}

// NewGormSessionRepository creates a new GormSessionRepository
func NewGormSessionRepository(db *gorm.DB) *GormSessionRepository {
	return &GormSessionRepository{db: db}
}

// GetOpen returns the operator's unclosed session
func (r *GormSessionRepository) GetOpen(ctx context.Context, operatorID uuid.UUID) (*register.Session, error) {
	var model models.RegisterSessionModel
	if err := r.db.WithContext(ctx).
		Where("operator_id = ? AND closed_at IS NULL", operatorID).
		Order("opened_at DESC, id DESC").
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, register.ErrNoOpenSession
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Open inserts a new session. The partial unique index on operator_id settles
// two terminals opening at once.
func (r *GormSessionRepository) Open(ctx context.Context, s *register.Session) error {
	model := models.RegisterSessionModelFromDomain(s)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var open int64
		if err := tx.Model(&models.RegisterSessionModel{}).
			Where("operator_id = ? AND closed_at IS NULL", s.OperatorID).
			Count(&open).Error; err != nil {
			return err
		}
		if open > 0 {
			return register.ErrSessionAlreadyOpen
		}
		return tx.Create(model).Error
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return register.ErrSessionAlreadyOpen
	}
	if err != nil {
		return err
	}

	s.ID = model.ID
	return nil
}

// Close stores the counted amount and closing time
func (r *GormSessionRepository) Close(ctx context.Context, s *register.Session) error {
	updatedAt := stampTime(s.UpdatedAt)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return updateVersioned(tx, &models.RegisterSessionModel{}, s.ID, s.Version, map[string]interface{}{
			"counted_amount": s.CountedAmount,
			"closed_at":      s.ClosedAt,
			"updated_at":     updatedAt,
		})
	})
	if err != nil {
		return err
	}
	s.Committed(updatedAt)
	return nil
}

type methodTotal struct {
	Method payment.Method
	Total  decimal.Decimal
}

type statusCount struct {
	Status string
	Count  int
}

// Activity sums the money taken under the session per method, net of refunds
// paid out of it, and counts the sales made in it per status.
func (r *GormSessionRepository) Activity(ctx context.Context, sessionID int64) (*register.Activity, error) {
	db := r.db.WithContext(ctx)

	var taken []methodTotal
	if err := db.Model(&models.SalePaymentModel{}).
		Select("method, SUM(amount) AS total").
		Where("session_id = ?", sessionID).
		Group("method").
		Scan(&taken).Error; err != nil {
		return nil, err
	}

	var refunded []methodTotal
	if err := db.Model(&models.SaleRefundModel{}).
		Select("method, SUM(amount) AS total").
		Where("session_id = ?", sessionID).
		Group("method").
		Scan(&refunded).Error; err != nil {
		return nil, err
	}

	var counts []statusCount
	if err := db.Model(&models.SaleModel{}).
		Select("status, COUNT(*) AS count").
		Where("session_id = ?", sessionID).
		Group("status").
		Scan(&counts).Error; err != nil {
		return nil, err
	}

	activity := &register.Activity{
		PaymentsByMethod: make(map[payment.Method]decimal.Decimal, len(taken)),
		SalesByStatus:    make(map[string]int, len(counts)),
	}
	for _, t := range taken {
		activity.PaymentsByMethod[t.Method] = activity.PaymentsByMethod[t.Method].Add(t.Total)
	}
	for _, t := range refunded {
		activity.PaymentsByMethod[t.Method] = activity.PaymentsByMethod[t.Method].Sub(t.Total)
	}
	for _, c := range counts {
		activity.SalesByStatus[c.Status] = c.Count
	}
	return activity, nil
}

var _ register.SessionStore = (*GormSessionRepository)(nil)
