package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/pos/backend/internal/domain/identity"
	"github.com/pos/backend/internal/domain/shared"
	"github.com/pos/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormOperatorRepository implements identity.OperatorRepository using GORM
type GormOperatorRepository struct {
	db *gorm.DB
}

// NewGormOperatorRepository creates a new GormOperatorRepository
func NewGormOperatorRepository(db *gorm.DB) *GormOperatorRepository {
	return &GormOperatorRepository{db: db}
}

// FindByID finds an operator by ID
func (r *GormOperatorRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.Operator, error) {
	return r.findOne(ctx, "id = ?", id)
}

// FindByUsername finds an operator by username, ignoring case
func (r *GormOperatorRepository) FindByUsername(ctx context.Context, username string) (*identity.Operator, error) {
	return r.findOne(ctx, "username = ?", strings.ToLower(strings.TrimSpace(username)))
}

// Create inserts a new operator
func (r *GormOperatorRepository) Create(ctx context.Context, op *identity.Operator) error {
	err := r.db.WithContext(ctx).Create(models.OperatorModelFromDomain(op)).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return shared.NewDomainError(shared.ErrAlreadyExists.Code, "Username is already taken")
	}
	return err
}

// Save updates an existing operator
func (r *GormOperatorRepository) Save(ctx context.Context, op *identity.Operator) error {
	result := r.db.WithContext(ctx).Model(&models.OperatorModel{}).
		Where("id = ?", op.ID).
		Updates(map[string]interface{}{
			"display_name":  op.DisplayName,
			"password_hash": op.PasswordHash,
			"role":          op.Role,
			"active":        op.Active,
			"updated_at":    op.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *GormOperatorRepository) findOne(ctx context.Context, query string, arg interface{}) (*identity.Operator, error) {
	var model models.OperatorModel
	if err := r.db.WithContext(ctx).Where(query, arg).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

var _ identity.OperatorRepository = (*GormOperatorRepository)(nil)
