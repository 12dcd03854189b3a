package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/pos/backend/internal/domain/identity"
)

// OperatorModel is the persistence model for an operator account.
type OperatorModel struct {
	ID           uuid.UUID     `gorm:"type:uuid;primaryKey"`
	Username     string        `gorm:"type:varchar(50);not null;uniqueIndex"`
	DisplayName  string        `gorm:"type:varchar(200);not null;default:''"`
	PasswordHash string        `gorm:"type:varchar(100);not null"`
	Role         identity.Role `gorm:"type:varchar(20);not null"`
	Active       bool          `gorm:"not null;default:true"`
	CreatedAt    time.Time     `gorm:"not null"`
	UpdatedAt    time.Time     `gorm:"not null"`
}

// TableName returns the table name for GORM
func (OperatorModel) TableName() string {
	return "operators"
}

// ToDomain converts the persistence model to a domain Operator.
func (m *OperatorModel) ToDomain() *identity.Operator {
	return &identity.Operator{
		ID:           m.ID,
		Username:     m.Username,
		DisplayName:  m.DisplayName,
		PasswordHash: m.PasswordHash,
		Role:         m.Role,
		Active:       m.Active,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

// OperatorModelFromDomain creates a new persistence model from a domain Operator.
func OperatorModelFromDomain(op *identity.Operator) *OperatorModel {
	return &OperatorModel{
		ID:           op.ID,
		Username:     op.Username,
		DisplayName:  op.DisplayName,
		PasswordHash: op.PasswordHash,
		Role:         op.Role,
		Active:       op.Active,
		CreatedAt:    op.CreatedAt,
		UpdatedAt:    op.UpdatedAt,
	}
}
