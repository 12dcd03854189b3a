package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/pos/backend/internal/domain/register"
	"github.com/shopspring/decimal"
)

// RegisterSessionModel is the persistence model for a cash register session.
// The partial unique index allows at most one unclosed session per operator.
type RegisterSessionModel struct {
	AggregateModel
	OperatorID    uuid.UUID        `gorm:"type:uuid;not null;index;uniqueIndex:idx_register_sessions_open,where:closed_at IS NULL"`
	OpeningAmount decimal.Decimal  `gorm:"type:decimal(18,2);not null"`
	CountedAmount *decimal.Decimal `gorm:"type:decimal(18,2)"`
	OpenedAt      time.Time        `gorm:"not null"`
	ClosedAt      *time.Time
}

// TableName returns the table name for GORM
func (RegisterSessionModel) TableName() string {
	return "register_sessions"
}

// ToDomain converts the persistence model to a domain Session.
func (m *RegisterSessionModel) ToDomain() *register.Session {
	return &register.Session{
		BaseAggregateRoot: m.ToAggregateRoot(),
		OperatorID:        m.OperatorID,
		OpeningAmount:     m.OpeningAmount,
		CountedAmount:     m.CountedAmount,
		OpenedAt:          m.OpenedAt,
		ClosedAt:          m.ClosedAt,
	}
}

// RegisterSessionModelFromDomain creates a new persistence model from a domain Session.
func RegisterSessionModelFromDomain(s *register.Session) *RegisterSessionModel {
	m := &RegisterSessionModel{
		OperatorID:    s.OperatorID,
		OpeningAmount: s.OpeningAmount,
		CountedAmount: s.CountedAmount,
		OpenedAt:      s.OpenedAt,
		ClosedAt:      s.ClosedAt,
	}
	m.FromDomainAggregateRoot(s.BaseAggregateRoot)
	return m
}
