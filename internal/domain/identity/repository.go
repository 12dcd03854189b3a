package identity

import (
	"context"

	"github.com/google/uuid"
)

// OperatorRepository defines the interface for operator persistence
type OperatorRepository interface {
	// FindByID finds an operator by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Operator, error)

	// FindByUsername finds an operator by username
	FindByUsername(ctx context.Context, username string) (*Operator, error)

	// Create persists a new operator
	Create(ctx context.Context, op *Operator) error

	// Save updates an existing operator
	Save(ctx context.Context, op *Operator) error
}
