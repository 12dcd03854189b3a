package register

import (
	"context"

	"github.com/google/uuid"
)

// SessionStore defines the interface for register session persistence
type SessionStore interface {
	// GetOpen returns the most recent unclosed session of the operator, or ErrNoOpenSession
	GetOpen(ctx context.Context, operatorID uuid.UUID) (*Session, error)

	// Open persists a new session and assigns its ID. It fails with
	// ErrSessionAlreadyOpen when the operator already has an unclosed session.
	Open(ctx context.Context, s *Session) error

	// Close persists the counted amount and closing time with a version check
	Close(ctx context.Context, s *Session) error

	// Activity aggregates payments and sales recorded under the session
	Activity(ctx context.Context, sessionID int64) (*Activity, error)
}
