package shared

import (
	"context"
	"time"
)

// IdempotencyStore remembers request keys so a retried mutation is applied once
type IdempotencyStore interface {
	// MarkProcessed claims a key with a TTL
	// Returns true if the key was newly claimed, false if a claim already exists
	MarkProcessed(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// Complete records that the claimed request finished successfully
	Complete(ctx context.Context, key string, ttl time.Duration) error

	// IsProcessed reports whether the request behind the key has completed.
	// A key that is claimed but not completed is still in flight.
	IsProcessed(ctx context.Context, key string) (bool, error)

	// Release forgets a key so a failed attempt can be retried
	Release(ctx context.Context, key string) error

	// Close closes the store and releases resources
	Close() error
}

// IdempotencyConfig holds configuration for idempotency handling
type IdempotencyConfig struct {
	// TTL is how long a processed key is remembered
	TTL time.Duration

	// Enabled determines whether idempotency checking is enabled
	Enabled bool
}

// DefaultIdempotencyConfig returns the default idempotency configuration
func DefaultIdempotencyConfig() IdempotencyConfig {
	return IdempotencyConfig{
		TTL:     24 * time.Hour,
		Enabled: true,
	}
}
