package shared

import (
	"time"

	"github.com/google/uuid"
)

// BaseEntity holds the identity and timestamps of a stored record.
// ID is assigned by the store on creation and stays zero until then.
type BaseEntity struct {
	ID        int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// BaseAggregateRoot is an entity with an optimistic-lock version and the
// events raised since it was loaded
type BaseAggregateRoot struct {
	BaseEntity
	Version      int
	domainEvents []DomainEvent
}

// NewBaseAggregateRoot stamps a new aggregate at version 1
func NewBaseAggregateRoot() BaseAggregateRoot {
	now := time.Now()
	return BaseAggregateRoot{
		BaseEntity: BaseEntity{CreatedAt: now, UpdatedAt: now},
		Version:    1,
	}
}

// Committed records a successful versioned write: the version the store
// now holds and the time it was written
func (a *BaseAggregateRoot) Committed(at time.Time) {
	a.Version++
	a.UpdatedAt = at
}

// AddDomainEvent queues an event for publishing
func (a *BaseAggregateRoot) AddDomainEvent(event DomainEvent) {
	a.domainEvents = append(a.domainEvents, event)
}

// GetDomainEvents returns the queued events
func (a *BaseAggregateRoot) GetDomainEvents() []DomainEvent {
	return a.domainEvents
}

// ClearDomainEvents drops the queued events once published
func (a *BaseAggregateRoot) ClearDomainEvents() {
	a.domainEvents = nil
}

// OperatedAggregateRoot is an aggregate created by a counter operator
type OperatedAggregateRoot struct {
	BaseAggregateRoot
	CreatedBy uuid.UUID
}

// NewOperatedAggregateRoot creates an aggregate attributed to an operator
func NewOperatedAggregateRoot(operatorID uuid.UUID) OperatedAggregateRoot {
	return OperatedAggregateRoot{
		BaseAggregateRoot: NewBaseAggregateRoot(),
		CreatedBy:         operatorID,
	}
}
