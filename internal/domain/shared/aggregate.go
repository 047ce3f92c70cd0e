package shared

import (
	"time"

	"github.com/google/uuid"
)

// AggregateRoot is a record saved as a unit behind an optimistic version
// check. Pending events are published by the application layer after the
// save commits.
type AggregateRoot interface {
	GetID() uuid.UUID
	GetVersion() int
	AddDomainEvent(event DomainEvent)
	GetDomainEvents() []DomainEvent
	ClearDomainEvents()
}

// Identity is the key and audit stamps of a record. ID and CreatedAt never
// change after creation.
type Identity struct {
	ID        uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
}

// GetID returns the record ID
func (e *Identity) GetID() uuid.UUID {
	return e.ID
}

// BaseAggregateRoot is embedded by every aggregate. Version starts at 1
// and grows by one per persisted change.
type BaseAggregateRoot struct {
	Identity
	Version      int
	domainEvents []DomainEvent
}

// NewBaseAggregateRoot stamps a fresh identity at now
func NewBaseAggregateRoot(now time.Time) BaseAggregateRoot {
	return BaseAggregateRoot{
		Identity: Identity{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		Version:  1,
	}
}

// GetVersion returns the version the record was loaded or created with,
// plus one per change since
func (a *BaseAggregateRoot) GetVersion() int {
	return a.Version
}

// Mutated records a state change at now. SaveWithLock expects the stored
// row to be exactly one version behind.
func (a *BaseAggregateRoot) Mutated(now time.Time) {
	a.UpdatedAt = now
	a.Version++
}

// AddDomainEvent queues an event for publication
func (a *BaseAggregateRoot) AddDomainEvent(event DomainEvent) {
	a.domainEvents = append(a.domainEvents, event)
}

// GetDomainEvents returns the queued events
func (a *BaseAggregateRoot) GetDomainEvents() []DomainEvent {
	return a.domainEvents
}

// ClearDomainEvents drops the queued events
func (a *BaseAggregateRoot) ClearDomainEvents() {
	a.domainEvents = nil
}
