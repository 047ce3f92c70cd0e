// Package testutil provides shared fakes and helpers for tests.
package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/medishare/backend/internal/domain/shared"
)

// EventRecorder keeps every event it sees. It serves as a bus handler
// subscribed to the given types (all types when none are given) and as
// the publisher handed to application services.
type EventRecorder struct {
	mu         sync.Mutex
	subscribed []string
	events     []shared.DomainEvent
	err        error
}

// NewEventRecorder creates a recorder subscribed to eventTypes
func NewEventRecorder(eventTypes ...string) *EventRecorder {
	return &EventRecorder{subscribed: eventTypes}
}

// EventTypes returns the subscription, as shared.EventHandler requires
func (r *EventRecorder) EventTypes() []string {
	return r.subscribed
}

// Handle records event and returns the error set with FailWith
func (r *EventRecorder) Handle(_ context.Context, event shared.DomainEvent) error {
	return r.record(event)
}

// Publish records events and returns the error set with FailWith
func (r *EventRecorder) Publish(_ context.Context, events ...shared.DomainEvent) error {
	return r.record(events...)
}

func (r *EventRecorder) record(events ...shared.DomainEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, events...)
	return r.err
}

// FailWith makes later Handle and Publish calls return err after recording
func (r *EventRecorder) FailWith(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.err = err
}

// Events returns a copy of the recorded events in arrival order
func (r *EventRecorder) Events() []shared.DomainEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]shared.DomainEvent(nil), r.events...)
}

// Types returns the type of each recorded event in arrival order
func (r *EventRecorder) Types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	types := make([]string, len(r.events))
	for i, e := range r.events {
		types[i] = e.EventType()
	}
	return types
}

// Len reports how many events were recorded
func (r *EventRecorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}

// Reset forgets recorded events and clears the failure
func (r *EventRecorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
	r.err = nil
}

// TestEvent is a bare event of any type
type TestEvent struct {
	shared.BaseDomainEvent
	Data string
}

// NewTestEvent creates a TestEvent for a random aggregate
func NewTestEvent(eventType string) *TestEvent {
	return &TestEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, "TestAggregate", uuid.New(), time.Now()),
		Data:            "test-data",
	}
}

var (
	_ shared.EventHandler   = (*EventRecorder)(nil)
	_ shared.EventPublisher = (*EventRecorder)(nil)
)
