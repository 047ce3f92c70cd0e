package event

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/medishare/backend/internal/domain/redistribution"
	"github.com/medishare/backend/internal/domain/shared"
	"github.com/medishare/backend/tests/testutil"
)

type panickingHandler struct{}

func (panickingHandler) Handle(context.Context, shared.DomainEvent) error { panic("boom") }
func (panickingHandler) EventTypes() []string                             { return nil }

func TestInMemoryEventBus_Publish(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	approved := testutil.NewEventRecorder(redistribution.EventTypeTransferApproved)
	bus.Subscribe(approved)

	event := testutil.NewTestEvent(redistribution.EventTypeTransferApproved)
	other := testutil.NewTestEvent(redistribution.EventTypeTransferRejected)
	require.NoError(t, bus.Publish(context.Background(), event, other))

	handled := approved.Events()
	require.Len(t, handled, 1)
	assert.Equal(t, event, handled[0])

	delivered, failed := bus.Stats()
	assert.Equal(t, int64(1), delivered)
	assert.Equal(t, int64(0), failed)
}

func TestInMemoryEventBus_ExplicitTypesOverrideHandlerTypes(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	handler := testutil.NewEventRecorder(redistribution.EventTypeTransferApproved)
	bus.Subscribe(handler, redistribution.EventTypeTransferCompleted)

	_ = bus.Publish(context.Background(),
		testutil.NewTestEvent(redistribution.EventTypeTransferApproved),
		testutil.NewTestEvent(redistribution.EventTypeTransferCompleted),
	)

	require.Equal(t, 1, handler.Len())
	assert.Equal(t, redistribution.EventTypeTransferCompleted, handler.Events()[0].EventType())
}

func TestInMemoryEventBus_Wildcard(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	all := testutil.NewEventRecorder()
	bus.Subscribe(all)

	_ = bus.Publish(context.Background(),
		testutil.NewTestEvent("Anything"),
		testutil.NewTestEvent(redistribution.EventTypeSurplusPosted),
	)
	assert.Equal(t, 2, all.Len())
}

func TestInMemoryEventBus_FailingHandlersDoNotStopDelivery(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	bus := NewInMemoryEventBus(zap.New(core))

	failing := testutil.NewEventRecorder()
	failing.FailWith(errors.New("disk full"))
	healthy := testutil.NewEventRecorder()
	bus.Subscribe(failing)
	bus.Subscribe(panickingHandler{})
	bus.Subscribe(healthy)

	event := testutil.NewTestEvent(redistribution.EventTypeTransferProposed)
	require.NoError(t, bus.Publish(context.Background(), event))

	assert.Equal(t, 1, failing.Len())
	assert.Equal(t, 1, healthy.Len())

	entries := logs.FilterMessage("event handler failed").All()
	require.Len(t, entries, 2)
	assert.Equal(t, event.EventID().String(), entries[0].ContextMap()["event_id"])

	delivered, failed := bus.Stats()
	assert.Equal(t, int64(1), delivered)
	assert.Equal(t, int64(2), failed)
}

func TestInMemoryEventBus_Unsubscribe(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	handler := testutil.NewEventRecorder("TestEvent")
	bus.Subscribe(handler)

	_ = bus.Publish(context.Background(), testutil.NewTestEvent("TestEvent"))
	bus.Unsubscribe(handler)
	_ = bus.Publish(context.Background(), testutil.NewTestEvent("TestEvent"))

	assert.Equal(t, 1, handler.Len())
}

func TestInMemoryEventBus_StartStop(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	handler := testutil.NewEventRecorder()
	bus.Subscribe(handler)

	require.NoError(t, bus.Start(context.Background()))
	require.NoError(t, bus.Publish(context.Background(), testutil.NewTestEvent("TestEvent")))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, bus.Stop(ctx))

	err := bus.Publish(context.Background(), testutil.NewTestEvent("TestEvent"))
	assert.ErrorIs(t, err, ErrBusStopped)
	assert.Equal(t, 1, handler.Len())

	require.NoError(t, bus.Start(context.Background()))
	assert.NoError(t, bus.Publish(context.Background(), testutil.NewTestEvent("TestEvent")))
}

type blockingHandler struct {
	entered chan struct{}
	release chan struct{}
}

func (h *blockingHandler) Handle(context.Context, shared.DomainEvent) error {
	close(h.entered)
	<-h.release
	return nil
}

func (h *blockingHandler) EventTypes() []string { return nil }

func TestInMemoryEventBus_StopWaitsForInflight(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	handler := &blockingHandler{entered: make(chan struct{}), release: make(chan struct{})}
	bus.Subscribe(handler)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = bus.Publish(context.Background(), testutil.NewTestEvent("TestEvent"))
	}()
	<-handler.entered

	short, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, bus.Stop(short), context.DeadlineExceeded)

	close(handler.release)
	wg.Wait()
	assert.NoError(t, bus.Stop(context.Background()))
}

func TestInMemoryEventBus_ConcurrentPublish(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	handler := testutil.NewEventRecorder()
	bus.Subscribe(handler)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = bus.Publish(context.Background(), testutil.NewTestEvent("TestEvent"))
		}()
	}
	wg.Wait()
	assert.Equal(t, 50, handler.Len())
}
