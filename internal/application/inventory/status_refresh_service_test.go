package inventory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/medishare/backend/internal/domain/inventory"
	"github.com/medishare/backend/internal/domain/shared"
	"github.com/medishare/backend/tests/testutil"
)

// MockEventBus is a mock implementation of EventBus for testing
type MockEventBus struct {
	mock.Mock
}

func (m *MockEventBus) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	args := m.Called(ctx, events)
	return args.Error(0)
}

func (m *MockEventBus) Subscribe(handler shared.EventHandler, eventTypes ...string) {
	m.Called(handler, eventTypes)
}

func (m *MockEventBus) Unsubscribe(handler shared.EventHandler) {
	m.Called(handler)
}

func (m *MockEventBus) Start(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockEventBus) Stop(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func seedItem(t *testing.T, repo *testutil.InventoryRepository, qty int64, expiryDays int) *inventory.InventoryItem {
	t.Helper()
	item, err := inventory.NewInventoryItem(uuid.New(), uuid.New(), "B-1", qty, inventory.UnitVials,
		daysFromNow(expiryDays), inventory.DefaultStockPolicy(), testNow)
	require.NoError(t, err)
	require.NoError(t, repo.Save(context.Background(), item))
	return item
}

func statusOf(t *testing.T, repo *testutil.InventoryRepository, id uuid.UUID) inventory.StockStatus {
	t.Helper()
	item, err := repo.FindByID(context.Background(), id)
	require.NoError(t, err)
	return item.Status
}

func TestStatusRefreshService_Refresh(t *testing.T) {
	repo := testutil.NewInventoryRepository()
	stable := seedItem(t, repo, 100, 400)   // Low Stock, stays
	aging := seedItem(t, repo, 1000, 120)   // In Stock -> Expiring Soon
	expiring := seedItem(t, repo, 1000, 10) // Expiring Soon -> Expired

	bus := new(MockEventBus)
	bus.On("Publish", mock.Anything, mock.MatchedBy(func(events []shared.DomainEvent) bool {
		return len(events) == 1 && events[0].EventType() == inventory.EventTypeInventoryStatusChanged
	})).Return(nil)

	svc := NewStatusRefreshService(repo, inventory.DefaultStockPolicy(), bus, zap.NewNop())
	later := testNow.Add(40 * 24 * time.Hour)
	svc.SetClock(func() time.Time { return later })

	stats, err := svc.Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Scanned)
	assert.Equal(t, 2, stats.Changed)
	assert.Equal(t, 0, stats.Failed)
	assert.Equal(t, later, stats.ProcessedAt)

	assert.Equal(t, inventory.StockStatusLowStock, statusOf(t, repo, stable.ID))
	assert.Equal(t, inventory.StockStatusExpiringSoon, statusOf(t, repo, aging.ID))
	assert.Equal(t, inventory.StockStatusExpired, statusOf(t, repo, expiring.ID))
	bus.AssertNumberOfCalls(t, "Publish", 2)

	// A second run at the same instant is a no-op
	stats, err = svc.Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Changed)
	bus.AssertNumberOfCalls(t, "Publish", 2)
}

func TestStatusRefreshService_SaveFailures(t *testing.T) {
	later := testNow.Add(40 * 24 * time.Hour)

	t.Run("version conflict is skipped", func(t *testing.T) {
		repo := testutil.NewInventoryRepository()
		item := seedItem(t, repo, 1000, 10)
		repo.FailSave = shared.ErrConcurrencyConflict

		svc := NewStatusRefreshService(repo, inventory.DefaultStockPolicy(), nil, zap.NewNop())
		svc.SetClock(func() time.Time { return later })

		stats, err := svc.Refresh(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 1, stats.Conflicts)
		assert.Equal(t, 0, stats.Changed)
		assert.Equal(t, inventory.StockStatusExpiringSoon, statusOf(t, repo, item.ID))

		// The next run catches up
		stats, err = svc.Refresh(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 1, stats.Changed)
		assert.Equal(t, inventory.StockStatusExpired, statusOf(t, repo, item.ID))
	})

	t.Run("other errors are counted", func(t *testing.T) {
		repo := testutil.NewInventoryRepository()
		seedItem(t, repo, 1000, 10)
		seedItem(t, repo, 1000, 20)
		repo.FailSave = errors.New("connection reset")

		svc := NewStatusRefreshService(repo, inventory.DefaultStockPolicy(), nil, zap.NewNop())
		svc.SetClock(func() time.Time { return later })

		stats, err := svc.Refresh(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 1, stats.Failed)
		assert.Equal(t, 1, stats.Changed)
	})

	t.Run("publish failure does not undo the save", func(t *testing.T) {
		repo := testutil.NewInventoryRepository()
		item := seedItem(t, repo, 1000, 10)

		bus := new(MockEventBus)
		bus.On("Publish", mock.Anything, mock.Anything).Return(errors.New("bus closed"))

		svc := NewStatusRefreshService(repo, inventory.DefaultStockPolicy(), bus, zap.NewNop())
		svc.SetClock(func() time.Time { return later })

		stats, err := svc.Refresh(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 1, stats.Changed)
		assert.Equal(t, inventory.StockStatusExpired, statusOf(t, repo, item.ID))
	})
}

func TestStatusRefreshService_WalksEveryPage(t *testing.T) {
	repo := testutil.NewInventoryRepository()
	total := refreshBatchSize + 5
	for i := 0; i < total; i++ {
		seedItem(t, repo, 1000, 10)
	}

	svc := NewStatusRefreshService(repo, inventory.DefaultStockPolicy(), nil, zap.NewNop())
	svc.SetClock(func() time.Time { return testNow.Add(40 * 24 * time.Hour) })

	stats, err := svc.Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, total, stats.Scanned)
	assert.Equal(t, total, stats.Changed)
}

func TestStatusRefreshService_CancelledContext(t *testing.T) {
	repo := testutil.NewInventoryRepository()
	seedItem(t, repo, 1000, 10)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	svc := NewStatusRefreshService(repo, inventory.DefaultStockPolicy(), nil, zap.NewNop())
	_, err := svc.Refresh(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

type refreshCall struct {
	changed  int
	byStatus map[string]int
	err      error
}

type fakeRefreshRecorder struct {
	calls []refreshCall
}

func (f *fakeRefreshRecorder) RecordRefresh(_ context.Context, _ time.Duration, changed int, byStatus map[string]int, err error) {
	f.calls = append(f.calls, refreshCall{changed: changed, byStatus: byStatus, err: err})
}

func TestStatusRefreshService_RecordsMetrics(t *testing.T) {
	repo := testutil.NewInventoryRepository()
	seedItem(t, repo, 100, 400)  // Low Stock
	seedItem(t, repo, 1000, 120) // In Stock -> Expiring Soon
	seedItem(t, repo, 1000, 10)  // Expiring Soon -> Expired

	recorder := &fakeRefreshRecorder{}
	svc := NewStatusRefreshService(repo, inventory.DefaultStockPolicy(), nil, zap.NewNop())
	svc.SetMetrics(recorder)
	svc.SetClock(func() time.Time { return testNow.Add(40 * 24 * time.Hour) })

	stats, err := svc.Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[inventory.StockStatus]int{
		inventory.StockStatusInStock:      0,
		inventory.StockStatusLowStock:     1,
		inventory.StockStatusExpiringSoon: 1,
		inventory.StockStatusExpired:      1,
	}, stats.ByStatus)

	require.Len(t, recorder.calls, 1)
	assert.Equal(t, 2, recorder.calls[0].changed)
	assert.NoError(t, recorder.calls[0].err)
	assert.Equal(t, map[string]int{
		"In Stock": 0, "Low Stock": 1, "Expiring Soon": 1, "Expired": 1,
	}, recorder.calls[0].byStatus)

	t.Run("failed pass", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := svc.Refresh(ctx)
		require.Error(t, err)
		require.Len(t, recorder.calls, 2)
		assert.ErrorIs(t, recorder.calls[1].err, context.Canceled)
		assert.Nil(t, recorder.calls[1].byStatus)
	})
}
