package inventory

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medishare/backend/internal/domain/shared"
)

var testNow = time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)

func days(n int) time.Time {
	return testNow.Add(time.Duration(n) * 24 * time.Hour)
}

func newTestItem(t *testing.T, qty int64, expiry time.Time) *InventoryItem {
	t.Helper()
	item, err := NewInventoryItem(uuid.New(), uuid.New(), "B-001", qty, UnitTablets, expiry, DefaultStockPolicy(), testNow)
	require.NoError(t, err)
	return item
}

func TestDaysUntil(t *testing.T) {
	tests := []struct {
		name   string
		expiry time.Time
		want   int
	}{
		{"exact days", days(10), 10},
		{"partial day rounds up", testNow.Add(36 * time.Hour), 2},
		{"same instant", testNow, 0},
		{"expired partial day rounds toward zero", testNow.Add(-12 * time.Hour), 0},
		{"expired whole days", days(-3), -3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DaysUntil(tt.expiry, testNow))
		})
	}
}

func TestStockPolicy_Classify(t *testing.T) {
	p := DefaultStockPolicy()

	tests := []struct {
		name   string
		qty    int64
		expiry time.Time
		want   StockStatus
	}{
		{"expired beats low stock", 10, days(-1), StockStatusExpired},
		{"expiring soon beats low stock", 10, days(30), StockStatusExpiringSoon},
		{"boundary 89 days expiring", 1000, days(89), StockStatusExpiringSoon},
		{"boundary 90 days not expiring", 1000, days(90), StockStatusInStock},
		{"low stock", 499, days(365), StockStatusLowStock},
		{"threshold is in stock", 500, days(365), StockStatusInStock},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, p.Classify(tt.qty, tt.expiry, testNow))
		})
	}
}

func TestNewInventoryItem(t *testing.T) {
	t.Run("classifies on creation", func(t *testing.T) {
		item := newTestItem(t, 200, days(400))

		assert.Equal(t, StockStatusLowStock, item.Status)
		assert.Equal(t, testNow, item.AddedDate)
		require.Len(t, item.GetDomainEvents(), 1)
		assert.Equal(t, EventTypeInventoryItemAdded, item.GetDomainEvents()[0].EventType())
	})

	t.Run("rejects negative quantity", func(t *testing.T) {
		_, err := NewInventoryItem(uuid.New(), uuid.New(), "B", -1, UnitTablets, days(10), DefaultStockPolicy(), testNow)
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
	})

	t.Run("rejects unknown unit", func(t *testing.T) {
		_, err := NewInventoryItem(uuid.New(), uuid.New(), "B", 1, Unit("boxes"), days(10), DefaultStockPolicy(), testNow)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Invalid unit")
	})

	t.Run("rejects missing batch", func(t *testing.T) {
		_, err := NewInventoryItem(uuid.New(), uuid.New(), " ", 1, UnitML, days(10), DefaultStockPolicy(), testNow)
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
	})
}

func TestInventoryItem_Decrease(t *testing.T) {
	t.Run("removes stock and reclassifies", func(t *testing.T) {
		item := newTestItem(t, 1500, days(400))
		item.ClearDomainEvents()
		transferID := uuid.New()

		err := item.Decrease(1000, transferID, DefaultStockPolicy(), testNow)

		require.NoError(t, err)
		assert.Equal(t, int64(500), item.Quantity)
		assert.Equal(t, StockStatusInStock, item.Status)
		assert.Equal(t, 2, item.Version)
		require.Len(t, item.GetDomainEvents(), 1)
		ev, ok := item.GetDomainEvents()[0].(*InventoryDecreasedEvent)
		require.True(t, ok)
		assert.Equal(t, transferID, ev.TransferID)
		assert.Equal(t, int64(500), ev.Remaining)
	})

	t.Run("drops into low stock", func(t *testing.T) {
		item := newTestItem(t, 600, days(400))

		require.NoError(t, item.Decrease(200, uuid.New(), DefaultStockPolicy(), testNow))
		assert.Equal(t, StockStatusLowStock, item.Status)
	})

	t.Run("refuses to go negative", func(t *testing.T) {
		item := newTestItem(t, 100, days(400))

		err := item.Decrease(101, uuid.New(), DefaultStockPolicy(), testNow)

		assert.True(t, shared.IsDataIntegrity(err))
		assert.Equal(t, int64(100), item.Quantity)
		assert.Equal(t, 1, item.Version)
	})

	t.Run("exact depletion is allowed", func(t *testing.T) {
		item := newTestItem(t, 100, days(400))

		require.NoError(t, item.Decrease(100, uuid.New(), DefaultStockPolicy(), testNow))
		assert.Equal(t, int64(0), item.Quantity)
	})
}

func TestInventoryItem_Reclassify(t *testing.T) {
	item := newTestItem(t, 1000, days(100))
	require.Equal(t, StockStatusInStock, item.Status)

	assert.False(t, item.Reclassify(DefaultStockPolicy(), testNow))

	later := testNow.Add(20 * 24 * time.Hour)
	assert.True(t, item.Reclassify(DefaultStockPolicy(), later))
	assert.Equal(t, StockStatusExpiringSoon, item.Status)
	assert.Equal(t, later, item.UpdatedAt)

	muchLater := testNow.Add(101 * 24 * time.Hour)
	assert.True(t, item.Reclassify(DefaultStockPolicy(), muchLater))
	assert.Equal(t, StockStatusExpired, item.Status)
	assert.True(t, item.IsExpired(muchLater))
}
