package inventory

import (
	"context"
	"time"

	"github.com/medishare/backend/internal/domain/inventory"
	"github.com/medishare/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// refreshBatchSize is the page size used to walk the inventory table
const refreshBatchSize = 200

// RefreshRecorder receives the outcome of each refresh pass
type RefreshRecorder interface {
	RecordRefresh(ctx context.Context, elapsed time.Duration, changed int, byStatus map[string]int, err error)
}

// StatusRefreshService reclassifies inventory as time passes, so batches
// drift into Expiring Soon and Expired without a quantity change.
type StatusRefreshService struct {
	inventoryRepo inventory.InventoryItemRepository
	policy        inventory.StockPolicy
	eventBus      shared.EventPublisher
	clock         shared.Clock
	logger        *zap.Logger
	metrics       RefreshRecorder
}

// NewStatusRefreshService creates a new StatusRefreshService
func NewStatusRefreshService(
	inventoryRepo inventory.InventoryItemRepository,
	policy inventory.StockPolicy,
	eventBus shared.EventPublisher,
	logger *zap.Logger,
) *StatusRefreshService {
	return &StatusRefreshService{
		inventoryRepo: inventoryRepo,
		policy:        policy,
		eventBus:      eventBus,
		clock:         shared.SystemClock,
		logger:        logger,
	}
}

// SetClock overrides the clock items are classified against
func (s *StatusRefreshService) SetClock(clock shared.Clock) {
	s.clock = clock
}

// SetMetrics sets the recorder for refresh passes
func (s *StatusRefreshService) SetMetrics(metrics RefreshRecorder) {
	s.metrics = metrics
}

// RefreshStats contains statistics about one refresh run
type RefreshStats struct {
	Scanned     int       `json:"scanned"`
	Changed     int       `json:"changed"`
	Conflicts   int       `json:"conflicts"`
	Failed      int       `json:"failed"`
	ProcessedAt time.Time `json:"processed_at"`

	// ByStatus counts scanned items by their status after the pass
	ByStatus map[inventory.StockStatus]int `json:"by_status"`
}

// Refresh reclassifies every item and persists those whose status moved.
// An item saved concurrently (version conflict) is skipped; the next run
// picks it up.
func (s *StatusRefreshService) Refresh(ctx context.Context) (stats *RefreshStats, err error) {
	started := time.Now()
	defer func() { s.record(ctx, started, stats, err) }()

	now := s.clock()
	stats = newRefreshStats(now)

	filter := shared.Unpaged()
	filter.OrderBy = "created_at"
	filter.PageSize = refreshBatchSize

	for page := 1; ; page++ {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		filter.Page = page
		items, err := s.inventoryRepo.FindAll(ctx, filter)
		if err != nil {
			s.logger.Error("Failed to load inventory for status refresh", zap.Int("page", page), zap.Error(err))
			return nil, err
		}

		for i := range items {
			stats.Scanned++
			s.refreshItem(ctx, &items[i], now, stats)
			stats.ByStatus[items[i].Status]++
		}

		if len(items) < refreshBatchSize {
			break
		}
	}

	if stats.Changed > 0 || stats.Failed > 0 {
		s.logger.Info("Completed inventory status refresh",
			zap.Int("scanned", stats.Scanned),
			zap.Int("changed", stats.Changed),
			zap.Int("conflicts", stats.Conflicts),
			zap.Int("failed", stats.Failed),
		)
	} else {
		s.logger.Debug("Inventory status refresh found no changes", zap.Int("scanned", stats.Scanned))
	}

	return stats, nil
}

func newRefreshStats(now time.Time) *RefreshStats {
	return &RefreshStats{
		ProcessedAt: now,
		ByStatus: map[inventory.StockStatus]int{
			inventory.StockStatusInStock:      0,
			inventory.StockStatusLowStock:     0,
			inventory.StockStatusExpiringSoon: 0,
			inventory.StockStatusExpired:      0,
		},
	}
}

func (s *StatusRefreshService) record(ctx context.Context, started time.Time, stats *RefreshStats, err error) {
	if s.metrics == nil {
		return
	}
	var (
		changed  int
		byStatus map[string]int
	)
	if stats != nil && err == nil {
		changed = stats.Changed
		byStatus = make(map[string]int, len(stats.ByStatus))
		for status, count := range stats.ByStatus {
			byStatus[status.String()] = count
		}
	}
	s.metrics.RecordRefresh(ctx, time.Since(started), changed, byStatus, err)
}

func (s *StatusRefreshService) refreshItem(ctx context.Context, item *inventory.InventoryItem, now time.Time, stats *RefreshStats) {
	previous := item.Status
	if !item.Reclassify(s.policy, now) {
		return
	}

	if err := s.inventoryRepo.SaveWithLock(ctx, item); err != nil {
		if shared.IsConcurrencyConflict(err) {
			stats.Conflicts++
			s.logger.Debug("Inventory item changed during refresh",
				zap.String("inventory_item_id", item.ID.String()))
			return
		}
		stats.Failed++
		s.logger.Error("Failed to save refreshed inventory status",
			zap.String("inventory_item_id", item.ID.String()),
			zap.Error(err),
		)
		return
	}
	stats.Changed++

	events := item.GetDomainEvents()
	item.ClearDomainEvents()
	if s.eventBus != nil && len(events) > 0 {
		if err := s.eventBus.Publish(ctx, events...); err != nil {
			s.logger.Warn("Failed to publish InventoryStatusChanged event",
				zap.String("inventory_item_id", item.ID.String()),
				zap.Error(err),
			)
		}
	}

	s.logger.Debug("Inventory status changed",
		zap.String("inventory_item_id", item.ID.String()),
		zap.String("from", string(previous)),
		zap.String("to", string(item.Status)),
	)
}
