package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/metric"
)

// RedistributionMetrics counts transfer transitions and inventory refresh
// passes. A nil *RedistributionMetrics records nothing.
type RedistributionMetrics struct {
	transfers        *Counter
	unitsTransferred *Counter
	refreshRuns      *Counter
	refreshDuration  *Histogram
	statusChanges    *Counter
	stockItems       *Gauge
}

// NewRedistributionMetrics creates the instruments on meter.
func NewRedistributionMetrics(meter metric.Meter) (*RedistributionMetrics, error) {
	if meter == nil {
		return nil, ErrMeterNil
	}

	m := &RedistributionMetrics{}
	var err error
	if m.transfers, err = NewCounter(meter, "medishare_transfer_transitions_total",
		"Transfers entering each status", "{transfer}"); err != nil {
		return nil, err
	}
	if m.unitsTransferred, err = NewCounter(meter, "medishare_units_transferred_total",
		"Medicine units moved by completed transfers", "{unit}"); err != nil {
		return nil, err
	}
	if m.refreshRuns, err = NewCounter(meter, "medishare_inventory_refresh_total",
		"Inventory status refresh passes by result", "{run}"); err != nil {
		return nil, err
	}
	if m.refreshDuration, err = NewHistogram(meter, HistogramOpts{
		Name:        "medishare_inventory_refresh_duration_seconds",
		Description: "Inventory status refresh pass duration",
		Unit:        "s",
		Boundaries:  RefreshDurationBuckets,
	}); err != nil {
		return nil, err
	}
	if m.statusChanges, err = NewCounter(meter, "medishare_inventory_status_changes_total",
		"Inventory items reclassified by the refresh", "{item}"); err != nil {
		return nil, err
	}
	if m.stockItems, err = NewGauge(meter, "medishare_inventory_items",
		"Inventory items by stock status at the last refresh", "{item}"); err != nil {
		return nil, err
	}
	return m, nil
}

// RecordTransfer counts a transfer entering status. Completed transfers
// also add their quantity to the units moved.
func (m *RedistributionMetrics) RecordTransfer(ctx context.Context, status string, quantity int64) {
	if m == nil {
		return
	}
	m.transfers.Inc(ctx, AttrTransferStatus.String(status))
	if status == "Completed" {
		m.unitsTransferred.Add(ctx, quantity)
	}
}

// RecordRefresh records one refresh pass. byStatus holds the item count per
// stock status seen by the pass; it is ignored for failed passes.
func (m *RedistributionMetrics) RecordRefresh(ctx context.Context, elapsed time.Duration, changed int, byStatus map[string]int, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.refreshRuns.Inc(ctx, AttrResult.String(result))
	m.refreshDuration.RecordDuration(ctx, elapsed, AttrResult.String(result))
	if err != nil {
		return
	}
	m.statusChanges.Add(ctx, int64(changed))
	for status, count := range byStatus {
		m.stockItems.Record(ctx, int64(count), AttrStockStatus.String(status))
	}
}
