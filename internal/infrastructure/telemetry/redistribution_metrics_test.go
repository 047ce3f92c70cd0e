package telemetry_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medishare/backend/internal/infrastructure/telemetry"
)

func TestNewRedistributionMetrics_NilMeter(t *testing.T) {
	_, err := telemetry.NewRedistributionMetrics(nil)
	assert.ErrorIs(t, err, telemetry.ErrMeterNil)
}

func TestRedistributionMetrics_RecordTransfer(t *testing.T) {
	mp, reader := newManualProvider(t)
	m, err := telemetry.NewRedistributionMetrics(mp.Meter("medishare/redistribution"))
	require.NoError(t, err)
	ctx := context.Background()

	m.RecordTransfer(ctx, "Pending", 80)
	m.RecordTransfer(ctx, "Approved", 80)
	m.RecordTransfer(ctx, "Completed", 80)
	m.RecordTransfer(ctx, "Pending", 30)
	m.RecordTransfer(ctx, "Rejected", 30)

	rm := collect(t, reader)
	const transitions = "medishare_transfer_transitions_total"
	assert.Equal(t, int64(2), sumOf(t, rm, transitions, telemetry.AttrTransferStatus, "Pending"))
	assert.Equal(t, int64(1), sumOf(t, rm, transitions, telemetry.AttrTransferStatus, "Completed"))
	assert.Equal(t, int64(1), sumOf(t, rm, transitions, telemetry.AttrTransferStatus, "Rejected"))
	assert.Equal(t, int64(80), sumOf(t, rm, "medishare_units_transferred_total", "", ""))
}

func TestRedistributionMetrics_RecordRefresh(t *testing.T) {
	mp, reader := newManualProvider(t)
	m, err := telemetry.NewRedistributionMetrics(mp.Meter("medishare/redistribution"))
	require.NoError(t, err)
	ctx := context.Background()

	m.RecordRefresh(ctx, 40*time.Millisecond, 2, map[string]int{
		"In Stock": 5, "Low Stock": 1, "Expiring Soon": 2, "Expired": 0,
	}, nil)
	m.RecordRefresh(ctx, time.Second, 0, nil, errors.New("connection reset"))

	rm := collect(t, reader)
	assert.Equal(t, int64(1), sumOf(t, rm, "medishare_inventory_refresh_total", telemetry.AttrResult, "ok"))
	assert.Equal(t, int64(1), sumOf(t, rm, "medishare_inventory_refresh_total", telemetry.AttrResult, "error"))
	assert.Equal(t, uint64(2), histogramCount(t, rm, "medishare_inventory_refresh_duration_seconds"))
	assert.Equal(t, int64(2), sumOf(t, rm, "medishare_inventory_status_changes_total", "", ""))
	assert.Equal(t, int64(5), gaugeOf(t, rm, "medishare_inventory_items", telemetry.AttrStockStatus, "In Stock"))
	assert.Equal(t, int64(0), gaugeOf(t, rm, "medishare_inventory_items", telemetry.AttrStockStatus, "Expired"))
}

func TestRedistributionMetrics_NilRecordsNothing(t *testing.T) {
	var m *telemetry.RedistributionMetrics
	assert.NotPanics(t, func() {
		m.RecordTransfer(context.Background(), "Completed", 10)
		m.RecordRefresh(context.Background(), time.Second, 1, nil, nil)
	})
}
