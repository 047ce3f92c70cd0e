package telemetry_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.uber.org/zap"

	"github.com/medishare/backend/internal/infrastructure/telemetry"
	"github.com/medishare/backend/tests/testutil"
)

type meteredRow struct {
	ID   int
	Name string
}

func TestRegisterDBMetrics(t *testing.T) {
	mp, reader := newManualProvider(t)
	db := testutil.NewSQLiteDB(t)
	require.NoError(t, db.AutoMigrate(&meteredRow{}))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	metrics, err := telemetry.RegisterDBMetrics(ctx, db, mp, telemetry.DBMetricsConfig{
		Enabled:            true,
		SlowQueryThreshold: time.Hour,
		PoolStatsInterval:  time.Hour,
	}, zap.NewNop())
	require.NoError(t, err)
	require.NotNil(t, metrics)
	defer metrics.Stop()

	require.NoError(t, db.Create(&meteredRow{ID: 1, Name: "a"}).Error)
	require.NoError(t, db.Model(&meteredRow{}).Where("id = ?", 1).Update("name", "b").Error)
	var rows []meteredRow
	require.NoError(t, db.Find(&rows).Error)
	require.NoError(t, db.Find(&rows).Error)
	var count int64
	require.NoError(t, db.Raw("SELECT COUNT(*) FROM metered_rows").Scan(&count).Error)

	rm := collect(t, reader)
	assert.Equal(t, int64(1), sumOf(t, rm, "db_query_total", telemetry.AttrDBOperation, "INSERT"))
	assert.Equal(t, int64(1), sumOf(t, rm, "db_query_total", telemetry.AttrDBOperation, "UPDATE"))
	assert.GreaterOrEqual(t, sumOf(t, rm, "db_query_total", telemetry.AttrDBOperation, "SELECT"), int64(3))
	assert.GreaterOrEqual(t, histogramCount(t, rm, "db_query_duration_seconds"), uint64(5))
	_, slow := findMetric(rm, "db_slow_query_total")
	assert.False(t, slow)

	// pool stats are sampled by a background goroutine
	require.Eventually(t, func() bool {
		var sampled metricdata.ResourceMetrics
		if reader.Collect(context.Background(), &sampled) != nil {
			return false
		}
		_, ok := findMetric(sampled, "db_pool_connections_max")
		return ok
	}, time.Second, 10*time.Millisecond)
	assert.Equal(t, int64(1), gaugeOf(t, collect(t, reader), "db_pool_connections_max", "", ""))
}

func TestDBMetrics_SlowQuery(t *testing.T) {
	mp, reader := newManualProvider(t)
	metrics, err := telemetry.NewDBMetrics(mp.Meter("test"), telemetry.DBMetricsConfig{
		SlowQueryThreshold: 100 * time.Millisecond,
	}, nil)
	require.NoError(t, err)
	ctx := context.Background()

	metrics.RecordQuery(ctx, "select", "transfers", 300*time.Millisecond)
	metrics.RecordQuery(ctx, "select", "transfers", 5*time.Millisecond)
	metrics.RecordQuery(ctx, "", "", 400*time.Millisecond)

	rm := collect(t, reader)
	assert.Equal(t, int64(2), sumOf(t, rm, "db_query_total", telemetry.AttrDBOperation, "SELECT"))
	assert.Equal(t, int64(1), sumOf(t, rm, "db_query_total", telemetry.AttrDBOperation, "UNKNOWN"))
	assert.Equal(t, int64(1), sumOf(t, rm, "db_slow_query_total", telemetry.AttrDBTable, "transfers"))
	assert.Equal(t, int64(1), sumOf(t, rm, "db_slow_query_total", telemetry.AttrDBTable, "unknown"))
}

func TestRegisterDBMetrics_Disabled(t *testing.T) {
	mp, _ := newManualProvider(t)
	db := testutil.NewSQLiteDB(t)

	metrics, err := telemetry.RegisterDBMetrics(context.Background(), db, mp, telemetry.DBMetricsConfig{}, zap.NewNop())
	require.NoError(t, err)
	assert.Nil(t, metrics)

	disabled, err := telemetry.NewMeterProvider(context.Background(), telemetry.MetricsConfig{}, zap.NewNop())
	require.NoError(t, err)
	metrics, err = telemetry.RegisterDBMetrics(context.Background(), db, disabled,
		telemetry.DBMetricsConfig{Enabled: true}, zap.NewNop())
	require.NoError(t, err)
	assert.Nil(t, metrics)
}

func TestDBMetrics_StopIsIdempotent(t *testing.T) {
	mp, _ := newManualProvider(t)
	metrics, err := telemetry.NewDBMetrics(mp.Meter("test"), telemetry.DBMetricsConfig{}, nil)
	require.NoError(t, err)
	assert.NotPanics(t, func() {
		metrics.Stop()
		metrics.Stop()
	})
}
