package telemetry

import (
	"context"
	"errors"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DBTracingConfig holds configuration for database tracing.
type DBTracingConfig struct {
	Enabled         bool
	LogFullSQL      bool // keep bound variables in span statements
	SlowQueryThresh time.Duration
	DBSystem        string // postgresql, sqlite
}

// RegisterDBTracing installs the otelgorm plugin plus a callback that
// flags slow statements and failed ones on the active span.
func RegisterDBTracing(db *gorm.DB, cfg DBTracingConfig, logger *zap.Logger) error {
	if !cfg.Enabled {
		return nil
	}
	if cfg.SlowQueryThresh == 0 {
		cfg.SlowQueryThresh = 200 * time.Millisecond
	}

	opts := []otelgorm.Option{otelgorm.WithDBName(cfg.DBSystem)}
	if !cfg.LogFullSQL {
		opts = append(opts, otelgorm.WithoutQueryVariables())
	}
	if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
		return err
	}

	after := slowQueryCallback(cfg.SlowQueryThresh)
	cb := db.Callback()
	registrations := []error{
		cb.Create().Before("gorm:create").Register("medishare:start_create", markStart),
		cb.Create().After("gorm:create").Register("medishare:slow_create", after),
		cb.Query().Before("gorm:query").Register("medishare:start_query", markStart),
		cb.Query().After("gorm:query").Register("medishare:slow_query", after),
		cb.Update().Before("gorm:update").Register("medishare:start_update", markStart),
		cb.Update().After("gorm:update").Register("medishare:slow_update", after),
		cb.Delete().Before("gorm:delete").Register("medishare:start_delete", markStart),
		cb.Delete().After("gorm:delete").Register("medishare:slow_delete", after),
		cb.Raw().Before("gorm:raw").Register("medishare:start_raw", markStart),
		cb.Raw().After("gorm:raw").Register("medishare:slow_raw", after),
	}
	if err := errors.Join(registrations...); err != nil {
		return err
	}

	logger.Info("Database tracing enabled",
		zap.String("db_system", cfg.DBSystem),
		zap.Duration("slow_query_threshold", cfg.SlowQueryThresh),
	)
	return nil
}

type queryStartKey struct{}

func markStart(db *gorm.DB) {
	if db.Statement.Context != nil {
		db.Statement.Context = context.WithValue(db.Statement.Context, queryStartKey{}, time.Now())
	}
}

func slowQueryCallback(threshold time.Duration) func(*gorm.DB) {
	return func(db *gorm.DB) {
		ctx := db.Statement.Context
		if ctx == nil {
			return
		}
		span := trace.SpanFromContext(ctx)
		if !span.IsRecording() {
			return
		}

		if db.Statement.Table != "" {
			span.SetAttributes(attribute.String("db.sql.table", db.Statement.Table))
		}
		if db.Error != nil && !errors.Is(db.Error, gorm.ErrRecordNotFound) {
			span.SetStatus(codes.Error, db.Error.Error())
			span.RecordError(db.Error)
		}
		if start, ok := ctx.Value(queryStartKey{}).(time.Time); ok {
			if elapsed := time.Since(start); elapsed > threshold {
				span.SetAttributes(
					attribute.Bool("db.slow_query", true),
					attribute.Int64("db.query_duration_ms", elapsed.Milliseconds()),
				)
			}
		}
	}
}
