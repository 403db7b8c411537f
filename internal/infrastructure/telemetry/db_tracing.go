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
	LogFullSQL      bool          // include query variables in spans, dev only
	SlowQueryThresh time.Duration // default 200ms
}

type queryStartKey struct{}

// RegisterDBTracing installs otelgorm on db plus callbacks that annotate
// spans with row counts, table names and slow query markers.
func RegisterDBTracing(db *gorm.DB, cfg DBTracingConfig, logger *zap.Logger) error {
	if !cfg.Enabled {
		logger.Debug("Database tracing disabled, skipping otelgorm registration")
		return nil
	}
	if cfg.SlowQueryThresh <= 0 {
		cfg.SlowQueryThresh = 200 * time.Millisecond
	}

	opts := []otelgorm.Option{otelgorm.WithDBName("postgresql")}
	if !cfg.LogFullSQL {
		opts = append(opts, otelgorm.WithoutQueryVariables())
	}
	if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
		return err
	}
	if err := registerTimingCallbacks(db, cfg.SlowQueryThresh); err != nil {
		return err
	}

	logger.Info("Database tracing enabled",
		zap.Bool("log_full_sql", cfg.LogFullSQL),
		zap.Duration("slow_query_threshold", cfg.SlowQueryThresh),
	)
	return nil
}

func registerTimingCallbacks(db *gorm.DB, slow time.Duration) error {
	before := markQueryStart
	after := func(tx *gorm.DB) { annotateSpan(tx, slow) }
	cb := db.Callback()

	steps := []func() error{
		func() error { return cb.Create().Before("gorm:create").Register("storefront:before_create", before) },
		func() error { return cb.Query().Before("gorm:query").Register("storefront:before_query", before) },
		func() error { return cb.Update().Before("gorm:update").Register("storefront:before_update", before) },
		func() error { return cb.Delete().Before("gorm:delete").Register("storefront:before_delete", before) },
		func() error { return cb.Row().Before("gorm:row").Register("storefront:before_row", before) },
		func() error { return cb.Raw().Before("gorm:raw").Register("storefront:before_raw", before) },
		func() error { return cb.Create().After("gorm:create").Register("storefront:after_create", after) },
		func() error { return cb.Query().After("gorm:query").Register("storefront:after_query", after) },
		func() error { return cb.Update().After("gorm:update").Register("storefront:after_update", after) },
		func() error { return cb.Delete().After("gorm:delete").Register("storefront:after_delete", after) },
		func() error { return cb.Row().After("gorm:row").Register("storefront:after_row", after) },
		func() error { return cb.Raw().After("gorm:raw").Register("storefront:after_raw", after) },
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return err
		}
	}
	return nil
}

func markQueryStart(tx *gorm.DB) {
	if tx.Statement.Context != nil {
		tx.Statement.Context = context.WithValue(tx.Statement.Context, queryStartKey{}, time.Now())
	}
}

func annotateSpan(tx *gorm.DB, slow time.Duration) {
	ctx := tx.Statement.Context
	if ctx == nil {
		return
	}
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}

	span.SetAttributes(attribute.Int64("db.rows_affected", tx.Statement.RowsAffected))
	if tx.Statement.Table != "" {
		span.SetAttributes(attribute.String("db.sql.table", tx.Statement.Table))
	}
	if tx.Error != nil && !errors.Is(tx.Error, gorm.ErrRecordNotFound) {
		span.SetStatus(codes.Error, tx.Error.Error())
		span.RecordError(tx.Error)
	}

	start, ok := ctx.Value(queryStartKey{}).(time.Time)
	if !ok {
		return
	}
	if elapsed := time.Since(start); elapsed > slow {
		span.SetAttributes(
			attribute.Bool("db.slow_query", true),
			attribute.Int64("db.query_duration_ms", elapsed.Milliseconds()),
		)
		span.AddEvent("slow_query_warning", trace.WithAttributes(
			attribute.Int64("threshold_ms", slow.Milliseconds()),
		))
	}
}
