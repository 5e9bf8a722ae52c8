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
	LogFullSQL      bool // include bound variables in spans
	SlowQueryThresh time.Duration
	DBSystem        string
}

// DefaultDBTracingConfig returns the default database tracing configuration.
func DefaultDBTracingConfig() DBTracingConfig {
	return DBTracingConfig{
		SlowQueryThresh: 200 * time.Millisecond,
		DBSystem:        "postgresql",
	}
}

// RegisterDBTracing installs the otelgorm plugin on db, plus callbacks that
// mark slow and failed statements on the active span. It is a no-op when
// cfg is disabled.
func RegisterDBTracing(db *gorm.DB, cfg DBTracingConfig, provider trace.TracerProvider, logger *zap.Logger) error {
	if !cfg.Enabled {
		return nil
	}

	opts := []otelgorm.Option{otelgorm.WithDBName(cfg.DBSystem)}
	if provider != nil {
		opts = append(opts, otelgorm.WithTracerProvider(provider))
	}
	if !cfg.LogFullSQL {
		opts = append(opts, otelgorm.WithoutQueryVariables())
	}
	if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
		return err
	}

	cb := &slowQueryCallback{thresh: cfg.SlowQueryThresh}
	if err := cb.register(db); err != nil {
		return err
	}

	logger.Debug("database tracing enabled",
		zap.Bool("log_full_sql", cfg.LogFullSQL),
		zap.Duration("slow_query_threshold", cfg.SlowQueryThresh),
		zap.String("db_system", cfg.DBSystem),
	)
	return nil
}

type contextKey string

const queryStartTimeKey contextKey = "otel_query_start_time"

type slowQueryCallback struct {
	thresh time.Duration
}

func (c *slowQueryCallback) register(db *gorm.DB) error {
	cb := db.Callback()
	if err := cb.Create().Before("gorm:create").Register("whippet_timing:before_create", c.before); err != nil {
		return err
	}
	if err := cb.Query().Before("gorm:query").Register("whippet_timing:before_query", c.before); err != nil {
		return err
	}
	if err := cb.Update().Before("gorm:update").Register("whippet_timing:before_update", c.before); err != nil {
		return err
	}
	if err := cb.Delete().Before("gorm:delete").Register("whippet_timing:before_delete", c.before); err != nil {
		return err
	}
	if err := cb.Row().Before("gorm:row").Register("whippet_timing:before_row", c.before); err != nil {
		return err
	}
	if err := cb.Raw().Before("gorm:raw").Register("whippet_timing:before_raw", c.before); err != nil {
		return err
	}

	if err := cb.Create().After("gorm:create").Register("whippet_timing:after_create", c.after); err != nil {
		return err
	}
	if err := cb.Query().After("gorm:query").Register("whippet_timing:after_query", c.after); err != nil {
		return err
	}
	if err := cb.Update().After("gorm:update").Register("whippet_timing:after_update", c.after); err != nil {
		return err
	}
	if err := cb.Delete().After("gorm:delete").Register("whippet_timing:after_delete", c.after); err != nil {
		return err
	}
	if err := cb.Row().After("gorm:row").Register("whippet_timing:after_row", c.after); err != nil {
		return err
	}
	return cb.Raw().After("gorm:raw").Register("whippet_timing:after_raw", c.after)
}

func (c *slowQueryCallback) before(db *gorm.DB) {
	if db.Statement.Context != nil {
		db.Statement.Context = context.WithValue(db.Statement.Context, queryStartTimeKey, time.Now())
	}
}

func (c *slowQueryCallback) after(db *gorm.DB) {
	ctx := db.Statement.Context
	if ctx == nil {
		return
	}
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}

	if db.Statement.RowsAffected >= 0 {
		span.SetAttributes(attribute.Int64("db.rows_affected", db.Statement.RowsAffected))
	}
	if db.Statement.Table != "" {
		span.SetAttributes(attribute.String("db.sql.table", db.Statement.Table))
	}
	if db.Error != nil && !errors.Is(db.Error, gorm.ErrRecordNotFound) {
		span.SetStatus(codes.Error, db.Error.Error())
		span.RecordError(db.Error)
	}

	if start, ok := ctx.Value(queryStartTimeKey).(time.Time); ok {
		if elapsed := time.Since(start); elapsed > c.thresh {
			span.SetAttributes(
				attribute.Bool("db.slow_query", true),
				attribute.Int64("db.query_duration_ms", elapsed.Milliseconds()),
			)
			span.AddEvent("slow_query_warning", trace.WithAttributes(
				attribute.Int64("duration_ms", elapsed.Milliseconds()),
				attribute.Int64("threshold_ms", c.thresh.Milliseconds()),
			))
		}
	}
}
