package persistence

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"

	"github.com/ahardinathillc/whippet-sub000/internal/domain/legacy"
	"github.com/ahardinathillc/whippet-sub000/internal/infrastructure/config"
	"github.com/ahardinathillc/whippet-sub000/internal/infrastructure/telemetry"
)

func sqliteConfig(t *testing.T) *config.DatabaseConfig {
	return &config.DatabaseConfig{
		Driver:       config.DriverSQLite,
		SQLitePath:   filepath.Join(t.TempDir(), "whippet.db"),
		MaxOpenConns: 2,
		MaxIdleConns: 1,
		LogLevel:     "silent",
	}
}

func TestNewDatabase_SQLite(t *testing.T) {
	db, err := NewDatabase(sqliteConfig(t), zap.NewNop())
	require.NoError(t, err)
	defer db.Close()

	assert.NoError(t, db.Ping())
	assert.Equal(t, "sqlite", db.DB.Dialector.Name())

	stats, err := db.Stats()
	require.NoError(t, err)
	assert.Equal(t, 2, stats.MaxOpenConnections)
}

func TestNewDatabase_UnsupportedDriver(t *testing.T) {
	cfg := sqliteConfig(t)
	cfg.Driver = "oracle"

	_, err := NewDatabase(cfg, zap.NewNop())
	assert.ErrorContains(t, err, "unsupported database driver")
}

func TestDatabase_Close(t *testing.T) {
	db, err := NewDatabase(sqliteConfig(t), zap.NewNop())
	require.NoError(t, err)

	require.NoError(t, db.Close())
	assert.Error(t, db.Ping())
}

func TestNewDatabase_WithTracing(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	defer func() { _ = tp.Shutdown(context.Background()) }()

	tracing := telemetry.DefaultDBTracingConfig()
	tracing.Enabled = true
	tracing.DBSystem = "sqlite"

	db, err := NewDatabase(sqliteConfig(t), zap.NewNop(), WithTracing(tracing, tp))
	require.NoError(t, err)
	defer db.Close()

	schema, err := legacy.CountryTable.Schema()
	require.NoError(t, err)
	ctx, parent := tp.Tracer("test").Start(context.Background(), "ensure")
	require.NoError(t, NewRegistry(db.DB, zap.NewNop()).Ensure(ctx, schema))
	parent.End()

	ended := recorder.Ended()
	require.Greater(t, len(ended), 1, "expected SQL spans under the parent")
	for _, span := range ended {
		if span.Name() == "ensure" {
			continue
		}
		assert.Equal(t, parent.SpanContext().TraceID(), span.SpanContext().TraceID())
	}
}
