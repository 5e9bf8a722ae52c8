//go:build integration

package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap/zaptest"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/ahardinathillc/whippet-sub000/internal/domain/legacy"
	"github.com/ahardinathillc/whippet-sub000/internal/marshal"
)

func newPostgresDB(t *testing.T) *gorm.DB {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("legacy_test"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("whippet"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err, "Failed to start PostgreSQL container")
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err, "Failed to get connection string")

	db, err := gorm.Open(gormpostgres.Open(dsn), &gorm.Config{
		Logger:                 gormlogger.Discard,
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)
	return db
}

func TestPostgres_EnsureAndRoundTrip(t *testing.T) {
	ctx := context.Background()
	db := newPostgresDB(t)
	log := zaptest.NewLogger(t)
	reg := NewRegistry(db, log)
	store := NewStore(db, log)

	warehouses, err := legacy.WarehouseTable.Schema()
	require.NoError(t, err)
	counties, err := legacy.CountyTable.Schema()
	require.NoError(t, err)
	for _, s := range []*marshal.TableSchema{warehouses, counties} {
		require.NoError(t, reg.Ensure(ctx, s))
		require.NoError(t, reg.Ensure(ctx, s), "second ensure validates the live table")
	}

	w := legacy.NewWarehouse()
	require.NoError(t, w.SetCode("NORT"))
	require.NoError(t, w.SetName("North Platte DC"))
	w.SetRegion('W')
	row, err := legacy.WarehouseTable.Project(w)
	require.NoError(t, err)
	require.NoError(t, store.Insert(ctx, warehouses, row))

	c := legacy.NewCounty()
	require.NoError(t, c.SetCode("31111"))
	require.NoError(t, c.SetName("Lincoln"))
	require.NoError(t, c.SetState("NE"))
	c.SetTaxRate(decimal.RequireFromString("0.0725"))
	c.SetWarehouse(w)
	row, err = legacy.CountyTable.Project(c)
	require.NoError(t, err)
	require.NoError(t, store.Insert(ctx, counties, row))

	got, err := legacy.CountyTable.Fetch(ctx, store, "Code", "31111")
	require.NoError(t, err)
	assert.True(t, legacy.CountyTable.Equal(c, got))
	require.NotNil(t, got.Warehouse())
	assert.Equal(t, "North Platte DC", got.Warehouse().Name())
	assert.Equal(t, 'W', got.Warehouse().Region())
}

func TestPostgres_EnsureReportsNarrowColumn(t *testing.T) {
	ctx := context.Background()
	db := newPostgresDB(t)
	require.NoError(t, db.Exec(`CREATE TABLE "AR_COUNTRY" (
		"CTRY_CODE" VARCHAR(3) NOT NULL PRIMARY KEY,
		"CTRY_NAME" VARCHAR(20) NOT NULL,
		"ACTIVE" BOOLEAN
	)`).Error)

	schema, err := legacy.CountryTable.Schema()
	require.NoError(t, err)
	err = NewRegistry(db, nil).Ensure(ctx, schema)

	var sm *SchemaMismatchError
	require.ErrorAs(t, err, &sm)
	assert.ElementsMatch(t, []string{
		"column CTRY_NAME width 20, want 30",
		"column ACTIVE nullable=true, want false",
	}, sm.Differences)
}
