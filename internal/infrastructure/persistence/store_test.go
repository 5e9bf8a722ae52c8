package persistence

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/ahardinathillc/whippet-sub000/internal/domain/legacy"
	"github.com/ahardinathillc/whippet-sub000/internal/marshal"
	"github.com/ahardinathillc/whippet-sub000/internal/record"
)

func ensure(t *testing.T, db *gorm.DB, schema func() (*marshal.TableSchema, error)) *marshal.TableSchema {
	t.Helper()
	s, err := schema()
	require.NoError(t, err)
	require.NoError(t, NewRegistry(db, nil).Ensure(context.Background(), s))
	return s
}

func insertCountries(t *testing.T, store *Store, schema *marshal.TableSchema, codes ...string) {
	t.Helper()
	for _, code := range codes {
		c := legacy.NewCountry()
		require.NoError(t, c.SetCode(code))
		require.NoError(t, c.SetName("Country "+code))
		row, err := legacy.CountryTable.Project(c)
		require.NoError(t, err)
		require.NoError(t, store.Insert(context.Background(), schema, row))
	}
}

func TestStore_ScanInKeyOrder(t *testing.T) {
	ctx := context.Background()
	db := newSQLiteDB(t)
	schema := ensure(t, db, legacy.CountryTable.Schema)
	store := NewStore(db, zap.NewNop(), WithBatchSize(2))
	insertCountries(t, store, schema, "MEX", "CAN", "USA", "BRA", "DEU")

	var codes []string
	err := store.Scan(ctx, schema, func(row *record.Row) error {
		c := legacy.NewCountry()
		if err := legacy.CountryTable.Hydrate(c, row); err != nil {
			return err
		}
		codes = append(codes, c.Code())
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"BRA", "CAN", "DEU", "MEX", "USA"}, codes)

	n, err := store.Count(ctx, schema)
	require.NoError(t, err)
	assert.Equal(t, int64(5), n)
}

func TestStore_ScanStop(t *testing.T) {
	db := newSQLiteDB(t)
	schema := ensure(t, db, legacy.CountryTable.Schema)
	store := NewStore(db, nil)
	insertCountries(t, store, schema, "CAN", "USA")

	seen := 0
	err := store.Scan(context.Background(), schema, func(*record.Row) error {
		seen++
		return ErrStopScan
	})

	assert.NoError(t, err)
	assert.Equal(t, 1, seen)
}

func TestStore_FindOne(t *testing.T) {
	ctx := context.Background()
	db := newSQLiteDB(t)
	schema := ensure(t, db, legacy.CountryTable.Schema)
	store := NewStore(db, nil)
	insertCountries(t, store, schema, "CAN", "USA")

	t.Run("found", func(t *testing.T) {
		row, err := store.FindOne(ctx, schema, "CTRY_CODE", "USA")
		require.NoError(t, err)
		require.NotNil(t, row)
		assert.Equal(t, map[string]any{"CTRY_CODE": "USA", "CTRY_NAME": "Country USA", "ACTIVE": true}, row.Map())
	})

	t.Run("not found", func(t *testing.T) {
		row, err := store.FindOne(ctx, schema, "CTRY_CODE", "ZZZ")
		assert.NoError(t, err)
		assert.Nil(t, row)
	})

	t.Run("unknown column", func(t *testing.T) {
		_, err := store.FindOne(ctx, schema, "ISO", "US")
		assert.ErrorIs(t, err, record.ErrColumnMissing)
	})
}

func TestStore_InsertRejectsForeignColumn(t *testing.T) {
	db := newSQLiteDB(t)
	schema := ensure(t, db, legacy.CountryTable.Schema)

	row := record.NewRow("CTRY_CODE", "ISO")
	err := NewStore(db, nil).Insert(context.Background(), schema, row)

	assert.ErrorIs(t, err, record.ErrColumnMissing)
}

func TestStore_CustomerRoundTrip(t *testing.T) {
	ctx := context.Background()
	db := newSQLiteDB(t)
	schema := ensure(t, db, legacy.CustomerTable.Schema)
	store := NewStore(db, nil)

	c := legacy.NewCustomer()
	c.SetNumber(40012)
	require.NoError(t, c.SetName("Prairie Feed & Seed"))
	require.NoError(t, c.SetAddress("1200 County Rd 9", "Suite B"))
	require.NoError(t, c.SetCity("Ogallala"))
	require.NoError(t, c.SetState("NE"))
	require.NoError(t, c.SetZip("69153"))
	require.NoError(t, c.SetEmail("orders@prairiefeed.example"))
	c.SetStatus(legacy.CustomerOnHold)
	c.SetTerms(legacy.TermsCOD)
	c.SetCreditLimit(decimal.RequireFromString("2500.75"))
	c.SetTaxExempt(true)
	c.RecordOrder(time.Date(2016, 11, 30, 16, 45, 0, 0, time.UTC))

	row, err := legacy.CustomerTable.Project(c)
	require.NoError(t, err)
	require.NoError(t, store.Insert(ctx, schema, row))

	loaded, err := store.FindOne(ctx, schema, "CUST_NO", int64(40012))
	require.NoError(t, err)
	require.NotNil(t, loaded)

	got := legacy.NewCustomer()
	require.NoError(t, legacy.CustomerTable.Hydrate(got, loaded))
	assert.True(t, legacy.CustomerTable.Equal(c, got))
	assert.Equal(t, legacy.CustomerTable.Hash(c), legacy.CustomerTable.Hash(got))
	assert.Equal(t, 'C', got.Terms())
	assert.True(t, got.IsOnHold())
	assert.Empty(t, got.Phone())
}

func TestStore_ScanPostgresDriverValues(t *testing.T) {
	db, mock, mockDB := newMockPostgres(t)
	defer mockDB.Close()
	schema := priceSchema()
	changed := time.Date(2015, 1, 2, 3, 4, 5, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT "ITEM_CODE", "DESCR", "NOTES", "CLASS", "QTY", "PRICE", "TAXABLE", "CHANGED" FROM "IC_PRICE" ORDER BY "ITEM_CODE" LIMIT 500 OFFSET 0`)).
		WillReturnRows(sqlmock.NewRows(schema.ColumnNames()).
			AddRow([]byte("BOLT-10"), []byte("Hex bolt"), nil, []byte("S"), int64(120), []byte("0.3500"), true, changed))

	var rows []*record.Row
	err := NewStore(db, nil).Scan(context.Background(), schema, func(r *record.Row) error {
		rows = append(rows, r)
		return nil
	})

	require.NoError(t, err)
	require.Len(t, rows, 1)
	m := rows[0].Map()
	assert.Equal(t, "BOLT-10", m["ITEM_CODE"])
	assert.Nil(t, m["NOTES"])
	assert.Equal(t, 'S', m["CLASS"])
	assert.Equal(t, int64(120), m["QTY"])
	assert.True(t, decimal.RequireFromString("0.35").Equal(m["PRICE"].(decimal.Decimal)))
	assert.Equal(t, true, m["TAXABLE"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_InsertPostgres(t *testing.T) {
	db, mock, mockDB := newMockPostgres(t)
	defer mockDB.Close()
	schema := priceSchema()

	row := record.NewRow("ITEM_CODE", "CLASS", "QTY")
	require.NoError(t, row.Set("ITEM_CODE", "BOLT-10"))
	require.NoError(t, row.Set("CLASS", 'S'))
	require.NoError(t, row.Set("QTY", int64(5)))

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "IC_PRICE" ("ITEM_CODE", "CLASS", "QTY") VALUES ($1, $2, $3)`)).
		WithArgs("BOLT-10", "S", int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, NewStore(db, nil).Insert(context.Background(), schema, row))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_FindOnePostgresNoRows(t *testing.T) {
	db, mock, mockDB := newMockPostgres(t)
	defer mockDB.Close()
	schema := priceSchema()

	mock.ExpectQuery(regexp.QuoteMeta(`WHERE "ITEM_CODE" = $1 LIMIT 1`)).
		WithArgs("NOPE").
		WillReturnRows(sqlmock.NewRows(schema.ColumnNames()))

	row, err := NewStore(db, nil).FindOne(context.Background(), schema, "ITEM_CODE", "NOPE")

	assert.NoError(t, err)
	assert.Nil(t, row)
	assert.NoError(t, mock.ExpectationsWereMet())
}
