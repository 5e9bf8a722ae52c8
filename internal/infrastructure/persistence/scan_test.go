package persistence

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ahardinathillc/whippet-sub000/internal/application/transfer"
	"github.com/ahardinathillc/whippet-sub000/internal/domain/legacy"
	"github.com/ahardinathillc/whippet-sub000/internal/marshal"
	"github.com/ahardinathillc/whippet-sub000/internal/record"
)

func TestStore_ScanKeepsUndecodableValue(t *testing.T) {
	db := newSQLiteDB(t)
	schema := ensure(t, db, legacy.CountryTable.Schema)
	require.NoError(t, db.Exec(`INSERT INTO "AR_COUNTRY" ("CTRY_CODE", "CTRY_NAME", "ACTIVE") VALUES (?, ?, ?)`,
		"MAY", "Maybe Land", "maybe").Error)

	var rows []*record.Row
	err := NewStore(db, nil).Scan(context.Background(), schema, func(row *record.Row) error {
		rows = append(rows, row)
		return nil
	})

	require.NoError(t, err)
	require.Len(t, rows, 1)
	v, ok := rows[0].Value("ACTIVE")
	require.True(t, ok)
	assert.Equal(t, "maybe", v)

	_, err = rows[0].GetBool("ACTIVE")
	assert.ErrorIs(t, err, record.ErrTypeMismatch)
}

func TestTransfer_RejectsBadLegacyRows(t *testing.T) {
	ctx := context.Background()
	sourceDB := newSQLiteDB(t)
	targetDB := newSQLiteDB(t)
	schema := ensure(t, sourceDB, legacy.CountryTable.Schema)
	ensure(t, targetDB, legacy.CountryTable.Schema)

	insert := `INSERT INTO "AR_COUNTRY" ("CTRY_CODE", "CTRY_NAME", "ACTIVE") VALUES (?, ?, ?)`
	require.NoError(t, sourceDB.Exec(insert, "CAN", "Canada", true).Error)
	require.NoError(t, sourceDB.Exec(insert, "XLN", strings.Repeat("x", 31), true).Error)
	require.NoError(t, sourceDB.Exec(insert, "MAY", "Maybe Land", "maybe").Error)
	require.NoError(t, sourceDB.Exec(insert, "USA", "United States", false).Error)

	source := NewStore(sourceDB, zap.NewNop(), WithBatchSize(2))
	target := NewStore(targetDB, zap.NewNop())

	report, err := transfer.NewPipeline(legacy.CountryTable, source, target).Run(ctx)

	require.NoError(t, err)
	assert.Equal(t, 4, report.Read)
	assert.Equal(t, 2, report.Written)
	assert.Equal(t, 2, report.Rejected)

	byKey := map[any]transfer.Rejection{}
	for _, r := range report.Rejections {
		byKey[r.Key] = r
	}
	require.Len(t, byKey, 2)
	assert.True(t, marshal.IsLengthExceeded(byKey["XLN"].Err))
	assert.Equal(t, "ACTIVE", byKey["MAY"].Column)
	assert.ErrorIs(t, byKey["MAY"].Err, record.ErrTypeMismatch)
	assert.True(t, marshal.IsRejection(byKey["MAY"].Err))

	n, err := target.Count(ctx, schema)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}
