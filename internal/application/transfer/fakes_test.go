package transfer

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/ahardinathillc/whippet-sub000/internal/domain/legacy"
	"github.com/ahardinathillc/whippet-sub000/internal/marshal"
	"github.com/ahardinathillc/whippet-sub000/internal/record"
)

type memSource struct {
	rows []*record.Row
	err  error
}

func (m *memSource) Scan(ctx context.Context, _ *marshal.TableSchema, fn func(*record.Row) error) error {
	for _, r := range m.rows {
		if err := fn(r); err != nil {
			return err
		}
	}
	return m.err
}

type memSink struct {
	mu     sync.Mutex
	tables []string
	rows   []*record.Row
	err    error
}

func (m *memSink) Insert(_ context.Context, schema *marshal.TableSchema, row *record.Row) error {
	if m.err != nil {
		return m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tables = append(m.tables, schema.Name)
	m.rows = append(m.rows, row)
	return nil
}

func (m *memSink) len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.rows)
}

type memFinder struct {
	mu    sync.Mutex
	rows  map[string]*record.Row
	calls int
	err   error
}

func newMemFinder() *memFinder {
	return &memFinder{rows: make(map[string]*record.Row)}
}

func (m *memFinder) put(table, column string, value any, row *record.Row) {
	m.rows[fmt.Sprintf("%s/%s/%v", table, column, value)] = row
}

func (m *memFinder) FindOne(_ context.Context, schema *marshal.TableSchema, column string, value any) (*record.Row, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.rows[fmt.Sprintf("%s/%s/%v", schema.Name, column, value)], nil
}

func countryRow(code, name any) *record.Row {
	return record.FromMap([]string{"CTRY_CODE", "CTRY_NAME", "ACTIVE"}, map[string]any{
		"CTRY_CODE": code,
		"CTRY_NAME": name,
		"ACTIVE":    true,
	})
}

func countyRow(code string, warehouse any) *record.Row {
	return record.FromMap([]string{"CNTY_CODE", "CNTY_NAME", "STATE", "WHSE_CODE", "TAX_RATE", "ACTIVE"}, map[string]any{
		"CNTY_CODE": code,
		"CNTY_NAME": "County " + code,
		"STATE":     "NE",
		"WHSE_CODE": warehouse,
		"TAX_RATE":  decimal.RequireFromString("0.055"),
		"ACTIVE":    true,
	})
}

func warehouseFinder(t *testing.T, codes ...string) *memFinder {
	t.Helper()
	f := newMemFinder()
	for _, code := range codes {
		w := legacy.NewWarehouse()
		require.NoError(t, w.SetCode(code))
		require.NoError(t, w.SetName(strings.ToLower(code)+" warehouse"))
		row, err := legacy.WarehouseTable.Project(w)
		require.NoError(t, err)
		f.put("IC_WAREHOUSE", "WHSE_CODE", code, row)
	}
	return f
}
