package record

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Row is an ordered, mutable Record. Column order is fixed when the row is
// created and is preserved by Columns, Values and Map iteration helpers.
type Row struct {
	columns []string
	index   map[string]int
	values  []any
}

var _ Record = (*Row)(nil)

// NewRow creates a row with the given columns, all set to NULL.
// It panics if a column name repeats.
func NewRow(columns ...string) *Row {
	r := &Row{
		columns: make([]string, 0, len(columns)),
		index:   make(map[string]int, len(columns)),
		values:  make([]any, 0, len(columns)),
	}
	for _, c := range columns {
		if _, dup := r.index[c]; dup {
			panic(fmt.Sprintf("record: duplicate column %q", c))
		}
		r.index[c] = len(r.columns)
		r.columns = append(r.columns, c)
		r.values = append(r.values, nil)
	}
	return r
}

// FromMap builds a row from values, taking column order from columns.
// Columns absent from values are NULL.
func FromMap(columns []string, values map[string]any) *Row {
	r := NewRow(columns...)
	for i, c := range r.columns {
		r.values[i] = values[c]
	}
	return r
}

// Set stores value in column. The column must exist.
func (r *Row) Set(column string, value any) error {
	i, ok := r.index[column]
	if !ok {
		return &ColumnMissingError{Column: column}
	}
	r.values[i] = value
	return nil
}

// Value returns the raw value of column and whether the column exists.
func (r *Row) Value(column string) (any, bool) {
	i, ok := r.index[column]
	if !ok {
		return nil, false
	}
	return r.values[i], true
}

// Len returns the number of columns.
func (r *Row) Len() int {
	return len(r.columns)
}

// Columns returns the column names in row order.
func (r *Row) Columns() []string {
	return append([]string(nil), r.columns...)
}

// Values returns the column values in row order.
func (r *Row) Values() []any {
	return append([]any(nil), r.values...)
}

// Map returns the row as a column-keyed map.
func (r *Row) Map() map[string]any {
	m := make(map[string]any, len(r.columns))
	for i, c := range r.columns {
		m[c] = r.values[i]
	}
	return m
}

func (r *Row) lookup(column string) (any, error) {
	i, ok := r.index[column]
	if !ok {
		return nil, &ColumnMissingError{Column: column}
	}
	return r.values[i], nil
}

// GetString implements Record.
func (r *Row) GetString(column string) (*string, error) {
	v, err := r.lookup(column)
	if err != nil {
		return nil, err
	}
	switch t := v.(type) {
	case nil:
		return nil, nil
	case string:
		return &t, nil
	default:
		return nil, &TypeMismatchError{Column: column, Want: "string", Got: v}
	}
}

// GetBool implements Record.
func (r *Row) GetBool(column string) (bool, error) {
	v, err := r.lookup(column)
	if err != nil {
		return false, err
	}
	switch t := v.(type) {
	case nil:
		return false, &UnexpectedNullError{Column: column, Want: "bool"}
	case bool:
		return t, nil
	default:
		return false, &TypeMismatchError{Column: column, Want: "bool", Got: v}
	}
}

// GetLong implements Record.
func (r *Row) GetLong(column string) (int64, error) {
	v, err := r.lookup(column)
	if err != nil {
		return 0, err
	}
	switch t := v.(type) {
	case nil:
		return 0, &UnexpectedNullError{Column: column, Want: "int64"}
	case int64:
		return t, nil
	default:
		return 0, &TypeMismatchError{Column: column, Want: "int64", Got: v}
	}
}

// GetDecimal implements Record.
func (r *Row) GetDecimal(column string) (decimal.Decimal, error) {
	v, err := r.lookup(column)
	if err != nil {
		return decimal.Zero, err
	}
	switch t := v.(type) {
	case nil:
		return decimal.Zero, &UnexpectedNullError{Column: column, Want: "decimal"}
	case decimal.Decimal:
		return t, nil
	default:
		return decimal.Zero, &TypeMismatchError{Column: column, Want: "decimal", Got: v}
	}
}

// GetChar implements Record.
func (r *Row) GetChar(column string) (rune, error) {
	v, err := r.lookup(column)
	if err != nil {
		return 0, err
	}
	switch t := v.(type) {
	case nil:
		return 0, &UnexpectedNullError{Column: column, Want: "rune"}
	case rune:
		return t, nil
	default:
		return 0, &TypeMismatchError{Column: column, Want: "rune", Got: v}
	}
}

// GetNullableTimestamp implements Record.
func (r *Row) GetNullableTimestamp(column string) (*time.Time, error) {
	i, ok := r.index[column]
	if !ok {
		return nil, nil
	}
	switch t := r.values[i].(type) {
	case nil:
		return nil, nil
	case time.Time:
		return &t, nil
	default:
		return nil, &TypeMismatchError{Column: column, Want: "time.Time", Got: t}
	}
}
