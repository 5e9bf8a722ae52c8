// Package record defines the tabular record exchanged with the legacy ERP
// data source: an ordered set of named column values with strictly typed
// accessors.
//
// Values held by a Row are always in canonical form:
//
//   - text:       string
//   - boolean:    bool
//   - integer:    int64
//   - decimal:    decimal.Decimal
//   - character:  rune
//   - timestamp:  time.Time
//   - NULL:       nil
//
// Adapters that read from a database are responsible for converting driver
// representations into these types. Accessors never coerce between them.
package record

import (
	"time"

	"github.com/shopspring/decimal"
)

// Record is a read-only view over one row of the external source, keyed by
// physical column name.
type Record interface {
	// GetString returns the text value of column, or nil when it is NULL.
	GetString(column string) (*string, error)
	// GetBool returns the boolean value of column.
	GetBool(column string) (bool, error)
	// GetLong returns the integer value of column.
	GetLong(column string) (int64, error)
	// GetDecimal returns the decimal value of column.
	GetDecimal(column string) (decimal.Decimal, error)
	// GetChar returns the single-character code held by column.
	GetChar(column string) (rune, error)
	// GetNullableTimestamp returns the timestamp held by column. A NULL value
	// and a column that is not present in the record both yield nil.
	GetNullableTimestamp(column string) (*time.Time, error)
}
