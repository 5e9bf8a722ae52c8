// Package mapping holds the per-entity directory that maps logical field
// names onto the physical columns of the legacy ERP tables.
//
// A Directory is built once per entity type and never changes afterwards,
// so it may be cached in a package variable and shared between goroutines.
package mapping

import (
	"fmt"
	"strings"
)

// Column describes one physical column of a legacy table.
// The zero value is not usable; construct columns with NewColumn.
type Column struct {
	name       string
	maxWidth   int
	nullable   bool
	primaryKey bool
}

// ColumnOption configures a Column at construction time.
type ColumnOption func(*Column)

// Width declares the maximum number of characters the column can hold.
func Width(n int) ColumnOption {
	return func(c *Column) {
		c.maxWidth = n
	}
}

// Nullable marks the column as accepting NULL.
func Nullable() ColumnOption {
	return func(c *Column) {
		c.nullable = true
	}
}

// PrimaryKey marks the column as the table's primary key.
func PrimaryKey() ColumnOption {
	return func(c *Column) {
		c.primaryKey = true
	}
}

// NewColumn creates a column descriptor.
func NewColumn(name string, opts ...ColumnOption) Column {
	c := Column{name: name}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// Name returns the physical column name.
func (c Column) Name() string {
	return c.name
}

// MaxWidth returns the declared width and whether one was declared.
func (c Column) MaxWidth() (int, bool) {
	return c.maxWidth, c.maxWidth > 0
}

// Nullable reports whether the column accepts NULL.
func (c Column) Nullable() bool {
	return c.nullable
}

// PrimaryKey reports whether the column is the primary key.
func (c Column) PrimaryKey() bool {
	return c.primaryKey
}

func (c Column) String() string {
	var b strings.Builder
	b.WriteString(c.name)
	if w, ok := c.MaxWidth(); ok {
		fmt.Fprintf(&b, "(%d)", w)
	}
	if c.primaryKey {
		b.WriteString(" PK")
	}
	if !c.nullable {
		b.WriteString(" NOT NULL")
	}
	return b.String()
}
