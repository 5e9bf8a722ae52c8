package marshal

import (
	"fmt"
	"strings"

	"github.com/ahardinathillc/whippet-sub000/internal/mapping"
)

// ColumnType is the storage type of a projected column.
type ColumnType string

const (
	TypeText      ColumnType = "text"
	TypeChar      ColumnType = "char"
	TypeBoolean   ColumnType = "boolean"
	TypeInteger   ColumnType = "integer"
	TypeDecimal   ColumnType = "decimal"
	TypeTimestamp ColumnType = "timestamp"
)

// ColumnDef is one column of a derived table schema. MaxWidth is zero when
// no width is declared.
type ColumnDef struct {
	Name       string
	Type       ColumnType
	MaxWidth   int
	Nullable   bool
	PrimaryKey bool
}

func (c ColumnDef) String() string {
	var b strings.Builder
	b.WriteString(c.Name)
	b.WriteByte(' ')
	b.WriteString(string(c.Type))
	if c.MaxWidth > 0 {
		fmt.Fprintf(&b, "(%d)", c.MaxWidth)
	}
	if !c.Nullable {
		b.WriteString(" NOT NULL")
	}
	if c.PrimaryKey {
		b.WriteString(" PRIMARY KEY")
	}
	return b.String()
}

// TableSchema is the physical layout an entity projects to.
type TableSchema struct {
	Entity     string
	Name       string
	Columns    []ColumnDef
	PrimaryKey string
}

// Column returns the definition of the column named name.
func (s *TableSchema) Column(name string) (ColumnDef, bool) {
	for _, c := range s.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return ColumnDef{}, false
}

// ColumnNames returns the column names in schema order.
func (s *TableSchema) ColumnNames() []string {
	names := make([]string, len(s.Columns))
	for i, c := range s.Columns {
		names[i] = c.Name
	}
	return names
}

// String renders the schema in a canonical form suitable for comparison.
func (s *TableSchema) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "TABLE %s (%s)\n", s.Name, s.Entity)
	for _, c := range s.Columns {
		b.WriteString("  ")
		b.WriteString(c.String())
		b.WriteByte('\n')
	}
	return b.String()
}

// Schema derives the table schema under the default directory.
func (t *Table[E]) Schema() (*TableSchema, error) {
	return t.DeriveSchema(t.Directory())
}

// DeriveSchema derives the table schema under dir. Columns follow the
// directory's entry order.
func (t *Table[E]) DeriveSchema(dir *mapping.Directory) (*TableSchema, error) {
	if err := t.Verify(dir); err != nil {
		return nil, err
	}

	entries := dir.Entries()
	s := &TableSchema{
		Entity:  t.entity,
		Name:    dir.Table(),
		Columns: make([]ColumnDef, 0, len(entries)),
	}
	for _, entry := range entries {
		f := t.fields[t.index[entry.Field]]
		def := ColumnDef{
			Name:       entry.Column.Name(),
			Type:       f.columnType(),
			Nullable:   entry.Column.Nullable(),
			PrimaryKey: entry.Column.PrimaryKey(),
		}
		if w, ok := entry.Column.MaxWidth(); ok {
			def.MaxWidth = w
		}
		if def.Type == TypeChar {
			def.MaxWidth = 1
		}
		if def.PrimaryKey {
			s.PrimaryKey = def.Name
		}
		s.Columns = append(s.Columns, def)
	}
	return s, nil
}
