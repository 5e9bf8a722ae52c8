package mapping

import (
	"fmt"
)

// Entry binds a logical field name to its physical column.
type Entry struct {
	Field  string
	Column Column
}

// Directory is the ordered field-to-column map of one entity type.
// Entry order is the canonical column order of the table.
type Directory struct {
	entity  string
	table   string
	entries []Entry
	index   map[string]int
}

// Entity returns the name of the entity type the directory describes.
func (d *Directory) Entity() string {
	return d.entity
}

// Table returns the physical table name.
func (d *Directory) Table() string {
	return d.table
}

// Lookup returns the column mapped to field.
func (d *Directory) Lookup(field string) (Column, error) {
	i, ok := d.index[field]
	if !ok {
		return Column{}, &FieldNotMappedError{Entity: d.entity, Field: field}
	}
	return d.entries[i].Column, nil
}

// MustLookup is like Lookup but panics if field is not mapped.
func (d *Directory) MustLookup(field string) Column {
	c, err := d.Lookup(field)
	if err != nil {
		panic(err)
	}
	return c
}

// Has reports whether field is mapped.
func (d *Directory) Has(field string) bool {
	_, ok := d.index[field]
	return ok
}

// Entries returns the entries in registration order.
func (d *Directory) Entries() []Entry {
	return append([]Entry(nil), d.entries...)
}

// Len returns the number of mapped fields.
func (d *Directory) Len() int {
	return len(d.entries)
}

// PrimaryKey returns the primary key entry, if one is declared.
func (d *Directory) PrimaryKey() (Entry, bool) {
	for _, e := range d.entries {
		if e.Column.PrimaryKey() {
			return e, true
		}
	}
	return Entry{}, false
}

// WithTable returns a copy of d that maps the same fields onto table.
func (d *Directory) WithTable(table string) (*Directory, error) {
	return newDirectory(d.entity, table, d.entries)
}

// Builder accumulates entries for a Directory.
type Builder struct {
	entity  string
	table   string
	entries []Entry
}

// NewBuilder starts a directory for entity stored in table.
func NewBuilder(entity, table string) *Builder {
	return &Builder{entity: entity, table: table}
}

// Map appends a field-to-column entry.
func (b *Builder) Map(field string, column Column) *Builder {
	b.entries = append(b.entries, Entry{Field: field, Column: column})
	return b
}

// Build validates the accumulated entries and returns the directory.
func (b *Builder) Build() (*Directory, error) {
	return newDirectory(b.entity, b.table, b.entries)
}

// MustBuild is like Build but panics on an invalid definition. It is meant
// for package-level directory factories whose input is fixed at compile time.
func (b *Builder) MustBuild() *Directory {
	d, err := b.Build()
	if err != nil {
		panic(err)
	}
	return d
}

func newDirectory(entity, table string, entries []Entry) (*Directory, error) {
	invalid := func(format string, args ...any) error {
		return &DirectoryError{Entity: entity, Reason: fmt.Sprintf(format, args...)}
	}

	if entity == "" {
		return nil, invalid("entity name is empty")
	}
	if table == "" {
		return nil, invalid("table name is empty")
	}

	d := &Directory{
		entity:  entity,
		table:   table,
		entries: make([]Entry, 0, len(entries)),
		index:   make(map[string]int, len(entries)),
	}
	columns := make(map[string]string, len(entries))
	pk := ""
	for _, e := range entries {
		if e.Field == "" {
			return nil, invalid("empty field name")
		}
		if e.Column.name == "" {
			return nil, invalid("field %q has an empty column name", e.Field)
		}
		if e.Column.maxWidth < 0 {
			return nil, invalid("column %q has negative width %d", e.Column.name, e.Column.maxWidth)
		}
		if _, dup := d.index[e.Field]; dup {
			return nil, invalid("duplicate field %q", e.Field)
		}
		if other, dup := columns[e.Column.name]; dup {
			return nil, invalid("column %q mapped by both %q and %q", e.Column.name, other, e.Field)
		}
		if e.Column.primaryKey {
			if pk != "" {
				return nil, invalid("multiple primary keys: %q and %q", pk, e.Field)
			}
			pk = e.Field
		}
		columns[e.Column.name] = e.Field
		d.index[e.Field] = len(d.entries)
		d.entries = append(d.entries, e)
	}
	return d, nil
}
