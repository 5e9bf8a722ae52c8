package marshal

import (
	"fmt"

	"github.com/ahardinathillc/whippet-sub000/internal/mapping"
)

// Table is the field catalog of entity type E. It drives hydration,
// projection, equality, hashing and cloning for every entity of the type.
// A Table is immutable and safe for concurrent use; the entities it
// operates on are not.
type Table[E any] struct {
	entity    string
	newFn     func() *E
	directory func() *mapping.Directory
	fields    []Field[E]
	index     map[string]int
}

// NewTable creates the field catalog for entity. newFn returns a new entity
// carrying its constructor defaults; directory returns the default column
// mapping. Every field must be mapped by the default directory, and every
// directory entry must have a field.
func NewTable[E any](entity string, newFn func() *E, directory func() *mapping.Directory, fields ...Field[E]) (*Table[E], error) {
	invalid := func(format string, args ...any) error {
		return &TableError{Entity: entity, Reason: fmt.Sprintf(format, args...)}
	}
	if newFn == nil {
		return nil, invalid("constructor is nil")
	}
	if directory == nil {
		return nil, invalid("directory factory is nil")
	}

	t := &Table[E]{
		entity:    entity,
		newFn:     newFn,
		directory: directory,
		fields:    make([]Field[E], 0, len(fields)),
		index:     make(map[string]int, len(fields)),
	}
	for _, f := range fields {
		if f == nil {
			return nil, invalid("nil field")
		}
		if _, dup := t.index[f.Name()]; dup {
			return nil, invalid("duplicate field %q", f.Name())
		}
		t.index[f.Name()] = len(t.fields)
		t.fields = append(t.fields, f)
	}

	if err := t.Verify(directory()); err != nil {
		return nil, err
	}
	return t, nil
}

// MustTable is like NewTable but panics on error.
func MustTable[E any](entity string, newFn func() *E, directory func() *mapping.Directory, fields ...Field[E]) *Table[E] {
	t, err := NewTable(entity, newFn, directory, fields...)
	if err != nil {
		panic(err)
	}
	return t
}

// Entity returns the entity type name.
func (t *Table[E]) Entity() string {
	return t.entity
}

// New returns a new entity with its constructor defaults.
func (t *Table[E]) New() *E {
	return t.newFn()
}

// Directory returns the default column mapping.
func (t *Table[E]) Directory() *mapping.Directory {
	return t.directory()
}

// Fields returns the field descriptors in declaration order.
func (t *Table[E]) Fields() []Field[E] {
	return append([]Field[E](nil), t.fields...)
}

// Field returns the descriptor named name.
func (t *Table[E]) Field(name string) (Field[E], bool) {
	i, ok := t.index[name]
	if !ok {
		return nil, false
	}
	return t.fields[i], true
}

// Text returns the value of the text field named field.
func (t *Table[E]) Text(e *E, field string) (string, error) {
	tf, err := t.textField(field)
	if err != nil {
		return "", err
	}
	return *tf.get(e), nil
}

// Verify checks that dir can serve this table: every field is mapped, every
// entry has a field and each field kind is compatible with its column.
func (t *Table[E]) Verify(dir *mapping.Directory) error {
	for _, f := range t.fields {
		col, err := dir.Lookup(f.Name())
		if err != nil {
			return err
		}
		if err := f.check(col); err != nil {
			return &TableError{Entity: t.entity, Reason: err.Error()}
		}
	}
	for _, entry := range dir.Entries() {
		if _, ok := t.index[entry.Field]; !ok {
			return &UndeclaredFieldError{Entity: t.entity, Field: entry.Field}
		}
	}
	return nil
}

// textField returns the text descriptor named name, for reference codes.
func (t *Table[E]) textField(name string) (*textField[E], error) {
	f, ok := t.Field(name)
	if !ok {
		return nil, &UndeclaredFieldError{Entity: t.entity, Field: name}
	}
	tf, ok := f.(*textField[E])
	if !ok {
		return nil, &TableError{Entity: t.entity, Reason: fmt.Sprintf("field %q is %s, not text", name, f.Kind())}
	}
	return tf, nil
}
