package marshal

import (
	"github.com/ahardinathillc/whippet-sub000/internal/mapping"
	"github.com/ahardinathillc/whippet-sub000/internal/record"
)

// Project converts e into a row under the default directory.
func (t *Table[E]) Project(e *E) (*record.Row, error) {
	return t.ProjectWith(e, t.Directory())
}

// ProjectWith converts e into a row whose columns follow dir's entry order.
// A text value longer than its column allows fails with LengthExceededError.
func (t *Table[E]) ProjectWith(e *E, dir *mapping.Directory) (*record.Row, error) {
	if e == nil {
		return nil, ErrNilEntity
	}
	if err := t.Verify(dir); err != nil {
		return nil, err
	}

	entries := dir.Entries()
	columns := make([]string, len(entries))
	for i, entry := range entries {
		columns[i] = entry.Column.Name()
	}
	row := record.NewRow(columns...)
	for _, entry := range entries {
		f := t.fields[t.index[entry.Field]]
		v, err := f.project(e, entry.Column)
		if err != nil {
			return nil, &FieldProjectionError{Entity: t.entity, Field: f.Name(), Column: entry.Column.Name(), Err: err}
		}
		if err := row.Set(entry.Column.Name(), v); err != nil {
			return nil, err
		}
	}
	return row, nil
}

// Key returns the primary key field of e and its projected value.
func (t *Table[E]) Key(e *E) (string, any, error) {
	if e == nil {
		return "", nil, ErrNilEntity
	}
	dir := t.Directory()
	pk, ok := dir.PrimaryKey()
	if !ok {
		return "", nil, &TableError{Entity: t.entity, Reason: "no primary key"}
	}
	f := t.fields[t.index[pk.Field]]
	v, err := f.project(e, pk.Column)
	if err != nil {
		return "", nil, &FieldProjectionError{Entity: t.entity, Field: pk.Field, Column: pk.Column.Name(), Err: err}
	}
	return pk.Field, v, nil
}
