package marshal

import (
	"github.com/ahardinathillc/whippet-sub000/internal/mapping"
	"github.com/ahardinathillc/whippet-sub000/internal/record"
)

// Hydrate populates e from rec using the default directory.
func (t *Table[E]) Hydrate(e *E, rec record.Record) error {
	return t.HydrateWith(e, rec, t.Directory())
}

// HydrateWith populates every declared field of e from rec, resolving
// columns through dir. Every column is resolved before any value is read,
// so an unmapped field is reported ahead of extraction failures. Either all
// fields are assigned or, on error, e is left exactly as it was.
func (t *Table[E]) HydrateWith(e *E, rec record.Record, dir *mapping.Directory) error {
	if isNilRecord(rec) {
		return ErrNullRecord
	}
	if e == nil {
		return ErrNilEntity
	}

	cols := make([]mapping.Column, len(t.fields))
	for i, f := range t.fields {
		col, err := dir.Lookup(f.Name())
		if err != nil {
			return err
		}
		cols[i] = col
	}

	staged := *e
	for i, f := range t.fields {
		col := cols[i]
		if err := f.hydrate(&staged, rec, col); err != nil {
			return &FieldExtractionError{Entity: t.entity, Field: f.Name(), Column: col.Name(), Err: err}
		}
	}
	*e = staged
	return nil
}

func isNilRecord(rec record.Record) bool {
	if rec == nil {
		return true
	}
	r, ok := rec.(*record.Row)
	return ok && r == nil
}
