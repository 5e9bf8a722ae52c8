package marshal

import (
	"context"
	"fmt"

	"github.com/ahardinathillc/whippet-sub000/internal/record"
)

// Finder loads the single row of schema whose column equals value. It
// returns a nil row, not an error, when nothing matches.
type Finder interface {
	FindOne(ctx context.Context, schema *TableSchema, column string, value any) (*record.Row, error)
}

type resolver[E any] interface {
	resolve(ctx context.Context, e *E, finder Finder) error
}

// Resolve replaces every reference placeholder held by e with the entity
// loaded through finder, recursively. Absent references stay absent.
func (t *Table[E]) Resolve(ctx context.Context, e *E, finder Finder) error {
	if e == nil {
		return ErrNilEntity
	}
	for _, f := range t.fields {
		r, ok := f.(resolver[E])
		if !ok {
			continue
		}
		if err := r.resolve(ctx, e, finder); err != nil {
			return fmt.Errorf("resolve %s.%s: %w", t.entity, f.Name(), err)
		}
	}
	return nil
}

// Fetch loads the entity whose field equals value under the default
// directory, hydrates it and resolves its own references. A missing row
// fails with ReferenceNotFoundError.
func (t *Table[E]) Fetch(ctx context.Context, finder Finder, field string, value any) (*E, error) {
	dir := t.Directory()
	col, err := dir.Lookup(field)
	if err != nil {
		return nil, err
	}
	schema, err := t.DeriveSchema(dir)
	if err != nil {
		return nil, err
	}
	row, err := finder.FindOne(ctx, schema, col.Name(), value)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, &ReferenceNotFoundError{Entity: t.entity, Column: col.Name(), Value: value}
	}

	e := t.New()
	if err := t.HydrateWith(e, row, dir); err != nil {
		return nil, err
	}
	if err := t.Resolve(ctx, e, finder); err != nil {
		return nil, err
	}
	return e, nil
}

func (f *refField[E, S]) resolve(ctx context.Context, e *E, finder Finder) error {
	p := *f.get(e)
	if p == nil {
		return nil
	}
	full, err := f.sub.Fetch(ctx, finder, f.code.name, *f.code.get(p))
	if err != nil {
		return err
	}
	*f.get(e) = full
	return nil
}
