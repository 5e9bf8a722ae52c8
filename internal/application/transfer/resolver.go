package transfer

import (
	"context"
	"fmt"

	"golang.org/x/sync/singleflight"

	"github.com/ahardinathillc/whippet-sub000/internal/marshal"
	"github.com/ahardinathillc/whippet-sub000/internal/record"
)

// Resolver turns reference placeholders of type S into fully loaded
// entities.
type Resolver[S any] struct {
	table  *marshal.Table[S]
	finder marshal.Finder
}

// NewResolver creates a resolver loading S through finder.
func NewResolver[S any](table *marshal.Table[S], finder marshal.Finder) *Resolver[S] {
	return &Resolver[S]{table: table, finder: finder}
}

// Resolve loads the entity identified by placeholder's primary key. A nil
// placeholder resolves to nil. An unknown key fails with
// marshal.ReferenceNotFoundError.
func (r *Resolver[S]) Resolve(ctx context.Context, placeholder *S) (*S, error) {
	if placeholder == nil {
		return nil, nil
	}
	field, value, err := r.table.Key(placeholder)
	if err != nil {
		return nil, err
	}
	return r.table.Fetch(ctx, r.finder, field, value)
}

// SharedFinder collapses concurrent identical lookups of another Finder
// into one call. Nothing is retained once a lookup returns; the next lookup
// of the same key reaches next again. Rows returned to concurrent callers
// are shared and must not be modified.
type SharedFinder struct {
	next  marshal.Finder
	group singleflight.Group
}

var _ marshal.Finder = (*SharedFinder)(nil)

// NewSharedFinder wraps next.
func NewSharedFinder(next marshal.Finder) *SharedFinder {
	return &SharedFinder{next: next}
}

// FindOne implements marshal.Finder.
func (f *SharedFinder) FindOne(ctx context.Context, schema *marshal.TableSchema, column string, value any) (*record.Row, error) {
	key := fmt.Sprintf("%s\x00%s\x00%T\x00%v", schema.Name, column, value, value)
	v, err, _ := f.group.Do(key, func() (any, error) {
		return f.next.FindOne(ctx, schema, column, value)
	})
	if err != nil {
		return nil, err
	}
	row, _ := v.(*record.Row)
	return row, nil
}
