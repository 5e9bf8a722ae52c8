package marshal

import (
	"github.com/ahardinathillc/whippet-sub000/internal/mapping"
	"github.com/ahardinathillc/whippet-sub000/internal/record"
)

type refField[E any, S any] struct {
	name string
	get  func(*E) **S
	sub  *Table[S]
	code *textField[S]
}

// Ref declares an owned reference from E to a sub-entity of type S, stored
// in the parent's column as the sub-entity's code. codeField names the text
// field of S that holds that code. A nil reference is absent.
//
// Hydration only builds a placeholder carrying the code; Table.Resolve
// replaces placeholders with fully loaded entities.
//
// Ref panics if codeField is not a text field of sub.
func Ref[E any, S any](name string, get func(*E) **S, sub *Table[S], codeField string) Field[E] {
	code, err := sub.textField(codeField)
	if err != nil {
		panic(err)
	}
	return &refField[E, S]{name: name, get: get, sub: sub, code: code}
}

func (f *refField[E, S]) Name() string           { return f.name }
func (f *refField[E, S]) Kind() Kind             { return KindRef }
func (f *refField[E, S]) columnType() ColumnType { return TypeText }

func (f *refField[E, S]) check(mapping.Column) error { return nil }

func (f *refField[E, S]) hydrate(e *E, rec record.Record, col mapping.Column) error {
	code, err := rec.GetString(col.Name())
	if err != nil {
		return err
	}
	if code == nil {
		*f.get(e) = nil
		return nil
	}
	if err := checkWidth(*code, col); err != nil {
		return err
	}
	p := f.sub.New()
	*f.code.get(p) = *code
	*f.get(e) = p
	return nil
}

func (f *refField[E, S]) project(e *E, col mapping.Column) (any, error) {
	p := *f.get(e)
	if p == nil {
		if !col.Nullable() {
			return nil, &NullNotAllowedError{Column: col.Name()}
		}
		return nil, nil
	}
	return projectText(*f.code.get(p), col)
}

func (f *refField[E, S]) equal(a, b *E, c Collation) bool {
	return f.sub.EqualWith(*f.get(a), *f.get(b), c)
}

func (f *refField[E, S]) hash(d *digest, e *E, c Collation) {
	p := *f.get(e)
	if p == nil {
		d.writeByte(0)
		return
	}
	d.writeByte(1)
	f.sub.hashInto(d, p, c)
}

func (f *refField[E, S]) clone(dst, src *E) {
	*f.get(dst) = f.sub.Clone(*f.get(src))
}

// OrDefault returns ref, or a new default S when ref is absent. The parent
// holding ref is not modified.
func OrDefault[S any](ref *S, sub *Table[S]) *S {
	if ref != nil {
		return ref
	}
	return sub.New()
}
