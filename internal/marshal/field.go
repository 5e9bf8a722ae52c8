package marshal

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ahardinathillc/whippet-sub000/internal/mapping"
	"github.com/ahardinathillc/whippet-sub000/internal/record"
)

// Kind classifies how a field is stored and compared.
type Kind int

const (
	KindText Kind = iota + 1
	KindBool
	KindInt
	KindDecimal
	KindChar
	KindTimestamp
	KindEnum
	KindRef
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindDecimal:
		return "decimal"
	case KindChar:
		return "char"
	case KindTimestamp:
		return "timestamp"
	case KindEnum:
		return "enum"
	case KindRef:
		return "ref"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Field describes one logical field of entity type E: how to read it from a
// record, write it to one, compare, hash and copy it. Fields are created with
// the constructors of this package and grouped into a Table.
type Field[E any] interface {
	// Name returns the logical field name used as the directory key.
	Name() string
	// Kind returns the field's kind.
	Kind() Kind

	columnType() ColumnType
	check(col mapping.Column) error
	hydrate(e *E, rec record.Record, col mapping.Column) error
	project(e *E, col mapping.Column) (any, error)
	equal(a, b *E, c Collation) bool
	hash(d *digest, e *E, c Collation)
	clone(dst, src *E)
}

// FieldOption configures a text field.
type FieldOption func(*textOptions)

type textOptions struct {
	optional bool
}

// Optional marks a text field as optional. An optional field accepts NULL
// from the record even if the column is declared NOT NULL, and is only
// copied by Clone when it holds a non-empty value.
func Optional() FieldOption {
	return func(o *textOptions) {
		o.optional = true
	}
}

type textField[E any] struct {
	name     string
	get      func(*E) *string
	optional bool
}

// Text declares a text field. get must return a pointer to the entity's
// backing string; an empty string stands for NULL on nullable columns.
func Text[E any](name string, get func(*E) *string, opts ...FieldOption) Field[E] {
	var o textOptions
	for _, opt := range opts {
		opt(&o)
	}
	return &textField[E]{name: name, get: get, optional: o.optional}
}

func (f *textField[E]) Name() string           { return f.name }
func (f *textField[E]) Kind() Kind             { return KindText }
func (f *textField[E]) columnType() ColumnType { return TypeText }

func (f *textField[E]) check(mapping.Column) error { return nil }

func (f *textField[E]) hydrate(e *E, rec record.Record, col mapping.Column) error {
	s, err := rec.GetString(col.Name())
	if err != nil {
		return err
	}
	return Assign(f.get(e), s, col, f.optional)
}

func (f *textField[E]) project(e *E, col mapping.Column) (any, error) {
	return projectText(*f.get(e), col)
}

func projectText(s string, col mapping.Column) (any, error) {
	if s == "" && col.Nullable() {
		return nil, nil
	}
	if err := checkWidth(s, col); err != nil {
		return nil, err
	}
	return s, nil
}

func (f *textField[E]) equal(a, b *E, c Collation) bool {
	return c.Equal(*f.get(a), *f.get(b))
}

func (f *textField[E]) hash(d *digest, e *E, c Collation) {
	d.writeString(c.Key(*f.get(e)))
}

func (f *textField[E]) clone(dst, src *E) {
	s := *f.get(src)
	if f.optional && s == "" {
		return
	}
	*f.get(dst) = s
}

// valueField covers the scalar kinds that map one-to-one onto a record
// accessor and are never NULL.
type valueField[E any, V any] struct {
	name  string
	kind  Kind
	ctype ColumnType
	get   func(*E) *V
	read  func(rec record.Record, column string) (V, error)
	eq    func(a, b V) bool
	write func(d *digest, v V)
	out   func(v V) any
}

func (f *valueField[E, V]) Name() string           { return f.name }
func (f *valueField[E, V]) Kind() Kind             { return f.kind }
func (f *valueField[E, V]) columnType() ColumnType { return f.ctype }

func (f *valueField[E, V]) check(col mapping.Column) error {
	w, ok := col.MaxWidth()
	if !ok {
		return nil
	}
	if f.kind == KindChar && w == 1 {
		return nil
	}
	return fmt.Errorf("%s field %q cannot map to column %s of width %d", f.kind, f.name, col.Name(), w)
}

func (f *valueField[E, V]) hydrate(e *E, rec record.Record, col mapping.Column) error {
	v, err := f.read(rec, col.Name())
	if err != nil {
		return err
	}
	*f.get(e) = v
	return nil
}

func (f *valueField[E, V]) project(e *E, _ mapping.Column) (any, error) {
	return f.out(*f.get(e)), nil
}

func (f *valueField[E, V]) equal(a, b *E, _ Collation) bool {
	return f.eq(*f.get(a), *f.get(b))
}

func (f *valueField[E, V]) hash(d *digest, e *E, _ Collation) {
	f.write(d, *f.get(e))
}

func (f *valueField[E, V]) clone(dst, src *E) {
	*f.get(dst) = *f.get(src)
}

func same[V comparable](a, b V) bool { return a == b }

func identity[V any](v V) any { return v }

// Bool declares a boolean field.
func Bool[E any](name string, get func(*E) *bool) Field[E] {
	return &valueField[E, bool]{
		name: name, kind: KindBool, ctype: TypeBoolean, get: get,
		read:  record.Record.GetBool,
		eq:    same[bool],
		write: (*digest).writeBool,
		out:   identity[bool],
	}
}

// Int declares an integer field.
func Int[E any](name string, get func(*E) *int64) Field[E] {
	return &valueField[E, int64]{
		name: name, kind: KindInt, ctype: TypeInteger, get: get,
		read:  record.Record.GetLong,
		eq:    same[int64],
		write: (*digest).writeInt,
		out:   identity[int64],
	}
}

// Decimal declares a decimal or currency field. Values compare by numeric
// value, so 1.5 and 1.50 are equal.
func Decimal[E any](name string, get func(*E) *decimal.Decimal) Field[E] {
	return &valueField[E, decimal.Decimal]{
		name: name, kind: KindDecimal, ctype: TypeDecimal, get: get,
		read:  record.Record.GetDecimal,
		eq:    decimal.Decimal.Equal,
		write: func(d *digest, v decimal.Decimal) { d.writeString(v.String()) },
		out:   identity[decimal.Decimal],
	}
}

// Char declares a single-character code field.
func Char[E any](name string, get func(*E) *rune) Field[E] {
	return &valueField[E, rune]{
		name: name, kind: KindChar, ctype: TypeChar, get: get,
		read:  record.Record.GetChar,
		eq:    same[rune],
		write: func(d *digest, v rune) { d.writeInt(int64(v)) },
		out:   identity[rune],
	}
}

type timestampField[E any] struct {
	name string
	get  func(*E) **time.Time
}

// Timestamp declares a nullable timestamp field. A nil value is the unset
// state; it compares equal to the zero time.
func Timestamp[E any](name string, get func(*E) **time.Time) Field[E] {
	return &timestampField[E]{name: name, get: get}
}

func (f *timestampField[E]) Name() string           { return f.name }
func (f *timestampField[E]) Kind() Kind             { return KindTimestamp }
func (f *timestampField[E]) columnType() ColumnType { return TypeTimestamp }

func (f *timestampField[E]) check(col mapping.Column) error {
	if w, ok := col.MaxWidth(); ok {
		return fmt.Errorf("timestamp field %q cannot map to column %s of width %d", f.name, col.Name(), w)
	}
	return nil
}

func (f *timestampField[E]) hydrate(e *E, rec record.Record, col mapping.Column) error {
	t, err := rec.GetNullableTimestamp(col.Name())
	if err != nil {
		return err
	}
	if t == nil {
		*f.get(e) = nil
		return nil
	}
	v := *t
	*f.get(e) = &v
	return nil
}

func (f *timestampField[E]) project(e *E, col mapping.Column) (any, error) {
	t := *f.get(e)
	if t == nil {
		if !col.Nullable() {
			return nil, &NullNotAllowedError{Column: col.Name()}
		}
		return nil, nil
	}
	return *t, nil
}

// resolved maps the unset state onto the zero time.
func resolved(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}

func (f *timestampField[E]) equal(a, b *E, _ Collation) bool {
	return resolved(*f.get(a)).Equal(resolved(*f.get(b)))
}

func (f *timestampField[E]) hash(d *digest, e *E, _ Collation) {
	d.writeTime(resolved(*f.get(e)))
}

func (f *timestampField[E]) clone(dst, src *E) {
	t := *f.get(src)
	if t == nil {
		*f.get(dst) = nil
		return
	}
	v := *t
	*f.get(dst) = &v
}
