package marshal

import (
	"fmt"

	"github.com/ahardinathillc/whippet-sub000/internal/mapping"
	"github.com/ahardinathillc/whippet-sub000/internal/record"
)

// Enum is a closed mapping between stored codes and in-memory values of T.
// Codes are either single characters or small integers.
type Enum[T comparable] struct {
	name   string
	byChar map[rune]T
	byInt  map[int64]T
	codes  map[T]any
}

// CharEnum builds an enumeration stored as a single-character code. It
// panics if two codes map to the same value.
func CharEnum[T comparable](name string, codes map[rune]T) *Enum[T] {
	e := &Enum[T]{name: name, byChar: make(map[rune]T, len(codes)), codes: make(map[T]any, len(codes))}
	for code, v := range codes {
		e.add(v, code)
		e.byChar[code] = v
	}
	return e
}

// IntEnum builds an enumeration stored as an integer code. It panics if two
// codes map to the same value.
func IntEnum[T comparable](name string, codes map[int64]T) *Enum[T] {
	e := &Enum[T]{name: name, byInt: make(map[int64]T, len(codes)), codes: make(map[T]any, len(codes))}
	for code, v := range codes {
		e.add(v, code)
		e.byInt[code] = v
	}
	return e
}

func (e *Enum[T]) add(v T, code any) {
	if prev, dup := e.codes[v]; dup {
		panic(fmt.Sprintf("marshal: enum %s maps %v and %v to the same value", e.name, prev, code))
	}
	e.codes[v] = code
}

// Name returns the enumeration name.
func (e *Enum[T]) Name() string {
	return e.name
}

func (e *Enum[T]) isChar() bool {
	return e.byChar != nil
}

// Decode maps a stored code to its value. The code must be a rune for
// character enums and an int64 for integer enums.
func (e *Enum[T]) Decode(code any) (T, error) {
	var (
		v  T
		ok bool
	)
	switch c := code.(type) {
	case rune:
		v, ok = e.byChar[c]
	case int64:
		v, ok = e.byInt[c]
	}
	if !ok {
		return v, &UnknownEnumCodeError{Enum: e.name, Code: code}
	}
	return v, nil
}

// Encode maps a value to its stored code.
func (e *Enum[T]) Encode(v T) (any, error) {
	code, ok := e.codes[v]
	if !ok {
		return nil, &InvalidEnumValueError{Enum: e.name, Value: v}
	}
	return code, nil
}

type enumField[E any, T comparable] struct {
	name string
	get  func(*E) *T
	enum *Enum[T]
}

// EnumOf declares a field whose values are drawn from enum.
func EnumOf[E any, T comparable](name string, get func(*E) *T, enum *Enum[T]) Field[E] {
	return &enumField[E, T]{name: name, get: get, enum: enum}
}

func (f *enumField[E, T]) Name() string { return f.name }
func (f *enumField[E, T]) Kind() Kind   { return KindEnum }

func (f *enumField[E, T]) columnType() ColumnType {
	if f.enum.isChar() {
		return TypeChar
	}
	return TypeInteger
}

func (f *enumField[E, T]) check(col mapping.Column) error {
	w, ok := col.MaxWidth()
	if !ok || (f.enum.isChar() && w == 1) {
		return nil
	}
	return fmt.Errorf("enum field %q cannot map to column %s of width %d", f.name, col.Name(), w)
}

func (f *enumField[E, T]) hydrate(e *E, rec record.Record, col mapping.Column) error {
	var (
		code any
		err  error
	)
	if f.enum.isChar() {
		code, err = rec.GetChar(col.Name())
	} else {
		code, err = rec.GetLong(col.Name())
	}
	if err != nil {
		return err
	}
	v, err := f.enum.Decode(code)
	if err != nil {
		return err
	}
	*f.get(e) = v
	return nil
}

func (f *enumField[E, T]) project(e *E, _ mapping.Column) (any, error) {
	return f.enum.Encode(*f.get(e))
}

func (f *enumField[E, T]) equal(a, b *E, _ Collation) bool {
	return *f.get(a) == *f.get(b)
}

func (f *enumField[E, T]) hash(d *digest, e *E, _ Collation) {
	switch code := f.enum.codes[*f.get(e)].(type) {
	case rune:
		d.writeInt(int64(code))
	case int64:
		d.writeInt(code)
	default:
		// values outside the domain hash alike
		d.writeByte(0xff)
	}
}

func (f *enumField[E, T]) clone(dst, src *E) {
	*f.get(dst) = *f.get(src)
}
