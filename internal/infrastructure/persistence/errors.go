package persistence

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ahardinathillc/whippet-sub000/internal/marshal"
)

var (
	// ErrSchemaMismatch is returned when a live table does not match the
	// schema an entity projects to.
	ErrSchemaMismatch = errors.New("persistence: schema mismatch")

	// ErrDecode is returned when a driver value cannot be converted to the
	// canonical type of its column.
	ErrDecode = errors.New("persistence: cannot decode value")
)

// SchemaMismatchError lists every difference found between a live table and
// the expected schema.
type SchemaMismatchError struct {
	Table       string
	Differences []string
}

func (e *SchemaMismatchError) Error() string {
	return fmt.Sprintf("table %s does not match schema: %s", e.Table, strings.Join(e.Differences, "; "))
}

func (e *SchemaMismatchError) Is(err error) bool {
	return err == ErrSchemaMismatch
}

// DecodeError reports a driver value that has no canonical form for its
// column type.
type DecodeError struct {
	Table  string
	Column string
	Type   marshal.ColumnType
	Value  any
	Err    error
}

func (e *DecodeError) Error() string {
	msg := fmt.Sprintf("decode %s.%s as %s from %T", e.Table, e.Column, e.Type, e.Value)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

func (e *DecodeError) Is(err error) bool {
	return err == ErrDecode
}
