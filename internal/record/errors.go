package record

import (
	"errors"
	"fmt"
)

var (
	// ErrColumnMissing is returned when a record has no column of the requested name.
	ErrColumnMissing = errors.New("record: column missing")

	// ErrTypeMismatch is returned when a column holds a value of a different type
	// than the accessor expects.
	ErrTypeMismatch = errors.New("record: type mismatch")

	// ErrUnexpectedNull is returned when a non-nullable accessor reads a NULL value.
	ErrUnexpectedNull = errors.New("record: unexpected null")
)

// ColumnMissingError reports an access to a column the record does not carry.
type ColumnMissingError struct {
	Column string
}

func (e *ColumnMissingError) Error() string {
	return fmt.Sprintf("record: column %q missing", e.Column)
}

func (e *ColumnMissingError) Is(err error) bool {
	return err == ErrColumnMissing
}

// TypeMismatchError reports a value whose Go type does not match the accessor.
type TypeMismatchError struct {
	Column string
	Want   string
	Got    any
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("record: column %q holds %T, want %s", e.Column, e.Got, e.Want)
}

func (e *TypeMismatchError) Is(err error) bool {
	return err == ErrTypeMismatch
}

// UnexpectedNullError reports a NULL read through an accessor that has no
// null representation.
type UnexpectedNullError struct {
	Column string
	Want   string
}

func (e *UnexpectedNullError) Error() string {
	return fmt.Sprintf("record: column %q is null, want %s", e.Column, e.Want)
}

func (e *UnexpectedNullError) Is(err error) bool {
	return err == ErrUnexpectedNull
}
