package marshal

import (
	"errors"
	"fmt"
)

// Sentinel errors for errors.Is checks. The typed errors below carry the
// details and match the sentinel of their category.
var (
	ErrLengthExceeded    = errors.New("marshal: length exceeded")
	ErrNullNotAllowed    = errors.New("marshal: null not allowed")
	ErrNullRecord        = errors.New("marshal: null record")
	ErrNilEntity         = errors.New("marshal: nil entity")
	ErrFieldExtraction   = errors.New("marshal: field extraction failed")
	ErrFieldProjection   = errors.New("marshal: field projection failed")
	ErrUnknownEnumCode   = errors.New("marshal: unknown enum code")
	ErrInvalidEnumValue  = errors.New("marshal: invalid enum value")
	ErrUndeclaredField   = errors.New("marshal: undeclared field")
	ErrInvalidTable      = errors.New("marshal: invalid table")
	ErrReferenceNotFound = errors.New("marshal: reference not found")
)

// LengthExceededError reports text longer than the column's declared width.
// Lengths are in characters.
type LengthExceededError struct {
	Column string
	Actual int
	Max    int
}

func (e *LengthExceededError) Error() string {
	return fmt.Sprintf("marshal: column %s holds at most %d characters, got %d", e.Column, e.Max, e.Actual)
}

func (e *LengthExceededError) Is(err error) bool {
	return err == ErrLengthExceeded
}

// NullNotAllowedError reports an absent value for a column that does not
// accept NULL.
type NullNotAllowedError struct {
	Column string
}

func (e *NullNotAllowedError) Error() string {
	return fmt.Sprintf("marshal: column %s does not accept null", e.Column)
}

func (e *NullNotAllowedError) Is(err error) bool {
	return err == ErrNullNotAllowed
}

// FieldExtractionError reports a field that could not be read from a record.
type FieldExtractionError struct {
	Entity string
	Field  string
	Column string
	Err    error
}

func (e *FieldExtractionError) Error() string {
	return fmt.Sprintf("marshal: %s.%s from column %s: %v", e.Entity, e.Field, e.Column, e.Err)
}

func (e *FieldExtractionError) Unwrap() error {
	return e.Err
}

func (e *FieldExtractionError) Is(err error) bool {
	return err == ErrFieldExtraction
}

// FieldProjectionError reports a field that could not be written to a record.
type FieldProjectionError struct {
	Entity string
	Field  string
	Column string
	Err    error
}

func (e *FieldProjectionError) Error() string {
	return fmt.Sprintf("marshal: %s.%s to column %s: %v", e.Entity, e.Field, e.Column, e.Err)
}

func (e *FieldProjectionError) Unwrap() error {
	return e.Err
}

func (e *FieldProjectionError) Is(err error) bool {
	return err == ErrFieldProjection
}

// UnknownEnumCodeError reports a stored code outside an enumeration's domain.
type UnknownEnumCodeError struct {
	Enum string
	Code any
}

func (e *UnknownEnumCodeError) Error() string {
	return fmt.Sprintf("marshal: unknown %s code %s", e.Enum, formatCode(e.Code))
}

func (e *UnknownEnumCodeError) Is(err error) bool {
	return err == ErrUnknownEnumCode
}

// InvalidEnumValueError reports an in-memory value with no stored code.
type InvalidEnumValueError struct {
	Enum  string
	Value any
}

func (e *InvalidEnumValueError) Error() string {
	return fmt.Sprintf("marshal: %v is not a valid %s", e.Value, e.Enum)
}

func (e *InvalidEnumValueError) Is(err error) bool {
	return err == ErrInvalidEnumValue
}

// UndeclaredFieldError reports a directory entry for which the table has no
// field descriptor.
type UndeclaredFieldError struct {
	Entity string
	Field  string
}

func (e *UndeclaredFieldError) Error() string {
	return fmt.Sprintf("marshal: %s has no field %q", e.Entity, e.Field)
}

func (e *UndeclaredFieldError) Is(err error) bool {
	return err == ErrUndeclaredField
}

// TableError reports an inconsistent field table declaration.
type TableError struct {
	Entity string
	Reason string
}

func (e *TableError) Error() string {
	return fmt.Sprintf("marshal: invalid table for %s: %s", e.Entity, e.Reason)
}

func (e *TableError) Is(err error) bool {
	return err == ErrInvalidTable
}

// ReferenceNotFoundError reports a foreign code with no matching row.
type ReferenceNotFoundError struct {
	Entity string
	Column string
	Value  any
}

func (e *ReferenceNotFoundError) Error() string {
	return fmt.Sprintf("marshal: no %s with %s = %v", e.Entity, e.Column, e.Value)
}

func (e *ReferenceNotFoundError) Is(err error) bool {
	return err == ErrReferenceNotFound
}

// IsLengthExceeded reports whether err is, or wraps, a LengthExceededError.
func IsLengthExceeded(err error) bool {
	return errors.Is(err, ErrLengthExceeded)
}

// IsNullNotAllowed reports whether err is, or wraps, a NullNotAllowedError.
func IsNullNotAllowed(err error) bool {
	return errors.Is(err, ErrNullNotAllowed)
}

// IsRejection reports whether err is a per-record data error, as opposed to
// a programming or infrastructure failure.
func IsRejection(err error) bool {
	return errors.Is(err, ErrFieldExtraction) ||
		errors.Is(err, ErrFieldProjection) ||
		errors.Is(err, ErrLengthExceeded) ||
		errors.Is(err, ErrNullNotAllowed) ||
		errors.Is(err, ErrUnknownEnumCode) ||
		errors.Is(err, ErrInvalidEnumValue) ||
		errors.Is(err, ErrNullRecord) ||
		errors.Is(err, ErrReferenceNotFound)
}

func formatCode(code any) string {
	if r, ok := code.(rune); ok {
		return fmt.Sprintf("%q", r)
	}
	return fmt.Sprintf("%v", code)
}
