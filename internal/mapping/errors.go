package mapping

import (
	"errors"
	"fmt"
)

var (
	// ErrFieldNotMapped is returned when a logical field has no entry in a directory.
	ErrFieldNotMapped = errors.New("mapping: field not mapped")

	// ErrInvalidDirectory is returned when a directory definition is inconsistent.
	ErrInvalidDirectory = errors.New("mapping: invalid directory")

	// ErrInvalidOverride is returned when an override document fails validation.
	ErrInvalidOverride = errors.New("mapping: invalid override")
)

// FieldNotMappedError reports a lookup of a logical field the directory does
// not know. It indicates a programming error in the entity declaration.
type FieldNotMappedError struct {
	Entity string
	Field  string
}

func (e *FieldNotMappedError) Error() string {
	return fmt.Sprintf("mapping: field %q is not mapped for %s", e.Field, e.Entity)
}

func (e *FieldNotMappedError) Is(err error) bool {
	return err == ErrFieldNotMapped
}

// IsFieldNotMapped reports whether err is, or wraps, a FieldNotMappedError.
func IsFieldNotMapped(err error) bool {
	return errors.Is(err, ErrFieldNotMapped)
}

// DirectoryError reports why a directory could not be built.
type DirectoryError struct {
	Entity string
	Reason string
}

func (e *DirectoryError) Error() string {
	return fmt.Sprintf("mapping: invalid directory for %s: %s", e.Entity, e.Reason)
}

func (e *DirectoryError) Is(err error) bool {
	return err == ErrInvalidDirectory
}
