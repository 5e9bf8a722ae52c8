package marshal

import (
	"unicode/utf8"

	"github.com/ahardinathillc/whippet-sub000/internal/mapping"
)

// CheckLength validates candidate against col before it is assigned.
// A nil candidate is accepted when the column is nullable or allowNull is
// set. Length is counted in characters, not bytes.
func CheckLength(candidate *string, col mapping.Column, allowNull bool) error {
	if candidate == nil {
		if col.Nullable() || allowNull {
			return nil
		}
		return &NullNotAllowedError{Column: col.Name()}
	}
	return checkWidth(*candidate, col)
}

func checkWidth(s string, col mapping.Column) error {
	limit, ok := col.MaxWidth()
	if !ok || len(s) <= limit {
		return nil
	}
	if n := utf8.RuneCountInString(s); n > limit {
		return &LengthExceededError{Column: col.Name(), Actual: n, Max: limit}
	}
	return nil
}

// Assign stores candidate in dst if it passes CheckLength. A nil candidate
// stores the empty string. On failure dst is left unchanged.
func Assign(dst *string, candidate *string, col mapping.Column, allowNull bool) error {
	if err := CheckLength(candidate, col, allowNull); err != nil {
		return err
	}
	if candidate == nil {
		*dst = ""
		return nil
	}
	*dst = *candidate
	return nil
}

// SetText assigns value to dst under the column dir maps to field. It panics
// if field is not mapped.
func SetText(dst *string, value string, dir *mapping.Directory, field string) error {
	return Assign(dst, &value, dir.MustLookup(field), false)
}

// SetOptionalText is like SetText but accepts nil, which clears dst when
// the mapped column is nullable.
func SetOptionalText(dst *string, value *string, dir *mapping.Directory, field string) error {
	return Assign(dst, value, dir.MustLookup(field), false)
}
