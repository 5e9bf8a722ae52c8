package marshal

import (
	"golang.org/x/text/cases"
)

// Collation decides how text fields compare. Key must return equal keys for
// strings that compare equal, so hashes stay consistent with equality.
type Collation interface {
	Equal(a, b string) bool
	Key(s string) string
}

var (
	// InvariantIgnoreCase compares text by Unicode full case folding,
	// independent of any locale. It is the default collation.
	InvariantIgnoreCase Collation = foldCollation{}

	// Ordinal compares text byte for byte.
	Ordinal Collation = ordinalCollation{}
)

var folder = cases.Fold()

type foldCollation struct{}

func (foldCollation) Key(s string) string {
	return folder.String(s)
}

func (c foldCollation) Equal(a, b string) bool {
	return a == b || c.Key(a) == c.Key(b)
}

type ordinalCollation struct{}

func (ordinalCollation) Key(s string) string    { return s }
func (ordinalCollation) Equal(a, b string) bool { return a == b }

// Equal reports whether a and b are structurally equal under the default
// collation. Two nil entities are equal; a nil and a non-nil entity are not.
func (t *Table[E]) Equal(a, b *E) bool {
	return t.EqualWith(a, b, InvariantIgnoreCase)
}

// EqualWith is like Equal but compares text under c.
func (t *Table[E]) EqualWith(a, b *E, c Collation) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a == b {
		return true
	}
	for _, f := range t.fields {
		if !f.equal(a, b, c) {
			return false
		}
	}
	return true
}

// Hash returns a hash of e consistent with Equal. A nil entity hashes to 0.
func (t *Table[E]) Hash(e *E) uint64 {
	return t.HashWith(e, InvariantIgnoreCase)
}

// HashWith returns a hash of e consistent with EqualWith under c.
func (t *Table[E]) HashWith(e *E, c Collation) uint64 {
	if e == nil {
		return 0
	}
	d := newDigest()
	t.hashInto(d, e, c)
	return d.sum()
}

func (t *Table[E]) hashInto(d *digest, e *E, c Collation) {
	for _, f := range t.fields {
		f.hash(d, e, c)
	}
}
