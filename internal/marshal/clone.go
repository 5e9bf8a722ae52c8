package marshal

// Clone returns an independent copy of src built on a freshly constructed
// entity. Optional text fields are only copied when non-empty, so an empty
// source value keeps the constructor default. Owned references are cloned
// recursively.
func (t *Table[E]) Clone(src *E) *E {
	if src == nil {
		return nil
	}
	dst := t.New()
	for _, f := range t.fields {
		f.clone(dst, src)
	}
	return dst
}
