// Package marshal moves legacy ERP entities to and from tabular records.
//
// Each entity type declares its fields once, as data, in a Table built from
// the field constructors (Text, Bool, Int, Decimal, Char, Timestamp, EnumOf
// and Ref). The table, together with a mapping.Directory, then drives every
// conversion for that type:
//
//	rec -> Hydrate -> entity -> Project -> rec
//
// Text assignment is length-checked against the column's declared width,
// both by the setters entities expose (see SetText) and during hydration.
// Equal, Hash and Clone operate on hydrated entities only and never touch
// a directory.
package marshal
