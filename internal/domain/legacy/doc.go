// Package legacy declares the entities of the legacy order-management
// database on top of the marshal engine.
//
// Each entity has unexported state, getters, and setters that enforce the
// column widths of its default directory. Directories and field tables are
// package-level and shared; entities themselves are not safe for concurrent
// mutation.
package legacy
