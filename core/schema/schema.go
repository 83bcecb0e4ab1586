// Package schema describes the column layout of a single table: the mapping
// from column name to type descriptor, the primary key, and the optional
// autoincrement column. A Schema comes either from a static declaration
// (YAML, see parse.go) or from database introspection (see introspect.go).
package schema

import (
	"errors"
	"fmt"

	"github.com/artpar/recordmap/core/coltype"
)

var (
	// ErrNoColumns indicates a schema with no column descriptors.
	ErrNoColumns = errors.New("schema has no columns")

	// ErrBadPrimary indicates a primary key naming a column the schema
	// does not declare.
	ErrBadPrimary = errors.New("primary key column not declared")

	// ErrBadAutoincrement indicates an autoincrement column the schema
	// does not declare.
	ErrBadAutoincrement = errors.New("autoincrement column not declared")
)

// Schema describes one table. It is shared by every record of the owning
// model; treat it as immutable once loaded.
type Schema struct {
	// Columns maps column name to its type descriptor.
	Columns map[string]coltype.Type

	// Primaries lists the primary key columns in key order. May be empty.
	Primaries []string

	// Autoincrement names the column the database assigns on insert, if any.
	Autoincrement string

	// Loaded is set once the schema has passed validation, either as an
	// explicit declaration or as an introspection result. Schemas that
	// fail validation are re-derived.
	Loaded bool
}

// Validate checks structural consistency and sets Loaded on success.
func (s *Schema) Validate() error {
	if len(s.Columns) == 0 {
		return ErrNoColumns
	}
	for _, pk := range s.Primaries {
		if _, ok := s.Columns[pk]; !ok {
			return fmt.Errorf("%w: %q", ErrBadPrimary, pk)
		}
	}
	if s.Autoincrement != "" {
		if _, ok := s.Columns[s.Autoincrement]; !ok {
			return fmt.Errorf("%w: %q", ErrBadAutoincrement, s.Autoincrement)
		}
	}
	s.Loaded = true
	return nil
}

// Valid reports whether the schema has been loaded and still holds together.
func (s *Schema) Valid() bool {
	if s == nil || !s.Loaded {
		return false
	}
	return s.Validate() == nil
}

// Column returns the descriptor for a column name.
func (s *Schema) Column(name string) (coltype.Type, bool) {
	if s == nil {
		return nil, false
	}
	t, ok := s.Columns[name]
	return t, ok
}

// Has reports whether the schema declares a column.
func (s *Schema) Has(name string) bool {
	_, ok := s.Column(name)
	return ok
}

// ColumnNames returns the declared column names in unspecified order.
func (s *Schema) ColumnNames() []string {
	names := make([]string, 0, len(s.Columns))
	for name := range s.Columns {
		names = append(names, name)
	}
	return names
}
