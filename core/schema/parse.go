package schema

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/artpar/recordmap/core/coltype"
)

// Declaration is the YAML form of a statically declared schema:
//
//	table: users
//	columns:
//	  id:   {type: int, size: 11}
//	  name: {type: varchar, size: 255}
//	  role: {type: enum, options: [admin, member]}
//	primaries: [id]
//	autoincrement: id
type Declaration struct {
	Table         string                `yaml:"table"`
	Columns       map[string]ColumnDecl `yaml:"columns"`
	Primaries     []string              `yaml:"primaries"`
	Autoincrement string                `yaml:"autoincrement"`
}

// ColumnDecl declares one column of a Declaration.
type ColumnDecl struct {
	Type      string   `yaml:"type"`
	Size      int      `yaml:"size,omitempty"`
	Precision int      `yaml:"precision,omitempty"`
	Unsigned  bool     `yaml:"unsigned,omitempty"`
	Nullable  bool     `yaml:"nullable,omitempty"`
	Options   []string `yaml:"options,omitempty"`
}

// Parse parses a schema declaration from YAML bytes.
func Parse(data []byte) (Declaration, error) {
	var decl Declaration
	if err := yaml.Unmarshal(data, &decl); err != nil {
		return Declaration{}, fmt.Errorf("parse yaml: %w", err)
	}

	if err := validateDeclaration(decl); err != nil {
		return Declaration{}, fmt.Errorf("validate declaration %q: %w", decl.Table, err)
	}

	return decl, nil
}

// ParseFile parses a schema declaration from a YAML file.
func ParseFile(path string) (Declaration, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Declaration{}, fmt.Errorf("read file %s: %w", path, err)
	}

	return Parse(data)
}

// ParseDir parses all schema declarations from a directory, including
// subdirectories.
func ParseDir(dir string) ([]Declaration, error) {
	var decls []Declaration

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read dir %s: %w", dir, err)
	}

	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())

		if entry.IsDir() {
			sub, err := ParseDir(path)
			if err != nil {
				return nil, err
			}
			decls = append(decls, sub...)
			continue
		}

		name := entry.Name()
		if !strings.HasSuffix(name, ".yaml") && !strings.HasSuffix(name, ".yml") {
			continue
		}

		decl, err := ParseFile(path)
		if err != nil {
			return nil, err
		}

		decls = append(decls, decl)
	}

	return decls, nil
}

// Schema materializes the declaration against a type registry.
func (d Declaration) Schema(reg *coltype.Registry) (*Schema, error) {
	if reg == nil {
		reg = coltype.Default()
	}

	s := &Schema{
		Columns:       make(map[string]coltype.Type, len(d.Columns)),
		Primaries:     append([]string(nil), d.Primaries...),
		Autoincrement: d.Autoincrement,
	}
	for name, col := range d.Columns {
		s.Columns[name] = reg.New(col.Type, coltype.Attrs{
			Size:      col.Size,
			Precision: col.Precision,
			Unsigned:  col.Unsigned,
			Nullable:  col.Nullable,
			Options:   col.Options,
		})
	}

	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("schema for %q: %w", d.Table, err)
	}
	return s, nil
}

func validateDeclaration(d Declaration) error {
	var errs []string

	if d.Table == "" {
		errs = append(errs, "table name is required")
	}
	if len(d.Columns) == 0 {
		errs = append(errs, "at least one column is required")
	}
	for name, col := range d.Columns {
		if col.Type == "" {
			errs = append(errs, fmt.Sprintf("column %q has no type", name))
		}
	}
	for _, pk := range d.Primaries {
		if _, ok := d.Columns[pk]; !ok {
			errs = append(errs, fmt.Sprintf("primary key %q is not a declared column", pk))
		}
	}
	if d.Autoincrement != "" {
		if _, ok := d.Columns[d.Autoincrement]; !ok {
			errs = append(errs, fmt.Sprintf("autoincrement column %q is not a declared column", d.Autoincrement))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("validation errors:\n  - %s", strings.Join(errs, "\n  - "))
	}

	return nil
}
