// Package record maps application entities to rows of a single database
// table. A Model owns the per-table schema (declared up front or discovered
// by introspection); a Record is one entity instance with attribute storage,
// field-level change tracking, and schema-validated load/save/insert/
// update/delete against a ports.Executor.
package record

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/artpar/recordmap/core/coltype"
	"github.com/artpar/recordmap/core/qb"
	"github.com/artpar/recordmap/core/schema"
	"github.com/artpar/recordmap/ports"
)

// Env holds process-level defaults handed to every model defined against
// it. Connection resolution for an operation walks per-call override,
// record, model, then this Env.
type Env struct {
	// Executor is the default database connection.
	Executor ports.Executor

	// Types is the column type registry. Nil means coltype.Default().
	Types *coltype.Registry

	// Logger for statement traces.
	Logger zerolog.Logger
}

// Option configures a Model at definition time.
type Option func(*Model)

// WithSchema declares the table schema up front, skipping introspection.
// The schema is validated on first use.
func WithSchema(s *schema.Schema) Option {
	return func(m *Model) { m.schema = s }
}

// WithExecutor sets the model-level default connection.
func WithExecutor(exec ports.Executor) Option {
	return func(m *Model) { m.exec = exec }
}

// WithLogger overrides the Env logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(m *Model) { m.logger = logger }
}

// Model is the per-table definition shared by all its records. The schema
// is cached here for the process lifetime once resolved; a schema is
// assumed stable once fetched.
type Model struct {
	table  string
	env    Env
	exec   ports.Executor
	types  *coltype.Registry
	logger zerolog.Logger

	mu     sync.RWMutex
	schema *schema.Schema
}

// Define creates a model for a table. The table name is required.
func (e Env) Define(table string, opts ...Option) (*Model, error) {
	if table == "" {
		return nil, ErrNoTable
	}

	m := &Model{
		table:  table,
		env:    e,
		types:  e.Types,
		logger: e.Logger.With().Str("table", table).Logger(),
	}
	if m.types == nil {
		m.types = coltype.Default()
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// Table returns the table name.
func (m *Model) Table() string { return m.table }

// New creates a record with optional initial attributes. Initial
// attributes are applied silently and start clean: nothing is marked
// changed and no notifications fire.
func (m *Model) New(attrs map[string]any) *Record {
	r := &Record{
		model:   m,
		logger:  m.logger,
		data:    make(map[string]any, len(attrs)),
		changed: make(map[string]any),
	}
	if len(attrs) > 0 {
		r.SetWith(attrs, SetOptions{Silent: true})
		r.resetChanged()
	}
	return r
}

// Schema returns the model's schema, resolving it if necessary: a declared
// schema is validated, otherwise the table is introspected through exec and
// the result cached. Concurrent first-use introspection is not coordinated;
// duplicate discovery queries may run and the last result wins.
func (m *Model) Schema(ctx context.Context, exec ports.Executor) (*schema.Schema, error) {
	m.mu.RLock()
	s := m.schema
	m.mu.RUnlock()

	if s != nil {
		if s.Valid() {
			return s, nil
		}
		if err := s.Validate(); err == nil {
			return s, nil
		}
		// Declared but inconsistent: fall through and re-derive.
	}

	if exec == nil {
		return nil, fmt.Errorf("introspect %s: %w", m.table, ErrNoConnection)
	}

	q := qb.Describe(m.table)
	m.logger.Debug().Str("query", q.Text).Msg("introspecting table")
	res, err := exec.Execute(ctx, q.Text, q.Args)
	if err != nil {
		return nil, fmt.Errorf("introspect %s: %w", m.table, err)
	}

	rows := make([]schema.ColumnDescription, 0, len(res.Rows))
	for _, row := range res.Rows {
		rows = append(rows, schema.ColumnDescription{
			Field: str(row["Field"]),
			Type:  str(row["Type"]),
			Null:  str(row["Null"]),
			Key:   str(row["Key"]),
			Extra: str(row["Extra"]),
		})
	}

	s = schema.FromDescription(rows, m.types)
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("introspect %s: %w", m.table, err)
	}

	m.mu.Lock()
	m.schema = s
	m.mu.Unlock()

	m.logger.Debug().
		Int("columns", len(s.Columns)).
		Strs("primaries", s.Primaries).
		Msg("schema discovered")
	return s, nil
}

// loadedSchema returns the cached schema without triggering introspection.
// Used for best-effort normalization and comparison during Set.
func (m *Model) loadedSchema() *schema.Schema {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.schema != nil && m.schema.Loaded {
		return m.schema
	}
	return nil
}

func str(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case []byte:
		return string(s)
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", s)
	}
}
