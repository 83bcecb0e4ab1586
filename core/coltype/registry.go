package coltype

import (
	"strings"
	"sync"
)

// Factory constructs a descriptor from per-column attributes.
type Factory func(Attrs) Type

// Registry maps case-insensitive type names to descriptor factories.
// Lookups for unrecognized names fall back to the Unknown descriptor
// rather than failing.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry creates a registry seeded with the built-in kinds.
func NewRegistry() *Registry {
	r := &Registry{factories: make(map[string]Factory)}

	integer := func(name string) Factory {
		return func(attrs Attrs) Type { return NewInteger(name, attrs) }
	}
	decimal := func(name string) Factory {
		return func(attrs Attrs) Type { return NewDecimal(name, attrs) }
	}
	text := func(name string) Factory {
		return func(attrs Attrs) Type { return NewText(name, attrs) }
	}
	temporal := func(kind TemporalKind) Factory {
		return func(Attrs) Type { return NewTemporal(kind) }
	}

	for _, name := range []string{"INT", "INTEGER", "TINYINT", "SMALLINT", "MEDIUMINT", "BIGINT"} {
		r.Register(name, integer(name))
	}
	for _, name := range []string{"DECIMAL", "NUMERIC", "FLOAT", "DOUBLE", "REAL"} {
		r.Register(name, decimal(name))
	}
	for _, name := range []string{"CHAR", "VARCHAR", "TEXT", "TINYTEXT", "MEDIUMTEXT", "LONGTEXT"} {
		r.Register(name, text(name))
	}
	r.Register("ENUM", func(attrs Attrs) Type { return NewEnum(attrs) })
	r.Register("DATE", temporal(KindDate))
	r.Register("TIME", temporal(KindTime))
	r.Register("DATETIME", temporal(KindDateTime))
	r.Register("TIMESTAMP", temporal(KindTimestamp))
	r.Register("YEAR", temporal(KindYear))
	r.Register("BOOL", func(Attrs) Type { return Boolean{} })
	r.Register("BOOLEAN", func(Attrs) Type { return Boolean{} })
	r.Register("UUID", func(Attrs) Type { return UUID{} })
	r.Register("UNKNOWN", func(Attrs) Type { return NewUnknown("") })

	return r
}

// Register adds or replaces a factory under a case-insensitive name.
func (r *Registry) Register(name string, f Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[strings.ToUpper(name)] = f
}

// Lookup returns the factory for a name, if registered.
func (r *Registry) Lookup(name string) (Factory, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.factories[strings.ToUpper(name)]
	return f, ok
}

// New constructs a descriptor for the named type, falling back to the
// Unknown descriptor when the name is not registered.
func (r *Registry) New(name string, attrs Attrs) Type {
	if f, ok := r.Lookup(name); ok {
		return f(attrs)
	}
	return NewUnknown(name)
}

var defaultRegistry = NewRegistry()

// Default returns the shared registry seeded with the built-in kinds.
func Default() *Registry {
	return defaultRegistry
}
