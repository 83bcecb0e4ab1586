package record

import (
	"reflect"
	"sort"

	"github.com/rs/zerolog"

	"github.com/artpar/recordmap/ports"
)

// Existence is the tri-state answer to "does this record have a database
// row": unknown until a load, an existence probe, or a successful
// insert/delete resolves it.
type Existence int

const (
	ExistenceUnknown Existence = iota
	ExistencePresent
	ExistenceAbsent
)

func (e Existence) String() string {
	switch e {
	case ExistencePresent:
		return "present"
	case ExistenceAbsent:
		return "absent"
	default:
		return "unknown"
	}
}

// ChangeEvent describes one attribute assignment observed via OnChange.
type ChangeEvent struct {
	Field string
	Old   any
	New   any
}

// SetOptions controls one Set batch. Silent suppresses both per-attribute
// and batch notifications; Unset removes attributes instead of assigning.
type SetOptions struct {
	Silent bool
	Unset  bool
}

// Record is one entity instance. Attribute values in data are always in
// normalized stored form; display formatting happens in Get and statement
// preparation happens at the write boundary.
//
// A record is not safe for concurrent use; operations run on one logical
// thread of control and concurrent calls are the caller's responsibility.
type Record struct {
	model  *Model
	exec   ports.Executor
	logger zerolog.Logger

	data    map[string]any
	changed map[string]any
	exists  Existence

	onChange []func(ChangeEvent)
	onBatch  []func(map[string]any)

	// Batch state for the snapshot-and-diff protocol. setting marks an
	// outermost Set in progress; snapshot holds data as of batch entry;
	// pending re-raises the batch notification for reentrant rounds.
	setting  bool
	pending  bool
	snapshot map[string]any
}

// Use sets the record-level connection, taking precedence over the model
// and Env defaults. The executor is borrowed, not owned.
func (r *Record) Use(exec ports.Executor) *Record {
	r.exec = exec
	return r
}

// Model returns the owning model.
func (r *Record) Model() *Model { return r.model }

// Exists reports whether the record is known to correspond to a database row.
func (r *Record) Exists() Existence { return r.exists }

// OnChange registers an observer invoked synchronously for every
// non-silent attribute assignment, in registration order.
func (r *Record) OnChange(fn func(ChangeEvent)) {
	r.onChange = append(r.onChange, fn)
}

// OnBatch registers an observer invoked synchronously after each outermost
// non-silent Set batch settles, with the changed set at that point.
// Observers may set further attributes; each reentrant round re-raises the
// batch notification via a pending flag rather than recursion, so the
// call stack stays flat no matter how many rounds occur.
func (r *Record) OnBatch(fn func(map[string]any)) {
	r.onBatch = append(r.onBatch, fn)
}

// Get returns the attribute formatted the way the database renders it,
// when a schema descriptor is available. Absent attributes yield nil.
func (r *Record) Get(field string) any {
	v, ok := r.data[field]
	if !ok {
		return nil
	}
	if sch := r.model.loadedSchema(); sch != nil {
		if t, ok := sch.Column(field); ok {
			return t.Format(v)
		}
	}
	return v
}

// Raw returns the stored (normalized, unformatted) attribute value.
func (r *Record) Raw(field string) any {
	return r.data[field]
}

// Has reports whether the attribute is set. A stored NULL counts as set;
// only unset/absent attributes do not.
func (r *Record) Has(field string) bool {
	_, ok := r.data[field]
	return ok
}

// Changed returns a copy of the changed set: attributes whose value
// differs, by type-aware comparison, from their value at the start of the
// current mutation batch. Cleared by a clean load or save.
func (r *Record) Changed() map[string]any {
	return copyAttrs(r.changed)
}

// Data returns a copy of all stored attributes.
func (r *Record) Data() map[string]any {
	return copyAttrs(r.data)
}

// Set assigns one attribute and returns the record for chaining.
func (r *Record) Set(field string, value any) *Record {
	return r.SetWith(map[string]any{field: value}, SetOptions{})
}

// SetAll assigns many attributes in one batch.
func (r *Record) SetAll(values map[string]any) *Record {
	return r.SetWith(values, SetOptions{})
}

// Unset removes an attribute, notifying observers like any other change.
func (r *Record) Unset(field string) *Record {
	return r.SetWith(map[string]any{field: nil}, SetOptions{Unset: true})
}

// SetWith applies a batch of assignments under explicit options.
//
// The outermost call snapshots data and resets the changed set; every
// assignment (including ones made reentrantly by observers) is then
// diffed against that snapshot, so setting an attribute back to its
// pre-batch value removes it from the changed set again.
func (r *Record) SetWith(values map[string]any, opts SetOptions) *Record {
	outer := !r.setting
	if outer {
		r.setting = true
		r.snapshot = copyAttrs(r.data)
		r.changed = make(map[string]any)
	}

	for _, field := range sortedFields(values) {
		old := r.data[field]
		var now any
		if opts.Unset {
			delete(r.data, field)
		} else {
			now = r.normalize(field, values[field])
			r.data[field] = now
		}

		prev, hadPrev := r.snapshot[field]
		hasNow := !opts.Unset
		if hadPrev == hasNow && (!hasNow || r.compare(field, prev, now)) {
			delete(r.changed, field)
		} else {
			r.changed[field] = now
		}

		if !opts.Silent {
			r.pending = true
			ev := ChangeEvent{Field: field, Old: old, New: now}
			for _, fn := range r.onChange {
				fn(ev)
			}
		}
	}

	if outer {
		for r.pending {
			r.pending = false
			batch := r.Changed()
			r.logger.Debug().Int("changed", len(batch)).Msg("change batch settled")
			for _, fn := range r.onBatch {
				fn(batch)
			}
		}
		r.setting = false
		r.snapshot = nil
	}
	return r
}

// normalize coerces a raw value through the column's descriptor when the
// schema is already loaded; otherwise the value is stored as given.
func (r *Record) normalize(field string, value any) any {
	if sch := r.model.loadedSchema(); sch != nil {
		if t, ok := sch.Column(field); ok {
			return t.Normalize(value)
		}
	}
	return value
}

// compare applies the column's type-aware equality, falling back to
// identity equality when no descriptor is known.
func (r *Record) compare(field string, a, b any) bool {
	if sch := r.model.loadedSchema(); sch != nil {
		if t, ok := sch.Column(field); ok {
			return t.Compare(a, b)
		}
	}
	return identical(a, b)
}

func identical(a, b any) bool {
	return reflect.DeepEqual(a, b)
}

func (r *Record) resetChanged() {
	r.changed = make(map[string]any)
}

func copyAttrs(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// sortedFields keeps assignment and notification order deterministic.
func sortedFields(m map[string]any) []string {
	fields := make([]string, 0, len(m))
	for f := range m {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fields
}
