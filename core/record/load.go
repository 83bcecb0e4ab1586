package record

import (
	"context"
	"fmt"

	"github.com/artpar/recordmap/core/qb"
	"github.com/artpar/recordmap/core/schema"
	"github.com/artpar/recordmap/ports"
)

// The load family replaces one shape-polymorphic entry point with named
// variants; each validates its predicate against the schema before any
// statement executes. Zero matching rows is not an error: the result is
// false and the record is marked absent.

// Load fetches the row addressed by the record's own current primary key
// attributes. Fails if the schema declares no primary key or any primary
// key attribute is unset.
func (r *Record) Load(ctx context.Context) (bool, error) {
	exec, sch, err := r.prepare(ctx, nil)
	if err != nil {
		return false, err
	}

	if len(sch.Primaries) == 0 {
		return false, fmt.Errorf("load %s: %w", r.model.table, ErrNoPrimaryKey)
	}
	predicate := make(map[string]any, len(sch.Primaries))
	for _, pk := range sch.Primaries {
		v, ok := r.data[pk]
		if !ok {
			return false, fmt.Errorf("load %s: %q: %w", r.model.table, pk, ErrMissingKey)
		}
		predicate[pk] = v
	}

	return r.loadWhere(ctx, exec, sch, predicate)
}

// LoadKey fetches the row whose sole primary key equals value. Fails
// before executing anything when the schema declares zero or more than
// one primary key.
func (r *Record) LoadKey(ctx context.Context, value any) (bool, error) {
	exec, sch, err := r.prepare(ctx, nil)
	if err != nil {
		return false, err
	}

	if len(sch.Primaries) != 1 {
		return false, fmt.Errorf("load %s: %d primary keys: %w",
			r.model.table, len(sch.Primaries), ErrAmbiguousKey)
	}
	pk := sch.Primaries[0]
	t, _ := sch.Column(pk)

	return r.loadWhere(ctx, exec, sch, map[string]any{pk: t.Normalize(value)})
}

// LoadBy fetches the first row where the named column equals value.
func (r *Record) LoadBy(ctx context.Context, field string, value any) (bool, error) {
	exec, sch, err := r.prepare(ctx, nil)
	if err != nil {
		return false, err
	}

	t, ok := sch.Column(field)
	if !ok {
		return false, fmt.Errorf("load %s: %q: %w", r.model.table, field, ErrUnknownColumn)
	}

	return r.loadWhere(ctx, exec, sch, map[string]any{field: t.Normalize(value)})
}

// LoadWhere fetches the first row matching an equality predicate. Every
// predicate column must be declared by the schema.
func (r *Record) LoadWhere(ctx context.Context, predicate map[string]any) (bool, error) {
	exec, sch, err := r.prepare(ctx, nil)
	if err != nil {
		return false, err
	}

	normalized := make(map[string]any, len(predicate))
	for field, value := range predicate {
		t, ok := sch.Column(field)
		if !ok {
			return false, fmt.Errorf("load %s: %q: %w", r.model.table, field, ErrUnknownColumn)
		}
		normalized[field] = t.Normalize(value)
	}

	return r.loadWhere(ctx, exec, sch, normalized)
}

// loadWhere executes the SELECT and assigns the first result row onto the
// record through the normal set pathway. The changed set is cleared
// afterwards: a loaded row reflects database truth.
func (r *Record) loadWhere(ctx context.Context, exec ports.Executor, sch *schema.Schema, predicate map[string]any) (bool, error) {
	q := qb.Select(r.model.table, r.prepareValues(sch, predicate), nil)
	r.logger.Debug().Str("query", q.Text).Msg("load")

	res, err := exec.Execute(ctx, q.Text, q.Args)
	if err != nil {
		return false, fmt.Errorf("load %s: %w", r.model.table, err)
	}

	if len(res.Rows) == 0 {
		r.exists = ExistenceAbsent
		return false, nil
	}

	r.SetWith(res.Rows[0], SetOptions{})
	r.resetChanged()
	r.exists = ExistencePresent
	return true, nil
}

// prepare resolves the executor (per-call override, record, model, Env, in
// that order) and the schema, introspecting if needed.
func (r *Record) prepare(ctx context.Context, override ports.Executor) (ports.Executor, *schema.Schema, error) {
	exec, err := r.executor(override)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", r.model.table, err)
	}
	sch, err := r.model.Schema(ctx, exec)
	if err != nil {
		return nil, nil, err
	}
	return exec, sch, nil
}

func (r *Record) executor(override ports.Executor) (ports.Executor, error) {
	switch {
	case override != nil:
		return override, nil
	case r.exec != nil:
		return r.exec, nil
	case r.model.exec != nil:
		return r.model.exec, nil
	case r.model.env.Executor != nil:
		return r.model.env.Executor, nil
	}
	return nil, ErrNoConnection
}

// prepareValues converts stored-form values into their transmission form.
func (r *Record) prepareValues(sch *schema.Schema, values map[string]any) map[string]any {
	out := make(map[string]any, len(values))
	for field, value := range values {
		if t, ok := sch.Column(field); ok {
			out[field] = t.Prepare(value)
			continue
		}
		out[field] = value
	}
	return out
}
