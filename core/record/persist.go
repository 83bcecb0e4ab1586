package record

import (
	"context"
	"fmt"

	"github.com/artpar/recordmap/core/qb"
	"github.com/artpar/recordmap/core/schema"
	"github.com/artpar/recordmap/ports"
)

// SaveOptions controls Save and Insert.
type SaveOptions struct {
	// Replace emits a REPLACE instead of an INSERT and keeps the
	// autoincrement column in the write set.
	Replace bool

	// Exec overrides the connection for this call only.
	Exec ports.Executor
}

// WriteOptions controls Update and Delete.
type WriteOptions struct {
	// Using overrides the predicate verbatim, ignoring the schema's
	// primary keys entirely.
	Using map[string]any

	// Exec overrides the connection for this call only.
	Exec ports.Executor
}

// Save inserts or updates depending on whether the record exists. When
// existence is unknown it is resolved by a primary-key probe; a schema
// without primary keys falls back to the last-known existence flag, so a
// brand-new record of such a model inserts.
func (r *Record) Save(ctx context.Context, opts SaveOptions) error {
	if opts.Replace {
		_, sch, err := r.prepare(ctx, opts.Exec)
		if err != nil {
			return err
		}
		if sch.Autoincrement != "" && r.Has(sch.Autoincrement) {
			r.SetWith(map[string]any{sch.Autoincrement: nil}, SetOptions{Silent: true, Unset: true})
		}
		return r.Insert(ctx, opts)
	}

	exec, sch, err := r.prepare(ctx, opts.Exec)
	if err != nil {
		return err
	}

	if r.exists == ExistenceUnknown {
		if err := r.probeExistence(ctx, exec, sch); err != nil {
			return err
		}
	}

	if r.exists == ExistencePresent {
		return r.Update(ctx, WriteOptions{Exec: opts.Exec})
	}
	return r.Insert(ctx, opts)
}

// probeExistence resolves an unknown existence flag. A record with any
// unset primary key attribute cannot have been loaded, so it counts as
// absent without a query.
func (r *Record) probeExistence(ctx context.Context, exec ports.Executor, sch *schema.Schema) error {
	if len(sch.Primaries) == 0 {
		r.exists = ExistenceAbsent
		return nil
	}

	predicate := make(map[string]any, len(sch.Primaries))
	for _, pk := range sch.Primaries {
		v, ok := r.data[pk]
		if !ok {
			r.exists = ExistenceAbsent
			return nil
		}
		predicate[pk] = v
	}

	q := qb.Select(r.model.table, r.prepareValues(sch, predicate), sch.Primaries)
	r.logger.Debug().Str("query", q.Text).Msg("existence probe")
	res, err := exec.Execute(ctx, q.Text, q.Args)
	if err != nil {
		return fmt.Errorf("save %s: probe: %w", r.model.table, err)
	}

	if len(res.Rows) > 0 {
		r.exists = ExistencePresent
	} else {
		r.exists = ExistenceAbsent
	}
	return nil
}

// Insert writes every currently-set attribute with a matching schema
// column. The autoincrement column is excluded unless replacing; after a
// successful insert that reports an assigned identifier, the record's
// attribute reflects the assigned value.
func (r *Record) Insert(ctx context.Context, opts SaveOptions) error {
	exec, sch, err := r.prepare(ctx, opts.Exec)
	if err != nil {
		return err
	}

	writes := r.writeValues(sch, opts.Replace)
	q := qb.Insert(r.model.table, writes, opts.Replace)
	r.logger.Debug().Str("query", q.Text).Bool("replace", opts.Replace).Msg("insert")

	res, err := exec.Execute(ctx, q.Text, q.Args)
	if err != nil {
		return fmt.Errorf("insert %s: %w", r.model.table, err)
	}

	if sch.Autoincrement != "" && res.LastInsertID != 0 {
		r.SetWith(map[string]any{sch.Autoincrement: res.LastInsertID}, SetOptions{Silent: true})
	}
	r.resetChanged()
	r.exists = ExistencePresent
	return nil
}

// Update writes the same value set as Insert, constrained by the schema's
// primary keys read off the record, or by an explicit Using override.
// An empty resulting predicate is refused.
func (r *Record) Update(ctx context.Context, opts WriteOptions) error {
	exec, sch, err := r.prepare(ctx, opts.Exec)
	if err != nil {
		return err
	}

	var predicate map[string]any
	if opts.Using != nil {
		predicate = copyAttrs(opts.Using)
	} else {
		predicate = make(map[string]any, len(sch.Primaries))
		for _, pk := range sch.Primaries {
			v, ok := r.data[pk]
			if !ok {
				return fmt.Errorf("update %s: %q: %w", r.model.table, pk, ErrMissingKey)
			}
			predicate[pk] = v
		}
		predicate = r.prepareValues(sch, predicate)
	}
	if len(predicate) == 0 {
		return fmt.Errorf("update %s: %w", r.model.table, ErrEmptyPredicate)
	}

	writes := r.writeValues(sch, false)
	if len(writes) == 0 {
		return nil
	}

	q := qb.Update(r.model.table, writes, predicate)
	r.logger.Debug().Str("query", q.Text).Msg("update")

	if _, err := exec.Execute(ctx, q.Text, q.Args); err != nil {
		return fmt.Errorf("update %s: %w", r.model.table, err)
	}
	r.resetChanged()
	return nil
}

// Delete removes the row addressed by the Using override, the schema's
// primary keys, or (only for schemas with no primary key at all) every
// currently-set attribute. An empty resulting predicate is refused: this
// layer never issues an unconstrained DELETE.
func (r *Record) Delete(ctx context.Context, opts WriteOptions) error {
	exec, sch, err := r.prepare(ctx, opts.Exec)
	if err != nil {
		return err
	}

	var predicate map[string]any
	switch {
	case opts.Using != nil:
		predicate = copyAttrs(opts.Using)
	case len(sch.Primaries) > 0:
		predicate = make(map[string]any, len(sch.Primaries))
		for _, pk := range sch.Primaries {
			v, ok := r.data[pk]
			if !ok {
				return fmt.Errorf("delete %s: %q: %w", r.model.table, pk, ErrMissingKey)
			}
			predicate[pk] = v
		}
		predicate = r.prepareValues(sch, predicate)
	default:
		predicate = r.writeValues(sch, true)
	}
	if len(predicate) == 0 {
		return fmt.Errorf("delete %s: %w", r.model.table, ErrEmptyPredicate)
	}

	q := qb.Delete(r.model.table, predicate)
	r.logger.Debug().Str("query", q.Text).Msg("delete")

	if _, err := exec.Execute(ctx, q.Text, q.Args); err != nil {
		return fmt.Errorf("delete %s: %w", r.model.table, err)
	}
	r.exists = ExistenceAbsent
	return nil
}

// writeValues collects every set attribute with a matching schema column,
// prepared for transmission. The autoincrement column is skipped unless
// keepAuto is set.
func (r *Record) writeValues(sch *schema.Schema, keepAuto bool) map[string]any {
	writes := make(map[string]any, len(r.data))
	for field, value := range r.data {
		t, ok := sch.Column(field)
		if !ok {
			continue
		}
		if field == sch.Autoincrement && !keepAuto {
			continue
		}
		writes[field] = t.Prepare(value)
	}
	return writes
}
