// Package qb compiles structural statement descriptions (table name,
// column-value map for writes, predicate map for filtering) into query
// text with ordered bind parameters. Values are never inlined as literals;
// identifiers are always quoted. Callers hand in already-prepared values:
// this package never consults schemas or type descriptors.
package qb

import (
	"sort"
	"strings"
)

// Query is compiled statement text with its ordered bind parameters.
type Query struct {
	Text string
	Args []any
}

// Select compiles a SELECT constrained by an equality predicate. An empty
// columns list selects all columns.
func Select(table string, predicate map[string]any, columns []string) Query {
	var b strings.Builder
	b.WriteString("SELECT ")
	if len(columns) == 0 {
		b.WriteString("*")
	} else {
		for i, col := range columns {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(quote(col))
		}
	}
	b.WriteString(" FROM ")
	b.WriteString(quote(table))

	args := writeWhere(&b, predicate)
	return Query{Text: b.String(), Args: args}
}

// Insert compiles an INSERT, or a REPLACE when replace is true.
func Insert(table string, writes map[string]any, replace bool) Query {
	var b strings.Builder
	if replace {
		b.WriteString("REPLACE INTO ")
	} else {
		b.WriteString("INSERT INTO ")
	}
	b.WriteString(quote(table))

	cols := sortedKeys(writes)
	args := make([]any, 0, len(cols))
	b.WriteString(" (")
	for i, col := range cols {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(quote(col))
		args = append(args, writes[col])
	}
	b.WriteString(") VALUES (")
	for i := range cols {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString("?")
	}
	b.WriteString(")")

	return Query{Text: b.String(), Args: args}
}

// Update compiles an UPDATE of the write map constrained by the predicate.
func Update(table string, writes, predicate map[string]any) Query {
	var b strings.Builder
	b.WriteString("UPDATE ")
	b.WriteString(quote(table))
	b.WriteString(" SET ")

	cols := sortedKeys(writes)
	args := make([]any, 0, len(cols)+len(predicate))
	for i, col := range cols {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(quote(col))
		b.WriteString(" = ?")
		args = append(args, writes[col])
	}

	args = append(args, writeWhere(&b, predicate)...)
	return Query{Text: b.String(), Args: args}
}

// Delete compiles a DELETE constrained by the predicate.
func Delete(table string, predicate map[string]any) Query {
	var b strings.Builder
	b.WriteString("DELETE FROM ")
	b.WriteString(quote(table))

	args := writeWhere(&b, predicate)
	return Query{Text: b.String(), Args: args}
}

// Describe compiles the schema-discovery statement for a table.
func Describe(table string) Query {
	return Query{Text: "DESCRIBE " + quote(table)}
}

func writeWhere(b *strings.Builder, predicate map[string]any) []any {
	if len(predicate) == 0 {
		return nil
	}
	cols := sortedKeys(predicate)
	args := make([]any, 0, len(cols))
	b.WriteString(" WHERE ")
	for i, col := range cols {
		if i > 0 {
			b.WriteString(" AND ")
		}
		b.WriteString(quote(col))
		b.WriteString(" = ?")
		args = append(args, predicate[col])
	}
	return args
}

// sortedKeys keeps compiled statements deterministic across runs.
func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func quote(ident string) string {
	return "`" + strings.ReplaceAll(ident, "`", "``") + "`"
}
