package sqlite

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/artpar/recordmap/ports"
)

// describeTarget recognizes a DESCRIBE statement and extracts its table.
func describeTarget(query string) (string, bool) {
	trimmed := strings.TrimSpace(query)
	if !strings.EqualFold(firstWord(trimmed), "DESCRIBE") {
		return "", false
	}
	table := strings.TrimSpace(trimmed[len("DESCRIBE"):])
	table = strings.Trim(table, "`\"")
	return table, table != ""
}

// describe answers a DESCRIBE statement from PRAGMA table_info, mapped to
// the Field/Type/Null/Key/Extra row shape schema discovery expects. An
// INTEGER single-column primary key is SQLite's rowid alias, which the
// database assigns on insert, so it is reported as auto_increment.
func (d *DB) describe(ctx context.Context, table string) (*ports.Result, error) {
	info, err := d.query(ctx, "PRAGMA table_info("+quoteIdent(table)+")", nil)
	if err != nil {
		return nil, err
	}
	if len(info.Rows) == 0 {
		return nil, fmt.Errorf("describe %s: no such table", table)
	}

	type column struct {
		name     string
		declType string
		notNull  bool
		pkOrder  int64
	}
	columns := make([]column, 0, len(info.Rows))
	pkCount := 0
	for _, row := range info.Rows {
		col := column{
			name:     asString(row["name"]),
			declType: asString(row["type"]),
			notNull:  asInt(row["notnull"]) != 0,
			pkOrder:  asInt(row["pk"]),
		}
		if col.pkOrder > 0 {
			pkCount++
		}
		columns = append(columns, col)
	}

	// Report primary key columns first, in key order rather than table
	// order, so composite keys come out in their declared sequence.
	rank := func(c column) int64 {
		if c.pkOrder > 0 {
			return c.pkOrder
		}
		return int64(^uint64(0) >> 1)
	}
	sort.SliceStable(columns, func(i, j int) bool {
		return rank(columns[i]) < rank(columns[j])
	})

	out := &ports.Result{}
	for _, col := range columns {
		null := "YES"
		if col.notNull {
			null = "NO"
		}
		key := ""
		if col.pkOrder > 0 {
			key = "PRI"
		}
		extra := ""
		if col.pkOrder > 0 && pkCount == 1 && strings.EqualFold(col.declType, "INTEGER") {
			extra = "auto_increment"
		}
		out.Rows = append(out.Rows, map[string]any{
			"Field": col.name,
			"Type":  strings.ToLower(col.declType),
			"Null":  null,
			"Key":   key,
			"Extra": extra,
		})
	}
	return out, nil
}

func quoteIdent(ident string) string {
	return "`" + strings.ReplaceAll(ident, "`", "``") + "`"
}

func asString(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case []byte:
		return string(s)
	}
	return ""
}

func asInt(v any) int64 {
	switch n := v.(type) {
	case int64:
		return n
	case int:
		return int64(n)
	case float64:
		return int64(n)
	}
	return 0
}
