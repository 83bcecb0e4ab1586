// Package ports defines interfaces (contracts) between the record core and
// database adapters. These interfaces enable dependency injection and
// testability. Implementations live in adapters/.
package ports

import "context"

// Result is the outcome of one statement execution. SELECT-shaped
// statements populate Rows; write-shaped statements populate
// LastInsertID and RowsAffected.
type Result struct {
	// Rows holds column name to raw value mappings, one per result row.
	Rows []map[string]any

	// LastInsertID is the identifier the database assigned to an
	// autoincrement column, when the statement produced one.
	LastInsertID int64

	// RowsAffected is the number of rows a write statement touched.
	RowsAffected int64
}

// Executor runs a single parameterized statement against a database.
// Failures surface as the underlying driver error, unclassified; retry
// policy belongs to the caller.
type Executor interface {
	Execute(ctx context.Context, query string, args []any) (*Result, error)
}
