// Package sqlite provides a database/sql-backed executor over SQLite.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"

	"github.com/artpar/recordmap/ports"
)

// DB wraps a SQLite database connection as a ports.Executor.
type DB struct {
	db     *sql.DB
	logger zerolog.Logger
}

// Open creates a new SQLite database connection.
func Open(path string, logger zerolog.Logger) (*DB, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Set pragmas for performance
	pragmas := []string{
		"PRAGMA synchronous = NORMAL",
		"PRAGMA cache_size = -64000", // 64MB
		"PRAGMA temp_store = MEMORY",
		"PRAGMA foreign_keys = ON",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("set pragma: %w", err)
		}
	}

	return &DB{db: db, logger: logger}, nil
}

// FromDB wraps an existing connection.
func FromDB(db *sql.DB, logger zerolog.Logger) *DB {
	return &DB{db: db, logger: logger}
}

// Execute runs one statement. SELECT-shaped statements resolve to row
// mappings; write-shaped statements resolve to insert/affected metadata.
// DESCRIBE statements are translated to PRAGMA table_info so schema
// discovery speaks the same column-description shape as MySQL.
func (d *DB) Execute(ctx context.Context, query string, args []any) (*ports.Result, error) {
	if table, ok := describeTarget(query); ok {
		return d.describe(ctx, table)
	}

	if isRowQuery(query) {
		return d.query(ctx, query, args)
	}

	res, err := d.db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}

	out := &ports.Result{}
	out.LastInsertID, _ = res.LastInsertId()
	out.RowsAffected, _ = res.RowsAffected()
	return out, nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.db.Close()
}

// DB returns the underlying database connection.
func (d *DB) DB() *sql.DB {
	return d.db
}

func (d *DB) query(ctx context.Context, query string, args []any) (*ports.Result, error) {
	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	out := &ports.Result{}
	for rows.Next() {
		values := make([]any, len(columns))
		scanDest := make([]any, len(columns))
		for i := range values {
			scanDest[i] = &values[i]
		}
		if err := rows.Scan(scanDest...); err != nil {
			return nil, err
		}

		row := make(map[string]any, len(columns))
		for i, col := range columns {
			row[col] = values[i]
		}
		out.Rows = append(out.Rows, row)
	}

	return out, rows.Err()
}

func isRowQuery(query string) bool {
	head := strings.ToUpper(firstWord(query))
	return head == "SELECT" || head == "PRAGMA"
}

func firstWord(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexAny(s, " \t\n("); i > 0 {
		return s[:i]
	}
	return s
}
