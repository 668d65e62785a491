package types

import (
	"context"
	"errors"
)

// Row is one result row. Values are int64, float64, string, []byte or nil,
// in the column order of the query that produced them.
type Row []any

// ResultSet is a fully materialized query result. It owns its values and
// stays valid after the executor that produced it is closed.
type ResultSet struct {
	Columns []string
	Rows    []Row
}

// QueryExecutor is the narrow capability the converter needs from a loaded
// export. Implementations own the decoded database until Close.
type QueryExecutor interface {
	// Query runs a single statement and returns all of its rows.
	Query(ctx context.Context, query string) (*ResultSet, error)

	// Close releases the loaded database. Close is idempotent.
	Close() error
}

// Executor errors.
var (
	ErrExecution    = errors.New("query execution failed")
	ErrHandleClosed = errors.New("database handle is closed")
)
