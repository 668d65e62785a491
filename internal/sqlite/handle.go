// Package sqlite loads a device telemetry export into an embedded SQLite
// engine and exposes it as a types.QueryExecutor.
package sqlite

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"
	"math"
	"os"
	"sync"

	"modernc.org/sqlite"

	"github.com/mesh-intelligence/djirun/pkg/types"
)

//nolint:gochecknoinits // function must exist before the first connection opens
func init() {
	// LOG10 is only built in when SQLite is compiled with math functions.
	sqlite.MustRegisterDeterministicScalarFunction("log10", 1, log10)
}

// log10 mirrors the SQLite math extension: NULL for NULL, non-numeric and
// non-positive input.
func log10(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	var x float64
	switch v := args[0].(type) {
	case int64:
		x = float64(v)
	case float64:
		x = v
	default:
		return nil, nil
	}
	if x <= 0 {
		return nil, nil
	}
	return math.Log10(x), nil
}

// Handle owns one loaded export for the duration of a single conversion.
// The export bytes are spilled to a private temporary file that is opened
// read-only and removed on Close.
type Handle struct {
	mu     sync.Mutex
	closed bool
	db     *sql.DB
	path   string
}

// Open loads an export from raw bytes. The returned Handle must be closed by
// the caller. Unreadable or corrupt input fails with types.ErrExecution.
func Open(ctx context.Context, data []byte) (*Handle, error) {
	f, err := os.CreateTemp("", "djirun-*.db")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	path := f.Name()

	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(path)
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("close temp file: %w", err)
	}

	// immutable=1 skips locking and WAL recovery; the file never changes.
	dsn := fmt.Sprintf("file:%s?mode=ro&immutable=1", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("%w: open database: %w", types.ErrExecution, err)
	}
	db.SetMaxOpenConns(1)

	// Reading the schema forces SQLite to validate the file header.
	var n int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM sqlite_master").Scan(&n); err != nil {
		db.Close()
		os.Remove(path)
		return nil, fmt.Errorf("%w: read schema: %w", types.ErrExecution, err)
	}

	return &Handle{db: db, path: path}, nil
}

// Query runs query and copies every row out of the engine.
func (h *Handle) Query(ctx context.Context, query string) (*types.ResultSet, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return nil, types.ErrHandleClosed
	}

	rows, err := h.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", types.ErrExecution, err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("%w: columns: %w", types.ErrExecution, err)
	}

	rs := &types.ResultSet{Columns: columns}
	for rows.Next() {
		row := make(types.Row, len(columns))
		dest := make([]any, len(columns))
		for i := range row {
			dest[i] = &row[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("%w: scan row: %w", types.ErrExecution, err)
		}
		rs.Rows = append(rs.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate rows: %w", types.ErrExecution, err)
	}
	return rs, nil
}

// Close releases the database and removes the temporary file.
// Close is idempotent.
func (h *Handle) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return nil
	}
	h.closed = true

	err := h.db.Close()
	if rmErr := os.Remove(h.path); rmErr != nil && !os.IsNotExist(rmErr) && err == nil {
		err = rmErr
	}
	return err
}

// Path returns the temporary file backing the handle.
func (h *Handle) Path() string {
	return h.path
}

var _ types.QueryExecutor = (*Handle)(nil)
