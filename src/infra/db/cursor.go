package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Row is a single result row keyed by column name.
type Row map[string]any

// Cursor is a transactional handle over a session's bound connection.
// It lives only inside a WithCursor scope: statements it runs are
// committed together on normal completion and rolled back together when
// the body fails. A Cursor never owns the connection, it borrows the
// session's.
//
// Row representation is chosen per call: One/All return mapped rows,
// OneValues/AllValues return positional rows, and Query hands back the
// raw streaming result set for callers that must not materialize it.
type Cursor struct {
	tx *sql.Tx
}

// WithCursor runs fn inside a transaction on the session's bound
// connection. When fn returns nil the transaction is committed; when fn
// returns an error the transaction is rolled back and that error is
// returned unchanged, never wrapped or swallowed. The transaction is
// finished on every exit path, panics included, so the bound connection
// is never left pinned by an open transaction.
//
// All statements must bind parameters through placeholders; values are
// never interpolated into query text.
func (s *Session) WithCursor(ctx context.Context, fn func(*Cursor) error) error {
	conn, err := s.Conn(ctx)
	if err != nil {
		return err
	}

	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return &StatementError{Query: "BEGIN", Err: err}
	}

	// The guard runs on every exit path: body error, failed commit, or
	// a panic unwinding through the scope. An open Tx pins the bound
	// connection inside database/sql, so leaving one behind would make
	// the session's release block and leak the pool slot.
	committed := false
	defer func() {
		if committed {
			return
		}
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			s.log.Warn("rolling back transaction", "error", rbErr)
		}
	}()

	if err := fn(&Cursor{tx: tx}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return &StatementError{Query: "COMMIT", Err: err}
	}
	committed = true
	return nil
}

// Query executes a statement and returns the streaming result set.
// The caller must close the rows before the cursor scope ends.
func (c *Cursor) Query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	rows, err := c.tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, &StatementError{Query: query, Err: err}
	}
	return rows, nil
}

// One executes a statement and returns the first row as a Row, or nil
// when the result set is empty. Zero rows is not an error.
func (c *Cursor) One(ctx context.Context, query string, args ...any) (Row, error) {
	rows, err := c.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, &StatementError{Query: query, Err: err}
	}
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, &StatementError{Query: query, Err: err}
		}
		return nil, nil
	}

	vals, err := scanValues(rows, len(cols))
	if err != nil {
		return nil, &StatementError{Query: query, Err: err}
	}
	return mapRow(cols, vals), nil
}

// All executes a statement and materializes every row as a Row. The
// result preserves server order and may be empty.
func (c *Cursor) All(ctx context.Context, query string, args ...any) ([]Row, error) {
	rows, err := c.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, &StatementError{Query: query, Err: err}
	}

	out := make([]Row, 0)
	for rows.Next() {
		vals, err := scanValues(rows, len(cols))
		if err != nil {
			return nil, &StatementError{Query: query, Err: err}
		}
		out = append(out, mapRow(cols, vals))
	}
	if err := rows.Err(); err != nil {
		return nil, &StatementError{Query: query, Err: err}
	}
	return out, nil
}

// OneValues is One with positional instead of mapped row representation.
func (c *Cursor) OneValues(ctx context.Context, query string, args ...any) ([]any, error) {
	rows, err := c.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, &StatementError{Query: query, Err: err}
	}
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, &StatementError{Query: query, Err: err}
		}
		return nil, nil
	}

	vals, err := scanValues(rows, len(cols))
	if err != nil {
		return nil, &StatementError{Query: query, Err: err}
	}
	return vals, nil
}

// AllValues is All with positional instead of mapped row representation.
func (c *Cursor) AllValues(ctx context.Context, query string, args ...any) ([][]any, error) {
	rows, err := c.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, &StatementError{Query: query, Err: err}
	}

	out := make([][]any, 0)
	for rows.Next() {
		vals, err := scanValues(rows, len(cols))
		if err != nil {
			return nil, &StatementError{Query: query, Err: err}
		}
		out = append(out, vals)
	}
	if err := rows.Err(); err != nil {
		return nil, &StatementError{Query: query, Err: err}
	}
	return out, nil
}

// Exec executes a mutating statement and returns the driver result.
func (c *Cursor) Exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	res, err := c.tx.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, &StatementError{Query: query, Err: err}
	}
	return res, nil
}

// FetchOne runs query in its own cursor scope and returns the first row,
// or nil when the result set is empty.
func (s *Session) FetchOne(ctx context.Context, query string, args ...any) (Row, error) {
	var row Row
	err := s.WithCursor(ctx, func(c *Cursor) error {
		var err error
		row, err = c.One(ctx, query, args...)
		return err
	})
	if err != nil {
		return nil, err
	}
	return row, nil
}

// FetchAll runs query in its own cursor scope and returns all rows in
// server order, possibly empty.
func (s *Session) FetchAll(ctx context.Context, query string, args ...any) ([]Row, error) {
	var out []Row
	err := s.WithCursor(ctx, func(c *Cursor) error {
		var err error
		out, err = c.All(ctx, query, args...)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Insert runs an insert statement in its own cursor scope and returns
// the generated identifier of the new row. Callers state insert intent
// by choosing this method; query text is never inspected.
func (s *Session) Insert(ctx context.Context, query string, args ...any) (int64, error) {
	var id int64
	err := s.WithCursor(ctx, func(c *Cursor) error {
		res, err := c.Exec(ctx, query, args...)
		if err != nil {
			return err
		}
		id, err = res.LastInsertId()
		if err != nil {
			return &StatementError{Query: query, Err: err}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

// Exec runs an update- or delete-shaped statement in its own cursor
// scope and returns the affected-row count.
func (s *Session) Exec(ctx context.Context, query string, args ...any) (int64, error) {
	var affected int64
	err := s.WithCursor(ctx, func(c *Cursor) error {
		res, err := c.Exec(ctx, query, args...)
		if err != nil {
			return err
		}
		affected, err = res.RowsAffected()
		if err != nil {
			return &StatementError{Query: query, Err: err}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return affected, nil
}

// ExecBatch applies the same statement to every argument tuple in order,
// inside a single cursor scope, and returns the aggregate affected-row
// count. A failure on any tuple rolls back the whole batch.
func (s *Session) ExecBatch(ctx context.Context, query string, argSets [][]any) (int64, error) {
	var total int64
	err := s.WithCursor(ctx, func(c *Cursor) error {
		for _, args := range argSets {
			res, err := c.Exec(ctx, query, args...)
			if err != nil {
				return err
			}
			n, err := res.RowsAffected()
			if err != nil {
				return &StatementError{Query: query, Err: err}
			}
			total += n
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return total, nil
}

// Probe reports database connectivity as a pure boolean signal. It runs
// SELECT 1 and returns true only when exactly the sentinel comes back;
// every error is logged and converted to false, nothing propagates.
func (s *Session) Probe(ctx context.Context) bool {
	var vals []any
	err := s.WithCursor(ctx, func(c *Cursor) error {
		var err error
		vals, err = c.OneValues(ctx, "SELECT 1")
		return err
	})
	if err != nil {
		s.log.Error("database connectivity probe failed", "error", err)
		return false
	}
	return len(vals) == 1 && isOne(vals[0])
}

// scanValues scans the current row into a slice of any.
func scanValues(rows *sql.Rows, n int) ([]any, error) {
	vals := make([]any, n)
	ptrs := make([]any, n)
	for i := range vals {
		ptrs[i] = &vals[i]
	}
	if err := rows.Scan(ptrs...); err != nil {
		return nil, err
	}
	// The MySQL text protocol yields []byte for most column types;
	// convert to string so rows stay comparable and JSON-friendly.
	for i, v := range vals {
		if b, ok := v.([]byte); ok {
			vals[i] = string(b)
		}
	}
	return vals, nil
}

// mapRow zips column names with scanned values.
func mapRow(cols []string, vals []any) Row {
	row := make(Row, len(cols))
	for i, col := range cols {
		row[col] = vals[i]
	}
	return row
}

// isOne reports whether a scanned value is the integer 1 in any of the
// representations the driver may hand back.
func isOne(v any) bool {
	switch n := v.(type) {
	case int64:
		return n == 1
	case int:
		return n == 1
	case uint64:
		return n == 1
	case float64:
		return n == 1
	case string:
		return n == "1"
	case []byte:
		return string(n) == "1"
	default:
		return fmt.Sprint(v) == "1"
	}
}
