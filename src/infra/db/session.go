package db

import (
	"context"
	"database/sql"
	"log/slog"
)

// Session binds at most one pooled connection to a single unit of work
// (one HTTP request). The connection is checked out lazily on first use
// and returned exactly once when the unit of work ends.
//
// A Session carries no internal synchronization: it belongs to one unit
// of work and must not be shared across concurrent requests. Concurrency
// safety lives in the Pool, which many sessions hit simultaneously.
type Session struct {
	pool *Pool
	log  *slog.Logger

	conn     *sql.Conn
	released bool
}

// NewSession creates a session for one unit of work. The caller (normally
// the database middleware) must arrange for Release to run on every exit
// path.
func NewSession(pool *Pool, log *slog.Logger) *Session {
	return &Session{
		pool: pool,
		log:  log,
	}
}

// Conn returns the session's bound connection, checking one out from the
// pool on first call. Subsequent calls return the same connection; a
// session never holds more than one checkout. Checkout errors propagate
// unchanged.
func (s *Session) Conn(ctx context.Context) (*sql.Conn, error) {
	if s.released {
		return nil, ErrSessionReleased
	}
	if s.conn != nil {
		return s.conn, nil
	}

	conn, err := s.pool.Checkout(ctx)
	if err != nil {
		return nil, err
	}
	s.conn = conn
	return s.conn, nil
}

// Release returns the bound connection to the pool, if one was checked
// out. It is idempotent and never fails: it runs during teardown where
// no recovery is possible, so internal errors are logged by the pool and
// swallowed. A session with no bound connection releases as a no-op.
func (s *Session) Release() {
	if s.released {
		return
	}
	s.released = true

	if s.conn != nil {
		s.pool.Return(s.conn)
		s.conn = nil
	}
}
