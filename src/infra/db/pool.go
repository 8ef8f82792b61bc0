package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/go-sql-driver/mysql"

	"tdcweb/src/infra/config"
)

// Pool owns the bounded set of MySQL connections for the process.
// It is created once at startup and passed by reference to everything
// that needs database access; there is no package-level pool.
//
// The handle is created cheap and disconnected by NewPool; Init dials.
// A failed Init leaves the handle usable: Checkout then reports
// ErrPoolNotInitialized and the health endpoints surface the outage.
//
// Checkout/Return are safe for concurrent use from any number of
// request workers. A checked-out connection is exclusively owned by one
// unit of work until returned.
type Pool struct {
	cfg config.DatabaseConfig
	log *slog.Logger

	mu sync.Mutex
	db *sql.DB
}

// NewPool creates an uninitialized pool handle. Call Init to connect.
func NewPool(cfg config.DatabaseConfig, log *slog.Logger) *Pool {
	return &Pool{
		cfg: cfg,
		log: log,
	}
}

// NewPoolWithDB creates an already-initialized pool over an existing
// database handle. Pool limits from cfg are applied. Intended for tests
// that substitute a fake database.
func NewPoolWithDB(sqldb *sql.DB, cfg config.DatabaseConfig, log *slog.Logger) *Pool {
	applyLimits(sqldb, cfg)
	return &Pool{
		cfg: cfg,
		log: log,
		db:  sqldb,
	}
}

// Init establishes the connection pool and verifies it with a ping.
// Calling Init again replaces the existing pool; the prior pool is
// closed first so its connections are never leaked.
//
// On failure the returned error wraps ErrPoolInit and the handle stays
// uninitialized. Callers should log and continue: process boot must not
// depend on the database being up.
func (p *Pool) Init(ctx context.Context) error {
	mc := mysql.NewConfig()
	mc.Net = "tcp"
	mc.Addr = p.cfg.Addr()
	mc.DBName = p.cfg.Name
	mc.User = p.cfg.User
	mc.Passwd = p.cfg.Password
	mc.Timeout = p.cfg.ConnectTimeout
	mc.Collation = p.cfg.Collation
	mc.ParseTime = true
	mc.Params = map[string]string{
		"charset": p.cfg.Charset,
	}

	connector, err := mysql.NewConnector(mc)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPoolInit, err)
	}

	sqldb := sql.OpenDB(connector)
	applyLimits(sqldb, p.cfg)

	// Verify connectivity before accepting the pool.
	pingCtx, cancel := context.WithTimeout(ctx, p.cfg.ConnectTimeout)
	defer cancel()
	if err := sqldb.PingContext(pingCtx); err != nil {
		_ = sqldb.Close()
		return fmt.Errorf("%w: %v", ErrPoolInit, err)
	}

	p.mu.Lock()
	old := p.db
	p.db = sqldb
	p.mu.Unlock()

	if old != nil {
		p.log.Warn("replacing existing database pool")
		if err := old.Close(); err != nil {
			p.log.Warn("closing previous database pool", "error", err)
		}
	}

	p.log.Info("database pool initialized",
		"host", p.cfg.Host,
		"port", p.cfg.Port,
		"database", p.cfg.Name,
		"pool_size", p.cfg.PoolSize,
	)
	return nil
}

// Checkout borrows one connection from the pool. It blocks until a
// connection is free or the configured connect timeout elapses, in
// which case it fails with ErrPoolExhausted rather than blocking
// indefinitely. Before Init has succeeded it fails with
// ErrPoolNotInitialized. Any other failure to establish a connection
// wraps ErrCheckout with the driver cause.
func (p *Pool) Checkout(ctx context.Context) (*sql.Conn, error) {
	p.mu.Lock()
	sqldb := p.db
	p.mu.Unlock()

	if sqldb == nil {
		return nil, ErrPoolNotInitialized
	}

	waitCtx, cancel := context.WithTimeout(ctx, p.cfg.ConnectTimeout)
	defer cancel()

	conn, err := sqldb.Conn(waitCtx)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: no connection available within %s",
				ErrPoolExhausted, p.cfg.ConnectTimeout)
		}
		return nil, fmt.Errorf("%w: %w", ErrCheckout, err)
	}
	return conn, nil
}

// Return gives a connection back to the pool. The driver resets the
// session before the connection is reused. Errors here are logged, not
// propagated: the caller's unit of work has already completed.
func (p *Pool) Return(conn *sql.Conn) {
	if conn == nil {
		return
	}
	if err := conn.Close(); err != nil {
		p.log.Warn("returning connection to pool", "error", err)
	}
}

// Ping reports whether the database is reachable through the pool.
func (p *Pool) Ping(ctx context.Context) error {
	p.mu.Lock()
	sqldb := p.db
	p.mu.Unlock()

	if sqldb == nil {
		return ErrPoolNotInitialized
	}
	return sqldb.PingContext(ctx)
}

// Close shuts the pool down. Call during graceful shutdown.
func (p *Pool) Close() {
	p.mu.Lock()
	sqldb := p.db
	p.db = nil
	p.mu.Unlock()

	if sqldb != nil {
		if err := sqldb.Close(); err != nil {
			p.log.Warn("closing database pool", "error", err)
		} else {
			p.log.Info("database pool closed")
		}
	}
}

// applyLimits bounds the pool. Idle and open limits match so the pool
// holds PoolSize warm connections; lifetime 0 keeps them until the
// server closes them.
func applyLimits(sqldb *sql.DB, cfg config.DatabaseConfig) {
	size := cfg.PoolSize
	if size <= 0 {
		size = 1
	}
	sqldb.SetMaxOpenConns(size)
	sqldb.SetMaxIdleConns(size)
	sqldb.SetConnMaxLifetime(0)
}
