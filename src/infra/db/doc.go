// Package db provides the request-scoped MySQL connection-pool access layer.
//
// This package is responsible for:
//   - Pool lifecycle: a bounded connection pool created once at startup
//   - Per-request connection checkout and unconditional release
//   - Transactional cursor scopes with commit/rollback discipline
//   - Typed query helpers (FetchOne, FetchAll, Insert, Exec, ExecBatch)
//   - The SELECT 1 connectivity probe used by the health endpoints
//
// Example usage:
//
//	pool := db.NewPool(cfg.Database, log)
//	if err := pool.Init(ctx); err != nil {
//	    log.Error("database unavailable at startup", "error", err)
//	    // keep booting; health probes report the outage
//	}
//	defer pool.Close()
//
//	// per request (done by middleware.Database):
//	sess := db.NewSession(pool, log)
//	defer sess.Release()
//	user, err := sess.FetchOne(ctx, "SELECT * FROM users WHERE id = ?", userID)
package db
