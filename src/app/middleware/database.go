package middleware

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"tdcweb/src/infra/db"
)

// SessionKey is the context key the request's database session is stored
// under.
const SessionKey = "db_session"

// Database binds a database session to each request. The session checks
// out a pooled connection lazily on first use, and the deferred release
// runs on every exit path, panics included, so a bound connection always
// goes back to the pool when the request ends.
func Database(pool *db.Pool, log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := db.NewSession(pool, log)
		c.Set(SessionKey, sess)
		defer sess.Release()

		c.Next()
	}
}

// GetSession retrieves the request's database session from the Gin
// context. Returns nil if the Database middleware is not installed.
func GetSession(c *gin.Context) *db.Session {
	if v, exists := c.Get(SessionKey); exists {
		if sess, ok := v.(*db.Session); ok {
			return sess
		}
	}
	return nil
}
