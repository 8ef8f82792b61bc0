package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"tdcweb/src/app/http/response"
)

// Recovery recovers from panics and returns a generic 500 response.
// The panic and stack trace are logged for debugging; nothing internal
// reaches the client.
//
// This should be the first middleware in the chain so it catches panics
// from everything after it.
func Recovery(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				log.Error("panic recovered",
					"request_id", GetRequestID(c),
					"error", err,
					"path", c.Request.URL.Path,
					"method", c.Request.Method,
					"stack", string(debug.Stack()),
				)

				c.AbortWithStatusJSON(http.StatusInternalServerError, response.Error{
					Success: false,
					Message: "An unexpected error occurred",
				})
			}
		}()

		c.Next()
	}
}
