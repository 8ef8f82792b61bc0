package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// defaultOrigins are the browser origins allowed to call the API:
// local frontend dev servers plus the production site.
var defaultOrigins = []string{
	"http://localhost:5173",
	"http://localhost:3000",
	"https://thedreamerscave.club",
	"https://www.thedreamerscave.club",
}

// CORS allows cross-origin requests from the known frontend origins and
// short-circuits OPTIONS preflight requests. Credentialed requests are
// supported, so the allowed origin is echoed per request rather than
// using a wildcard.
func CORS(origins ...string) gin.HandlerFunc {
	if len(origins) == 0 {
		origins = defaultOrigins
	}
	allowed := make(map[string]bool, len(origins))
	for _, o := range origins {
		allowed[strings.TrimRight(o, "/")] = true
	}

	const (
		allowedMethods = "GET, POST, PUT, PATCH, DELETE, OPTIONS"
		allowedHeaders = "Content-Type, Authorization, X-Requested-With"
		maxAge         = "600"
	)

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" && allowed[origin] {
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Access-Control-Allow-Methods", allowedMethods)
			c.Header("Access-Control-Allow-Headers", allowedHeaders)
			c.Header("Access-Control-Allow-Credentials", "true")
			c.Header("Access-Control-Max-Age", maxAge)
			c.Header("Vary", "Origin")
		}

		if c.Request.Method == http.MethodOptions {
			c.Status(http.StatusNoContent)
			c.Abort()
			return
		}

		c.Next()
	}
}
