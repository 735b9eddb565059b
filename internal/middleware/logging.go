package middleware

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
)

func Logging() gin.HandlerFunc {
	return func(c *gin.Context) {
		started := time.Now()
		c.Next()

		log.Printf(
			"request_id=%s component=http method=%s path=%s status=%d duration_ms=%d",
			GetRequestID(c),
			c.Request.Method,
			routePath(c),
			c.Writer.Status(),
			time.Since(started).Milliseconds(),
		)
	}
}

// routePath prefers the matched route template so unmatched paths do not
// explode label cardinality.
func routePath(c *gin.Context) string {
	if path := c.FullPath(); path != "" {
		return path
	}
	return "unmatched"
}
