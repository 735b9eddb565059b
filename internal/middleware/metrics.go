package middleware

import (
	"github.com/alanmaizon/gt-translator/internal/metrics"
	"github.com/gin-gonic/gin"
)

// Metrics records request count by method, route and status code.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		metrics.RecordHTTPRequest(c.Request.Method, routePath(c), c.Writer.Status())
	}
}
