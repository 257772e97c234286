package middlewares

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"workforce/services/chat-state/internal/infrastructure/metrics"
)

// Metrics records request count and latency per endpoint.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = c.Request.URL.Path
		}
		metrics.RecordRequest(
			c.Request.Method,
			endpoint,
			strconv.Itoa(c.Writer.Status()),
			time.Since(start).Seconds(),
		)
	}
}
