package httpmiddleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"coachtrack/internal/metrics"
)

// Metrics observes request durations per route, method, and status.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		metrics.APIRequestDuration.WithLabelValues(
			path,
			c.Request.Method,
			strconv.Itoa(c.Writer.Status()),
		).Observe(time.Since(start).Seconds())
	}
}
