package middleware

import (
	"time"

	"github.com/SscSPs/finn_ledger/pkg/metrics"
	"github.com/gin-gonic/gin"
)

// Metrics records every request by its route template, so /accounts/:id is one series.
func Metrics(collector metrics.MetricsCollector) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		collector.RecordHTTPRequest(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}
