package api

import (
	"time"

	"organizer/internal/logging"
	"organizer/internal/metrics"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const requestIDHeader = "X-Request-ID"

// requestContext attaches a correlation id to the request context and echoes
// it back.
func requestContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = logging.NewRequestID()
		}
		c.Request = c.Request.WithContext(logging.WithRequestID(c.Request.Context(), id))
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

// observe records request metrics and logs failures.
func observe() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		code := c.Writer.Status()
		d := time.Since(start)
		metrics.RecordHTTP(route, c.Request.Method, code, d)

		if code >= 500 {
			logging.For(c.Request.Context(), logging.CategoryAPI).Warn("request failed",
				zap.String("route", route),
				zap.String("method", c.Request.Method),
				zap.Int("status", code),
				zap.Duration("duration", d))
		}
	}
}
