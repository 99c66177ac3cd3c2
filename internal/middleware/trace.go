package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"pay-gateway-api/internal/idgen"
	"pay-gateway-api/internal/logger"
)

var requestLog = logger.NewLogger("request")

// Trace assigns each request a trace id and logs method, path, status
// and latency on completion.
func Trace() gin.HandlerFunc {
	return func(c *gin.Context) {
		traceID := c.GetHeader("X-Request-Id")
		if traceID == "" {
			traceID = strconv.FormatUint(idgen.New(), 10)
		}
		c.Set("trace_id", traceID)
		start := time.Now()

		c.Next()

		requestLog.WithFields(logrus.Fields{
			"trace_id": traceID,
			"method":   c.Request.Method,
			"path":     c.Request.URL.Path,
			"status":   c.Writer.Status(),
			"latency":  time.Since(start).Milliseconds(),
		}).Info("request")
	}
}

// TraceID reads the request trace id.
func TraceID(c *gin.Context) string {
	return c.GetString("trace_id")
}
