package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/delarge95/ai-news-aggregator-sub000/pkg/logger"
)

// RequestIDHeader carries the per-request correlation id
const RequestIDHeader = "X-Request-ID"

// LoggerMiddleware creates request logging middleware. Every request gets a
// correlation id, echoed back in the response header.
func LoggerMiddleware(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		startTime := time.Now()

		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set("request_id", requestID)
		c.Header(RequestIDHeader, requestID)

		c.Next()

		duration := time.Since(startTime)
		statusCode := c.Writer.Status()

		fields := []interface{}{
			"request_id", requestID,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", statusCode,
			"duration_ms", duration.Milliseconds(),
			"client_ip", c.ClientIP(),
		}
		if statusCode >= 500 {
			log.Warn("HTTP Request", fields...)
		} else {
			log.Info("HTTP Request", fields...)
		}

		if len(c.Errors) > 0 {
			log.Error("Request errors", "request_id", requestID, "errors", c.Errors.String())
		}
	}
}
