package server

import (
	"context"
	"log/slog"
	"time"

	"github.com/Veraticus/fintrack/internal/resource"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type contextKey string

const loggerKey = contextKey("logger")

// requestLogger injects a request-scoped logger into the gin and request
// contexts. The caller's X-Request-ID is reused when it is a valid uuid.
func requestLogger(base *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		requestID := c.GetHeader(resource.RequestIDHeader)
		if _, err := uuid.Parse(requestID); err != nil {
			requestID = uuid.NewString()
		}

		logger := base.With(
			slog.String("request_id", requestID),
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
		)

		c.Header(resource.RequestIDHeader, requestID)
		c.Set(string(loggerKey), logger)
		c.Request = c.Request.WithContext(context.WithValue(c.Request.Context(), loggerKey, logger))

		c.Next()

		logger.Info("Request completed",
			slog.Int("status", c.Writer.Status()),
			slog.Duration("latency", time.Since(start)),
		)
	}
}

// loggerFrom returns the request-scoped logger, or the default logger when
// the middleware did not run.
func loggerFrom(c *gin.Context) *slog.Logger {
	if v, ok := c.Get(string(loggerKey)); ok {
		if logger, ok := v.(*slog.Logger); ok {
			return logger
		}
	}
	if logger, ok := c.Request.Context().Value(loggerKey).(*slog.Logger); ok {
		return logger
	}
	return slog.Default()
}
