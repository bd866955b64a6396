package logger

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const (
	RequestIDKey     = "X-Request-ID"
	loggerContextKey = "logger"
)

// FromContext returns the request-scoped logger set by Middleware, falling
// back to the process logger tagged with whatever request ID is known.
func FromContext(c echo.Context) *zap.Logger {
	if reqLogger, ok := c.Get(loggerContextKey).(*zap.Logger); ok {
		return reqLogger
	}

	requestID := c.Request().Header.Get(RequestIDKey)
	if requestID == "" {
		requestID = "unknown"
	}
	return GetLogger().With(zap.String("request_id", requestID))
}
