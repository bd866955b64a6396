package logger

import (
	"time"

	"auction-backoffice/pkg/config"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var log *zap.Logger

// InitLogger builds the process logger: structured JSON in production,
// colored console output everywhere else. The level comes from LOG_LEVEL.
func InitLogger(cfg *config.Config) {
	var zapConfig zap.Config
	if cfg.Server.Env == "production" {
		zapConfig = zap.NewProductionConfig()
	} else {
		zapConfig = zap.NewDevelopmentConfig()
		zapConfig.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Log.Level)); err != nil {
		level = zapcore.InfoLevel
	}
	zapConfig.Level.SetLevel(level)

	built, err := zapConfig.Build()
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	log = built

	log.Info("Logger initialized", zap.String("level", level.String()))
}

// GetLogger returns the process logger. Before InitLogger has run (tests,
// early boot failures) it hands out a no-op logger instead of nil.
func GetLogger() *zap.Logger {
	if log == nil {
		return zap.NewNop()
	}
	return log
}

// Middleware attaches a request-scoped logger to the echo context and writes
// one line per completed request. Health and metrics probes are skipped to
// keep the log about real traffic.
func Middleware(base *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			path := c.Request().URL.Path
			if path == "/health" || path == "/metrics" {
				return next(c)
			}

			start := time.Now()

			requestID := c.Response().Header().Get(RequestIDKey)
			reqLogger := base.With(zap.String("request_id", requestID))
			c.Set(loggerContextKey, reqLogger)

			err := next(c)

			fields := []zapcore.Field{
				zap.String("method", c.Request().Method),
				zap.String("path", path),
				zap.Int("status", c.Response().Status),
				zap.Int64("bytes_out", c.Response().Size),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", c.RealIP()),
			}
			if err != nil {
				reqLogger.Error("HTTP request failed", append(fields, zap.Error(err))...)
			} else {
				reqLogger.Info("HTTP request completed", fields...)
			}
			return err
		}
	}
}
