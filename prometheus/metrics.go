package prometheus

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Counter metrics
var (
	// Login counters
	LoginCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "backoffice_login_total",
			Help: "Total number of login attempts",
		},
	)

	// Registration counters
	RegisterCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "backoffice_register_total",
			Help: "Total number of user registrations",
		},
	)

	// Token refresh counter
	TokenRefreshCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "backoffice_token_refresh_total",
			Help: "Total number of access-token refresh requests",
		},
	)

	// Token revocation counter
	TokenRevokedCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "backoffice_token_revoked_total",
			Help: "Total number of refresh tokens revoked via logout",
		},
	)

	// Swept expired refresh-token rows
	SweptTokensCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "backoffice_token_swept_total",
			Help: "Total number of expired refresh-token rows deleted by the sweep",
		},
	)

	// HTTP request counter by endpoint and status
	HTTPRequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "backoffice_http_requests_total",
			Help: "Total number of HTTP requests by endpoint and status",
		},
		[]string{"endpoint", "method", "status"},
	)

	// Error counters
	AuthErrorCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "backoffice_auth_errors_total",
			Help: "Total number of authentication and authorization errors",
		},
		[]string{"type"}, // "invalid_credentials", "invalid_token", "forbidden", ...
	)

	// Organisation operation counter
	OrganisationOperationCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "backoffice_organisation_operations_total",
			Help: "Total number of organisation operations",
		},
		[]string{"operation"}, // "create", "update", "delete", "add_member", ...
	)
)

// Histogram metrics
var (
	// Request duration
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "backoffice_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint", "method", "status"},
	)

	// Database operation duration
	DBOperationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "backoffice_db_operation_duration_seconds",
			Help:    "Duration of database operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"}, // "query", "insert", "update", "delete"
	)
)

// Gauge metrics
var (
	// Active refresh tokens
	ActiveTokensGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "backoffice_active_refresh_tokens",
			Help: "Number of refresh tokens issued and not yet revoked or swept",
		},
	)

	// System info
	InfoGauge = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "backoffice_info",
			Help: "Information about the back-office service",
		},
		[]string{"version"},
	)
)

func init() {
	// Register counters
	prometheus.MustRegister(LoginCounter)
	prometheus.MustRegister(RegisterCounter)
	prometheus.MustRegister(TokenRefreshCounter)
	prometheus.MustRegister(TokenRevokedCounter)
	prometheus.MustRegister(SweptTokensCounter)
	prometheus.MustRegister(HTTPRequestCounter)
	prometheus.MustRegister(AuthErrorCounter)
	prometheus.MustRegister(OrganisationOperationCounter)

	// Register histograms
	prometheus.MustRegister(RequestDuration)
	prometheus.MustRegister(DBOperationDuration)

	// Register gauges
	prometheus.MustRegister(ActiveTokensGauge)
	prometheus.MustRegister(InfoGauge)

	// Set initial service info
	InfoGauge.With(prometheus.Labels{"version": "1.0.0"}).Set(1)
}

// GetPrometheusHandler returns an HTTP handler for the Prometheus metrics
func GetPrometheusHandler() http.Handler {
	return promhttp.Handler()
}

// RecordAuthError increments the auth error counter for the given type
func RecordAuthError(errorType string) {
	AuthErrorCounter.With(prometheus.Labels{"type": errorType}).Inc()
}

// RecordOrganisationOperation increments the organisation operation counter
func RecordOrganisationOperation(operation string) {
	OrganisationOperationCounter.With(prometheus.Labels{"operation": operation}).Inc()
}

// TrackDBOperation measures database operation durations
func TrackDBOperation(operation string) func(time.Time) {
	startTime := time.Now()
	return func(endTime time.Time) {
		duration := time.Since(startTime).Seconds()
		DBOperationDuration.With(prometheus.Labels{
			"operation": operation,
		}).Observe(duration)
	}
}

// MetricsMiddleware creates a middleware function that captures metrics for each request
func MetricsMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			// Execute the request handler
			err := next(c)

			// Record request duration and count
			duration := time.Since(start).Seconds()
			status := strconv.Itoa(c.Response().Status)
			endpoint := c.Path()
			method := c.Request().Method

			RequestDuration.With(prometheus.Labels{
				"endpoint": endpoint,
				"method":   method,
				"status":   status,
			}).Observe(duration)

			HTTPRequestCounter.With(prometheus.Labels{
				"endpoint": endpoint,
				"method":   method,
				"status":   status,
			}).Inc()

			return err
		}
	}
}
