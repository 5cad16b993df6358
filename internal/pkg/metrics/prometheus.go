package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP metrics
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "creditwatch",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "creditwatch",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path", "status"},
	)

	// Scan metrics
	scanPassesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "creditwatch",
			Subsystem: "scan",
			Name:      "passes_total",
			Help:      "Total number of evaluation passes",
		},
		[]string{"outcome"},
	)

	scanDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "creditwatch",
			Subsystem: "scan",
			Name:      "duration_seconds",
			Help:      "Duration of one evaluation pass in seconds",
			Buckets:   []float64{.005, .01, .05, .1, .5, 1, 5, 10, 30},
		},
	)

	triggersTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "creditwatch",
			Subsystem: "scan",
			Name:      "triggers_total",
			Help:      "Total number of rule triggers produced",
		},
		[]string{"type", "severity"},
	)

	// Alert store metrics
	alertsIngestedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "creditwatch",
			Subsystem: "alerts",
			Name:      "ingested_total",
			Help:      "Total number of alerts created by ingestion",
		},
		[]string{"type", "severity"},
	)

	unreadAlerts = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "creditwatch",
			Subsystem: "alerts",
			Name:      "unread",
			Help:      "Number of unread alerts",
		},
	)

	persistenceFailuresTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "creditwatch",
			Subsystem: "alerts",
			Name:      "persistence_failures_total",
			Help:      "Best-effort persistence writes that failed",
		},
	)

	// Notification metrics
	notificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "creditwatch",
			Subsystem: "notifications",
			Name:      "dispatched_total",
			Help:      "Notification dispatch attempts by channel and outcome",
		},
		[]string{"channel", "outcome"},
	)
)

// RecordScanPass records the outcome and duration of one evaluation pass.
func RecordScanPass(outcome string, duration time.Duration) {
	scanPassesTotal.WithLabelValues(outcome).Inc()
	scanDuration.Observe(duration.Seconds())
}

// RecordTrigger records a produced trigger.
func RecordTrigger(alertType, severity string) {
	triggersTotal.WithLabelValues(alertType, severity).Inc()
}

// RecordAlertIngested records a created alert.
func RecordAlertIngested(alertType, severity string) {
	alertsIngestedTotal.WithLabelValues(alertType, severity).Inc()
}

// SetUnreadAlerts updates the unread alert gauge.
func SetUnreadAlerts(n int) {
	unreadAlerts.Set(float64(n))
}

// RecordPersistenceFailure records a failed best-effort write.
func RecordPersistenceFailure() {
	persistenceFailuresTotal.Inc()
}

// RecordNotification records one channel dispatch attempt.
func RecordNotification(channel, outcome string) {
	notificationsTotal.WithLabelValues(channel, outcome).Inc()
}

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Middleware instruments HTTP requests with request count and duration.
func Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := &statusWriter{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(ww, r)

			// Use the chi route pattern so path cardinality stays bounded.
			path := r.URL.Path
			if rctx := chi.RouteContext(r.Context()); rctx != nil {
				if pattern := rctx.RoutePattern(); pattern != "" {
					path = pattern
				}
			}

			status := strconv.Itoa(ww.status)
			httpRequestsTotal.WithLabelValues(r.Method, path, status).Inc()
			httpRequestDuration.WithLabelValues(r.Method, path, status).Observe(time.Since(start).Seconds())
		})
	}
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}
