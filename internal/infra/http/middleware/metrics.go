package middleware

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
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	activeConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_active_connections",
			Help: "Number of active HTTP connections",
		},
	)

	leadsCaptured = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "funnel_leads_captured_total",
			Help: "Lead captures by result (created, updated, unchanged)",
		},
		[]string{"result"},
	)

	salesConfirmed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "funnel_sales_confirmed_total",
			Help: "Sale webhooks by checkout source and result",
		},
		[]string{"source", "result"},
	)

	notificationsSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "funnel_notifications_total",
			Help: "Abandonment notifications by channel and status",
		},
		[]string{"channel", "status"},
	)

	sweepsRun = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "funnel_sweeps_total",
			Help: "Abandonment sweeps by channel and result",
		},
		[]string{"channel", "result"},
	)

	integrationErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "integration_errors_total",
			Help: "Total number of integration errors",
		},
		[]string{"service"},
	)
)

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		activeConnections.Inc()
		defer activeConnections.Dec()

		rw := &responseWriter{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		next.ServeHTTP(rw, r)

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(rw.statusCode)
		path := routePattern(r)

		httpRequestsTotal.WithLabelValues(r.Method, path, status).Inc()
		httpRequestDuration.WithLabelValues(r.Method, path).Observe(duration)
	})
}

// routePattern usa o padrão do chi para não explodir a cardinalidade com ids na URL.
func routePattern(r *http.Request) string {
	if rc := chi.RouteContext(r.Context()); rc != nil {
		if p := rc.RoutePattern(); p != "" {
			return p
		}
	}
	return "unmatched"
}

func MetricsHandler() http.Handler {
	return promhttp.Handler()
}

func RecordLeadCapture(result string) {
	leadsCaptured.WithLabelValues(result).Inc()
}

func RecordSale(source, result string) {
	salesConfirmed.WithLabelValues(source, result).Inc()
}

func RecordNotifications(channel string, sent, failed, skipped, aborted int) {
	notificationsSent.WithLabelValues(channel, "sent").Add(float64(sent))
	notificationsSent.WithLabelValues(channel, "failed").Add(float64(failed - aborted))
	notificationsSent.WithLabelValues(channel, "skipped").Add(float64(skipped))
	notificationsSent.WithLabelValues(channel, "aborted").Add(float64(aborted))
}

func RecordSweep(channel, result string) {
	sweepsRun.WithLabelValues(channel, result).Inc()
}

func RecordIntegrationError(service string) {
	integrationErrors.WithLabelValues(service).Inc()
}
