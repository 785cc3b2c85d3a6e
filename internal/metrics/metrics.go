package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "rental"

var (
	// Registry содержит метрики приложения.
	Registry = prometheus.NewRegistry()

	httpInFlight = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "inflight_requests",
		Help:      "Current number of in-flight HTTP requests.",
	})

	httpRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total number of HTTP requests handled.",
	}, []string{"method", "route", "status"})

	httpDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "Duration of HTTP requests.",
		Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10),
	}, []string{"method", "route"})

	applicationsSubmitted = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "applications",
		Name:      "submitted_total",
		Help:      "Applications created by tenants.",
	})

	applicationDecisions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "applications",
		Name:      "decisions_total",
		Help:      "Application status transitions performed by landlords.",
	}, []string{"decision"})

	applicationConflicts = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "applications",
		Name:      "conflicts_total",
		Help:      "Operations refused because of the current application state.",
	}, []string{"reason"})

	trustRecomputations = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "trust_score",
		Name:      "recomputations_total",
		Help:      "Trust score recomputations by outcome.",
	}, []string{"result"})

	notificationFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "notifications",
		Name:      "failures_total",
		Help:      "Notification delivery failures by channel.",
	}, []string{"channel"})

	reconciliationRepairs = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "reconciliation",
		Name:      "repairs_total",
		Help:      "Records repaired by the reconciliation job.",
	}, []string{"kind"})

	reconciliationRuns = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "reconciliation",
		Name:      "run_duration_seconds",
		Help:      "Duration of reconciliation runs.",
		Buckets:   prometheus.ExponentialBuckets(0.01, 2, 10),
	}, []string{"success"})
)

func init() {
	Registry.MustRegister(
		httpInFlight,
		httpRequests,
		httpDuration,
		applicationsSubmitted,
		applicationDecisions,
		applicationConflicts,
		trustRecomputations,
		notificationFailures,
		reconciliationRepairs,
		reconciliationRuns,
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)
}

// Handler отдаёт метрики в формате Prometheus.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// GinMiddleware собирает метрики HTTP запросов по шаблону маршрута.
func GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.URL.Path == "/metrics" {
			c.Next()
			return
		}

		start := time.Now()
		httpInFlight.Inc()
		defer httpInFlight.Dec()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		method := c.Request.Method

		httpRequests.WithLabelValues(method, route, strconv.Itoa(c.Writer.Status())).Inc()
		httpDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
	}
}

func ApplicationSubmitted() {
	applicationsSubmitted.Inc()
}

func ApplicationDecision(decision string) {
	applicationDecisions.WithLabelValues(decision).Inc()
}

func ApplicationConflict(reason string) {
	applicationConflicts.WithLabelValues(reason).Inc()
}

// TrustRecomputation: result = ok | retried | failed.
func TrustRecomputation(result string) {
	trustRecomputations.WithLabelValues(result).Inc()
}

func NotificationFailure(channel string) {
	notificationFailures.WithLabelValues(channel).Inc()
}

func ReconciliationRepair(kind string, n int) {
	if n <= 0 {
		return
	}
	reconciliationRepairs.WithLabelValues(kind).Add(float64(n))
}

func ReconciliationRun(duration time.Duration, success bool) {
	reconciliationRuns.WithLabelValues(strconv.FormatBool(success)).Observe(duration.Seconds())
}
