package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// HTTPMetrics records inbound request counts and latency.
type HTTPMetrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewRegistry returns the registry served on /metrics.
func NewRegistry() *prometheus.Registry {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return registry
}

// NewHTTPMetrics registers the HTTP collectors on registry.
func NewHTTPMetrics(registry *prometheus.Registry, cfg Config) *HTTPMetrics {
	constLabels := prometheus.Labels{
		"service": serviceLabel(cfg.ServiceName),
		"env":     environmentLabel(cfg.Environment),
	}

	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name:        "gatekeeper_http_requests_total",
		Help:        "HTTP requests by method, route and status.",
		ConstLabels: constLabels,
	}, []string{"method", "route", "status"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:        "gatekeeper_http_request_duration_seconds",
		Help:        "HTTP request latency by method and route.",
		Buckets:     []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		ConstLabels: constLabels,
	}, []string{"method", "route"})

	if registry != nil {
		registry.MustRegister(requests, duration)
	}

	return &HTTPMetrics{
		requests: requests,
		duration: duration,
	}
}

// Observe records a finished request.
func (m *HTTPMetrics) Observe(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	if route == "" {
		route = "unknown"
	}
	m.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.duration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// GinMiddleware records request metrics using the matched route template.
func GinMiddleware(m *HTTPMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()
		m.Observe(c.Request.Method, c.FullPath(), c.Writer.Status(), time.Since(start))
	}
}

func serviceLabel(name string) string {
	if name == "" {
		return "gatekeeper"
	}
	return name
}

func environmentLabel(env string) string {
	if env == "" {
		return "unknown"
	}
	return env
}
