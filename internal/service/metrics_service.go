package service

import (
	"net/http"
	"runtime"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService owns the Prometheus registry for the process.
type MetricsService struct {
	registry         *prometheus.Registry
	handler          http.Handler
	requestDuration  *prometheus.HistogramVec
	requestTotal     *prometheus.CounterVec
	cacheOperations  *prometheus.CounterVec
	cacheLatency     prometheus.Observer
	ordersSubmitted  *prometheus.CounterVec
	storageOps       *prometheus.CounterVec
	storageLatency   *prometheus.HistogramVec
	sessionListeners prometheus.Gauge
}

// NewMetricsService registers the collectors on a private registry.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	cacheOperations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cache_operations_total",
		Help: "Content cache lookups and writes by outcome",
	}, []string{"op", "result"})

	cacheLatency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "cache_latency_seconds",
		Help:    "Latency for cache operations",
		Buckets: prometheus.DefBuckets,
	})

	ordersSubmitted := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "orders_submitted_total",
		Help: "Order form submissions by outcome",
	}, []string{"result"})

	storageOps := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "storage_operations_total",
		Help: "Object store calls by bucket, operation and outcome",
	}, []string{"bucket", "op", "result"})

	storageLatency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "storage_operation_duration_seconds",
		Help:    "Object store call latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"bucket", "op"})

	sessionListeners := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "admin_session_listeners",
		Help: "Open admin session event streams",
	})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, cacheOperations, cacheLatency, ordersSubmitted, storageOps, storageLatency, sessionListeners, goroutines)

	return &MetricsService{
		registry:         registry,
		handler:          promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration:  requestDuration,
		requestTotal:     requestTotal,
		cacheOperations:  cacheOperations,
		cacheLatency:     cacheLatency,
		ordersSubmitted:  ordersSubmitted,
		storageOps:       storageOps,
		storageLatency:   storageLatency,
		sessionListeners: sessionListeners,
	}
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// Registry returns the underlying registry.
func (m *MetricsService) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// ObserveHTTPRequest records request count and latency.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := strconv.Itoa(status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
}

// RecordCacheOperation records a cache lookup or write.
func (m *MetricsService) RecordCacheOperation(op, result string, duration time.Duration) {
	if m == nil {
		return
	}
	m.cacheOperations.WithLabelValues(op, result).Inc()
	m.cacheLatency.Observe(duration.Seconds())
}

// RecordOrderSubmission counts an order form submission.
func (m *MetricsService) RecordOrderSubmission(ok bool) {
	if m == nil {
		return
	}
	m.ordersSubmitted.WithLabelValues(outcome(ok)).Inc()
}

// ObserveStorage records one object store call.
func (m *MetricsService) ObserveStorage(bucket, op string, err error, duration time.Duration) {
	if m == nil {
		return
	}
	m.storageOps.WithLabelValues(bucket, op, outcome(err == nil)).Inc()
	m.storageLatency.WithLabelValues(bucket, op).Observe(duration.Seconds())
}

// SessionListenerOpened tracks an open session event stream.
func (m *MetricsService) SessionListenerOpened() {
	if m != nil {
		m.sessionListeners.Inc()
	}
}

// SessionListenerClosed tracks a closed session event stream.
func (m *MetricsService) SessionListenerClosed() {
	if m != nil {
		m.sessionListeners.Dec()
	}
}

func outcome(ok bool) string {
	if ok {
		return "ok"
	}
	return "error"
}
