package service

import (
	"fmt"
	"net/http"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/noah-isme/sma-substitution-console/internal/models"
)

// MetricsService encapsulates Prometheus instrumentation and provides lightweight snapshots for API consumption.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	portalDuration  *prometheus.HistogramVec
	portalTotal     *prometheus.CounterVec
	submissions     *prometheus.CounterVec

	requestCount         uint64
	requestDurationTotal uint64
	portalCount          uint64
	portalDurationTotal  uint64

	mu              sync.Mutex
	submissionCount map[string]uint64
}

// NewMetricsService registers core Prometheus collectors.
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

	portalDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "portal_request_duration_seconds",
		Help:    "Duration of outbound portal requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})

	portalTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "portal_requests_total",
		Help: "Total number of outbound portal requests",
	}, []string{"method", "route", "status"})

	submissions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "absence_submissions_total",
		Help: "Absence submission attempts by result",
	}, []string{"result"})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, portalDuration, portalTotal, submissions, goroutines)

	handler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})

	return &MetricsService{
		registry:        registry,
		handler:         handler,
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		portalDuration:  portalDuration,
		portalTotal:     portalTotal,
		submissions:     submissions,
		submissionCount: map[string]uint64{},
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

// ObserveHTTPRequest records gateway request metrics.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
	atomic.AddUint64(&m.requestCount, 1)
	atomic.AddUint64(&m.requestDurationTotal, uint64(duration.Nanoseconds()))
}

// ObservePortalRequest records one outbound portal call.
func (m *MetricsService) ObservePortalRequest(method, route string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.portalDuration.WithLabelValues(method, route, labelStatus).Observe(duration.Seconds())
	m.portalTotal.WithLabelValues(method, route, labelStatus).Inc()
	atomic.AddUint64(&m.portalCount, 1)
	atomic.AddUint64(&m.portalDurationTotal, uint64(duration.Nanoseconds()))
}

// ObserveSubmission counts an absence attempt by how it ended.
func (m *MetricsService) ObserveSubmission(result string) {
	if m == nil {
		return
	}
	m.submissions.WithLabelValues(result).Inc()
	m.mu.Lock()
	m.submissionCount[result]++
	m.mu.Unlock()
}

// Snapshot returns aggregated metrics suitable for the JSON metrics endpoint.
func (m *MetricsService) Snapshot() models.MetricsSnapshot {
	if m == nil {
		return models.MetricsSnapshot{}
	}
	requests := atomic.LoadUint64(&m.requestCount)
	reqDuration := atomic.LoadUint64(&m.requestDurationTotal)
	portal := atomic.LoadUint64(&m.portalCount)
	portalDuration := atomic.LoadUint64(&m.portalDurationTotal)

	var avgRequestMs float64
	if requests > 0 {
		avgRequestMs = float64(reqDuration) / float64(requests) / float64(time.Millisecond)
	}

	var avgPortalMs float64
	if portal > 0 {
		avgPortalMs = float64(portalDuration) / float64(portal) / float64(time.Millisecond)
	}

	m.mu.Lock()
	submissions := make(map[string]uint64, len(m.submissionCount))
	for k, v := range m.submissionCount {
		submissions[k] = v
	}
	m.mu.Unlock()

	return models.MetricsSnapshot{
		RequestsTotal:            requests,
		AverageRequestDurationMs: avgRequestMs,
		PortalCallsTotal:         portal,
		AveragePortalDurationMs:  avgPortalMs,
		Submissions:              submissions,
		Goroutines:               runtime.NumGoroutine(),
		GeneratedAt:              time.Now().UTC(),
	}
}
