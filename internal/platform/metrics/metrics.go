package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds Prometheus counters and gauges for the showcase service.
type Metrics struct {
	registry        *prometheus.Registry
	requestsTotal   prometheus.Counter
	errorsTotal     prometheus.Counter
	mediaOpsTotal   *prometheus.CounterVec
	uploadsTotal    *prometheus.CounterVec
	sourceFallbacks prometheus.Counter
	mediaItems      prometheus.Gauge
}

// New creates and registers Prometheus metrics for the service.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	requestsTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "streamflux_requests_total",
		Help: "Total number of HTTP requests received",
	})
	errorsTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "streamflux_errors_total",
		Help: "Total number of HTTP responses with error status (4xx or 5xx)",
	})
	mediaOpsTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "streamflux_media_operations_total",
		Help: "Media item mutations by operation (create, update, delete)",
	}, []string{"op"})
	uploadsTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "streamflux_uploads_total",
		Help: "Image uploads by result (stored, rejected, failed)",
	}, []string{"result"})
	sourceFallbacks := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "streamflux_source_fallbacks_total",
		Help: "Times a media source failed and a cached list was served instead",
	})
	mediaItems := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "streamflux_media_items",
		Help: "Number of media items currently stored",
	})

	registry.MustRegister(
		requestsTotal,
		errorsTotal,
		mediaOpsTotal,
		uploadsTotal,
		sourceFallbacks,
		mediaItems,
	)

	return &Metrics{
		registry:        registry,
		requestsTotal:   requestsTotal,
		errorsTotal:     errorsTotal,
		mediaOpsTotal:   mediaOpsTotal,
		uploadsTotal:    uploadsTotal,
		sourceFallbacks: sourceFallbacks,
		mediaItems:      mediaItems,
	}
}

// IncRequests increments the total request counter.
func (m *Metrics) IncRequests() {
	m.requestsTotal.Inc()
}

// IncErrors increments the errors counter.
func (m *Metrics) IncErrors() {
	m.errorsTotal.Inc()
}

// IncMediaOp counts a media mutation; op is "create", "update" or "delete".
func (m *Metrics) IncMediaOp(op string) {
	m.mediaOpsTotal.WithLabelValues(op).Inc()
}

// IncUpload counts an upload attempt by result.
func (m *Metrics) IncUpload(result string) {
	m.uploadsTotal.WithLabelValues(result).Inc()
}

// IncSourceFallback counts a failed media source read answered from cache.
func (m *Metrics) IncSourceFallback() {
	m.sourceFallbacks.Inc()
}

// SetMediaItems sets the stored media items gauge.
func (m *Metrics) SetMediaItems(n int) {
	m.mediaItems.Set(float64(n))
}

// Registry exposes the underlying registry, mostly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler returns an http.Handler that serves Prometheus metrics.
// updateGauges is called before each scrape to refresh gauge values (e.g. stored items).
func (m *Metrics) Handler(updateGauges func()) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if updateGauges != nil {
			updateGauges()
		}
		promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}).ServeHTTP(w, r)
	})
}
