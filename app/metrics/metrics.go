package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "folio"

// Metrics holds the service collectors. Each instance owns its registry so
// tests and parallel servers do not collide on registration.
type Metrics struct {
	registry *prometheus.Registry

	// HTTP
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	// Rendering
	RendersTotal   *prometheus.CounterVec
	RenderDuration *prometheus.HistogramVec
	CacheLookups   *prometheus.CounterVec
	CachedPages    prometheus.Gauge

	// Background tasks
	TasksTotal  *prometheus.CounterVec
	TaskRetries prometheus.Counter
	QueueDepth  prometheus.Gauge

	// Content
	Records          prometheus.Gauge
	FeaturedConflict prometheus.Gauge
}

func New() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &Metrics{registry: registry}
	factory := promauto.With(registry)
	initHTTPMetrics(m, factory)
	initRenderMetrics(m, factory)
	initTaskMetrics(m, factory)
	initContentMetrics(m, factory)
	return m
}

// Handler returns the Prometheus HTTP handler for the /metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveRender records one page or feed render.
func (m *Metrics) ObserveRender(kind string, started time.Time, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.RendersTotal.WithLabelValues(kind, result).Inc()
	m.RenderDuration.WithLabelValues(kind).Observe(time.Since(started).Seconds())
}

func (m *Metrics) ObserveCache(hit bool) {
	if hit {
		m.CacheLookups.WithLabelValues("hit").Inc()
		return
	}
	m.CacheLookups.WithLabelValues("miss").Inc()
}

func initHTTPMetrics(m *Metrics, factory promauto.Factory) {
	m.RequestsTotal = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "HTTP requests by method, route and status code",
	}, []string{"method", "route", "status"})

	m.RequestDuration = factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by method and route",
		Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0},
	}, []string{"method", "route"})
}

func initRenderMetrics(m *Metrics, factory promauto.Factory) {
	m.RendersTotal = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "renders_total",
		Help:      "Rendered pages and feeds by kind and result",
	}, []string{"kind", "result"})

	m.RenderDuration = factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "render_duration_seconds",
		Help:      "Time to render a page or the feed",
		Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5},
	}, []string{"kind"})

	m.CacheLookups = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "page_cache_lookups_total",
		Help:      "Page cache lookups by result (hit, miss)",
	}, []string{"result"})

	m.CachedPages = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "page_cache_entries",
		Help:      "Pages currently held in the page cache",
	})
}

func initTaskMetrics(m *Metrics, factory promauto.Factory) {
	m.TasksTotal = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tasks_total",
		Help:      "Background tasks by type and result",
	}, []string{"type", "result"})

	m.TaskRetries = factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "task_retries_total",
		Help:      "Background task retries",
	})

	m.QueueDepth = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "task_queue_depth",
		Help:      "Tasks waiting in the scheduler queue",
	})
}

func initContentMetrics(m *Metrics, factory promauto.Factory) {
	m.Records = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "catalog_records",
		Help:      "Case study records in the catalog",
	})

	m.FeaturedConflict = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "catalog_featured_conflicts",
		Help:      "Tags carrying more than one featured record",
	})
}
