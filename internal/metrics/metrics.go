// Package metrics exports pipeline, cache and HTTP events as Prometheus
// metrics by implementing the observability hook interfaces.
package metrics

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/takeruhukushima/publiccodelooks/pkg/errors"
	"github.com/takeruhukushima/publiccodelooks/pkg/observability"
)

const namespace = "publiccodelooks"

// Metrics holds every collector. It implements
// [observability.PipelineHooks], [observability.CacheHooks] and
// [observability.HTTPHooks].
type Metrics struct {
	pagesTotal      *prometheus.CounterVec
	pageDuration    prometheus.Histogram
	pageRetries     prometheus.Counter
	detailsTotal    *prometheus.CounterVec
	detailDuration  prometheus.Histogram
	summariesTotal  *prometheus.CounterVec
	cacheTotal      *prometheus.CounterVec
	cacheBytes      prometheus.Counter
	upstreamTotal   *prometheus.CounterVec
	upstreamLatency *prometheus.HistogramVec
	upstreamErrors  *prometheus.CounterVec

	httpRequestDuration *prometheus.HistogramVec
	httpRequestsTotal   *prometheus.CounterVec
}

var (
	_ observability.PipelineHooks = (*Metrics)(nil)
	_ observability.CacheHooks    = (*Metrics)(nil)
	_ observability.HTTPHooks     = (*Metrics)(nil)
)

// New creates the collectors and registers them with reg.
// Pass prometheus.DefaultRegisterer in main and a fresh registry in tests.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		pagesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pages_total",
			Help:      "Search pages built, by outcome",
		}, []string{"outcome"}),
		pageDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "page_duration_seconds",
			Help:      "Time to build one enriched page",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
		pageRetries: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "page_retries_total",
			Help:      "Page-level retries after upstream failures",
		}),
		detailsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "detail_lookups_total",
			Help:      "Repository detail lookups, by result",
		}, []string{"result"}),
		detailDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "detail_lookup_duration_seconds",
			Help:      "Repository detail lookup latency",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),
		summariesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "summaries_total",
			Help:      "README summary resolutions, by outcome",
		}, []string{"outcome"}),
		cacheTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_total",
			Help:      "Cache hits and misses",
		}, []string{"type", "result"}),
		cacheBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_written_bytes_total",
			Help:      "Bytes written to the cache",
		}),
		upstreamTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upstream_requests_total",
			Help:      "Outbound requests, by host and status",
		}, []string{"host", "status"}),
		upstreamLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "upstream_request_duration_seconds",
			Help:      "Outbound request latency",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"host"}),
		upstreamErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upstream_errors_total",
			Help:      "Outbound requests that failed before a response",
		}, []string{"host"}),
		httpRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"method", "path", "status"}),
		httpRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		}, []string{"method", "path", "status"}),
	}

	reg.MustRegister(
		m.pagesTotal, m.pageDuration, m.pageRetries,
		m.detailsTotal, m.detailDuration,
		m.summariesTotal,
		m.cacheTotal, m.cacheBytes,
		m.upstreamTotal, m.upstreamLatency, m.upstreamErrors,
		m.httpRequestDuration, m.httpRequestsTotal,
	)
	return m
}

// Install registers m as the global observability hooks.
func (m *Metrics) Install() {
	observability.Register(observability.Hooks{Pipeline: m, Cache: m, HTTP: m})
}

// =============================================================================
// Pipeline hooks
// =============================================================================

func (m *Metrics) OnPageStart(context.Context, string, int) {}

func (m *Metrics) OnPageComplete(_ context.Context, _ string, _, _ int, d time.Duration, err error) {
	outcome := "ok"
	if err != nil {
		outcome = errors.KindOf(err).String()
	}
	m.pagesTotal.WithLabelValues(outcome).Inc()
	m.pageDuration.Observe(d.Seconds())
}

func (m *Metrics) OnPageRetry(context.Context, string, int, int, error) {
	m.pageRetries.Inc()
}

func (m *Metrics) OnDetail(_ context.Context, _ string, ok bool, d time.Duration) {
	result := "ok"
	if !ok {
		result = "absent"
	}
	m.detailsTotal.WithLabelValues(result).Inc()
	m.detailDuration.Observe(d.Seconds())
}

func (m *Metrics) OnSummary(_ context.Context, _, outcome string, _ time.Duration) {
	m.summariesTotal.WithLabelValues(outcome).Inc()
}

// =============================================================================
// Cache hooks
// =============================================================================

func (m *Metrics) OnCacheHit(_ context.Context, keyType string) {
	m.cacheTotal.WithLabelValues(keyType, "hit").Inc()
}

func (m *Metrics) OnCacheMiss(_ context.Context, keyType string) {
	m.cacheTotal.WithLabelValues(keyType, "miss").Inc()
}

func (m *Metrics) OnCacheSet(_ context.Context, _ string, size int) {
	m.cacheBytes.Add(float64(size))
}

// =============================================================================
// HTTP client hooks
// =============================================================================

func (m *Metrics) OnRequest(context.Context, string, string, string) {}

// OnResponse labels by host only; paths carry repository names and would
// explode cardinality.
func (m *Metrics) OnResponse(_ context.Context, _, host, _ string, status int, d time.Duration) {
	m.upstreamTotal.WithLabelValues(host, strconv.Itoa(status)).Inc()
	m.upstreamLatency.WithLabelValues(host).Observe(d.Seconds())
}

func (m *Metrics) OnError(_ context.Context, _, host, _ string, _ error) {
	m.upstreamErrors.WithLabelValues(host).Inc()
}
