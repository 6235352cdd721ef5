package metrics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/takeruhukushima/publiccodelooks/pkg/errors"
	"github.com/takeruhukushima/publiccodelooks/pkg/observability"
)

func newTestMetrics(t *testing.T) *Metrics {
	t.Helper()
	return New(prometheus.NewRegistry())
}

func TestPipelineHooks(t *testing.T) {
	m := newTestMetrics(t)
	ctx := context.Background()

	m.OnPageComplete(ctx, "q", 1, 30, time.Second, nil)
	m.OnPageComplete(ctx, "q", 2, 0, time.Second, errors.RateLimited(time.Minute, "slow down"))
	m.OnPageRetry(ctx, "q", 1, 2, nil)
	m.OnDetail(ctx, "a/b", true, time.Millisecond)
	m.OnDetail(ctx, "a/c", false, time.Millisecond)
	m.OnDetail(ctx, "a/d", false, time.Millisecond)
	m.OnSummary(ctx, "a/b", "cached", 0)

	checks := []struct {
		name string
		got  float64
		want float64
	}{
		{"pages ok", testutil.ToFloat64(m.pagesTotal.WithLabelValues("ok")), 1},
		{"pages rate limited", testutil.ToFloat64(m.pagesTotal.WithLabelValues("rate_limited")), 1},
		{"retries", testutil.ToFloat64(m.pageRetries), 1},
		{"details ok", testutil.ToFloat64(m.detailsTotal.WithLabelValues("ok")), 1},
		{"details absent", testutil.ToFloat64(m.detailsTotal.WithLabelValues("absent")), 2},
		{"summaries cached", testutil.ToFloat64(m.summariesTotal.WithLabelValues("cached")), 1},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s = %v, want %v", c.name, c.got, c.want)
		}
	}
}

func TestCacheAndHTTPHooks(t *testing.T) {
	m := newTestMetrics(t)
	ctx := context.Background()

	m.OnCacheHit(ctx, "summary")
	m.OnCacheMiss(ctx, "summary")
	m.OnCacheMiss(ctx, "summary")
	m.OnCacheSet(ctx, "summary", 512)
	m.OnResponse(ctx, "GET", "api.github.com", "/search/code", 200, time.Millisecond)
	m.OnResponse(ctx, "GET", "api.github.com", "/repos/a/b", 404, time.Millisecond)
	m.OnError(ctx, "GET", "api.github.com", "/repos/a/c", context.DeadlineExceeded)

	if got := testutil.ToFloat64(m.cacheTotal.WithLabelValues("summary", "miss")); got != 2 {
		t.Errorf("cache misses = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.cacheBytes); got != 512 {
		t.Errorf("cache bytes = %v, want 512", got)
	}
	if got := testutil.ToFloat64(m.upstreamTotal.WithLabelValues("api.github.com", "404")); got != 1 {
		t.Errorf("upstream 404 = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.upstreamErrors.WithLabelValues("api.github.com")); got != 1 {
		t.Errorf("upstream errors = %v, want 1", got)
	}
}

func TestInstall(t *testing.T) {
	defer observability.Reset()
	m := newTestMetrics(t)
	m.Install()

	if observability.Pipeline() != m {
		t.Error("Install should register pipeline hooks")
	}
	if observability.HTTP() != m {
		t.Error("Install should register HTTP hooks")
	}
}

func TestMiddlewareRecordsRoutePattern(t *testing.T) {
	m := newTestMetrics(t)

	r := chi.NewRouter()
	r.Use(m.Middleware())
	r.Get("/api/repos/{owner}/{repo}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	for _, path := range []string{"/api/repos/a/b", "/api/repos/c/d"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", path, http.NoBody))
	}

	got := testutil.ToFloat64(m.httpRequestsTotal.WithLabelValues("GET", "/api/repos/{owner}/{repo}", "404"))
	if got != 2 {
		t.Errorf("http_requests_total = %v, want 2", got)
	}
	if n := testutil.CollectAndCount(m.httpRequestDuration); n != 1 {
		t.Errorf("duration series = %d, want 1", n)
	}
}

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"", "unknown"},
		{"/api/search", "/api/search"},
		{"/healthz", "/healthz"},
	}

	for _, tc := range tests {
		if got := normalizePath(tc.input); got != tc.expected {
			t.Errorf("normalizePath(%q) = %q, want %q", tc.input, got, tc.expected)
		}
	}
}
