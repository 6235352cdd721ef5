// Package observability lets the search pipeline, the summary cache and the
// GitHub client report events without importing a metrics backend.
//
// Three hook interfaces cover the event sources. Each defaults to [Noop];
// main installs real implementations once at startup with [Register]:
//
//	m := metrics.New(prometheus.DefaultRegisterer)
//	observability.Register(observability.Hooks{Pipeline: m, Cache: m, HTTP: m})
//
// Emitters fetch the current implementation per event:
//
//	observability.Pipeline().OnPageStart(ctx, query, page)
//	// ... fetch and enrich ...
//	observability.Pipeline().OnPageComplete(ctx, query, page, items, duration, err)
//
// Hook methods run on the caller's goroutine and must not block.
package observability

import (
	"context"
	"sync/atomic"
	"time"
)

// =============================================================================
// Pipeline Hooks
// =============================================================================

// PipelineHooks receives events from the search aggregation pipeline.
type PipelineHooks interface {
	OnPageStart(ctx context.Context, query string, page int)
	OnPageComplete(ctx context.Context, query string, page, items int, duration time.Duration, err error)

	// OnPageRetry records a page-level retry after an upstream failure.
	OnPageRetry(ctx context.Context, query string, page, attempt int, err error)

	// OnDetail records one repository detail lookup. Failed lookups are
	// absorbed by the pipeline and only visible here and in debug logs.
	OnDetail(ctx context.Context, repositoryID string, ok bool, duration time.Duration)

	// OnSummary records a README summary resolution. Outcome is one of
	// "generated", "cached", "no_readme" or "failed".
	OnSummary(ctx context.Context, repositoryID, outcome string, duration time.Duration)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives summary cache lookups and writes. keyType names the
// cached value, e.g. "summary".
type CacheHooks interface {
	OnCacheHit(ctx context.Context, keyType string)
	OnCacheMiss(ctx context.Context, keyType string)
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives outbound GitHub API calls. OnError fires for transport
// failures only; error statuses arrive through OnResponse.
type HTTPHooks interface {
	OnRequest(ctx context.Context, method, host, path string)
	OnResponse(ctx context.Context, method, host, path string, statusCode int, duration time.Duration)
	OnError(ctx context.Context, method, host, path string, err error)
}

// =============================================================================
// Noop
// =============================================================================

// Noop implements every hook interface and discards all events.
type Noop struct{}

func (Noop) OnPageStart(context.Context, string, int)                               {}
func (Noop) OnPageComplete(context.Context, string, int, int, time.Duration, error) {}
func (Noop) OnPageRetry(context.Context, string, int, int, error)                   {}
func (Noop) OnDetail(context.Context, string, bool, time.Duration)                  {}
func (Noop) OnSummary(context.Context, string, string, time.Duration)               {}

func (Noop) OnCacheHit(context.Context, string)      {}
func (Noop) OnCacheMiss(context.Context, string)     {}
func (Noop) OnCacheSet(context.Context, string, int) {}

func (Noop) OnRequest(context.Context, string, string, string)                      {}
func (Noop) OnResponse(context.Context, string, string, string, int, time.Duration) {}
func (Noop) OnError(context.Context, string, string, string, error)                 {}

// =============================================================================
// Registry
// =============================================================================

// Hooks is one registration. Nil fields leave the current hook in place.
type Hooks struct {
	Pipeline PipelineHooks
	Cache    CacheHooks
	HTTP     HTTPHooks
}

var current atomic.Pointer[Hooks]

func init() {
	Reset()
}

// Register installs the non-nil hooks in h. Readers never see a partially
// applied registration.
func Register(h Hooks) {
	for {
		old := current.Load()
		next := *old
		if h.Pipeline != nil {
			next.Pipeline = h.Pipeline
		}
		if h.Cache != nil {
			next.Cache = h.Cache
		}
		if h.HTTP != nil {
			next.HTTP = h.HTTP
		}
		if current.CompareAndSwap(old, &next) {
			return
		}
	}
}

// Pipeline returns the registered pipeline hooks.
func Pipeline() PipelineHooks { return current.Load().Pipeline }

// Cache returns the registered cache hooks.
func Cache() CacheHooks { return current.Load().Cache }

// HTTP returns the registered HTTP client hooks.
func HTTP() HTTPHooks { return current.Load().HTTP }

// Reset restores [Noop] for every category. Tests call it in cleanup.
func Reset() {
	current.Store(&Hooks{Pipeline: Noop{}, Cache: Noop{}, HTTP: Noop{}})
}
