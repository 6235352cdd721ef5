package search

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	perrors "github.com/takeruhukushima/publiccodelooks/pkg/errors"
	"github.com/takeruhukushima/publiccodelooks/pkg/httputil"
	"github.com/takeruhukushima/publiccodelooks/pkg/observability"
)

// Options tunes a [Pipeline]. Zero values select the defaults.
type Options struct {
	// FanOut caps concurrent detail lookups. 0 uses the page size.
	FanOut int

	// RetryAttempts is the total number of page fetch attempts for
	// transient upstream failures. Default 3.
	RetryAttempts int

	// RetryDelay is the first backoff delay, doubled after each attempt.
	// Default 1s.
	RetryDelay time.Duration

	Logger *log.Logger
}

// Pipeline builds enriched result pages.
//
// A Pipeline holds no per-request state; concurrent BuildPage calls are
// independent.
type Pipeline struct {
	fetcher  PageFetcher
	resolver DetailResolver
	opts     Options
	logger   *log.Logger
}

// NewPipeline creates a pipeline from its two upstream collaborators.
func NewPipeline(fetcher PageFetcher, resolver DetailResolver, opts Options) *Pipeline {
	if opts.RetryAttempts <= 0 {
		opts.RetryAttempts = 3
	}
	if opts.RetryDelay <= 0 {
		opts.RetryDelay = time.Second
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Pipeline{
		fetcher:  fetcher,
		resolver: resolver,
		opts:     opts,
		logger:   logger,
	}
}

// BuildPage fetches one page and enriches every hit.
//
// A rate-limited page fetch is returned at once, before any detail lookup.
// Transient upstream failures (transport errors, 5xx) are retried with
// exponential backoff; the last error is returned unchanged. Rejected
// credentials and other client errors are never retried. Detail lookup
// failures never fail the page.
//
// The returned window holds at most req.PageSize items and the upstream
// total count.
func (p *Pipeline) BuildPage(ctx context.Context, req PageRequest) (*PageWindow, error) {
	if err := perrors.ValidateQuery(req.Query); err != nil {
		return nil, err
	}
	if req.PageIndex < 1 {
		return nil, perrors.New(perrors.ErrCodeInvalidInput, "page must be at least 1, got %d", req.PageIndex)
	}
	if req.PageSize < 1 {
		return nil, perrors.New(perrors.ErrCodeInvalidInput, "page size must be at least 1, got %d", req.PageSize)
	}
	req.PageSize = min(req.PageSize, MaxPageSize)

	hooks := observability.Pipeline()
	hooks.OnPageStart(ctx, req.Query, req.PageIndex)
	start := time.Now()

	window, err := p.buildPage(ctx, req)

	var items int
	if window != nil {
		items = len(window.Items)
	}
	hooks.OnPageComplete(ctx, req.Query, req.PageIndex, items, time.Since(start), err)
	if err != nil {
		return nil, err
	}

	p.logger.Debug("built page",
		"page", req.PageIndex,
		"items", items,
		"total", window.TotalCount,
		"sort", req.Sort,
		"duration", time.Since(start))
	return window, nil
}

func (p *Pipeline) buildPage(ctx context.Context, req PageRequest) (*PageWindow, error) {
	// Stage 1: one page fetch
	res, err := p.fetchPage(ctx, req)
	if err != nil {
		return nil, err
	}
	hits := res.Hits
	if len(hits) > req.PageSize {
		hits = hits[:req.PageSize]
	}

	// Stage 2: scatter detail lookups, gather into per-hit slots
	details := p.resolveDetails(ctx, hits)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Stage 3: join in search order
	records := make([]EnrichedRecord, len(hits))
	for i, h := range hits {
		records[i] = Enrich(h, details[i])
	}

	// Stage 4: optional stable sort
	return &PageWindow{
		Items:      SortRecords(records, req.Sort),
		TotalCount: res.TotalCount,
		PageIndex:  req.PageIndex,
		PageSize:   req.PageSize,
	}, nil
}

func (p *Pipeline) fetchPage(ctx context.Context, req PageRequest) (*SearchResult, error) {
	q := PageQuery{
		Query:     req.Query,
		PageIndex: req.PageIndex,
		PageSize:  req.PageSize,
		Sort:      req.Sort,
	}

	var (
		res     *SearchResult
		attempt int
		lastErr error
	)
	err := httputil.Retry(ctx, p.opts.RetryAttempts, p.opts.RetryDelay, func() error {
		attempt++
		if attempt > 1 {
			observability.Pipeline().OnPageRetry(ctx, req.Query, req.PageIndex, attempt, lastErr)
			p.logger.Warn("retrying page fetch", "page", req.PageIndex, "attempt", attempt, "err", lastErr)
		}
		r, err := p.fetcher.FetchPage(ctx, q)
		if err != nil {
			lastErr = err
			if isTransient(err) {
				return &httputil.RetryableError{Err: err}
			}
			return err
		}
		if r == nil {
			r = &SearchResult{}
		}
		res = r
		return nil
	})
	var retryable *httputil.RetryableError
	if errors.As(err, &retryable) {
		err = retryable.Err
	}
	if err != nil {
		return nil, err
	}
	return res, nil
}

// isTransient reports whether a page fetch failure is worth repeating:
// upstream failures without a status (transport, malformed body) or with a
// 5xx status. Rate limits, bad credentials and 4xx responses are final.
func isTransient(err error) bool {
	var fe *perrors.FetchError
	if !errors.As(err, &fe) || fe.Kind != perrors.KindUpstream {
		return false
	}
	return fe.StatusCode == 0 || fe.StatusCode >= 500
}

// resolveDetails runs one lookup per distinct repository, at most fanOut at
// a time, and returns details aligned with hits. Each task writes only its
// own slot, so no locking is needed.
func (p *Pipeline) resolveDetails(ctx context.Context, hits []SearchHit) []*RepoDetail {
	out := make([]*RepoDetail, len(hits))
	if len(hits) == 0 {
		return out
	}

	// A repository with several manifests appears once per file; look it up once.
	slotOf := make(map[string]int, len(hits))
	var ids []string
	for _, h := range hits {
		if _, ok := slotOf[h.RepositoryID]; !ok {
			slotOf[h.RepositoryID] = len(ids)
			ids = append(ids, h.RepositoryID)
		}
	}

	fanOut := p.opts.FanOut
	if fanOut <= 0 {
		fanOut = len(hits)
	}

	resolved := make([]*RepoDetail, len(ids))
	var g errgroup.Group
	g.SetLimit(fanOut)
	for i, id := range ids {
		g.Go(func() error {
			if d, ok := p.resolver.ResolveDetail(ctx, id); ok {
				resolved[i] = d
			}
			return nil
		})
	}
	_ = g.Wait()

	for i, h := range hits {
		out[i] = resolved[slotOf[h.RepositoryID]]
	}
	return out
}
