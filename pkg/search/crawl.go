package search

import (
	"context"
)

// CrawlOptions configures [Pipeline.Crawl].
type CrawlOptions struct {
	Query    string
	PageSize int
	Sort     SortSpec

	// MaxPages stops the crawl early. 0 means no limit beyond the
	// upstream's result cap.
	MaxPages int

	// OnPage, when set, is called after each page is built.
	OnPage func(*PageWindow)
}

// CrawlResult collects the pages of a crawl.
type CrawlResult struct {
	Pages      []*PageWindow
	TotalCount int
}

// Records flattens all pages in fetch order.
func (r *CrawlResult) Records() []EnrichedRecord {
	var n int
	for _, p := range r.Pages {
		n += len(p.Items)
	}
	out := make([]EnrichedRecord, 0, n)
	for _, p := range r.Pages {
		out = append(out, p.Items...)
	}
	return out
}

// Crawl calls BuildPage for page 1, 2, ... until the total count or the
// upstream's 1000-result cap is reached, a page comes back empty, or
// MaxPages pages were fetched.
//
// When a page fails (including rate limits) Crawl stops and returns the
// pages collected so far together with the error, so callers can keep the
// partial result and resume later.
func (p *Pipeline) Crawl(ctx context.Context, opts CrawlOptions) (*CrawlResult, error) {
	result := &CrawlResult{}
	pageSize := min(max(opts.PageSize, 1), MaxPageSize)

	for page := 1; ; page++ {
		window, err := p.BuildPage(ctx, PageRequest{
			Query:     opts.Query,
			PageIndex: page,
			PageSize:  pageSize,
			Sort:      opts.Sort,
		})
		if err != nil {
			p.logger.Warn("crawl stopped", "page", page, "pages", len(result.Pages), "err", err)
			return result, err
		}

		result.Pages = append(result.Pages, window)
		result.TotalCount = window.TotalCount
		if opts.OnPage != nil {
			opts.OnPage(window)
		}

		switch {
		case len(window.Items) == 0:
			return result, nil
		case !window.HasNext():
			return result, nil
		case opts.MaxPages > 0 && len(result.Pages) >= opts.MaxPages:
			return result, nil
		}
	}
}
