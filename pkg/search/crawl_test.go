package search

import (
	"context"
	"fmt"
	"testing"
	"time"

	perrors "github.com/takeruhukushima/publiccodelooks/pkg/errors"
)

// pagedFetcher serves total hits split into pages; failAt makes that page
// return err.
func pagedFetcher(total, failAt int, err error) (PageFetcher, *[]int) {
	var pages []int
	return PageFetcherFunc(func(ctx context.Context, q PageQuery) (*SearchResult, error) {
		pages = append(pages, q.PageIndex)
		if q.PageIndex == failAt {
			return nil, err
		}
		start := (q.PageIndex - 1) * q.PageSize
		end := min(start+q.PageSize, total, MaxSearchResults)
		var ids []string
		for i := start; i < end; i++ {
			ids = append(ids, fmt.Sprintf("org/r%d", i))
		}
		return &SearchResult{Hits: hitsFor(ids...), TotalCount: total}, nil
	}), &pages
}

func TestCrawl(t *testing.T) {
	tests := []struct {
		name      string
		total     int
		size      int
		maxPages  int
		wantPages int
		wantItems int
	}{
		{"single page", 12, 30, 0, 1, 12},
		{"exact multiple", 200, 100, 0, 2, 200},
		{"partial last page", 250, 100, 0, 3, 250},
		{"result cap", 5000, 100, 0, 10, 1000},
		{"max pages", 250, 100, 2, 2, 200},
		{"empty", 0, 30, 0, 1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, _ := pagedFetcher(tt.total, 0, nil)
			p := newTestPipeline(f, &fakeResolver{})

			var seen int
			res, err := p.Crawl(context.Background(), CrawlOptions{
				Query:    "q",
				PageSize: tt.size,
				MaxPages: tt.maxPages,
				OnPage:   func(*PageWindow) { seen++ },
			})
			if err != nil {
				t.Fatalf("Crawl: %v", err)
			}
			if len(res.Pages) != tt.wantPages || seen != tt.wantPages {
				t.Errorf("pages = %d (callbacks %d), want %d", len(res.Pages), seen, tt.wantPages)
			}
			if got := len(res.Records()); got != tt.wantItems {
				t.Errorf("records = %d, want %d", got, tt.wantItems)
			}
			if res.TotalCount != tt.total {
				t.Errorf("TotalCount = %d, want %d", res.TotalCount, tt.total)
			}
		})
	}
}

func TestCrawlStopsOnRateLimit(t *testing.T) {
	limited := perrors.RateLimited(time.Minute, "secondary rate limit")
	f, pages := pagedFetcher(300, 2, limited)
	p := newTestPipeline(f, &fakeResolver{})

	res, err := p.Crawl(context.Background(), CrawlOptions{Query: "q", PageSize: 100})
	if perrors.KindOf(err) != perrors.KindRateLimited {
		t.Fatalf("err = %v, want rate limited", err)
	}
	if len(res.Pages) != 1 || len(res.Records()) != 100 {
		t.Errorf("partial result = %d pages / %d records, want 1/100", len(res.Pages), len(res.Records()))
	}
	if len(*pages) != 2 {
		t.Errorf("fetched pages %v, want [1 2]", *pages)
	}
}

func TestCrawlStopsOnEmptyPage(t *testing.T) {
	// Upstream claims more results than it returns.
	f := PageFetcherFunc(func(ctx context.Context, q PageQuery) (*SearchResult, error) {
		if q.PageIndex > 1 {
			return &SearchResult{TotalCount: 900}, nil
		}
		return &SearchResult{Hits: hitsFor("a/b"), TotalCount: 900}, nil
	})
	res, err := newTestPipeline(f, &fakeResolver{}).Crawl(context.Background(), CrawlOptions{Query: "q", PageSize: 10})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Pages) != 2 {
		t.Errorf("pages = %d, want 2", len(res.Pages))
	}
}
