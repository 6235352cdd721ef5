// Package search aggregates code-search hits for publiccode.yml manifests
// with repository metadata.
//
// # Overview
//
// [Pipeline.BuildPage] is the core operation. For one page it:
//
//  1. fetches the page through a [PageFetcher] (one call, retried only for
//     transient upstream failures, never for rate limits)
//  2. resolves star and fork counts for every hit through a
//     [DetailResolver], concurrently and bounded by a fan-out ceiling
//  3. joins hits with details in search order; failed lookups degrade to
//     zero counts instead of failing the page
//  4. applies a stable sort when the key is stars or forks
//
// The result is a [PageWindow] carrying the upstream total count.
//
// # Consumers
//
// [ApplyTextFilter] and [ApplyPathGlob] narrow an already fetched window.
// [Pipeline.Crawl] layers "fetch everything" on top of BuildPage, and
// [View] discards results of superseded requests so only the latest
// BuildPage for a screen is ever shown.
//
// # Example
//
//	gh := github.NewClient(github.Options{Token: token})
//	p := search.NewPipeline(
//	    search.NewGitHubFetcher(gh),
//	    search.NewGitHubResolver(gh, 5*time.Second, logger),
//	    search.Options{Logger: logger},
//	)
//	page, err := p.BuildPage(ctx, search.PageRequest{
//	    Query:     "filename:publiccode.yml in:path",
//	    PageIndex: 1,
//	    PageSize:  30,
//	    Sort:      search.SortSpec{Key: search.SortStars, Order: search.Descending},
//	})
package search
