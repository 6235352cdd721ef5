// Package pkg provides the core libraries for publiccodelooks, a browser for
// software published with a publiccode.yml manifest on GitHub.
//
// # Overview
//
// publiccodelooks runs a code search for publiccode.yml files, enriches each
// hit with repository facts, and optionally summarizes READMEs with a
// language model. The pkg directory is organized into these areas:
//
//  1. [search] - The aggregation pipeline (fetch, enrich, join, sort)
//  2. [summary] - README lookup, summarization and caching
//  3. [publiccode] - Manifest decoding
//  4. [integrations] - GitHub API clients
//  5. [cache] - Summary cache backends (file, bbolt, Redis)
//
// # Architecture
//
// The typical data flow for one result page:
//
//	GitHub code search (one page)
//	         ↓
//	    [search] fan out repository lookups, bounded
//	         ↓
//	    left join hits with details, in search order
//	         ↓
//	    optional stable sort by stars or forks
//	         ↓
//	    table, JSON, TUI or HTTP response
//
// README summaries run on demand, per repository:
//
//	default branch → main → master → develop
//	         ↓
//	    README.md, truncated
//	         ↓
//	    [summary] OpenAI-compatible chat completion
//	         ↓
//	    [cache] keyed by repository, model and language
//
// # Quick Start
//
//	import (
//	    "github.com/takeruhukushima/publiccodelooks/pkg/integrations/github"
//	    "github.com/takeruhukushima/publiccodelooks/pkg/search"
//	)
//
//	gh := github.NewClient(github.Options{Token: os.Getenv("GITHUB_TOKEN")})
//	p := search.NewPipeline(
//	    search.NewGitHubFetcher(gh),
//	    search.NewGitHubResolver(gh, 0, nil),
//	    search.Options{},
//	)
//	page, err := p.BuildPage(ctx, search.PageRequest{
//	    Query:     "filename:publiccode.yml in:path",
//	    PageIndex: 1,
//	    PageSize:  30,
//	    Sort:      search.SortSpec{Key: search.SortStars, Order: search.Descending},
//	})
//
// # Supporting Packages
//
// [config] loads the TOML configuration. [errors] defines error codes and the
// fetch error kinds (rate limited, unauthorized, upstream) that decide
// retries and user messages. [httputil] provides retry and rate-limit header
// parsing. [observability] exposes hooks that internal/metrics turns into
// Prometheus series. [buildinfo] holds version information set at link time.
//
// [search]: github.com/takeruhukushima/publiccodelooks/pkg/search
// [summary]: github.com/takeruhukushima/publiccodelooks/pkg/summary
// [publiccode]: github.com/takeruhukushima/publiccodelooks/pkg/publiccode
// [integrations]: github.com/takeruhukushima/publiccodelooks/pkg/integrations
// [cache]: github.com/takeruhukushima/publiccodelooks/pkg/cache
// [config]: github.com/takeruhukushima/publiccodelooks/pkg/config
// [errors]: github.com/takeruhukushima/publiccodelooks/pkg/errors
// [httputil]: github.com/takeruhukushima/publiccodelooks/pkg/httputil
// [observability]: github.com/takeruhukushima/publiccodelooks/pkg/observability
// [buildinfo]: github.com/takeruhukushima/publiccodelooks/pkg/buildinfo
package pkg
