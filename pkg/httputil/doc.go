// Package httputil provides HTTP utilities for the GitHub API clients.
//
// # Overview
//
// This package provides infrastructure used by the API clients:
//
//   - [Retry]: Automatic retry with exponential backoff
//   - [ParseRateLimit]: Quota headers (X-RateLimit-*, Retry-After)
//
// # Retry
//
// [Retry] wraps requests with automatic retry for transient failures.
// Only errors wrapped in [RetryableError] are retried:
//
//	err := httputil.Retry(ctx, 3, time.Second, func() error {
//	    return fetch()
//	})
//
// [RetryIf] takes a predicate instead, for callers whose error types carry
// their own classification.
//
// Rate-limit responses are never retried here. A caller that sees
// [IsRateLimited] should surface the condition and let the user decide
// when to try again, using [RateLimit.Wait] as a hint.
package httputil
