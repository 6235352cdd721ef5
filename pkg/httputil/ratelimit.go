package httputil

import (
	"net/http"
	"strconv"
	"strings"
	"time"
)

// Rate-limit response headers sent by the GitHub API.
const (
	HeaderRateLimit     = "X-RateLimit-Limit"
	HeaderRateRemaining = "X-RateLimit-Remaining"
	HeaderRateReset     = "X-RateLimit-Reset"
	HeaderRetryAfter    = "Retry-After"
)

// RateLimit is the quota state reported by a response.
// Fields are zero when the corresponding header is missing or malformed.
type RateLimit struct {
	Limit      int
	Remaining  int
	Reset      time.Time     // When the quota window resets
	RetryAfter time.Duration // Explicit server wait hint
	known      bool          // Remaining header was present
}

// Known reports whether the response carried a remaining-quota header.
func (r RateLimit) Known() bool { return r.known }

// Exhausted reports whether the response says no requests are left.
func (r RateLimit) Exhausted() bool { return r.known && r.Remaining <= 0 }

// Wait returns how long a caller should wait before retrying.
// An explicit Retry-After wins over the reset timestamp.
func (r RateLimit) Wait(now time.Time) time.Duration {
	if r.RetryAfter > 0 {
		return r.RetryAfter
	}
	if !r.Reset.IsZero() && r.Reset.After(now) {
		return r.Reset.Sub(now)
	}
	return 0
}

// ParseRateLimit extracts quota information from response headers.
func ParseRateLimit(h http.Header) RateLimit {
	var rl RateLimit
	if v, err := strconv.Atoi(strings.TrimSpace(h.Get(HeaderRateLimit))); err == nil {
		rl.Limit = v
	}
	if v, err := strconv.Atoi(strings.TrimSpace(h.Get(HeaderRateRemaining))); err == nil {
		rl.Remaining = v
		rl.known = true
	}
	if v, err := strconv.ParseInt(strings.TrimSpace(h.Get(HeaderRateReset)), 10, 64); err == nil && v > 0 {
		rl.Reset = time.Unix(v, 0)
	}
	if v, err := strconv.Atoi(strings.TrimSpace(h.Get(HeaderRetryAfter))); err == nil && v > 0 {
		rl.RetryAfter = time.Duration(v) * time.Second
	}
	return rl
}

// IsRateLimited reports whether a response signals an exhausted quota.
// GitHub uses 429 for secondary limits and 403 with a zero remaining count
// (or a Retry-After header) for primary ones.
func IsRateLimited(status int, h http.Header) bool {
	switch status {
	case http.StatusTooManyRequests:
		return true
	case http.StatusForbidden:
		rl := ParseRateLimit(h)
		return rl.Exhausted() || rl.RetryAfter > 0
	}
	return false
}
