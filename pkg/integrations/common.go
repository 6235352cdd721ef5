package integrations

import (
	"errors"
	"net/http"
	"time"
)

const httpTimeout = 10 * time.Second

var (
	// ErrNotFound is returned when a repository or file doesn't exist.
	ErrNotFound = errors.New("not found")

	// ErrNetwork is returned for HTTP failures (timeouts, connection errors, 5xx responses).
	ErrNetwork = errors.New("network error")
)

// Standard request headers for the GitHub REST API.
const (
	HeaderAuthorization = "Authorization"
	HeaderAccept        = "Accept"
	HeaderUserAgent     = "User-Agent"

	AcceptGitHubV3 = "application/vnd.github.v3+json"
)

// NewHTTPClient creates an HTTP client with the given timeout.
// A timeout <= 0 uses the 10 second default.
func NewHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = httpTimeout
	}
	return &http.Client{Timeout: timeout}
}

// Headers builds the default header set for API requests.
// An empty token sends unauthenticated requests, which only lowers the
// upstream rate limit.
func Headers(token, userAgent string) map[string]string {
	h := map[string]string{
		HeaderAccept:    AcceptGitHubV3,
		HeaderUserAgent: userAgent,
	}
	if token != "" {
		h[HeaderAuthorization] = "Bearer " + token
	}
	return h
}
