package integrations

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	perrors "github.com/takeruhukushima/publiccodelooks/pkg/errors"
	"github.com/takeruhukushima/publiccodelooks/pkg/httputil"
	"github.com/takeruhukushima/publiccodelooks/pkg/observability"
)

// maxErrorBody bounds how much of a failed response is read for its message.
const maxErrorBody = 64 << 10

// Client provides shared HTTP functionality for the GitHub API clients.
// It attaches default headers and maps response statuses onto
// [perrors.FetchError] kinds. It holds no business logic and never retries.
type Client struct {
	http    *http.Client
	headers map[string]string
}

// NewClient creates a Client with the given HTTP client and default headers.
// Headers are applied to all requests made through this client.
// A nil httpClient uses [NewHTTPClient] with the default timeout.
func NewClient(httpClient *http.Client, headers map[string]string) *Client {
	if httpClient == nil {
		httpClient = NewHTTPClient(0)
	}
	return &Client{
		http:    httpClient,
		headers: headers,
	}
}

// Get performs an HTTP GET request and JSON-decodes the response into v.
func (c *Client) Get(ctx context.Context, url string, v any) error {
	return c.GetWithHeaders(ctx, url, nil, v)
}

// GetWithHeaders performs an HTTP GET with additional headers merged with defaults.
// Request-specific headers override client defaults for the same key.
// A body that is not valid JSON is reported as an upstream failure.
func (c *Client) GetWithHeaders(ctx context.Context, url string, headers map[string]string, v any) error {
	body, err := c.doRequest(ctx, url, headers)
	if err != nil {
		return err
	}
	defer body.Close()
	if err := json.NewDecoder(body).Decode(v); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return perrors.Upstream(err, "malformed response from %s", hostPath(url))
	}
	return nil
}

// GetText performs an HTTP GET request and returns at most limit bytes of the
// body as a string. A limit of 0 reads the whole body.
func (c *Client) GetText(ctx context.Context, url string, limit int64) (string, error) {
	body, err := c.doRequest(ctx, url, nil)
	if err != nil {
		return "", err
	}
	defer body.Close()

	var r io.Reader = body
	if limit > 0 {
		r = io.LimitReader(body, limit)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		return "", perrors.Upstream(fmt.Errorf("%w: %v", ErrNetwork, err), "reading %s", hostPath(url))
	}
	return string(data), nil
}

func (c *Client) doRequest(ctx context.Context, url string, headers map[string]string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	hooks := observability.HTTP()
	host, path := req.URL.Host, req.URL.Path
	hooks.OnRequest(ctx, req.Method, host, path)
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		hooks.OnError(ctx, req.Method, host, path, err)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, perrors.Upstream(fmt.Errorf("%w: %v", ErrNetwork, err), "request to %s failed", host)
	}
	hooks.OnResponse(ctx, req.Method, host, path, resp.StatusCode, time.Since(start))

	if err := checkStatus(resp); err != nil {
		resp.Body.Close()
		return nil, err
	}
	return resp.Body, nil
}

// checkStatus maps a response onto the error taxonomy:
//
//	2xx                       nil
//	401                       KindUnauthorized
//	429, 403 + quota headers  KindRateLimited
//	404                       ErrNotFound
//	5xx                       KindUpstream wrapping ErrNetwork
//	other 4xx                 KindUpstream with the upstream message
func checkStatus(resp *http.Response) error {
	code := resp.StatusCode
	switch {
	case code >= 200 && code < 300:
		return nil
	case code == http.StatusUnauthorized:
		return perrors.Unauthorized("%s", upstreamMessage(resp, "bad credentials"))
	case httputil.IsRateLimited(code, resp.Header):
		wait := httputil.ParseRateLimit(resp.Header).Wait(time.Now())
		return &perrors.FetchError{
			Kind:       perrors.KindRateLimited,
			Message:    upstreamMessage(resp, "API rate limit exceeded"),
			StatusCode: code,
			RetryAfter: wait,
		}
	case code == http.StatusNotFound:
		return ErrNotFound
	case code >= 500:
		return &perrors.FetchError{
			Kind:       perrors.KindUpstream,
			Message:    fmt.Sprintf("status %d", code),
			StatusCode: code,
			Cause:      ErrNetwork,
		}
	default:
		return &perrors.FetchError{
			Kind:       perrors.KindUpstream,
			Message:    upstreamMessage(resp, fmt.Sprintf("status %d", code)),
			StatusCode: code,
		}
	}
}

// upstreamMessage extracts the "message" field GitHub puts in error bodies.
func upstreamMessage(resp *http.Response, fallback string) string {
	var body struct {
		Message string `json:"message"`
	}
	data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if json.Unmarshal(data, &body) == nil && strings.TrimSpace(body.Message) != "" {
		return body.Message
	}
	return fallback
}

func hostPath(raw string) string {
	if i := strings.Index(raw, "://"); i >= 0 {
		raw = raw[i+3:]
	}
	if i := strings.IndexByte(raw, '?'); i >= 0 {
		raw = raw[:i]
	}
	return raw
}

// IsNotFound reports whether err is (or wraps) [ErrNotFound].
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
