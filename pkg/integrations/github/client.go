package github

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/takeruhukushima/publiccodelooks/pkg/buildinfo"
	"github.com/takeruhukushima/publiccodelooks/pkg/integrations"
)

// Default endpoints.
const (
	DefaultAPIURL = "https://api.github.com"
	DefaultRawURL = "https://raw.githubusercontent.com"
)

// MaxPerPage is the largest page size the code-search endpoint accepts.
const MaxPerPage = 100

// Options configures a [Client].
type Options struct {
	APIURL     string // REST base URL; empty = DefaultAPIURL
	RawURL     string // raw content base URL; empty = DefaultRawURL
	Token      string // bearer token; empty = unauthenticated
	UserAgent  string
	Timeout    time.Duration
	HTTPClient *http.Client // overrides Timeout when set
}

// Client talks to the GitHub REST API and the raw content host.
type Client struct {
	*integrations.Client
	baseURL string
	rawURL  string
}

// NewClient creates a GitHub API client.
// Pass an empty token to use unauthenticated requests (lower rate limits).
func NewClient(opts Options) *Client {
	if opts.APIURL == "" {
		opts.APIURL = DefaultAPIURL
	}
	if opts.RawURL == "" {
		opts.RawURL = DefaultRawURL
	}
	if opts.UserAgent == "" {
		opts.UserAgent = buildinfo.UserAgent("publiccodelooks")
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = integrations.NewHTTPClient(opts.Timeout)
	}
	return &Client{
		Client:  integrations.NewClient(httpClient, integrations.Headers(opts.Token, opts.UserAgent)),
		baseURL: strings.TrimRight(opts.APIURL, "/"),
		rawURL:  strings.TrimRight(opts.RawURL, "/"),
	}
}

// SearchCode runs one page of a code search.
// Empty Items with a nonzero TotalCount is a valid response.
func (c *Client) SearchCode(ctx context.Context, req SearchRequest) (*SearchResponse, error) {
	q := url.Values{}
	q.Set("q", req.Query)
	q.Set("page", strconv.Itoa(max(req.Page, 1)))
	q.Set("per_page", strconv.Itoa(min(max(req.PerPage, 1), MaxPerPage)))
	if req.Sort != "" {
		q.Set("sort", req.Sort)
		if req.Order != "" {
			q.Set("order", req.Order)
		}
	}

	var data SearchResponse
	if err := c.Get(ctx, c.baseURL+"/search/code?"+q.Encode(), &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// Repo fetches repository metadata (stars, forks, default branch).
func (c *Client) Repo(ctx context.Context, owner, name string) (*Repo, error) {
	var data Repo
	u := fmt.Sprintf("%s/repos/%s/%s", c.baseURL, url.PathEscape(owner), url.PathEscape(name))
	if err := c.Get(ctx, u, &data); err != nil {
		if integrations.IsNotFound(err) {
			return nil, fmt.Errorf("%w: github repo %s/%s", err, owner, name)
		}
		return nil, err
	}
	return &data, nil
}

// RawFile fetches a file from the raw content host, reading at most limit
// bytes (0 = unlimited). A missing branch or file wraps
// [integrations.ErrNotFound].
func (c *Client) RawFile(ctx context.Context, owner, name, branch, path string, limit int64) (string, error) {
	text, err := c.GetText(ctx, c.RawURL(owner, name, branch, path), limit)
	if err != nil {
		if integrations.IsNotFound(err) {
			return "", fmt.Errorf("%w: %s/%s@%s:%s", err, owner, name, branch, path)
		}
		return "", err
	}
	return text, nil
}

// RawURL builds {raw}/{owner}/{name}/{branch}/{path}. Branch and path keep
// their slashes; every segment between them is escaped.
func (c *Client) RawURL(owner, name, branch, path string) string {
	return fmt.Sprintf("%s/%s/%s/%s/%s", c.rawURL,
		url.PathEscape(owner), url.PathEscape(name), escapeSegments(branch), escapeSegments(strings.TrimLeft(path, "/")))
}

func escapeSegments(p string) string {
	segs := strings.Split(p, "/")
	for i, s := range segs {
		segs[i] = url.PathEscape(s)
	}
	return strings.Join(segs, "/")
}
