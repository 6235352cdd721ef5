package search

import (
	"context"
	"net/http"
	"time"

	"github.com/charmbracelet/log"

	perrors "github.com/takeruhukushima/publiccodelooks/pkg/errors"
	"github.com/takeruhukushima/publiccodelooks/pkg/integrations"
	"github.com/takeruhukushima/publiccodelooks/pkg/integrations/github"
	"github.com/takeruhukushima/publiccodelooks/pkg/observability"
)

// PageFetcher fetches one page of code-search hits.
// Failures are *errors.FetchError values; calls are idempotent.
type PageFetcher interface {
	FetchPage(ctx context.Context, q PageQuery) (*SearchResult, error)
}

// DetailResolver resolves repository metadata. It never returns an error:
// any failure is reported as (nil, false).
type DetailResolver interface {
	ResolveDetail(ctx context.Context, repositoryID string) (*RepoDetail, bool)
}

// PageFetcherFunc adapts a function to [PageFetcher].
type PageFetcherFunc func(ctx context.Context, q PageQuery) (*SearchResult, error)

func (f PageFetcherFunc) FetchPage(ctx context.Context, q PageQuery) (*SearchResult, error) {
	return f(ctx, q)
}

// DetailResolverFunc adapts a function to [DetailResolver].
type DetailResolverFunc func(ctx context.Context, repositoryID string) (*RepoDetail, bool)

func (f DetailResolverFunc) ResolveDetail(ctx context.Context, repositoryID string) (*RepoDetail, bool) {
	return f(ctx, repositoryID)
}

// =============================================================================
// GitHub adapters
// =============================================================================

// GitHubFetcher implements [PageFetcher] with the code-search endpoint.
type GitHubFetcher struct {
	client *github.Client
}

// NewGitHubFetcher creates a fetcher backed by client.
func NewGitHubFetcher(client *github.Client) *GitHubFetcher {
	return &GitHubFetcher{client: client}
}

// FetchPage runs one search call. PageSize above [MaxPageSize] is clamped;
// below 1 it is rejected.
func (f *GitHubFetcher) FetchPage(ctx context.Context, q PageQuery) (*SearchResult, error) {
	if q.PageSize < 1 {
		return nil, perrors.New(perrors.ErrCodeInvalidInput, "page size must be at least 1, got %d", q.PageSize)
	}
	if q.PageIndex < 1 {
		return nil, perrors.New(perrors.ErrCodeInvalidInput, "page index must be at least 1, got %d", q.PageIndex)
	}

	sort, order := q.Sort.UpstreamSort()
	resp, err := f.client.SearchCode(ctx, github.SearchRequest{
		Query:   q.Query,
		Page:    q.PageIndex,
		PerPage: min(q.PageSize, MaxPageSize),
		Sort:    sort,
		Order:   order,
	})
	if err != nil {
		// A 404 from search means a bad endpoint, not a missing repository.
		if integrations.IsNotFound(err) {
			return nil, &perrors.FetchError{
				Kind:       perrors.KindUpstream,
				Message:    "search endpoint not found",
				StatusCode: http.StatusNotFound,
				Cause:      err,
			}
		}
		return nil, err
	}

	hits := make([]SearchHit, 0, len(resp.Items))
	for _, item := range resp.Items {
		hits = append(hits, SearchHit{
			RepositoryID:   item.Repository.FullName,
			Path:           item.Path,
			FileURL:        item.HTMLURL,
			RepositoryURL:  item.Repository.HTMLURL,
			OwnerLogin:     item.Repository.Owner.Login,
			RelevanceScore: item.Score,
		})
	}
	return &SearchResult{Hits: hits, TotalCount: resp.TotalCount}, nil
}

// GitHubResolver implements [DetailResolver] with the repository endpoint.
// Each lookup is bounded by its own timeout and never retried.
type GitHubResolver struct {
	client  *github.Client
	timeout time.Duration
	logger  *log.Logger
}

// DefaultDetailTimeout bounds a single repository lookup.
const DefaultDetailTimeout = 5 * time.Second

// NewGitHubResolver creates a resolver. A timeout <= 0 uses
// [DefaultDetailTimeout]; a nil logger uses log.Default().
func NewGitHubResolver(client *github.Client, timeout time.Duration, logger *log.Logger) *GitHubResolver {
	if timeout <= 0 {
		timeout = DefaultDetailTimeout
	}
	if logger == nil {
		logger = log.Default()
	}
	return &GitHubResolver{client: client, timeout: timeout, logger: logger}
}

// ResolveDetail fetches stars, forks and the default branch. Malformed ids,
// missing repositories, rate limits, timeouts and transport failures all
// yield (nil, false).
func (r *GitHubResolver) ResolveDetail(ctx context.Context, repositoryID string) (*RepoDetail, bool) {
	start := time.Now()
	detail, err := r.resolve(ctx, repositoryID)
	observability.Pipeline().OnDetail(ctx, repositoryID, err == nil, time.Since(start))
	if err != nil {
		r.logger.Debug("detail lookup failed", "repo", repositoryID, "err", err)
		return nil, false
	}
	return detail, true
}

func (r *GitHubResolver) resolve(ctx context.Context, repositoryID string) (*RepoDetail, error) {
	owner, name, err := perrors.ParseRepoID(repositoryID)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	repo, err := r.client.Repo(ctx, owner, name)
	if err != nil {
		return nil, err
	}
	login := repo.Owner.Login
	if login == "" {
		login = owner
	}
	return &RepoDetail{
		RepositoryID:  repositoryID,
		StarCount:     max(repo.Stars, 0),
		ForkCount:     max(repo.Forks, 0),
		DefaultBranch: repo.DefaultBranch,
		OwnerLogin:    login,
	}, nil
}
