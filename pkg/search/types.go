package search

import (
	"fmt"
	"strings"

	perrors "github.com/takeruhukushima/publiccodelooks/pkg/errors"
	"github.com/takeruhukushima/publiccodelooks/pkg/integrations/github"
)

const (
	// MaxPageSize is the upstream's hard limit on results per page.
	MaxPageSize = github.MaxPerPage

	// MaxSearchResults is the most results the code-search endpoint will
	// page through for a single query.
	MaxSearchResults = 1000
)

// SearchHit is one matched file.
// RepositoryID and Path together are unique within a fetched page.
type SearchHit struct {
	RepositoryID   string  `json:"repository_id"` // owner/name
	Path           string  `json:"path"`
	FileURL        string  `json:"file_url"`
	RepositoryURL  string  `json:"repository_url,omitempty"`
	OwnerLogin     string  `json:"owner_login,omitempty"`
	RelevanceScore float64 `json:"relevance_score"`
}

// RepoDetail holds repository facts fetched separately from the search.
type RepoDetail struct {
	RepositoryID  string `json:"repository_id"`
	StarCount     int    `json:"star_count"`
	ForkCount     int    `json:"fork_count"`
	DefaultBranch string `json:"default_branch"`
	OwnerLogin    string `json:"owner_login"`
}

// EnrichedRecord is a hit left-joined with its detail. When the lookup
// failed, counts are zero, DefaultBranch is empty and Enriched is false.
type EnrichedRecord struct {
	SearchHit
	StarCount     int    `json:"star_count"`
	ForkCount     int    `json:"fork_count"`
	DefaultBranch string `json:"default_branch,omitempty"`
	Enriched      bool   `json:"enriched"`
}

// Enrich joins hit with detail; a nil detail yields the zero-valued record.
func Enrich(hit SearchHit, detail *RepoDetail) EnrichedRecord {
	rec := EnrichedRecord{SearchHit: hit}
	if detail == nil {
		return rec
	}
	rec.StarCount = max(detail.StarCount, 0)
	rec.ForkCount = max(detail.ForkCount, 0)
	rec.DefaultBranch = detail.DefaultBranch
	rec.Enriched = true
	if rec.OwnerLogin == "" {
		rec.OwnerLogin = detail.OwnerLogin
	}
	return rec
}

// PageWindow is one page of enriched results.
// PageIndex*PageSize may exceed TotalCount; use LastPage to clamp.
type PageWindow struct {
	Items      []EnrichedRecord `json:"items"`
	TotalCount int              `json:"total_count"`
	PageIndex  int              `json:"page"`
	PageSize   int              `json:"per_page"`
}

// LastPage returns the highest page index that can hold results, taking the
// upstream's result cap into account. It is at least 1.
func (w *PageWindow) LastPage() int {
	if w.PageSize <= 0 {
		return 1
	}
	total := min(w.TotalCount, MaxSearchResults)
	return max((total+w.PageSize-1)/w.PageSize, 1)
}

// HasNext reports whether a page after this one can hold results.
func (w *PageWindow) HasNext() bool {
	return w.PageIndex < w.LastPage()
}

// SortKey selects the ordering of a page.
type SortKey string

// Sort keys.
const (
	SortRelevance SortKey = "relevance"
	SortStars     SortKey = "stars"
	SortForks     SortKey = "forks"
)

// SortOrder is ascending or descending.
type SortOrder string

// Sort orders.
const (
	Ascending  SortOrder = "asc"
	Descending SortOrder = "desc"
)

// SortSpec is the requested ordering. Order is ignored for relevance,
// because the upstream order cannot be reversed.
type SortSpec struct {
	Key   SortKey   `json:"key"`
	Order SortOrder `json:"order"`
}

// DefaultSort keeps the upstream relevance order.
var DefaultSort = SortSpec{Key: SortRelevance, Order: Descending}

// ParseSortSpec parses user input such as ("stars", "asc").
// Empty values select relevance and descending.
func ParseSortSpec(key, order string) (SortSpec, error) {
	spec := DefaultSort
	switch strings.ToLower(strings.TrimSpace(key)) {
	case "", "relevance", "best-match", "indexed":
		spec.Key = SortRelevance
	case "stars", "star":
		spec.Key = SortStars
	case "forks", "fork":
		spec.Key = SortForks
	default:
		return SortSpec{}, perrors.New(perrors.ErrCodeInvalidInput,
			"invalid sort key %q: use relevance, stars or forks", key)
	}
	switch strings.ToLower(strings.TrimSpace(order)) {
	case "", "desc", "descending":
		spec.Order = Descending
	case "asc", "ascending":
		spec.Order = Ascending
	default:
		return SortSpec{}, perrors.New(perrors.ErrCodeInvalidInput,
			"invalid sort order %q: use asc or desc", order)
	}
	return spec, nil
}

// UpstreamSort maps s onto the search endpoint's sort and order
// parameters. Relevance is requested as the newest-indexed order, always
// descending.
func (s SortSpec) UpstreamSort() (sort, order string) {
	switch s.Key {
	case SortStars:
		return github.SortStars, string(s.orderOrDefault())
	case SortForks:
		return github.SortForks, string(s.orderOrDefault())
	default:
		return github.SortIndexed, string(Descending)
	}
}

func (s SortSpec) orderOrDefault() SortOrder {
	if s.Order == Ascending {
		return Ascending
	}
	return Descending
}

func (s SortSpec) String() string {
	if s.Key == SortRelevance || s.Key == "" {
		return string(SortRelevance)
	}
	return fmt.Sprintf("%s:%s", s.Key, s.orderOrDefault())
}

// PageRequest is the input to [Pipeline.BuildPage].
type PageRequest struct {
	Query     string
	PageIndex int // 1-based
	PageSize  int // 1..MaxPageSize; larger values are clamped
	Sort      SortSpec
}

// PageQuery is one call to a [PageFetcher].
type PageQuery struct {
	Query     string
	PageIndex int
	PageSize  int
	Sort      SortSpec
}

// SearchResult is what a [PageFetcher] returns for one page.
type SearchResult struct {
	Hits       []SearchHit
	TotalCount int
}
