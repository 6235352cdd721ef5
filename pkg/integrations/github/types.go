package github

// Sort keys accepted by the code-search endpoint.
const (
	SortIndexed = "indexed"
	SortStars   = "stars"
	SortForks   = "forks"
)

// SearchRequest is one page of a code search.
type SearchRequest struct {
	Query   string
	Page    int    // 1-based
	PerPage int    // clamped to [1, MaxPerPage]
	Sort    string // indexed, stars, forks; empty = best match
	Order   string // asc, desc; ignored without Sort
}

// SearchResponse is the body of GET /search/code.
type SearchResponse struct {
	TotalCount        int        `json:"total_count"`
	IncompleteResults bool       `json:"incomplete_results"`
	Items             []CodeItem `json:"items"`
}

// CodeItem is one file match.
type CodeItem struct {
	Name       string  `json:"name"`
	Path       string  `json:"path"`
	HTMLURL    string  `json:"html_url"`
	Score      float64 `json:"score"`
	Repository RepoRef `json:"repository"`
}

// RepoRef is the abbreviated repository embedded in search results.
type RepoRef struct {
	Name     string `json:"name"`
	FullName string `json:"full_name"`
	HTMLURL  string `json:"html_url"`
	Owner    User   `json:"owner"`
}

// User represents a GitHub user or organization.
type User struct {
	Login string `json:"login"`
}

// Repo is the subset of GET /repos/{owner}/{name} the pipeline uses.
type Repo struct {
	Name          string `json:"name"`
	FullName      string `json:"full_name"`
	HTMLURL       string `json:"html_url"`
	Description   string `json:"description"`
	DefaultBranch string `json:"default_branch"`
	Stars         int    `json:"stargazers_count"`
	Forks         int    `json:"forks_count"`
	Archived      bool   `json:"archived"`
	Owner         User   `json:"owner"`
}
