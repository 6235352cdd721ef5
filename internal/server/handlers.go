package server

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	perrors "github.com/takeruhukushima/publiccodelooks/pkg/errors"
	"github.com/takeruhukushima/publiccodelooks/pkg/search"
	"github.com/takeruhukushima/publiccodelooks/pkg/summary"
)

// searchResponse is one page plus the paging facts a client needs.
// Filter and glob apply to this page only.
type searchResponse struct {
	Items      []search.EnrichedRecord `json:"items"`
	TotalCount int                     `json:"total_count"`
	Page       int                     `json:"page"`
	PerPage    int                     `json:"per_page"`
	LastPage   int                     `json:"last_page"`
	HasNext    bool                    `json:"has_next"`
	Sort       string                  `json:"sort"`
	Countries  []string                `json:"countries,omitempty"`
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	query := q.Get("q")
	if query == "" {
		query = s.opts.Query
	}
	page, err := intParam(q.Get("page"), 1)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	perPage, err := intParam(q.Get("per_page"), s.opts.PageSize)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	sort, err := search.ParseSortSpec(q.Get("sort"), q.Get("order"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	window, err := s.opts.Pipeline.BuildPage(r.Context(), search.PageRequest{
		Query:     query,
		PageIndex: page,
		PageSize:  perPage,
		Sort:      sort,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	items := search.ApplyTextFilter(window.Items, q.Get("filter"))
	if items, err = search.ApplyPathGlob(items, q.Get("glob")); err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, searchResponse{
		Items:      items,
		TotalCount: window.TotalCount,
		Page:       window.PageIndex,
		PerPage:    window.PageSize,
		LastPage:   window.LastPage(),
		HasNext:    window.HasNext(),
		Sort:       sort.String(),
		Countries:  search.Countries(items),
	})
}

func (s *Server) handleRepo(w http.ResponseWriter, r *http.Request) {
	id, owner, name, err := repoParams(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	repo, err := s.opts.Repos.Repo(r.Context(), owner, name)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	login := repo.Owner.Login
	if login == "" {
		login = owner
	}
	writeJSON(w, http.StatusOK, search.RepoDetail{
		RepositoryID:  id,
		StarCount:     max(repo.Stars, 0),
		ForkCount:     max(repo.Forks, 0),
		DefaultBranch: repo.DefaultBranch,
		OwnerLogin:    login,
	})
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	if s.opts.Summaries == nil {
		writeErrorBody(w, http.StatusServiceUnavailable, "SUMMARY_DISABLED", "README summaries are not configured")
		return
	}
	id, _, _, err := repoParams(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	// Concurrent requests for one repository share a single generation.
	// The shared call is detached from any one request's cancellation.
	ctx := context.WithoutCancel(r.Context())
	ch := s.summaries.DoChan(id, func() (any, error) {
		return s.opts.Summaries.Summarize(ctx, id)
	})
	select {
	case res := <-ch:
		if res.Err != nil {
			s.writeError(w, r, res.Err)
			return
		}
		writeJSON(w, http.StatusOK, res.Val.(summary.Summary))
	case <-r.Context().Done():
		s.writeError(w, r, r.Context().Err())
	}
}

func (s *Server) handleManifest(w http.ResponseWriter, r *http.Request) {
	if s.opts.Manifests == nil {
		writeErrorBody(w, http.StatusServiceUnavailable, "MANIFEST_DISABLED", "manifest reading is not configured")
		return
	}
	id, _, _, err := repoParams(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	q := r.URL.Query()
	m, err := s.opts.Manifests.Read(r.Context(), id, q.Get("path"), q.Get("branch"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func repoParams(r *http.Request) (id, owner, name string, err error) {
	id = chi.URLParam(r, "owner") + "/" + chi.URLParam(r, "repo")
	owner, name, err = perrors.ParseRepoID(id)
	return id, owner, name, err
}

func intParam(raw string, def int) (int, error) {
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, perrors.New(perrors.ErrCodeInvalidInput, "invalid integer %q", raw)
	}
	return v, nil
}
