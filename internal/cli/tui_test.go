package cli

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	perrors "github.com/takeruhukushima/publiccodelooks/pkg/errors"
	"github.com/takeruhukushima/publiccodelooks/pkg/search"
	"github.com/takeruhukushima/publiccodelooks/pkg/summary"
)

// pagedPipeline returns total hits spread over pages of the requested size.
// Repository n has n stars.
func pagedPipeline(total int, fail error) *search.Pipeline {
	fetch := search.PageFetcherFunc(func(ctx context.Context, q search.PageQuery) (*search.SearchResult, error) {
		if fail != nil {
			return nil, fail
		}
		res := &search.SearchResult{TotalCount: total}
		for i := (q.PageIndex - 1) * q.PageSize; i < min(q.PageIndex*q.PageSize, total); i++ {
			res.Hits = append(res.Hits, search.SearchHit{
				RepositoryID: repoName(i),
				Path:         "publiccode.yml",
			})
		}
		return res, nil
	})
	resolve := search.DetailResolverFunc(func(ctx context.Context, id string) (*search.RepoDetail, bool) {
		var n int
		for i := range total {
			if repoName(i) == id {
				n = i
			}
		}
		return &search.RepoDetail{RepositoryID: id, StarCount: n, DefaultBranch: "main"}, true
	})
	return search.NewPipeline(fetch, resolve, search.Options{RetryAttempts: 1, RetryDelay: time.Millisecond})
}

func repoName(i int) string {
	return "org" + string(rune('a'+i)) + "/repo"
}

func newTestBrowser(total int, fail error) *browseModel {
	return newBrowseModel(context.Background(), pagedPipeline(total, fail), search.PageRequest{
		Query: "filename:publiccode.yml", PageIndex: 1, PageSize: 2, Sort: search.DefaultSort,
	})
}

// drive runs cmd and feeds its message back into the model.
func drive(t *testing.T, m *browseModel, cmd tea.Cmd) {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a command")
	}
	m.Update(cmd())
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestBrowseInitialLoad(t *testing.T) {
	m := newTestBrowser(5, nil)
	drive(t, m, m.Init())

	if m.page == nil || len(m.records) != 2 {
		t.Fatalf("records = %d, want 2", len(m.records))
	}
	if m.loading {
		t.Error("still loading after page applied")
	}
	if !strings.Contains(m.View(), "page 1/3") {
		t.Errorf("view missing page stats:\n%s", m.View())
	}
}

func TestBrowsePaging(t *testing.T) {
	m := newTestBrowser(5, nil)
	drive(t, m, m.Init())

	_, cmd := m.Update(key("n"))
	drive(t, m, cmd)
	if m.page.PageIndex != 2 || m.records[0].RepositoryID != repoName(2) {
		t.Fatalf("after next: page %d first %s", m.page.PageIndex, m.records[0].RepositoryID)
	}

	_, cmd = m.Update(key("n"))
	drive(t, m, cmd)
	if m.page.PageIndex != 3 || len(m.records) != 1 {
		t.Fatalf("last page: page %d, %d records", m.page.PageIndex, len(m.records))
	}

	if _, cmd = m.Update(key("n")); cmd != nil {
		t.Error("next on the last page should not load")
	}

	_, cmd = m.Update(key("p"))
	drive(t, m, cmd)
	if m.page.PageIndex != 2 {
		t.Errorf("after prev: page %d, want 2", m.page.PageIndex)
	}
}

func TestBrowseSupersededPageIgnored(t *testing.T) {
	m := newTestBrowser(5, nil)
	stale := m.Init()

	_, fresh := m.Update(key("n"))
	drive(t, m, fresh)
	if m.page.PageIndex != 2 {
		t.Fatalf("page = %d, want 2", m.page.PageIndex)
	}

	// The first request was cancelled by the second; whatever it returns
	// must not replace page 2.
	m.Update(stale())
	if m.page.PageIndex != 2 {
		t.Errorf("stale result applied: page = %d", m.page.PageIndex)
	}
}

func TestBrowseSortCycle(t *testing.T) {
	m := newTestBrowser(5, nil)
	drive(t, m, m.Init())

	_, cmd := m.Update(key("s"))
	drive(t, m, cmd)
	if m.req.Sort.Key != search.SortStars {
		t.Fatalf("sort = %s, want stars", m.req.Sort.Key)
	}
	if m.records[0].StarCount < m.records[1].StarCount {
		t.Errorf("stars not descending: %d, %d", m.records[0].StarCount, m.records[1].StarCount)
	}

	_, cmd = m.Update(key("o"))
	drive(t, m, cmd)
	if m.req.Sort.Order != search.Ascending {
		t.Errorf("order = %s, want asc", m.req.Sort.Order)
	}

	m.Update(key("s"))
	m.Update(key("s"))
	if m.req.Sort.Key != search.SortRelevance {
		t.Errorf("sort = %s, want relevance after a full cycle", m.req.Sort.Key)
	}
	if _, cmd := m.Update(key("o")); cmd != nil {
		t.Error("order toggle should be ignored for relevance")
	}
}

func TestBrowseFilter(t *testing.T) {
	m := newTestBrowser(2, nil)
	drive(t, m, m.Init())

	m.Update(key("/"))
	m.Update(key("orgb"))
	if len(m.records) != 1 || m.records[0].RepositoryID != repoName(1) {
		t.Fatalf("records = %+v, want only %s", m.records, repoName(1))
	}
	m.Update(key("backspace"))
	m.Update(key("enter"))
	if m.editing {
		t.Error("enter should end filter editing")
	}
	if m.filter != "org" || len(m.records) != 2 {
		t.Errorf("filter = %q, records = %d", m.filter, len(m.records))
	}
}

func TestBrowseError(t *testing.T) {
	m := newTestBrowser(0, perrors.RateLimited(time.Minute, "quota"))
	drive(t, m, m.Init())

	if m.err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(m.View(), "rate limit") {
		t.Errorf("view does not explain the rate limit:\n%s", m.View())
	}
}

type stubSummarizer struct{}

func (stubSummarizer) Summarize(_ context.Context, id string) (summary.Summary, error) {
	if id == repoName(1) {
		return summary.Summary{}, errors.New("model unavailable")
	}
	return summary.Summary{RepositoryID: id, Text: "three lines", Branch: "main"}, nil
}

func TestBrowseSummary(t *testing.T) {
	m := newTestBrowser(2, nil)
	m.session = summary.NewSession(context.Background(), stubSummarizer{})
	defer m.session.Close()
	drive(t, m, m.Init())

	_, cmd := m.Update(key("enter"))
	if !strings.Contains(m.View(), "Summarizing") {
		t.Errorf("view should show a pending summary:\n%s", m.View())
	}
	drive(t, m, cmd)
	if !strings.Contains(m.View(), "three lines") {
		t.Errorf("view missing summary:\n%s", m.View())
	}
	if _, cmd := m.Update(key("enter")); cmd != nil {
		t.Error("a finished summary should not be requested again")
	}

	m.Update(key("j"))
	_, cmd = m.Update(key("enter"))
	drive(t, m, cmd)
	if _, ok := m.summaries[repoName(1)]; !ok || m.summaries[repoName(1)].err == nil {
		t.Error("failed summary not recorded")
	}
}

func TestBrowseQuit(t *testing.T) {
	m := newTestBrowser(2, nil)
	drive(t, m, m.Init())
	if _, cmd := m.Update(key("q")); cmd == nil {
		t.Error("q should return tea.Quit")
	}
}

func TestNextSortKey(t *testing.T) {
	tests := []struct {
		in, want search.SortKey
	}{
		{search.SortRelevance, search.SortStars},
		{search.SortStars, search.SortForks},
		{search.SortForks, search.SortRelevance},
		{"", search.SortRelevance},
	}
	for _, tt := range tests {
		if got := nextSortKey(tt.in); got != tt.want {
			t.Errorf("nextSortKey(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
