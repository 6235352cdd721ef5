package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/takeruhukushima/publiccodelooks/pkg/search"
)

func TestRecordRows(t *testing.T) {
	records := []search.EnrichedRecord{
		{SearchHit: search.SearchHit{RepositoryID: "italia/io-app", Path: "publiccode.yml"}, StarCount: 520, ForkCount: 90, DefaultBranch: "master", Enriched: true},
		{SearchHit: search.SearchHit{RepositoryID: "gov/portal", Path: "apps/web/publiccode.yml"}},
	}

	rows := recordRows(records)
	want := [][]string{
		{"italia/io-app", "publiccode.yml", "520", "90", "master"},
		{"gov/portal", "apps/web/publiccode.yml", iconMissing, iconMissing, iconMissing},
	}
	for i := range want {
		if strings.Join(rows[i], "|") != strings.Join(want[i], "|") {
			t.Errorf("row %d = %v, want %v", i, rows[i], want[i])
		}
	}
}

func TestPageStats(t *testing.T) {
	page := &search.PageWindow{
		Items: []search.EnrichedRecord{
			{SearchHit: search.SearchHit{RepositoryID: "italia/io-app"}},
			{SearchHit: search.SearchHit{RepositoryID: "e-estonia/x-road"}},
		},
		TotalCount: 1500,
		PageIndex:  2,
		PageSize:   30,
	}
	got := pageStats(page, search.SortSpec{Key: search.SortStars, Order: search.Ascending})
	want := "page 2/34 · 1500 results · stars:asc · Italy, Estonia"
	if got != want {
		t.Errorf("pageStats() = %q, want %q", got, want)
	}
}

func TestPrintPageWarnsUnenriched(t *testing.T) {
	var buf bytes.Buffer
	page := &search.PageWindow{
		Items:      []search.EnrichedRecord{{SearchHit: search.SearchHit{RepositoryID: "a/b", Path: "publiccode.yml"}}},
		TotalCount: 1, PageIndex: 1, PageSize: 30,
	}
	printPage(&buf, page, page.Items, search.DefaultSort)
	if !strings.Contains(buf.String(), "1 of 1 repositories could not be looked up") {
		t.Errorf("output = %q", buf.String())
	}
}

func TestClearDir(t *testing.T) {
	dir := t.TempDir()
	for _, p := range []string{"a.json", "ab/cd.json", "ab/ef/gh.json"} {
		path := filepath.Join(dir, p)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte("{}"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	n, err := clearDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if n != 3 {
		t.Errorf("cleared %d, want 3", n)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Errorf("%d entries left in %s", len(entries), dir)
	}

	if n, err := clearDir(filepath.Join(dir, "missing")); n != 0 || err != nil {
		t.Errorf("clearDir(missing) = %d, %v", n, err)
	}
}
