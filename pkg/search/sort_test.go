package search

import (
	"reflect"
	"testing"
)

func withCounts(id string, stars, forks int) EnrichedRecord {
	r := rec(id, "publiccode.yml")
	r.StarCount, r.ForkCount = stars, forks
	return r
}

func TestSortRecords(t *testing.T) {
	records := []EnrichedRecord{
		withCounts("a", 3, 10),
		withCounts("b", 1, 0),
		withCounts("c", 9, 5),
		withCounts("d", 1, 5),
	}

	tests := []struct {
		name string
		spec SortSpec
		want []string
	}{
		{"stars desc", SortSpec{SortStars, Descending}, []string{"c", "a", "b", "d"}},
		{"stars asc", SortSpec{SortStars, Ascending}, []string{"b", "d", "a", "c"}},
		{"forks desc", SortSpec{SortForks, Descending}, []string{"a", "c", "d", "b"}},
		{"forks asc", SortSpec{SortForks, Ascending}, []string{"b", "c", "d", "a"}},
		{"relevance asc", SortSpec{SortRelevance, Ascending}, []string{"a", "b", "c", "d"}},
		{"zero spec", SortSpec{}, []string{"a", "b", "c", "d"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ids(SortRecords(records, tt.spec)); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("SortRecords = %v, want %v", got, tt.want)
			}
		})
	}

	if got := ids(records); !reflect.DeepEqual(got, []string{"a", "b", "c", "d"}) {
		t.Errorf("SortRecords modified its input: %v", got)
	}
}

func TestParseSortSpec(t *testing.T) {
	tests := []struct {
		key, order string
		want       SortSpec
		wantErr    bool
	}{
		{"", "", SortSpec{SortRelevance, Descending}, false},
		{"stars", "asc", SortSpec{SortStars, Ascending}, false},
		{"FORKS", "descending", SortSpec{SortForks, Descending}, false},
		{"indexed", "asc", SortSpec{SortRelevance, Ascending}, false},
		{"updated", "", SortSpec{}, true},
		{"stars", "sideways", SortSpec{}, true},
	}

	for _, tt := range tests {
		got, err := ParseSortSpec(tt.key, tt.order)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseSortSpec(%q, %q) err = %v", tt.key, tt.order, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseSortSpec(%q, %q) = %+v, want %+v", tt.key, tt.order, got, tt.want)
		}
	}
}

func TestUpstreamSort(t *testing.T) {
	tests := []struct {
		spec              SortSpec
		wantSort, wantOrd string
	}{
		{SortSpec{SortRelevance, Ascending}, "indexed", "desc"},
		{SortSpec{SortStars, Ascending}, "stars", "asc"},
		{SortSpec{SortForks, ""}, "forks", "desc"},
	}
	for _, tt := range tests {
		s, o := tt.spec.UpstreamSort()
		if s != tt.wantSort || o != tt.wantOrd {
			t.Errorf("%+v.UpstreamSort() = %s/%s, want %s/%s", tt.spec, s, o, tt.wantSort, tt.wantOrd)
		}
	}
}

func TestPageWindowLastPage(t *testing.T) {
	tests := []struct {
		total, size, want int
	}{
		{0, 30, 1},
		{30, 30, 1},
		{31, 30, 2},
		{250, 100, 3},
		{50000, 100, 10},
		{5, 0, 1},
	}
	for _, tt := range tests {
		w := &PageWindow{TotalCount: tt.total, PageSize: tt.size}
		if got := w.LastPage(); got != tt.want {
			t.Errorf("LastPage(total=%d, size=%d) = %d, want %d", tt.total, tt.size, got, tt.want)
		}
	}
}

func TestEnrich(t *testing.T) {
	hit := SearchHit{RepositoryID: "a/b"}
	if r := Enrich(hit, nil); r.Enriched || r.StarCount != 0 {
		t.Errorf("Enrich(nil) = %+v", r)
	}
	r := Enrich(hit, &RepoDetail{StarCount: -1, ForkCount: 2, OwnerLogin: "a", DefaultBranch: "main"})
	if !r.Enriched || r.StarCount != 0 || r.ForkCount != 2 || r.OwnerLogin != "a" {
		t.Errorf("Enrich = %+v", r)
	}
}
