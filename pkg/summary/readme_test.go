package summary

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"testing"
	"unicode/utf8"

	"github.com/takeruhukushima/publiccodelooks/pkg/integrations"
)

// fakeSource serves READMEs per branch; other branches are 404.
type fakeSource struct {
	mu      sync.Mutex
	readmes map[string]string
	errs    map[string]error
	tried   []string
}

func (f *fakeSource) RawFile(ctx context.Context, owner, name, branch, path string, limit int64) (string, error) {
	f.mu.Lock()
	f.tried = append(f.tried, branch)
	f.mu.Unlock()
	if err, ok := f.errs[branch]; ok {
		return "", err
	}
	text, ok := f.readmes[branch]
	if !ok {
		return "", fmt.Errorf("%w: %s/%s@%s:%s", integrations.ErrNotFound, owner, name, branch, path)
	}
	if limit > 0 && int64(len(text)) > limit {
		text = text[:limit]
	}
	return text, nil
}

func (f *fakeSource) branches() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.tried...)
}

func TestCandidates(t *testing.T) {
	tests := []struct {
		name      string
		def       string
		fallbacks []string
		want      []string
	}{
		{"unknown default", "", DefaultBranches, []string{"main", "master", "develop"}},
		{"custom default first", "trunk", DefaultBranches, []string{"trunk", "main", "master", "develop"}},
		{"default deduplicated", "master", DefaultBranches, []string{"master", "main", "develop"}},
		{"empty fallbacks", "main", nil, []string{"main"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Candidates(tt.def, tt.fallbacks); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Candidates = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLookupStates(t *testing.T) {
	boom := errors.New("connection reset")
	tests := []struct {
		name       string
		src        *fakeSource
		wantState  LookupState
		wantBranch string
		wantTried  []string
	}{
		{
			name:       "found on first",
			src:        &fakeSource{readmes: map[string]string{"main": "# A"}},
			wantState:  StateFound,
			wantBranch: "main",
			wantTried:  []string{"main"},
		},
		{
			name:       "falls through 404s",
			src:        &fakeSource{readmes: map[string]string{"develop": "# A"}},
			wantState:  StateFound,
			wantBranch: "develop",
			wantTried:  []string{"main", "master", "develop"},
		},
		{
			name:      "all missing",
			src:       &fakeSource{},
			wantState: StateNotFound,
			wantTried: []string{"main", "master", "develop"},
		},
		{
			name:       "other error stops",
			src:        &fakeSource{errs: map[string]error{"master": boom}, readmes: map[string]string{"develop": "x"}},
			wantState:  StateFailed,
			wantBranch: "master",
			wantTried:  []string{"main", "master"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := NewLookup("o", "r", DefaultBranches)
			if l.State != StateTrying || l.Branch != "main" {
				t.Fatalf("initial state = %s/%s", l.State, l.Branch)
			}
			l.Run(context.Background(), tt.src, 0)
			if l.State != tt.wantState || l.Branch != tt.wantBranch {
				t.Errorf("state = %s/%q, want %s/%q", l.State, l.Branch, tt.wantState, tt.wantBranch)
			}
			if got := tt.src.branches(); !reflect.DeepEqual(got, tt.wantTried) {
				t.Errorf("tried %v, want %v", got, tt.wantTried)
			}
		})
	}
}

func TestLookupNoCandidates(t *testing.T) {
	if l := NewLookup("o", "r", nil); l.State != StateNotFound {
		t.Errorf("state = %s, want not_found", l.State)
	}
}

func TestTruncate(t *testing.T) {
	jp := strings.Repeat("日本語", 10) // 3 bytes per rune

	tests := []struct {
		name string
		in   string
		n    int
		want string
	}{
		{"short", "abc", 10, "abc"},
		{"ascii cut", "abcdef", 4, "abcd"},
		{"no limit", "abcdef", 0, "abcdef"},
		{"exact", "abc", 3, "abc"},
		{"counts runes", jp, 3, "日本語"},
		{"mixed widths", "aé日🙂b", 4, "aé日🙂"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Truncate(tt.in, tt.n)
			if got != tt.want {
				t.Errorf("Truncate = %q, want %q", got, tt.want)
			}
			if !utf8.ValidString(got) {
				t.Error("Truncate produced invalid UTF-8")
			}
		})
	}
}
