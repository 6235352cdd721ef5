package summary

import (
	"context"

	"github.com/takeruhukushima/publiccodelooks/pkg/integrations"
)

// ReadmeFile is the file fetched from each candidate branch.
const ReadmeFile = "README.md"

// DefaultMaxReadmeChars caps the README text sent to the generator, counted
// in characters so non-Latin READMEs are not cut short.
const DefaultMaxReadmeChars = 10000

// DefaultBranches are tried after the repository's default branch.
var DefaultBranches = []string{"main", "master", "develop"}

// ReadmeSource fetches raw repository files. A missing file must wrap
// [integrations.ErrNotFound]. *github.Client implements it.
type ReadmeSource interface {
	RawFile(ctx context.Context, owner, name, branch, path string, limit int64) (string, error)
}

// LookupState is one step of a README lookup.
type LookupState int

const (
	StateTrying LookupState = iota
	StateFound
	StateNotFound
	StateFailed
)

func (s LookupState) String() string {
	switch s {
	case StateTrying:
		return "trying"
	case StateFound:
		return "found"
	case StateNotFound:
		return "not_found"
	case StateFailed:
		return "failed"
	}
	return "unknown"
}

// Lookup walks the README candidates of one repository.
type Lookup struct {
	owner, name string
	candidates  []string
	next        int

	State  LookupState
	Branch string // branch being tried, or where the README was found
	Text   string // README text once Found
	Err    error  // cause once Failed
}

// NewLookup starts a lookup over candidates in order.
func NewLookup(owner, name string, candidates []string) *Lookup {
	l := &Lookup{owner: owner, name: name, candidates: candidates}
	l.advance()
	return l
}

func (l *Lookup) advance() {
	if l.next >= len(l.candidates) {
		l.State, l.Branch = StateNotFound, ""
		return
	}
	l.State, l.Branch = StateTrying, l.candidates[l.next]
	l.next++
}

// Step fetches the current candidate and moves to the next state.
// It is a no-op once the lookup has left StateTrying.
func (l *Lookup) Step(ctx context.Context, src ReadmeSource, limit int64) {
	if l.State != StateTrying {
		return
	}
	text, err := src.RawFile(ctx, l.owner, l.name, l.Branch, ReadmeFile, limit)
	switch {
	case err == nil:
		l.State, l.Text = StateFound, text
	case integrations.IsNotFound(err):
		l.advance()
	default:
		l.State, l.Err = StateFailed, err
	}
}

// Run steps until the lookup leaves StateTrying.
func (l *Lookup) Run(ctx context.Context, src ReadmeSource, limit int64) *Lookup {
	for l.State == StateTrying {
		l.Step(ctx, src, limit)
	}
	return l
}

// Candidates returns the branches to try: defaultBranch first (when known),
// then fallbacks, without duplicates or empty names.
func Candidates(defaultBranch string, fallbacks []string) []string {
	out := make([]string, 0, len(fallbacks)+1)
	seen := make(map[string]bool, len(fallbacks)+1)
	for _, b := range append([]string{defaultBranch}, fallbacks...) {
		if b == "" || seen[b] {
			continue
		}
		seen[b] = true
		out = append(out, b)
	}
	return out
}

// Truncate returns the first n characters (runes) of s.
// n <= 0 returns s unchanged.
func Truncate(s string, n int) string {
	if n <= 0 {
		return s
	}
	for i := range s {
		if n == 0 {
			return s[:i]
		}
		n--
	}
	return s
}
