package summary

import (
	"context"
	"encoding/json"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/log"

	"github.com/takeruhukushima/publiccodelooks/pkg/cache"
	perrors "github.com/takeruhukushima/publiccodelooks/pkg/errors"
	"github.com/takeruhukushima/publiccodelooks/pkg/observability"
	"github.com/takeruhukushima/publiccodelooks/pkg/search"
)

// Summary is the result of summarizing one repository.
type Summary struct {
	RepositoryID string    `json:"repository_id"`
	Text         string    `json:"text,omitempty"`
	Branch       string    `json:"branch,omitempty"`
	NoSummary    bool      `json:"no_summary"` // no README on any candidate branch, or an empty one
	GeneratedAt  time.Time `json:"generated_at"`
	Cached       bool      `json:"cached"`
}

// Options configures a [Resolver]. Zero values select the defaults.
type Options struct {
	// Details supplies the default branch. Nil tries the fallbacks only.
	Details search.DetailResolver

	Cache cache.Cache   // nil disables caching
	Keyer cache.Keyer   // nil uses cache.DefaultKeyer
	TTL   time.Duration // default cache.TTLSummary

	// Key holds the generator settings that make a cached summary stale.
	Key cache.SummaryKeyOpts

	Branches       []string // default DefaultBranches
	MaxReadmeChars int      // default DefaultMaxReadmeChars

	Logger *log.Logger
}

// Resolver fetches, summarizes and caches README summaries.
// It is safe for concurrent use.
type Resolver struct {
	source    ReadmeSource
	generator Generator
	opts      Options
	logger    *log.Logger
}

// NewResolver creates a resolver that reads READMEs from source.
func NewResolver(source ReadmeSource, generator Generator, opts Options) *Resolver {
	if opts.Cache == nil {
		opts.Cache = cache.NewNullCache()
	}
	if opts.Keyer == nil {
		opts.Keyer = cache.NewDefaultKeyer()
	}
	if opts.TTL <= 0 {
		opts.TTL = cache.TTLSummary
	}
	if len(opts.Branches) == 0 {
		opts.Branches = DefaultBranches
	}
	if opts.MaxReadmeChars <= 0 {
		opts.MaxReadmeChars = DefaultMaxReadmeChars
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Resolver{source: source, generator: generator, opts: opts, logger: logger}
}

// Summarize returns the summary for repositoryID, from the cache when
// possible. A repository without a README yields NoSummary and no error.
// Fetch and generation failures are returned; retrying is up to the caller.
func (r *Resolver) Summarize(ctx context.Context, repositoryID string) (Summary, error) {
	owner, name, err := perrors.ParseRepoID(repositoryID)
	if err != nil {
		return Summary{}, err
	}

	start := time.Now()
	key := r.opts.Keyer.SummaryKey(repositoryID, r.opts.Key)
	if s, ok := r.fromCache(ctx, key); ok {
		observability.Pipeline().OnSummary(ctx, repositoryID, "cached", time.Since(start))
		return s, nil
	}

	s, err := r.generate(ctx, repositoryID, owner, name)
	if err != nil {
		observability.Pipeline().OnSummary(ctx, repositoryID, "failed", time.Since(start))
		return Summary{}, err
	}

	outcome := "generated"
	if s.NoSummary {
		outcome = "no_readme"
	}
	observability.Pipeline().OnSummary(ctx, repositoryID, outcome, time.Since(start))
	r.toCache(ctx, key, s)
	return s, nil
}

func (r *Resolver) generate(ctx context.Context, repositoryID, owner, name string) (Summary, error) {
	var defaultBranch string
	if r.opts.Details != nil {
		if d, ok := r.opts.Details.ResolveDetail(ctx, repositoryID); ok {
			defaultBranch = d.DefaultBranch
		}
	}

	// Enough bytes for MaxReadmeChars runes of any width.
	limit := int64(r.opts.MaxReadmeChars * utf8.UTFMax)
	l := NewLookup(owner, name, Candidates(defaultBranch, r.opts.Branches)).Run(ctx, r.source, limit)

	s := Summary{RepositoryID: repositoryID, Branch: l.Branch, GeneratedAt: time.Now().UTC()}
	switch l.State {
	case StateFailed:
		return Summary{}, l.Err
	case StateNotFound:
		r.logger.Debug("no readme", "repo", repositoryID)
		s.NoSummary = true
		return s, nil
	}

	readme := Truncate(l.Text, r.opts.MaxReadmeChars)
	if strings.TrimSpace(readme) == "" {
		s.NoSummary = true
		return s, nil
	}

	text, err := r.generator.Generate(ctx, repositoryID, readme)
	if err != nil {
		return Summary{}, err
	}
	s.Text = text
	r.logger.Info("summarized", "repo", repositoryID, "branch", l.Branch, "chars", utf8.RuneCountInString(readme))
	return s, nil
}

func (r *Resolver) fromCache(ctx context.Context, key string) (Summary, bool) {
	hooks := observability.Cache()
	data, ok, err := r.opts.Cache.Get(ctx, key)
	if err != nil {
		r.logger.Warn("summary cache read failed", "err", err)
	}
	if !ok || err != nil {
		hooks.OnCacheMiss(ctx, "summary")
		return Summary{}, false
	}

	var s Summary
	if err := json.Unmarshal(data, &s); err != nil {
		hooks.OnCacheMiss(ctx, "summary")
		return Summary{}, false
	}
	hooks.OnCacheHit(ctx, "summary")
	s.Cached = true
	return s, true
}

func (r *Resolver) toCache(ctx context.Context, key string, s Summary) {
	data, err := json.Marshal(s)
	if err != nil {
		return
	}
	if err := r.opts.Cache.Set(ctx, key, data, r.opts.TTL); err != nil {
		r.logger.Warn("summary cache write failed", "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, "summary", len(data))
}
