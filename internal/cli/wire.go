package cli

import (
	"context"
	"fmt"

	"github.com/takeruhukushima/publiccodelooks/pkg/cache"
	"github.com/takeruhukushima/publiccodelooks/pkg/config"
	"github.com/takeruhukushima/publiccodelooks/pkg/integrations/github"
	"github.com/takeruhukushima/publiccodelooks/pkg/publiccode"
	"github.com/takeruhukushima/publiccodelooks/pkg/search"
	"github.com/takeruhukushima/publiccodelooks/pkg/summary"
)

// =============================================================================
// Component Factories
// =============================================================================

// githubClient builds the API client from the loaded config.
func (c *CLI) githubClient() *github.Client {
	gh := c.cfg.GitHub
	if gh.Token == "" {
		c.Logger.Warn("no GitHub token; set " + config.EnvGitHubToken + " for higher rate limits")
	}
	return github.NewClient(github.Options{
		APIURL:    gh.APIURL,
		RawURL:    gh.RawURL,
		Token:     gh.Token,
		UserAgent: gh.UserAgent,
		Timeout:   gh.Timeout.Duration,
	})
}

func (c *CLI) detailResolver(gh *github.Client) *search.GitHubResolver {
	return search.NewGitHubResolver(gh, c.cfg.Search.DetailTimeout.Duration, c.Logger)
}

// newPipeline builds the search pipeline on top of gh.
func (c *CLI) newPipeline(gh *github.Client) *search.Pipeline {
	s := c.cfg.Search
	return search.NewPipeline(search.NewGitHubFetcher(gh), c.detailResolver(gh), search.Options{
		FanOut:        s.FanOut,
		RetryAttempts: s.RetryAttempts,
		RetryDelay:    s.RetryDelay.Duration,
		Logger:        c.Logger,
	})
}

// openCache opens the configured summary cache. noCache forces the null backend.
func (c *CLI) openCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	dir, err := c.cacheDir()
	if err != nil {
		c.Logger.Warn("no cache directory, caching disabled", "err", err)
		return cache.NewNullCache(), nil
	}
	cc, err := cache.Open(ctx, cache.Options{
		Backend:  c.cfg.Cache.Backend,
		Dir:      dir,
		RedisURL: c.cfg.Cache.RedisURL,
	})
	if err != nil {
		return nil, fmt.Errorf("open %s cache: %w", c.cfg.Cache.Backend, err)
	}
	return cc, nil
}

// cacheDir returns the configured cache directory or the XDG default.
func (c *CLI) cacheDir() (string, error) {
	if c.cfg.Cache.Dir != "" {
		return c.cfg.Cache.Dir, nil
	}
	return config.DefaultCacheDir()
}

// newSummaryResolver wires the README summarizer with its cache.
// The caller closes the returned cache.
func (c *CLI) newSummaryResolver(ctx context.Context, gh *github.Client, noCache bool) (*summary.Resolver, cache.Cache, error) {
	sc := c.cfg.Summary
	if sc.APIKey == "" && sc.BaseURL == "" {
		return nil, nil, fmt.Errorf("README summaries need an API key: set %s or summary.api_key", config.EnvOpenAIKey)
	}

	cc, err := c.openCache(ctx, noCache)
	if err != nil {
		return nil, nil, err
	}

	gen := summary.NewOpenAIGenerator(summary.OpenAIConfig{
		APIKey:   sc.APIKey,
		BaseURL:  sc.BaseURL,
		Model:    sc.Model,
		Language: sc.Language,
		Logger:   c.Logger,
	})

	var keyer cache.Keyer = cache.NewDefaultKeyer()
	if c.cfg.Cache.Prefix != "" {
		keyer = cache.NewScopedKeyer(keyer, c.cfg.Cache.Prefix)
	}

	r := summary.NewResolver(gh, gen, summary.Options{
		Details:        c.detailResolver(gh),
		Cache:          cc,
		Keyer:          keyer,
		TTL:            c.cfg.Cache.TTL.Duration,
		Key:            cache.SummaryKeyOpts{Model: gen.Model(), Language: gen.Language()},
		Branches:       sc.Branches,
		MaxReadmeChars: sc.MaxReadmeChars,
		Logger:         c.Logger,
	})
	return r, cc, nil
}

func (c *CLI) manifestReader(gh *github.Client) *publiccode.Reader {
	return publiccode.NewReader(gh, c.detailResolver(gh))
}
