// Package config loads publiccodelooks settings from a TOML file and the
// environment.
//
// Resolution order, later wins:
//  1. built-in defaults ([Config.ApplyDefaults])
//  2. the TOML file, with ${VAR} and ${VAR:-default} expanded
//  3. GITHUB_TOKEN, OPENAI_API_KEY and PUBLICCODELOOKS_REDIS_URL
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/takeruhukushima/publiccodelooks/pkg/buildinfo"
	perrors "github.com/takeruhukushima/publiccodelooks/pkg/errors"
)

// AppName names the config and cache directories.
const AppName = "publiccodelooks"

// Environment variables that override file settings.
const (
	EnvGitHubToken = "GITHUB_TOKEN"
	EnvOpenAIKey   = "OPENAI_API_KEY"
	EnvRedisURL    = "PUBLICCODELOOKS_REDIS_URL"
)

// Config holds every setting the CLI and server need.
type Config struct {
	GitHub  GitHubConfig  `toml:"github"`
	Search  SearchConfig  `toml:"search"`
	Summary SummaryConfig `toml:"summary"`
	Cache   CacheConfig   `toml:"cache"`
	Server  ServerConfig  `toml:"server"`
}

// GitHubConfig describes the upstream API.
type GitHubConfig struct {
	APIURL    string   `toml:"api_url"`
	RawURL    string   `toml:"raw_url"`
	Token     string   `toml:"token"`
	UserAgent string   `toml:"user_agent"`
	Timeout   Duration `toml:"timeout"`
}

// SearchConfig tunes the aggregation pipeline.
type SearchConfig struct {
	Query         string   `toml:"query"`
	PageSize      int      `toml:"page_size"`
	FanOut        int      `toml:"fan_out"` // max concurrent detail lookups; 0 = page size
	DetailTimeout Duration `toml:"detail_timeout"`
	RetryAttempts int      `toml:"retry_attempts"`
	RetryDelay    Duration `toml:"retry_delay"`
}

// SummaryConfig configures README summaries.
type SummaryConfig struct {
	APIKey         string   `toml:"api_key"`
	BaseURL        string   `toml:"base_url"` // OpenAI-compatible endpoint; empty = api.openai.com
	Model          string   `toml:"model"`
	Language       string   `toml:"language"`
	MaxReadmeChars int      `toml:"max_readme_chars"`
	Branches       []string `toml:"branches"` // fallback branches after the default branch
}

// CacheConfig selects the summary cache backend.
type CacheConfig struct {
	Backend  string   `toml:"backend"` // null, file, bolt, redis
	Dir      string   `toml:"dir"`
	RedisURL string   `toml:"redis_url"`
	TTL      Duration `toml:"ttl"`
	Prefix   string   `toml:"prefix"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr            string   `toml:"addr"`
	ReadTimeout     Duration `toml:"read_timeout"`
	WriteTimeout    Duration `toml:"write_timeout"`
	ShutdownTimeout Duration `toml:"shutdown_timeout"`
}

// Duration is a time.Duration written as "5s" or "1m30s" in TOML.
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns a Config with every default applied and no file read.
func Default() Config {
	var c Config
	c.ApplyDefaults()
	return c
}

// Load reads the config file at path. An empty path means
// [DefaultPath]; a missing default file is not an error, a missing explicit
// file is.
func Load(path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}

	var cfg Config
	data, err := os.ReadFile(filepath.Clean(path))
	switch {
	case err == nil:
		data = expandEnvVars(data)
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
	default:
		return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	cfg.applyEnv()
	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// DefaultPath returns $XDG_CONFIG_HOME/publiccodelooks/config.toml,
// falling back to ~/.config.
func DefaultPath() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return filepath.Join(".", "config.toml")
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, AppName, "config.toml")
}

// DefaultCacheDir returns $XDG_CACHE_HOME/publiccodelooks, falling back to
// ~/.cache.
func DefaultCacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, AppName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", AppName), nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvGitHubToken); v != "" {
		c.GitHub.Token = v
	}
	if v := os.Getenv(EnvOpenAIKey); v != "" {
		c.Summary.APIKey = v
	}
	if v := os.Getenv(EnvRedisURL); v != "" {
		c.Cache.RedisURL = v
	}
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.GitHub.APIURL == "" {
		c.GitHub.APIURL = "https://api.github.com"
	}
	if c.GitHub.RawURL == "" {
		c.GitHub.RawURL = "https://raw.githubusercontent.com"
	}
	if c.GitHub.UserAgent == "" {
		c.GitHub.UserAgent = buildinfo.UserAgent(AppName)
	}
	if c.GitHub.Timeout.Duration <= 0 {
		c.GitHub.Timeout.Duration = 10 * time.Second
	}

	if strings.TrimSpace(c.Search.Query) == "" {
		c.Search.Query = "filename:publiccode.yml in:path"
	}
	if c.Search.PageSize <= 0 {
		c.Search.PageSize = 30
	}
	if c.Search.DetailTimeout.Duration <= 0 {
		c.Search.DetailTimeout.Duration = 5 * time.Second
	}
	if c.Search.RetryAttempts <= 0 {
		c.Search.RetryAttempts = 3
	}
	if c.Search.RetryDelay.Duration <= 0 {
		c.Search.RetryDelay.Duration = time.Second
	}

	if c.Summary.Model == "" {
		c.Summary.Model = "gpt-4o-mini"
	}
	if c.Summary.Language == "" {
		c.Summary.Language = "Japanese"
	}
	if c.Summary.MaxReadmeChars <= 0 {
		c.Summary.MaxReadmeChars = 10000
	}
	if len(c.Summary.Branches) == 0 {
		c.Summary.Branches = []string{"main", "master", "develop"}
	}

	if c.Cache.Backend == "" {
		c.Cache.Backend = "file"
	}
	if c.Cache.TTL.Duration <= 0 {
		c.Cache.TTL.Duration = 7 * 24 * time.Hour
	}

	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Server.ReadTimeout.Duration <= 0 {
		c.Server.ReadTimeout.Duration = 10 * time.Second
	}
	if c.Server.WriteTimeout.Duration <= 0 {
		c.Server.WriteTimeout.Duration = 60 * time.Second
	}
	if c.Server.ShutdownTimeout.Duration <= 0 {
		c.Server.ShutdownTimeout.Duration = 10 * time.Second
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.Search.PageSize > 100 {
		return fmt.Errorf("search.page_size must be at most 100, got %d", c.Search.PageSize)
	}
	if c.Search.FanOut < 0 {
		return fmt.Errorf("search.fan_out must not be negative, got %d", c.Search.FanOut)
	}
	switch c.Cache.Backend {
	case "null", "file", "bolt":
	case "redis":
		if c.Cache.RedisURL == "" {
			return fmt.Errorf("cache.redis_url is required for the redis backend")
		}
	default:
		return fmt.Errorf("cache.backend must be one of null, file, bolt, redis, got %q", c.Cache.Backend)
	}
	for _, u := range []struct{ name, v string }{
		{"github.api_url", c.GitHub.APIURL},
		{"github.raw_url", c.GitHub.RawURL},
	} {
		if err := perrors.ValidateURL(u.v); err != nil {
			return fmt.Errorf("%s: %w", u.name, err)
		}
	}
	return nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1])
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
