package cli

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/takeruhukushima/publiccodelooks/internal/metrics"
	"github.com/takeruhukushima/publiccodelooks/internal/server"
)

type serveOpts struct {
	addr    string
	noCache bool
}

// serveCommand creates the serve command, which runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	opts := &serveOpts{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Serve search pages, repository details, README summaries and manifests
as JSON, plus Prometheus metrics on /metrics.

README summaries are disabled when no model API key is configured.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", "", "listen address (default from config)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "skip the summary cache")

	return cmd
}

func (c *CLI) runServe(cmd *cobra.Command, opts *serveOpts) error {
	ctx := cmd.Context()
	cfg := c.cfg.Server
	if opts.addr != "" {
		cfg.Addr = opts.addr
	}

	m := metrics.New(prometheus.DefaultRegisterer)
	m.Install()

	gh := c.githubClient()
	srvOpts := server.Options{
		Pipeline:  c.newPipeline(gh),
		Repos:     gh,
		Manifests: c.manifestReader(gh),
		Query:     c.cfg.Search.Query,
		PageSize:  c.cfg.Search.PageSize,
		Metrics:   m,
		Gatherer:  prometheus.DefaultGatherer,
		Logger:    c.Logger,
	}

	resolver, cc, err := c.newSummaryResolver(ctx, gh, opts.noCache)
	if err != nil {
		c.Logger.Warn("summaries disabled", "err", err)
	} else {
		defer cc.Close()
		srvOpts.Summaries = resolver
	}

	c.Logger.Info("listening", "addr", cfg.Addr)
	return server.New(srvOpts).ListenAndServe(ctx, cfg)
}
