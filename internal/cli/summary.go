package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	perrors "github.com/takeruhukushima/publiccodelooks/pkg/errors"
	"github.com/takeruhukushima/publiccodelooks/pkg/summary"
)

type summaryOpts struct {
	noCache bool
	json    bool
}

// summaryCommand creates the summary command for README summaries.
func (c *CLI) summaryCommand() *cobra.Command {
	opts := &summaryOpts{}

	cmd := &cobra.Command{
		Use:   "summary <owner/repo>...",
		Short: "Summarize repository READMEs with an OpenAI-compatible model",
		Long: `Fetch README.md from each repository's default branch (falling back to main
and master), and summarize it in three lines. Summaries are cached per
repository, model and language.

Examples:
  publiccodelooks summary italia/io-app
  publiccodelooks summary italia/io-app e-estonia/x-road --json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runSummary(cmd, args, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "skip the summary cache")
	cmd.Flags().BoolVar(&opts.json, "json", false, "print JSON instead of text")

	return cmd
}

func (c *CLI) runSummary(cmd *cobra.Command, ids []string, opts *summaryOpts) error {
	ctx := cmd.Context()
	for _, id := range ids {
		if _, _, err := perrors.ParseRepoID(id); err != nil {
			return err
		}
	}

	resolver, cc, err := c.newSummaryResolver(ctx, c.githubClient(), opts.noCache)
	if err != nil {
		return err
	}
	defer cc.Close()

	session := summary.NewSession(ctx, resolver)
	defer session.Close()

	// Start all ids up front so they run concurrently.
	handles := make([]*summary.Handle, len(ids))
	for i, id := range ids {
		handles[i] = session.Get(id)
	}

	spinner := newSpinner(ctx, fmt.Sprintf("Summarizing %d repositories...", len(ids)))
	spinner.Start()

	results := make([]summary.Summary, 0, len(ids))
	var failed int
	for i, h := range handles {
		s, err := h.Wait(ctx)
		if err != nil {
			if ctx.Err() != nil {
				spinner.Stop()
				return ctx.Err()
			}
			failed++
			c.Logger.Error("summary failed", "repo", ids[i], "err", err)
			continue
		}
		results = append(results, s)
		spinner.SetMessage(fmt.Sprintf("Summarized %d/%d...", len(results), len(ids)))
	}
	spinner.Stop()

	if opts.json {
		enc := json.NewEncoder(c.out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(results); err != nil {
			return err
		}
	} else {
		for _, s := range results {
			printSummary(c.out, s)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d summaries failed", failed, len(ids))
	}
	return nil
}

func printSummary(w io.Writer, s summary.Summary) {
	fmt.Fprintln(w, StyleTitle.Render(s.RepositoryID)+" "+StyleDim.Render(cacheStatus(s.Cached)))
	if s.NoSummary {
		printWarning(w, "No README found")
		fmt.Fprintln(w)
		return
	}
	printDetail(w, "branch %s", s.Branch)
	fmt.Fprintln(w, StyleValue.Render(s.Text))
	fmt.Fprintln(w)
}

