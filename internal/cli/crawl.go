package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	perrors "github.com/takeruhukushima/publiccodelooks/pkg/errors"
	"github.com/takeruhukushima/publiccodelooks/pkg/search"
)

type crawlOpts struct {
	searchOpts
	maxPages int
	output   string
}

// crawlCommand creates the crawl command, which walks every result page.
func (c *CLI) crawlCommand() *cobra.Command {
	opts := &crawlOpts{}

	cmd := &cobra.Command{
		Use:   "crawl",
		Short: "Fetch every result page and write the records as JSON",
		Long: `Fetch result pages one after another until the query is exhausted, the
1000-result search cap is reached, or --max-pages pages were fetched.

If GitHub stops the crawl (rate limit, network failure) the records collected
so far are still written, and the error is reported.

Examples:
  publiccodelooks crawl -o publiccode.json
  publiccodelooks crawl --sort stars --max-pages 5`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runCrawl(cmd, opts)
		},
	}

	opts.bind(cmd)
	cmd.Flags().IntVar(&opts.maxPages, "max-pages", 0, "stop after this many pages (0 = no limit)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default stdout)")

	return cmd
}

func (c *CLI) runCrawl(cmd *cobra.Command, opts *crawlOpts) error {
	ctx := cmd.Context()
	req, err := opts.request(c)
	if err != nil {
		return err
	}

	pipeline := c.newPipeline(c.githubClient())
	prog := newProgress(c.Logger)
	bar := newCrawlBar(os.Stderr, opts.maxPages)
	fetched := 0

	result, crawlErr := pipeline.Crawl(ctx, search.CrawlOptions{
		Query:    req.Query,
		PageSize: req.PageSize,
		Sort:     req.Sort,
		MaxPages: opts.maxPages,
		OnPage: func(page *search.PageWindow) {
			if opts.maxPages <= 0 && page.PageIndex == 1 {
				bar.ChangeMax(page.LastPage())
			}
			fetched += len(page.Items)
			bar.Describe(fmt.Sprintf("[cyan]Crawling[reset] %d records", fetched))
			_ = bar.Set(page.PageIndex)
		},
	})
	_ = bar.Finish()

	if result == nil || len(result.Pages) == 0 {
		if crawlErr != nil {
			return crawlErr
		}
		printInfo(os.Stderr, "No results for %s", req.Query)
		return nil
	}

	records := result.Records()
	if err := c.writeRecords(opts.output, records); err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Crawled %d pages, %d records", len(result.Pages), len(records)))

	if crawlErr != nil {
		if ctx.Err() != nil {
			return crawlErr
		}
		printWarning(os.Stderr, "Crawl stopped early: %s", perrors.Explain(crawlErr))
		return crawlErr
	}
	return nil
}

// newCrawlBar renders page progress on w. max is a placeholder until the
// first page reports the total.
func newCrawlBar(w io.Writer, maxPages int) *progressbar.ProgressBar {
	total := maxPages
	if total <= 0 {
		total = -1
	}
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowBytes(false),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionSetDescription("[cyan]Crawling[reset]"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionOnCompletion(func() { fmt.Fprintln(w) }),
	)
}

// writeRecords writes records as indented JSON to path, or to the CLI's
// output when path is empty.
func (c *CLI) writeRecords(path string, records []search.EnrichedRecord) error {
	w := c.out
	if path != "" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer f.Close()
		w = f
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return fmt.Errorf("write records: %w", err)
	}
	if path != "" {
		printSuccess(os.Stderr, "Wrote %d records to %s", len(records), path)
	}
	return nil
}
