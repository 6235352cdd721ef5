package cli

import (
	"encoding/json"
	"io"

	"github.com/spf13/cobra"

	"github.com/takeruhukushima/publiccodelooks/pkg/search"
)

// searchOpts holds the flags shared by search, crawl and browse.
type searchOpts struct {
	query   string
	page    int
	perPage int
	sort    string
	order   string
	filter  string
	glob    string
	json    bool
}

func (o *searchOpts) bind(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.query, "query", "q", "", "search query (default from config)")
	cmd.Flags().IntVar(&o.perPage, "per-page", 0, "results per page, at most 100 (default from config)")
	cmd.Flags().StringVar(&o.sort, "sort", "relevance", "sort key: relevance, stars, forks")
	cmd.Flags().StringVar(&o.order, "order", "desc", "sort order: asc, desc")
}

// request resolves the flags against the config.
func (o *searchOpts) request(c *CLI) (search.PageRequest, error) {
	spec, err := search.ParseSortSpec(o.sort, o.order)
	if err != nil {
		return search.PageRequest{}, err
	}
	req := search.PageRequest{
		Query:     o.query,
		PageIndex: max(o.page, 1),
		PageSize:  o.perPage,
		Sort:      spec,
	}
	if req.Query == "" {
		req.Query = c.cfg.Search.Query
	}
	if req.PageSize <= 0 {
		req.PageSize = c.cfg.Search.PageSize
	}
	return req, nil
}

// narrow applies the text filter and path glob to a page's records.
func (o *searchOpts) narrow(records []search.EnrichedRecord) ([]search.EnrichedRecord, error) {
	records = search.ApplyTextFilter(records, o.filter)
	return search.ApplyPathGlob(records, o.glob)
}

// searchCommand creates the search command for one enriched result page.
func (c *CLI) searchCommand() *cobra.Command {
	opts := &searchOpts{}

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Fetch one page of repositories that publish publiccode.yml",
		Long: `Fetch one page of code-search hits, look up stars, forks and the default
branch of each repository, and print the enriched page.

Examples:
  publiccodelooks search
  publiccodelooks search --page 3 --sort stars
  publiccodelooks search --filter italia --glob '**/publiccode.yml' --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runSearch(cmd, opts)
		},
	}

	opts.bind(cmd)
	cmd.Flags().IntVarP(&opts.page, "page", "p", 1, "page number, starting at 1")
	cmd.Flags().StringVar(&opts.filter, "filter", "", "keep results whose repository or path contains this text")
	cmd.Flags().StringVar(&opts.glob, "glob", "", "keep results whose path matches this glob (supports **)")
	cmd.Flags().BoolVar(&opts.json, "json", false, "print JSON instead of a table")

	return cmd
}

func (c *CLI) runSearch(cmd *cobra.Command, opts *searchOpts) error {
	ctx := cmd.Context()
	req, err := opts.request(c)
	if err != nil {
		return err
	}

	pipeline := c.newPipeline(c.githubClient())

	spinner := newSpinner(ctx, "Searching "+req.Query+"...")
	spinner.Start()
	page, err := pipeline.BuildPage(ctx, req)
	if err != nil {
		spinner.StopWithError(err)
		return err
	}
	spinner.Stop()

	records, err := opts.narrow(page.Items)
	if err != nil {
		return err
	}
	c.Logger.Debug("page built", "page", page.PageIndex, "items", len(page.Items), "shown", len(records))

	if opts.json {
		return writePageJSON(c.out, page, records, req.Sort)
	}
	printPage(c.out, page, records, req.Sort)
	return nil
}

// pageJSON mirrors the HTTP API's search response.
type pageJSON struct {
	Items      []search.EnrichedRecord `json:"items"`
	TotalCount int                     `json:"total_count"`
	Page       int                     `json:"page"`
	PerPage    int                     `json:"per_page"`
	LastPage   int                     `json:"last_page"`
	HasNext    bool                    `json:"has_next"`
	Sort       string                  `json:"sort"`
	Countries  []string                `json:"countries,omitempty"`
}

func writePageJSON(w io.Writer, page *search.PageWindow, records []search.EnrichedRecord, spec search.SortSpec) error {
	if records == nil {
		records = []search.EnrichedRecord{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(pageJSON{
		Items:      records,
		TotalCount: page.TotalCount,
		Page:       page.PageIndex,
		PerPage:    page.PageSize,
		LastPage:   page.LastPage(),
		HasNext:    page.HasNext(),
		Sort:       spec.String(),
		Countries:  search.Countries(records),
	})
}
