package cli

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	perrors "github.com/takeruhukushima/publiccodelooks/pkg/errors"
	"github.com/takeruhukushima/publiccodelooks/pkg/search"
	"github.com/takeruhukushima/publiccodelooks/pkg/summary"
)

var (
	listDimStyle     = lipgloss.NewStyle().Foreground(colorDim)
	listErrorStyle   = lipgloss.NewStyle().Foreground(colorRed)
	listSummaryStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(colorDim).
				Padding(0, 1)
)

// sortCycle is the order the "s" key steps through.
var sortCycle = []search.SortKey{search.SortRelevance, search.SortStars, search.SortForks}

// =============================================================================
// browse command
// =============================================================================

func (c *CLI) browseCommand() *cobra.Command {
	opts := &searchOpts{}

	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Page through results interactively",
		Long: `Open an interactive result browser.

Keys:
  ↑/k ↓/j   move          →/n ←/p   next/previous page
  s         cycle sort    o         toggle order
  /         filter page   enter     summarize README
  r         reload        q         quit`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runBrowse(cmd, opts)
		},
	}

	opts.bind(cmd)
	cmd.Flags().IntVarP(&opts.page, "page", "p", 1, "first page to show")
	cmd.Flags().StringVar(&opts.filter, "filter", "", "initial text filter")
	cmd.Flags().StringVar(&opts.glob, "glob", "", "keep results whose path matches this glob")

	return cmd
}

func (c *CLI) runBrowse(cmd *cobra.Command, opts *searchOpts) error {
	ctx := cmd.Context()
	req, err := opts.request(c)
	if err != nil {
		return err
	}
	if _, err := search.ApplyPathGlob(nil, opts.glob); err != nil {
		return err
	}

	gh := c.githubClient()
	m := newBrowseModel(ctx, c.newPipeline(gh), req)
	m.filter = opts.filter
	m.glob = opts.glob

	resolver, cc, err := c.newSummaryResolver(ctx, gh, false)
	if err != nil {
		c.Logger.Debug("summaries disabled", "err", err)
	} else {
		defer cc.Close()
		m.session = summary.NewSession(ctx, resolver)
		defer m.session.Close()
	}
	defer m.view.Close()

	_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}

// =============================================================================
// browseModel
// =============================================================================

// pageMsg carries the result of one page load. It is applied only if its
// token still belongs to the view's latest request.
type pageMsg struct {
	token search.Token
	page  *search.PageWindow
	err   error
}

type summaryMsg struct {
	id      string
	summary summary.Summary
	err     error
}

// browseModel is the bubbletea model for the result browser.
type browseModel struct {
	ctx      context.Context
	pipeline *search.Pipeline
	view     *search.View
	session  *summary.Session // nil disables summaries

	req     search.PageRequest
	page    *search.PageWindow
	records []search.EnrichedRecord // page items after filter and glob
	filter  string
	glob    string
	editing bool

	cursor  int
	offset  int
	height  int
	loading bool
	err     error

	summaries map[string]summaryMsg
	pending   map[string]bool
}

func newBrowseModel(ctx context.Context, p *search.Pipeline, req search.PageRequest) *browseModel {
	return &browseModel{
		ctx:       ctx,
		pipeline:  p,
		view:      search.NewView(),
		req:       req,
		height:    15,
		summaries: map[string]summaryMsg{},
		pending:   map[string]bool{},
	}
}

func (m *browseModel) Init() tea.Cmd {
	return m.load()
}

// load starts a page request that supersedes any request in flight.
func (m *browseModel) load() tea.Cmd {
	token, ctx := m.view.Begin(m.ctx)
	m.loading = true
	m.err = nil
	p, req := m.pipeline, m.req
	return func() tea.Msg {
		page, err := p.BuildPage(ctx, req)
		return pageMsg{token: token, page: page, err: err}
	}
}

func (m *browseModel) summarize(id string) tea.Cmd {
	if m.session == nil || m.pending[id] {
		return nil
	}
	if _, ok := m.summaries[id]; ok {
		return nil
	}
	m.pending[id] = true
	h := m.session.Get(id)
	ctx := m.ctx
	return func() tea.Msg {
		s, err := h.Wait(ctx)
		return summaryMsg{id: id, summary: s, err: err}
	}
}

func (m *browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case pageMsg:
		return m, m.applyPage(msg)
	case summaryMsg:
		delete(m.pending, msg.id)
		m.summaries[msg.id] = msg
	case tea.WindowSizeMsg:
		m.height = max(msg.Height-12, 5)
		m.scroll()
	case tea.KeyMsg:
		if m.editing {
			m.editFilter(msg)
			return m, nil
		}
		return m, m.handleKey(msg)
	}
	return m, nil
}

func (m *browseModel) applyPage(msg pageMsg) tea.Cmd {
	if msg.err != nil {
		if !m.view.IsCurrent(msg.token) {
			return nil
		}
		m.loading = false
		m.err = msg.err
		return nil
	}
	if !m.view.Apply(msg.token, msg.page) {
		return nil
	}
	m.loading = false
	m.page = msg.page
	m.cursor, m.offset = 0, 0
	m.refilter()
	return nil
}

func (m *browseModel) refilter() {
	if m.page == nil {
		m.records = nil
		return
	}
	records := search.ApplyTextFilter(m.page.Items, m.filter)
	if globbed, err := search.ApplyPathGlob(records, m.glob); err == nil {
		records = globbed
	}
	m.records = records
	m.cursor = min(m.cursor, max(len(records)-1, 0))
	m.scroll()
}

func (m *browseModel) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		m.view.Close()
		return tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
			m.scroll()
		}
	case "down", "j":
		if m.cursor < len(m.records)-1 {
			m.cursor++
			m.scroll()
		}
	case "right", "n":
		if m.page != nil && m.page.HasNext() {
			m.req.PageIndex = m.page.PageIndex + 1
			return m.load()
		}
	case "left", "p":
		if m.req.PageIndex > 1 {
			m.req.PageIndex--
			return m.load()
		}
	case "s":
		m.req.Sort.Key = nextSortKey(m.req.Sort.Key)
		m.req.PageIndex = 1
		return m.load()
	case "o":
		if m.req.Sort.Key == search.SortRelevance {
			return nil
		}
		if m.req.Sort.Order == search.Ascending {
			m.req.Sort.Order = search.Descending
		} else {
			m.req.Sort.Order = search.Ascending
		}
		m.req.PageIndex = 1
		return m.load()
	case "r":
		return m.load()
	case "/":
		m.editing = true
	case "enter":
		if rec, ok := m.selected(); ok {
			return m.summarize(rec.RepositoryID)
		}
	}
	return nil
}

func (m *browseModel) editFilter(msg tea.KeyMsg) {
	switch msg.Type {
	case tea.KeyEnter, tea.KeyEsc:
		m.editing = false
	case tea.KeyBackspace:
		if r := []rune(m.filter); len(r) > 0 {
			m.filter = string(r[:len(r)-1])
		}
	case tea.KeyRunes, tea.KeySpace:
		m.filter += string(msg.Runes)
	default:
		return
	}
	m.refilter()
}

func nextSortKey(k search.SortKey) search.SortKey {
	for i, key := range sortCycle {
		if key == k {
			return sortCycle[(i+1)%len(sortCycle)]
		}
	}
	return search.SortRelevance
}

func (m *browseModel) scroll() {
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+m.height {
		m.offset = m.cursor - m.height + 1
	}
}

func (m *browseModel) selected() (search.EnrichedRecord, bool) {
	if m.cursor < 0 || m.cursor >= len(m.records) {
		return search.EnrichedRecord{}, false
	}
	return m.records[m.cursor], true
}

func (m *browseModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("publiccode.yml · " + m.req.Query))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ move  ←/→ page  s sort  o order  / filter  ⏎ summary  q quit"))
	b.WriteString("\n\n")

	switch {
	case m.err != nil:
		b.WriteString(listErrorStyle.Render(iconError + " " + perrors.Explain(m.err)))
		b.WriteString("\n")
		b.WriteString(listDimStyle.Render("r to retry"))
		return b.String()
	case m.page == nil:
		b.WriteString(listDimStyle.Render("Loading..."))
		return b.String()
	}

	end := min(m.offset+m.height, len(m.records))
	if len(m.records) == 0 {
		b.WriteString(listDimStyle.Render("No results on this page"))
	} else {
		b.WriteString(renderRecords(m.records[m.offset:end], m.cursor-m.offset))
	}
	b.WriteString("\n")

	status := pageStats(m.page, m.req.Sort)
	if m.loading {
		status += " · loading"
	}
	b.WriteString(listDimStyle.Render("  " + status))
	if m.filter != "" || m.editing {
		cursor := ""
		if m.editing {
			cursor = "▏"
		}
		b.WriteString("\n" + listDimStyle.Render("  filter: ") + m.filter + cursor)
	}

	if rec, ok := m.selected(); ok {
		if panel := m.summaryPanel(rec.RepositoryID); panel != "" {
			b.WriteString("\n\n" + panel)
		}
	}
	return b.String()
}

func (m *browseModel) summaryPanel(id string) string {
	if m.pending[id] {
		return listSummaryStyle.Render(listDimStyle.Render("Summarizing " + id + "..."))
	}
	msg, ok := m.summaries[id]
	if !ok {
		return ""
	}
	switch {
	case msg.err != nil:
		return listSummaryStyle.Render(listErrorStyle.Render(perrors.Explain(msg.err)))
	case msg.summary.NoSummary:
		return listSummaryStyle.Render(listDimStyle.Render("No README found"))
	}
	head := fmt.Sprintf("%s · %s · %s", id, msg.summary.Branch, cacheStatus(msg.summary.Cached))
	return listSummaryStyle.Render(StyleDim.Render(head) + "\n" + msg.summary.Text)
}
