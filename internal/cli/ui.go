package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/takeruhukushima/publiccodelooks/pkg/search"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - warnings
	colorRed    = lipgloss.Color("167") // Soft red - errors
	colorBlue   = lipgloss.Color("75")  // Light blue - links
	colorWhite  = lipgloss.Color("255") // Bright white - values
	colorGray   = lipgloss.Color("245") // Gray - secondary text
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

// =============================================================================
// Public Styles
// =============================================================================

var (
	// StyleTitle for main headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleLink for URLs.
	StyleLink = lipgloss.NewStyle().Foreground(colorBlue).Underline(true)

	// StyleDim for secondary/muted text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleNumber for numeric values.
	StyleNumber = lipgloss.NewStyle().Foreground(colorCyan)

	// StyleWarning for warning messages.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)
)

// =============================================================================
// Internal Styles
// =============================================================================

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)

	styleCached   = lipgloss.NewStyle().Foreground(colorGreen)
	styleComputed = lipgloss.NewStyle().Foreground(colorGray)

	styleHeader = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
)

// =============================================================================
// Icons
// =============================================================================

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
	iconCached  = "cached"
	iconFresh   = "fresh"
	iconMissing = "—"
)

// =============================================================================
// Status Output
// =============================================================================

func printSuccess(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleIconSuccess.Render(iconSuccess)+" "+fmt.Sprintf(format, args...))
}

func printError(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleIconError.Render(iconError)+" "+fmt.Sprintf(format, args...))
}

func printWarning(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleIconWarning.Render(iconWarning)+" "+StyleWarning.Render(fmt.Sprintf(format, args...)))
}

func printInfo(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleIconInfo.Render(iconInfo)+" "+fmt.Sprintf(format, args...))
}

// printDetail prints an indented, dimmed line.
func printDetail(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printKeyValue prints a labeled value.
func printKeyValue(w io.Writer, key, value string) {
	keyStyle := lipgloss.NewStyle().Foreground(colorGray).Width(12)
	if value == "" {
		value = iconMissing
	}
	fmt.Fprintln(w, keyStyle.Render(key)+" "+StyleValue.Render(value))
}

// =============================================================================
// Result Pages
// =============================================================================

// recordRows formats records as table rows: repository, path, stars, forks,
// branch. Unenriched records show dashes instead of zero counts.
func recordRows(records []search.EnrichedRecord) [][]string {
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		stars, forks, branch := iconMissing, iconMissing, iconMissing
		if r.Enriched {
			stars = strconv.Itoa(r.StarCount)
			forks = strconv.Itoa(r.ForkCount)
			if r.DefaultBranch != "" {
				branch = r.DefaultBranch
			}
		}
		rows = append(rows, []string{r.RepositoryID, r.Path, stars, forks, branch})
	}
	return rows
}

// renderRecords renders records as a bordered table. highlight marks one
// row as selected; pass -1 for none.
func renderRecords(records []search.EnrichedRecord, highlight int) string {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Repository", "Path", "Stars", "Forks", "Branch").
		Rows(recordRows(records)...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return styleHeader
			}
			base := lipgloss.NewStyle()
			if row >= len(records) {
				return base
			}
			if col == 2 || col == 3 {
				base = base.Foreground(colorCyan).Align(lipgloss.Right)
			}
			if !records[row].Enriched {
				base = base.Foreground(colorDim)
			}
			if row == highlight {
				return base.Bold(true).Foreground(colorGreen)
			}
			return base
		})
	return t.Render()
}

// pageStats summarizes a page on one line, e.g.
// "page 2/34 · 1004 results · stars:desc · Italy, Other".
func pageStats(page *search.PageWindow, spec search.SortSpec) string {
	parts := []string{
		fmt.Sprintf("page %d/%d", page.PageIndex, page.LastPage()),
		fmt.Sprintf("%d results", page.TotalCount),
		spec.String(),
	}
	if countries := search.Countries(page.Items); len(countries) > 0 {
		parts = append(parts, strings.Join(countries, ", "))
	}
	return strings.Join(parts, " · ")
}

// printPage prints a page table followed by its stats line.
func printPage(w io.Writer, page *search.PageWindow, records []search.EnrichedRecord, spec search.SortSpec) {
	if len(records) == 0 {
		printInfo(w, "No results on this page")
	} else {
		fmt.Fprintln(w, renderRecords(records, -1))
	}
	printDetail(w, "%s", pageStats(page, spec))
	if n := unenriched(records); n > 0 {
		printWarning(w, "%d of %d repositories could not be looked up", n, len(records))
	}
}

func unenriched(records []search.EnrichedRecord) int {
	var n int
	for _, r := range records {
		if !r.Enriched {
			n++
		}
	}
	return n
}

// cacheStatus renders whether a value came from the cache.
func cacheStatus(cached bool) string {
	if cached {
		return styleCached.Render(iconCached)
	}
	return styleComputed.Render(iconFresh)
}
