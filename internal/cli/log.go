// Package cli implements the publiccodelooks command-line interface.
//
// The CLI searches GitHub for publiccode.yml manifests, enriches each hit
// with repository details, and renders the result as a table, JSON, or an
// interactive browser. It is built with cobra and logs through
// charmbracelet/log.
//
// # Commands
//
//   - search: Fetch and print one enriched result page
//   - crawl: Fetch every page of a query with a progress bar
//   - browse: Page through results interactively
//   - summary: Summarize repository READMEs
//   - manifest: Show a repository's publiccode.yml
//   - serve: Run the HTTP API
//   - cache: Manage the summary cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Results go
// to stdout and logs to stderr, so output can be piped.
package cli

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a new logger with timestamp formatting.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress tracks the start time of an operation and logs completion with elapsed duration.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time, e.g. "Crawled 12 pages (8.412s)".
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}
