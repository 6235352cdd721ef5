// Package summary turns a repository README into a short generated summary.
//
// A [Resolver] works through README candidates in order: the repository's
// default branch (when a detail lookup can supply it), then the configured
// fallback branches. Each candidate is one state of a small state machine:
//
//	Trying(branch) ──200──▶ Found      generate and cache the summary
//	      │
//	      ├──404──▶ Trying(next branch), or NotFound when none are left
//	      └──other─▶ Failed            error returned to the caller
//
// NotFound and an empty README both produce a [Summary] with NoSummary set,
// not an error.
//
// Summaries are produced by a [Generator]; [OpenAIGenerator] talks to any
// OpenAI-compatible chat completion endpoint. Results are cached through a
// [cache.Cache] keyed by repository, model and language.
//
// A [Session] gives each repository id one lazily started [Handle], so a UI
// can ask for the same summary repeatedly without restarting the work.
package summary
