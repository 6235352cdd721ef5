package search

import (
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	perrors "github.com/takeruhukushima/publiccodelooks/pkg/errors"
)

// ApplyTextFilter keeps records whose repository id or path contains needle,
// ignoring case. An empty needle returns records unchanged. The input slice
// is never modified.
func ApplyTextFilter(records []EnrichedRecord, needle string) []EnrichedRecord {
	if needle == "" {
		return records
	}
	needle = strings.ToLower(needle)

	out := make([]EnrichedRecord, 0, len(records))
	for _, r := range records {
		if strings.Contains(strings.ToLower(r.RepositoryID), needle) ||
			strings.Contains(strings.ToLower(r.Path), needle) {
			out = append(out, r)
		}
	}
	return out
}

// ApplyPathGlob keeps records whose manifest path matches pattern, for
// example "publiccode.yml" for root manifests or "**/apps/*/publiccode.yml".
// An empty pattern returns records unchanged.
func ApplyPathGlob(records []EnrichedRecord, pattern string) ([]EnrichedRecord, error) {
	if pattern == "" {
		return records, nil
	}
	if !doublestar.ValidatePattern(pattern) {
		return nil, perrors.New(perrors.ErrCodeInvalidInput, "invalid path pattern %q", pattern)
	}

	out := make([]EnrichedRecord, 0, len(records))
	for _, r := range records {
		if ok, _ := doublestar.Match(pattern, r.Path); ok {
			out = append(out, r)
		}
	}
	return out, nil
}
