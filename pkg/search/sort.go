package search

import (
	"cmp"
	"slices"
)

// SortRecords returns a copy of records ordered by spec.
//
// Stars and forks sort stably, so ties keep their search order. Relevance
// returns the input order unchanged whatever the requested order.
func SortRecords(records []EnrichedRecord, spec SortSpec) []EnrichedRecord {
	out := slices.Clone(records)

	var field func(EnrichedRecord) int
	switch spec.Key {
	case SortStars:
		field = func(r EnrichedRecord) int { return r.StarCount }
	case SortForks:
		field = func(r EnrichedRecord) int { return r.ForkCount }
	default:
		return out
	}

	desc := spec.Order != Ascending
	slices.SortStableFunc(out, func(a, b EnrichedRecord) int {
		if desc {
			return cmp.Compare(field(b), field(a))
		}
		return cmp.Compare(field(a), field(b))
	})
	return out
}
