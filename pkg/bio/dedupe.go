package bio

import (
	"sort"
	"time"

	"github.com/soundprediction/wikibio/pkg/types"
)

// DedupeList removes duplicate values by ID, keeping the first
// occurrence and preserving relative order otherwise. Two values with
// the same ID but different labels collapse to one entry retaining the
// first-seen label.
func DedupeList(items []types.LabeledValue) []types.LabeledValue {
	seen := make(map[string]bool, len(items))
	out := make([]types.LabeledValue, 0, len(items))
	for _, it := range items {
		if seen[it.ID] {
			continue
		}
		seen[it.ID] = true
		out = append(out, it)
	}
	return out
}

// timelineKey is the composite identity of a timeline entry. Two
// entries referencing the same value under different date qualifiers
// are distinct facts, not duplicates.
type timelineKey struct {
	id, start, end, pointInTime string
}

// DedupeTimeline removes duplicate entries by (id, start, end,
// pointInTime), keeping the first occurrence.
func DedupeTimeline(entries []types.TimelineEntry) []types.TimelineEntry {
	seen := make(map[timelineKey]bool, len(entries))
	out := make([]types.TimelineEntry, 0, len(entries))
	for _, e := range entries {
		k := timelineKey{e.ID, e.Start, e.End, e.PointInTime}
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, e)
	}
	return out
}

// maxTimestamp is the sentinel for missing dates so undated entries
// sort after every dated one.
var maxTimestamp = time.Unix(1<<62-1, 0).UTC()

// parseTimestamp parses a WDQS timestamp like "1972-01-05T00:00:00Z".
// Unparseable or empty values report false.
func parseTimestamp(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// timeOrMax substitutes the sentinel for a missing or unparseable date.
func timeOrMax(s string) time.Time {
	if t, ok := parseTimestamp(s); ok {
		return t
	}
	return maxTimestamp
}

// SortTimeline orders entries chronologically by the key
// (start, pointInTime, end, label) ascending, with missing dates
// replaced by a maximal sentinel. Entries with no date information of
// any kind therefore sort last; remaining ties break on label text.
// The sort is stable and deterministic for a given input. The slice is
// sorted in place and returned.
func SortTimeline(entries []types.TimelineEntry) []types.TimelineEntry {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if as, bs := timeOrMax(a.Start), timeOrMax(b.Start); !as.Equal(bs) {
			return as.Before(bs)
		}
		if ap, bp := timeOrMax(a.PointInTime), timeOrMax(b.PointInTime); !ap.Equal(bp) {
			return ap.Before(bp)
		}
		if ae, be := timeOrMax(a.End), timeOrMax(b.End); !ae.Equal(be) {
			return ae.Before(be)
		}
		return a.Label < b.Label
	})
	return entries
}
