package bio

import (
	"reflect"
	"testing"

	"github.com/soundprediction/wikibio/pkg/types"
)

func lv(id, label string) types.LabeledValue {
	return types.LabeledValue{ID: id, Label: label}
}

func TestDedupeListKeepsFirstOccurrence(t *testing.T) {
	in := []types.LabeledValue{
		lv("Q1", "first label"),
		lv("Q2", "other"),
		lv("Q1", "second label"),
		lv("Q3", "third"),
		lv("Q2", "again"),
	}

	out := DedupeList(in)
	want := []types.LabeledValue{
		lv("Q1", "first label"),
		lv("Q2", "other"),
		lv("Q3", "third"),
	}
	if !reflect.DeepEqual(out, want) {
		t.Errorf("DedupeList = %+v, want %+v", out, want)
	}
}

func TestDedupeListEmpty(t *testing.T) {
	if out := DedupeList(nil); len(out) != 0 {
		t.Errorf("DedupeList(nil) = %+v", out)
	}
}

func entry(id, label, start, end, pit string) types.TimelineEntry {
	return types.TimelineEntry{
		LabeledValue: types.LabeledValue{ID: id, Label: label},
		Start:        start,
		End:          end,
		PointInTime:  pit,
	}
}

func TestDedupeTimelineCompositeKey(t *testing.T) {
	in := []types.TimelineEntry{
		entry("Q1", "spell one", "2010-07-01T00:00:00Z", "2012-06-30T00:00:00Z", ""),
		// Same value, different dates: a distinct fact, kept.
		entry("Q1", "spell two", "2015-07-01T00:00:00Z", "", ""),
		// Exact duplicate of the first: dropped.
		entry("Q1", "spell one", "2010-07-01T00:00:00Z", "2012-06-30T00:00:00Z", ""),
	}

	out := DedupeTimeline(in)
	if len(out) != 2 {
		t.Fatalf("got %d entries, want 2", len(out))
	}
	if out[0].Label != "spell one" || out[1].Label != "spell two" {
		t.Errorf("entries = %+v", out)
	}
}

func TestSortTimelineChronological(t *testing.T) {
	in := []types.TimelineEntry{
		entry("Q3", "undated", "", "", ""),
		entry("Q2", "recent", "2016-07-01T00:00:00Z", "", ""),
		entry("Q1", "old", "1990-07-01T00:00:00Z", "2001-06-30T00:00:00Z", ""),
		entry("Q4", "instant", "", "", "1995-01-01T00:00:00Z"),
	}

	out := SortTimeline(in)
	var gotLabels []string
	for _, e := range out {
		gotLabels = append(gotLabels, e.Label)
	}
	// Start is the primary key. Entries without one fall back to
	// point in time, and fully undated entries land at the end.
	want := []string{"old", "recent", "instant", "undated"}
	if !reflect.DeepEqual(gotLabels, want) {
		t.Errorf("order = %v, want %v", gotLabels, want)
	}
}

func TestSortTimelineUndatedAlwaysLast(t *testing.T) {
	in := []types.TimelineEntry{
		entry("Q1", "aaa first alphabetically", "", "", ""),
		entry("Q2", "zzz but dated", "2020-01-01T00:00:00Z", "", ""),
	}
	out := SortTimeline(in)
	if out[0].Label != "zzz but dated" {
		t.Errorf("undated entry sorted before dated entry: %+v", out)
	}
}

func TestSortTimelineTieBreaksOnLabel(t *testing.T) {
	in := []types.TimelineEntry{
		entry("Q2", "beta", "", "", ""),
		entry("Q1", "alpha", "", "", ""),
		entry("Q3", "gamma", "", "", ""),
	}
	out := SortTimeline(in)
	var gotLabels []string
	for _, e := range out {
		gotLabels = append(gotLabels, e.Label)
	}
	want := []string{"alpha", "beta", "gamma"}
	if !reflect.DeepEqual(gotLabels, want) {
		t.Errorf("order = %v, want %v", gotLabels, want)
	}
}

func TestSortTimelineDeterministic(t *testing.T) {
	build := func() []types.TimelineEntry {
		return []types.TimelineEntry{
			entry("Q5", "e", "2001-01-01T00:00:00Z", "", ""),
			entry("Q4", "d", "", "", "1999-06-01T00:00:00Z"),
			entry("Q3", "c", "", "2005-01-01T00:00:00Z", ""),
			entry("Q2", "b", "", "", ""),
			entry("Q1", "a", "2001-01-01T00:00:00Z", "", ""),
		}
	}
	first := SortTimeline(build())
	for i := 0; i < 10; i++ {
		if got := SortTimeline(build()); !reflect.DeepEqual(got, first) {
			t.Fatalf("sort is not deterministic: %+v vs %+v", got, first)
		}
	}
}
