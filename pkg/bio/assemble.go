package bio

import (
	"fmt"
	"strings"

	"github.com/soundprediction/wikibio/pkg/types"
)

// maxEntriesPerLine caps how many timeline entries one rag_text line
// lists.
const maxEntriesPerLine = 30

// Assemble composes parsed core, list, and timeline data into one Bio.
// Lists are deduplicated by ID; timelines are deduplicated by composite
// key and sorted chronologically. The record's identity falls back to
// the resolved qid when the core query returned no row.
func Assemble(qid types.Identifier, core types.CoreFacts, lists types.ListsByKind, timeline types.TimelineByKind) *types.Bio {
	dedupedLists := types.ListsByKind{}
	for kind, items := range lists {
		dedupedLists[kind] = DedupeList(items)
	}

	dedupedTimeline := types.TimelineByKind{}
	for kind, entries := range timeline {
		dedupedTimeline[kind] = SortTimeline(DedupeTimeline(entries))
	}

	id := core.ID
	if id == "" {
		id = qid.String()
	}

	b := &types.Bio{
		ID:          id,
		QID:         qid,
		Label:       core.Label,
		Description: core.Description,
		Core:        core,
		Lists:       dedupedLists,
		Timeline:    dedupedTimeline,
	}
	b.RAGText = RenderRAGText(b)
	return b
}

// ragTimelineKinds lists the timeline categories rendered into
// rag_text, in their fixed output order.
var ragTimelineKinds = []string{"position_held", "sports_team", "employer", "educated_at"}

// RenderRAGText flattens a Bio into a newline-joined, human-readable
// summary: name, description, birth, death, selected lists, then
// selected timelines. Lines whose underlying data is fully absent are
// omitted rather than emitted blank.
func RenderRAGText(b *types.Bio) string {
	core := b.Core

	labels := func(kind string) []string {
		var out []string
		for _, v := range b.Lists[kind] {
			if v.Label != "" {
				out = append(out, v.Label)
			}
		}
		return out
	}

	var lines []string
	if core.Label != "" {
		lines = append(lines, "Name: "+core.Label)
	}
	if core.Description != "" {
		lines = append(lines, "Description: "+core.Description)
	}

	if line := lifeEventLine("Born", core.DateOfBirth, core.PlaceOfBirth); line != "" {
		lines = append(lines, line)
	}
	if line := lifeEventLine("Died", core.DateOfDeath, core.PlaceOfDeath); line != "" {
		lines = append(lines, line)
	}

	if vals := labels("citizenship"); len(vals) > 0 {
		lines = append(lines, "Citizenship: "+strings.Join(vals, "; "))
	}
	if vals := labels("occupation"); len(vals) > 0 {
		lines = append(lines, "Occupation: "+strings.Join(vals, "; "))
	}
	if vals := labels("award"); len(vals) > 0 {
		lines = append(lines, "Awards: "+strings.Join(vals, "; "))
	}
	if vals := labels("notable_work"); len(vals) > 0 {
		lines = append(lines, "Notable works: "+strings.Join(vals, "; "))
	}

	for _, kind := range ragTimelineKinds {
		entries := b.Timeline[kind]
		if len(entries) == 0 {
			continue
		}
		if len(entries) > maxEntriesPerLine {
			entries = entries[:maxEntriesPerLine]
		}
		var formatted []string
		for _, e := range entries {
			if s := e.Label + formatSpan(e.Start, e.End, e.PointInTime); s != "" {
				formatted = append(formatted, s)
			}
		}
		if len(formatted) > 0 {
			lines = append(lines, kind+": "+strings.Join(formatted, "; "))
		}
	}

	return strings.Join(lines, "\n")
}

// lifeEventLine renders a "Born:"/"Died:" line from a date and a place.
// The line is included if either part is present.
func lifeEventLine(verb, date string, place *types.LabeledValue) string {
	placeLabel := ""
	if place != nil {
		placeLabel = place.Label
	}
	switch {
	case date != "" && placeLabel != "":
		return fmt.Sprintf("%s: %s in %s", verb, date, placeLabel)
	case date != "":
		return fmt.Sprintf("%s: %s", verb, date)
	case placeLabel != "":
		return fmt.Sprintf("%s: in %s", verb, placeLabel)
	}
	return ""
}

// year extracts the leading YYYY from a WDQS timestamp, or "" when the
// timestamp is empty or too short.
func year(ts string) string {
	if len(ts) < 4 {
		return ""
	}
	return ts[:4]
}

// formatSpan renders the date qualifier suffix for a timeline entry:
// " (YYYY)" for a point-in-time-only entry, " (YYYY–YYYY)" for an
// interval with either side possibly unknown, and "" when no date
// information exists.
func formatSpan(start, end, pointInTime string) string {
	if pointInTime != "" && start == "" && end == "" {
		if y := year(pointInTime); y != "" {
			return fmt.Sprintf(" (%s)", y)
		}
		return ""
	}
	if start != "" || end != "" {
		return fmt.Sprintf(" (%s–%s)", year(start), year(end))
	}
	return ""
}
