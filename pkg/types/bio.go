package types

// Candidate is one ranked result from a Wikidata text search.
type Candidate struct {
	ID          Identifier `json:"id"`
	Label       string     `json:"label,omitempty"`
	Description string     `json:"description,omitempty"`
}

// LabeledValue is a reference to another graph node with a
// human-readable label. ID is the full resource URI; QID is the entity
// identifier extracted from the URI, or empty when the value is an
// external/untyped literal rather than a graph entity.
type LabeledValue struct {
	ID    string `json:"id"`
	QID   string `json:"qid,omitempty"`
	Label string `json:"label,omitempty"`
}

// TimelineEntry is a LabeledValue qualified with an optional validity
// interval (Start..End) or instant (PointInTime). Timestamps are kept in
// the raw WDQS form, e.g. "1972-01-05T00:00:00Z". All three may be empty
// for an open-ended or unknown fact.
type TimelineEntry struct {
	LabeledValue
	Start       string `json:"start,omitempty"`
	End         string `json:"end,omitempty"`
	PointInTime string `json:"pointInTime,omitempty"`
}

// CoreFacts holds the fixed-shape biographical attributes of a person.
// Any field may be absent.
type CoreFacts struct {
	ID           string        `json:"id,omitempty"`
	Label        string        `json:"label,omitempty"`
	Description  string        `json:"description,omitempty"`
	DateOfBirth  string        `json:"dateOfBirth,omitempty"`
	PlaceOfBirth *LabeledValue `json:"placeOfBirth,omitempty"`
	DateOfDeath  string        `json:"dateOfDeath,omitempty"`
	PlaceOfDeath *LabeledValue `json:"placeOfDeath,omitempty"`
	GivenName    *LabeledValue `json:"givenName,omitempty"`
	FamilyName   *LabeledValue `json:"familyName,omitempty"`
	NativeName   string        `json:"nativeName,omitempty"`
	Gender       *LabeledValue `json:"gender,omitempty"`
	Image        string        `json:"image,omitempty"`
}

// ListsByKind maps a list category to its values, deduplicated by ID
// with insertion order preserved.
type ListsByKind map[string][]LabeledValue

// TimelineByKind maps a timeline category to its entries, deduplicated
// by (id, start, end, pointInTime) and sorted chronologically.
type TimelineByKind map[string][]TimelineEntry

// ListKinds enumerates the multi-valued list categories fetched for a
// person, in query order.
var ListKinds = []string{
	"citizenship",
	"occupation",
	"field_of_work",
	"language_spoken",
	"award",
	"notable_work",
	"spouse",
	"child",
	"member_of",
}

// TimelineKinds enumerates the time-qualified relationship categories
// fetched for a person, in query order.
var TimelineKinds = []string{
	"position_held",
	"sports_team",
	"coached_team",
	"head_coach_of",
	"employer",
	"educated_at",
}

// Bio is the aggregate biography record. It is constructed fresh per
// request, owned by the caller, and never cached or mutated after
// construction.
type Bio struct {
	ID          string         `json:"id"`
	QID         Identifier     `json:"qid"`
	Label       string         `json:"label,omitempty"`
	Description string         `json:"description,omitempty"`
	Core        CoreFacts      `json:"core"`
	Lists       ListsByKind    `json:"lists"`
	Timeline    TimelineByKind `json:"timeline"`
	RAGText     string         `json:"rag_text"`
}
