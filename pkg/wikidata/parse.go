package wikidata

import (
	"strings"

	"github.com/soundprediction/wikibio/pkg/types"
)

// entityMarker is the namespace marker separating a resource URI from
// its entity identifier, e.g. http://www.wikidata.org/entity/Q2338559.
const entityMarker = "/entity/"

// QIDFromURI extracts the entity identifier from a resource URI: the
// substring after the last occurrence of the entity-namespace marker.
// It returns "" when the marker is absent, meaning the value is an
// external or untyped literal rather than a graph entity.
func QIDFromURI(uri string) string {
	idx := strings.LastIndex(uri, entityMarker)
	if idx < 0 {
		return ""
	}
	return uri[idx+len(entityMarker):]
}

// labeledValue combines an (id, label) variable pair from a row into a
// LabeledValue, or nil when the id variable is absent.
func labeledValue(b Binding, idVar, labelVar string) *types.LabeledValue {
	if !b.Has(idVar) {
		return nil
	}
	id := b.Value(idVar)
	return &types.LabeledValue{
		ID:    id,
		QID:   QIDFromURI(id),
		Label: b.Value(labelVar),
	}
}

// ParseCore projects the first row of a person-core result into
// CoreFacts. Variables absent from the row leave their field empty.
// An empty result set yields zero-valued CoreFacts.
func ParseCore(rows []Binding) types.CoreFacts {
	if len(rows) == 0 {
		return types.CoreFacts{}
	}
	b := rows[0]
	return types.CoreFacts{
		ID:           b.Value("item"),
		Label:        b.Value("itemLabel"),
		Description:  b.Value("itemDescription"),
		DateOfBirth:  b.Value("dateOfBirth"),
		PlaceOfBirth: labeledValue(b, "placeOfBirth", "placeOfBirthLabel"),
		DateOfDeath:  b.Value("dateOfDeath"),
		PlaceOfDeath: labeledValue(b, "placeOfDeath", "placeOfDeathLabel"),
		GivenName:    labeledValue(b, "givenName", "givenNameLabel"),
		FamilyName:   labeledValue(b, "familyName", "familyNameLabel"),
		NativeName:   b.Value("nativeName"),
		Gender:       labeledValue(b, "gender", "genderLabel"),
		Image:        b.Value("image"),
	}
}

// ParseLists groups person-list rows by their kind tag. Rows missing
// either the kind or the value variable are malformed and dropped, not
// errors. Deduplication is the caller's concern (pkg/bio).
func ParseLists(rows []Binding) types.ListsByKind {
	out := types.ListsByKind{}
	for _, b := range rows {
		kind := b.Value("kind")
		value := b.Value("value")
		if kind == "" || value == "" {
			continue
		}
		out[kind] = append(out[kind], types.LabeledValue{
			ID:    value,
			QID:   QIDFromURI(value),
			Label: b.Value("valueLabel"),
		})
	}
	return out
}

// ParseTimeline groups person-timeline rows by their kind tag, carrying
// the optional start/end/pointInTime qualifiers. Rows missing kind or
// value are dropped.
func ParseTimeline(rows []Binding) types.TimelineByKind {
	out := types.TimelineByKind{}
	for _, b := range rows {
		kind := b.Value("kind")
		value := b.Value("value")
		if kind == "" || value == "" {
			continue
		}
		out[kind] = append(out[kind], types.TimelineEntry{
			LabeledValue: types.LabeledValue{
				ID:    value,
				QID:   QIDFromURI(value),
				Label: b.Value("valueLabel"),
			},
			Start:       b.Value("start"),
			End:         b.Value("end"),
			PointInTime: b.Value("pointInTime"),
		})
	}
	return out
}
