package types

import (
	"encoding/json"
	"fmt"
	"regexp"
)

// IdentifierKind distinguishes Wikidata item identifiers from property
// identifiers.
type IdentifierKind string

const (
	// Entity is a Wikidata item identifier ("Q..." ids).
	Entity IdentifierKind = "entity"
	// Property is a Wikidata property identifier ("P..." ids).
	Property IdentifierKind = "property"
)

var (
	entityIDPattern   = regexp.MustCompile(`^Q\d+$`)
	propertyIDPattern = regexp.MustCompile(`^P\d+$`)
)

// Identifier is an immutable, validated Wikidata identifier. The zero
// value is invalid; identifiers are only constructed through
// NewIdentifier, so any non-zero Identifier is guaranteed to match its
// kind's pattern and is safe to interpolate into generated SPARQL.
type Identifier struct {
	value string
	kind  IdentifierKind
}

// NewIdentifier validates raw against the pattern for kind and returns
// the identifier. Matching is case-sensitive: "q42" is rejected.
func NewIdentifier(raw string, kind IdentifierKind) (Identifier, error) {
	var pattern *regexp.Regexp
	switch kind {
	case Entity:
		pattern = entityIDPattern
	case Property:
		pattern = propertyIDPattern
	default:
		return Identifier{}, &ValidationError{Message: fmt.Sprintf("unknown identifier kind: %q", kind)}
	}

	if !pattern.MatchString(raw) {
		return Identifier{}, &ValidationError{Message: fmt.Sprintf("invalid %s id: %q", kind, raw)}
	}
	return Identifier{value: raw, kind: kind}, nil
}

// MustIdentifier is a NewIdentifier that panics on invalid input. It is
// intended for constants and tests.
func MustIdentifier(raw string, kind IdentifierKind) Identifier {
	id, err := NewIdentifier(raw, kind)
	if err != nil {
		panic(err)
	}
	return id
}

// String returns the raw identifier, e.g. "Q42" or "P286".
func (id Identifier) String() string {
	return id.value
}

// Kind reports whether the identifier names an entity or a property.
func (id Identifier) Kind() IdentifierKind {
	return id.kind
}

// IsZero reports whether the identifier is the (invalid) zero value.
func (id Identifier) IsZero() bool {
	return id.value == ""
}

// MarshalJSON encodes the identifier as its raw string form.
func (id Identifier) MarshalJSON() ([]byte, error) {
	return json.Marshal(id.value)
}
