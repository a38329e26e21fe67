package wikidata

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/soundprediction/wikibio/pkg/types"
)

// langTagPattern matches BCP 47-ish language tags. Language codes are
// interpolated into the label service clause, so anything else falls
// back to "en" rather than reaching the query text.
var langTagPattern = regexp.MustCompile(`^[a-zA-Z]{2,8}(-[a-zA-Z0-9]{1,8})*$`)

// labelLanguages returns the label-service language chain for a request
// language, always falling back to English.
func labelLanguages(language string) string {
	if !langTagPattern.MatchString(language) {
		return "en"
	}
	if language == "en" {
		return "en"
	}
	return language + ",en"
}

// BuildStatementQuery builds a SPARQL query selecting the statement
// value(s) of property on entity whose validity span overlaps the year
// window. A statement is included iff it has no start qualifier or
// starts before the window ends, and has no end qualifier or ends after
// the window starts. Results are ordered by statement start descending
// and truncated to the single most recent match, so the most recent
// overlapping statement wins.
func BuildStatementQuery(entity, property types.Identifier, year YearFilter, language string) (string, error) {
	if entity.IsZero() || entity.Kind() != types.Entity {
		return "", &types.ValidationError{Message: fmt.Sprintf("statement query needs an entity id, got %q", entity)}
	}
	if property.IsZero() || property.Kind() != types.Property {
		return "", &types.ValidationError{Message: fmt.Sprintf("statement query needs a property id, got %q", property)}
	}

	yearStart, yearEnd := year.boundsExprs()

	query := fmt.Sprintf(`
PREFIX wd: <http://www.wikidata.org/entity/>
PREFIX p: <http://www.wikidata.org/prop/>
PREFIX ps: <http://www.wikidata.org/prop/statement/>
PREFIX pq: <http://www.wikidata.org/prop/qualifier/>
PREFIX xsd: <http://www.w3.org/2001/XMLSchema#>
PREFIX wikibase: <http://wikiba.se/ontology#>
PREFIX bd: <http://www.bigdata.com/rdf#>

SELECT ?value ?valueLabel ?start ?end WHERE {
  wd:%[1]s p:%[2]s ?st .
  ?st ps:%[2]s ?value .

  OPTIONAL { ?st pq:P580 ?start . }
  OPTIONAL { ?st pq:P582 ?end . }

  BIND(%[3]s AS ?yearStart)
  BIND(%[4]s AS ?yearEnd)

  FILTER(!BOUND(?start) || ?start <= ?yearEnd)
  FILTER(!BOUND(?end)   || ?end   >= ?yearStart)

  SERVICE wikibase:label { bd:serviceParam wikibase:language "%[5]s". }
}
ORDER BY DESC(?start)
LIMIT 1`, entity, property, yearStart, yearEnd, labelLanguages(language))

	return strings.TrimSpace(query), nil
}

// BuildPersonCoreQuery builds the query for the fixed biographical
// attributes of a person: names, birth and death, gender, image.
func BuildPersonCoreQuery(entity types.Identifier, language string) (string, error) {
	if entity.IsZero() || entity.Kind() != types.Entity {
		return "", &types.ValidationError{Message: fmt.Sprintf("person query needs an entity id, got %q", entity)}
	}

	query := fmt.Sprintf(`
PREFIX wd: <http://www.wikidata.org/entity/>
PREFIX wdt: <http://www.wikidata.org/prop/direct/>
PREFIX wikibase: <http://wikiba.se/ontology#>
PREFIX bd: <http://www.bigdata.com/rdf#>

SELECT
  ?item ?itemLabel ?itemDescription
  ?dateOfBirth ?placeOfBirth ?placeOfBirthLabel
  ?dateOfDeath ?placeOfDeath ?placeOfDeathLabel
  ?givenName ?givenNameLabel
  ?familyName ?familyNameLabel
  ?nativeName
  ?gender ?genderLabel
  ?image
WHERE {
  BIND(wd:%[1]s AS ?item)

  OPTIONAL { ?item wdt:P569 ?dateOfBirth . }
  OPTIONAL { ?item wdt:P19  ?placeOfBirth . }
  OPTIONAL { ?item wdt:P570 ?dateOfDeath . }
  OPTIONAL { ?item wdt:P20  ?placeOfDeath . }

  OPTIONAL { ?item wdt:P735 ?givenName . }
  OPTIONAL { ?item wdt:P734 ?familyName . }
  OPTIONAL { ?item wdt:P1559 ?nativeName . }

  OPTIONAL { ?item wdt:P21 ?gender . }
  OPTIONAL { ?item wdt:P18 ?image . }

  SERVICE wikibase:label { bd:serviceParam wikibase:language "%[2]s" . }
}
LIMIT 1`, entity, labelLanguages(language))

	return strings.TrimSpace(query), nil
}

// listProperties maps each list kind to the direct property it reads.
// Order follows types.ListKinds.
var listProperties = map[string]string{
	"citizenship":     "P27",
	"occupation":      "P106",
	"field_of_work":   "P101",
	"language_spoken": "P1412",
	"award":           "P166",
	"notable_work":    "P800",
	"spouse":          "P26",
	"child":           "P40",
	"member_of":       "P463",
}

// BuildPersonListsQuery builds the query for the multi-valued list
// attributes of a person. Each UNION branch tags its rows with the kind
// name so results can be grouped.
func BuildPersonListsQuery(entity types.Identifier, language string) (string, error) {
	if entity.IsZero() || entity.Kind() != types.Entity {
		return "", &types.ValidationError{Message: fmt.Sprintf("person query needs an entity id, got %q", entity)}
	}

	var branches []string
	for _, kind := range types.ListKinds {
		branches = append(branches, fmt.Sprintf(`  {
    BIND("%s" AS ?kind)
    ?item wdt:%s ?value .
  }`, kind, listProperties[kind]))
	}

	query := fmt.Sprintf(`
PREFIX wd: <http://www.wikidata.org/entity/>
PREFIX wdt: <http://www.wikidata.org/prop/direct/>
PREFIX wikibase: <http://wikiba.se/ontology#>
PREFIX bd: <http://www.bigdata.com/rdf#>

SELECT ?kind ?value ?valueLabel WHERE {
  BIND(wd:%[1]s AS ?item)

%[2]s

  SERVICE wikibase:label { bd:serviceParam wikibase:language "%[3]s" . }
}`, entity, strings.Join(branches, "\n  UNION\n"), labelLanguages(language))

	return strings.TrimSpace(query), nil
}

// timelineProperties maps each timeline kind to the statement property
// it reads. head_coach_of is the inverse direction: teams whose head
// coach statement points at the person.
var timelineProperties = map[string]string{
	"position_held": "P39",
	"sports_team":   "P54",
	"coached_team":  "P6087",
	"head_coach_of": "P286",
	"employer":      "P108",
	"educated_at":   "P69",
}

// BuildPersonTimelineQuery builds the query for the time-qualified
// relationship attributes of a person. Each row carries its kind plus
// optional start (P580), end (P582), and point-in-time (P585)
// qualifiers.
func BuildPersonTimelineQuery(entity types.Identifier, language string) (string, error) {
	if entity.IsZero() || entity.Kind() != types.Entity {
		return "", &types.ValidationError{Message: fmt.Sprintf("person query needs an entity id, got %q", entity)}
	}

	var branches []string
	for _, kind := range types.TimelineKinds {
		prop := timelineProperties[kind]
		pattern := fmt.Sprintf("?item p:%[1]s ?stmt .\n    ?stmt ps:%[1]s ?value .", prop)
		if kind == "head_coach_of" {
			pattern = fmt.Sprintf("?value p:%[1]s ?stmt .\n    ?stmt ps:%[1]s ?item .", prop)
		}
		branches = append(branches, fmt.Sprintf(`  {
    BIND("%s" AS ?kind)
    %s
    OPTIONAL { ?stmt pq:P580 ?start . }
    OPTIONAL { ?stmt pq:P582 ?end . }
    OPTIONAL { ?stmt pq:P585 ?pointInTime . }
  }`, kind, pattern))
	}

	query := fmt.Sprintf(`
PREFIX wd: <http://www.wikidata.org/entity/>
PREFIX p: <http://www.wikidata.org/prop/>
PREFIX ps: <http://www.wikidata.org/prop/statement/>
PREFIX pq: <http://www.wikidata.org/prop/qualifier/>
PREFIX wikibase: <http://wikiba.se/ontology#>
PREFIX bd: <http://www.bigdata.com/rdf#>

SELECT ?kind ?value ?valueLabel ?start ?end ?pointInTime WHERE {
  BIND(wd:%[1]s AS ?item)

%[2]s

  SERVICE wikibase:label { bd:serviceParam wikibase:language "%[3]s" . }
}`, entity, strings.Join(branches, "\n  UNION\n"), labelLanguages(language))

	return strings.TrimSpace(query), nil
}
