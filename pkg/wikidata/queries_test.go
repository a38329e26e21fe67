package wikidata

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/soundprediction/wikibio/pkg/types"
)

func TestBuildStatementQueryFixedYear(t *testing.T) {
	entity := types.MustIdentifier("Q50602", types.Entity)
	property := types.MustIdentifier("P286", types.Property)

	year, err := YearOf(2017)
	if err != nil {
		t.Fatalf("YearOf(2017) failed: %v", err)
	}

	query, err := BuildStatementQuery(entity, property, year, "en")
	if err != nil {
		t.Fatalf("BuildStatementQuery failed: %v", err)
	}

	for _, want := range []string{
		`wd:Q50602 p:P286 ?st .`,
		`?st ps:P286 ?value .`,
		`xsd:dateTime("2017-01-01T00:00:00Z")`,
		`xsd:dateTime("2017-12-31T23:59:59Z")`,
		`FILTER(!BOUND(?start) || ?start <= ?yearEnd)`,
		`FILTER(!BOUND(?end)   || ?end   >= ?yearStart)`,
		`ORDER BY DESC(?start)`,
		`LIMIT 1`,
	} {
		if !strings.Contains(query, want) {
			t.Errorf("query missing %q:\n%s", want, query)
		}
	}
	if strings.Contains(query, "NOW()") {
		t.Error("fixed-year query should not use a dynamic current-time expression")
	}
}

func TestBuildStatementQueryCurrentYear(t *testing.T) {
	entity := types.MustIdentifier("Q50602", types.Entity)
	property := types.MustIdentifier("P286", types.Property)

	query, err := BuildStatementQuery(entity, property, CurrentYear(), "en")
	if err != nil {
		t.Fatalf("BuildStatementQuery failed: %v", err)
	}

	if !strings.Contains(query, `CONCAT(STR(YEAR(NOW())), "-01-01T00:00:00Z")`) {
		t.Errorf("current-year query missing dynamic window start:\n%s", query)
	}
	if strings.Contains(query, `"2017-01-01`) {
		t.Error("current-year query should not embed literal bounds")
	}
}

func TestYearOfRange(t *testing.T) {
	tests := []struct {
		year    int
		wantErr bool
	}{
		{999, true},
		{1000, false},
		{1850, false},
		{time.Now().Year(), false},
		{time.Now().Year() + 1, true},
		{-50, true},
	}
	for _, tt := range tests {
		_, err := YearOf(tt.year)
		if tt.wantErr {
			if err == nil {
				t.Errorf("YearOf(%d) succeeded, want error", tt.year)
			} else if !errors.Is(err, &types.ValidationError{}) {
				t.Errorf("YearOf(%d) error = %v, want ValidationError", tt.year, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("YearOf(%d) failed: %v", tt.year, err)
		}
	}
}

func TestBuildStatementQueryKindMismatch(t *testing.T) {
	entity := types.MustIdentifier("Q42", types.Entity)
	property := types.MustIdentifier("P286", types.Property)

	if _, err := BuildStatementQuery(property, property, CurrentYear(), "en"); err == nil {
		t.Error("property in entity position should fail")
	}
	if _, err := BuildStatementQuery(entity, entity, CurrentYear(), "en"); err == nil {
		t.Error("entity in property position should fail")
	}
	if _, err := BuildStatementQuery(types.Identifier{}, property, CurrentYear(), "en"); err == nil {
		t.Error("zero entity should fail")
	}
}

func TestBuildPersonCoreQuery(t *testing.T) {
	entity := types.MustIdentifier("Q2338559", types.Entity)

	query, err := BuildPersonCoreQuery(entity, "de")
	if err != nil {
		t.Fatalf("BuildPersonCoreQuery failed: %v", err)
	}

	for _, want := range []string{
		"BIND(wd:Q2338559 AS ?item)",
		"wdt:P569 ?dateOfBirth",
		"wdt:P19  ?placeOfBirth",
		"wdt:P570 ?dateOfDeath",
		"wdt:P21 ?gender",
		`wikibase:language "de,en"`,
		"LIMIT 1",
	} {
		if !strings.Contains(query, want) {
			t.Errorf("core query missing %q", want)
		}
	}
}

func TestBuildPersonListsQueryCoversAllKinds(t *testing.T) {
	entity := types.MustIdentifier("Q42", types.Entity)

	query, err := BuildPersonListsQuery(entity, "en")
	if err != nil {
		t.Fatalf("BuildPersonListsQuery failed: %v", err)
	}

	for _, kind := range types.ListKinds {
		if !strings.Contains(query, `BIND("`+kind+`" AS ?kind)`) {
			t.Errorf("lists query missing kind %q", kind)
		}
	}
	if got := strings.Count(query, "UNION"); got != len(types.ListKinds)-1 {
		t.Errorf("lists query has %d UNIONs, want %d", got, len(types.ListKinds)-1)
	}
}

func TestBuildPersonTimelineQueryCoversAllKinds(t *testing.T) {
	entity := types.MustIdentifier("Q42", types.Entity)

	query, err := BuildPersonTimelineQuery(entity, "en")
	if err != nil {
		t.Fatalf("BuildPersonTimelineQuery failed: %v", err)
	}

	for _, kind := range types.TimelineKinds {
		if !strings.Contains(query, `BIND("`+kind+`" AS ?kind)`) {
			t.Errorf("timeline query missing kind %q", kind)
		}
	}
	// head_coach_of is the inverse direction: the statement hangs off
	// the team, pointing at the person.
	if !strings.Contains(query, "?value p:P286 ?stmt") || !strings.Contains(query, "?stmt ps:P286 ?item") {
		t.Error("timeline query missing inverse head_coach_of pattern")
	}
	for _, qualifier := range []string{"pq:P580 ?start", "pq:P582 ?end", "pq:P585 ?pointInTime"} {
		if !strings.Contains(query, qualifier) {
			t.Errorf("timeline query missing qualifier pattern %q", qualifier)
		}
	}
}

func TestLabelLanguages(t *testing.T) {
	tests := []struct {
		language string
		want     string
	}{
		{"en", "en"},
		{"de", "de,en"},
		{"pt-BR", "pt-BR,en"},
		{"", "en"},
		{`de". } INSERT`, "en"},
		{"a b", "en"},
	}
	for _, tt := range tests {
		if got := labelLanguages(tt.language); got != tt.want {
			t.Errorf("labelLanguages(%q) = %q, want %q", tt.language, got, tt.want)
		}
	}
}
