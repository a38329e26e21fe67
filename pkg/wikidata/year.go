package wikidata

import (
	"fmt"
	"time"

	"github.com/soundprediction/wikibio/pkg/types"
)

// MinYear is the earliest year accepted by a fixed YearFilter.
const MinYear = 1000

// YearFilter selects the year window a statement query filters on:
// either a fixed year, validated at construction, or the current year
// evaluated by the query service at execution time.
type YearFilter struct {
	year    int
	dynamic bool
}

// YearOf returns a filter for a fixed year. Years outside
// [MinYear, current year] are rejected with a ValidationError.
func YearOf(year int) (YearFilter, error) {
	maxYear := time.Now().Year()
	if year < MinYear || year > maxYear {
		return YearFilter{}, &types.ValidationError{
			Message: fmt.Sprintf("invalid year: %d, expected range %d..%d", year, MinYear, maxYear),
		}
	}
	return YearFilter{year: year}, nil
}

// CurrentYear returns a filter that lets WDQS compute the window from
// its own current time.
func CurrentYear() YearFilter {
	return YearFilter{dynamic: true}
}

// boundsExprs returns the SPARQL expressions for the start and end of
// the year window. A fixed year produces constant timestamps; the
// dynamic filter produces YEAR(NOW())-based expressions.
func (f YearFilter) boundsExprs() (start, end string) {
	if f.dynamic {
		return `xsd:dateTime(CONCAT(STR(YEAR(NOW())), "-01-01T00:00:00Z"))`,
			`xsd:dateTime(CONCAT(STR(YEAR(NOW())), "-12-31T23:59:59Z"))`
	}
	return fmt.Sprintf(`xsd:dateTime("%d-01-01T00:00:00Z")`, f.year),
		fmt.Sprintf(`xsd:dateTime("%d-12-31T23:59:59Z")`, f.year)
}
