package wikibio

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/soundprediction/wikibio/pkg/bio"
	"github.com/soundprediction/wikibio/pkg/types"
	"github.com/soundprediction/wikibio/pkg/wikidata"
)

// LookupRequest describes one end-to-end lookup: free-text entity and
// property mentions, an optional year (nil means the current year as
// evaluated by the query service), and a label language.
type LookupRequest struct {
	EntityText   string `json:"entity_text"`
	PropertyText string `json:"property_text"`
	Year         *int   `json:"year,omitempty"`
	Language     string `json:"language,omitempty"`
}

// LookupResult is the success outcome of a lookup: the subject's full
// biography plus the statement row that matched the year window.
type LookupResult struct {
	Bio       *types.Bio       `json:"bio"`
	Statement wikidata.Binding `json:"statement"`
}

// Lookup resolves the entity and property texts, finds the most recent
// statement of that property on that entity overlapping the requested
// year, extracts the statement's subject, and fetches the subject's
// full biography.
//
// A missing resolution, an empty statement result, or a non-entity
// statement value ends the lookup with ErrNotFound. Transport and parse
// failures propagate as-is; there is no fallback data source.
func (c *Client) Lookup(ctx context.Context, req LookupRequest) (*LookupResult, error) {
	language := req.Language
	if language == "" {
		language = c.config.Language
	}

	year := wikidata.CurrentYear()
	if req.Year != nil {
		var err error
		if year, err = wikidata.YearOf(*req.Year); err != nil {
			return nil, err
		}
	}

	// Entity and property resolution are independent of each other.
	var (
		entity, property     types.Identifier
		entityOK, propertyOK bool
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		entity, entityOK, err = c.resolver.ResolveEntity(gctx, req.EntityText, language)
		return err
	})
	g.Go(func() error {
		var err error
		property, propertyOK, err = c.resolver.ResolveProperty(gctx, req.PropertyText, language)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("resolving %q / %q: %w", req.EntityText, req.PropertyText, err)
	}
	if !entityOK || !propertyOK {
		c.logger.Info("lookup text did not resolve",
			"entity_text", req.EntityText, "entity_found", entityOK,
			"property_text", req.PropertyText, "property_found", propertyOK)
		return nil, ErrNotFound
	}

	query, err := wikidata.BuildStatementQuery(entity, property, year, language)
	if err != nil {
		return nil, err
	}
	rows, err := c.executor.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("statement query for %s/%s: %w", entity, property, err)
	}
	if len(rows) == 0 {
		c.logger.Info("no statement matched", "entity", entity.String(), "property", property.String())
		return nil, ErrNotFound
	}

	// The query orders by statement start descending with LIMIT 1, so
	// the first row is the most recent matching statement.
	statement := rows[0]
	qid := wikidata.QIDFromURI(statement.Value("value"))
	if qid == "" {
		c.logger.Info("statement value is not a graph entity", "value", statement.Value("value"))
		return nil, ErrNotFound
	}
	subject, err := types.NewIdentifier(qid, types.Entity)
	if err != nil {
		return nil, ErrNotFound
	}

	b, err := c.FetchBio(ctx, subject, language)
	if err != nil {
		return nil, err
	}
	return &LookupResult{Bio: b, Statement: statement}, nil
}

// FetchBio fetches and assembles the full biography of a person or
// organization. The three person queries (core, lists, timeline) are
// independent and run concurrently; the fetch fails as a whole if any
// one fails, cancelling its siblings, and never returns a partial Bio.
func (c *Client) FetchBio(ctx context.Context, entity types.Identifier, language string) (*types.Bio, error) {
	if language == "" {
		language = c.config.Language
	}

	coreQuery, err := wikidata.BuildPersonCoreQuery(entity, language)
	if err != nil {
		return nil, err
	}
	listsQuery, err := wikidata.BuildPersonListsQuery(entity, language)
	if err != nil {
		return nil, err
	}
	timelineQuery, err := wikidata.BuildPersonTimelineQuery(entity, language)
	if err != nil {
		return nil, err
	}

	var coreRows, listRows, timelineRows []wikidata.Binding
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		coreRows, err = c.executor.Query(gctx, coreQuery)
		return err
	})
	g.Go(func() error {
		var err error
		listRows, err = c.executor.Query(gctx, listsQuery)
		return err
	})
	g.Go(func() error {
		var err error
		timelineRows, err = c.executor.Query(gctx, timelineQuery)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("biography queries for %s: %w", entity, err)
	}

	core := wikidata.ParseCore(coreRows)
	lists := wikidata.ParseLists(listRows)
	timeline := wikidata.ParseTimeline(timelineRows)

	return bio.Assemble(entity, core, lists, timeline), nil
}
