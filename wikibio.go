package wikibio

import (
	"context"
	"errors"
	"log/slog"

	"github.com/soundprediction/wikibio/pkg/types"
	"github.com/soundprediction/wikibio/pkg/wikidata"
)

// Resolver turns free-text mentions into Wikidata identifiers. The
// boolean result is false when no candidate matched, which is an
// expected outcome rather than an error.
type Resolver interface {
	ResolveEntity(ctx context.Context, text, language string) (types.Identifier, bool, error)
	ResolveProperty(ctx context.Context, text, language string) (types.Identifier, bool, error)
}

// Executor runs a SPARQL query and returns the raw result rows.
type Executor interface {
	Query(ctx context.Context, query string) ([]wikidata.Binding, error)
}

// ErrNotFound is the soft outcome of a lookup that could not proceed:
// no search candidate for the entity or property text, no statement
// matching the year window, or a statement whose value is not a graph
// entity. Callers should map it to a clarifying question, not a
// failure.
var ErrNotFound = errors.New("no matching statement found")

// Config holds configuration for the wikibio client.
type Config struct {
	// Language is the label language requested from Wikidata; English
	// is always the fallback.
	Language string
}

// Client ties resolver, query builder, executor, parser, and assembler
// together. All lookup state is request-scoped and threaded through the
// call chain, so a single Client is safe for concurrent lookups.
type Client struct {
	resolver Resolver
	executor Executor
	config   *Config
	logger   *slog.Logger
}

// NewClient creates a new wikibio client. resolver and executor are
// typically both the same *wikidata.Client, optionally with the
// executor wrapped in a wikidata.BreakerExecutor.
func NewClient(resolver Resolver, executor Executor, config *Config, logger *slog.Logger) *Client {
	if config == nil {
		config = &Config{}
	}
	if config.Language == "" {
		config.Language = "en"
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		resolver: resolver,
		executor: executor,
		config:   config,
		logger:   logger,
	}
}
