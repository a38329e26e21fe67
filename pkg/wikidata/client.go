package wikidata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/soundprediction/wikibio/pkg/types"
)

const (
	// DefaultAPIURL is the Wikidata action API endpoint used for text search.
	DefaultAPIURL = "https://www.wikidata.org/w/api.php"
	// DefaultSPARQLURL is the Wikidata Query Service endpoint.
	DefaultSPARQLURL = "https://query.wikidata.org/sparql"
	// DefaultUserAgent identifies this client to the Wikimedia services,
	// which require a descriptive User-Agent.
	DefaultUserAgent = "wikibio/1.0 (https://github.com/soundprediction/wikibio)"
	// DefaultTimeout bounds each transport call.
	DefaultTimeout = 30 * time.Second
)

// Client talks to the Wikidata search and query endpoints. Each call
// opens its own request-scoped transport session; nothing is cached
// between calls.
type Client struct {
	apiURL     string
	sparqlURL  string
	userAgent  string
	httpClient *http.Client
	logger     *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithAPIURL overrides the search endpoint.
func WithAPIURL(u string) Option {
	return func(c *Client) { c.apiURL = u }
}

// WithSPARQLURL overrides the query endpoint.
func WithSPARQLURL(u string) Option {
	return func(c *Client) { c.sparqlURL = u }
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// WithTimeout overrides the per-call transport timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.httpClient = h }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// NewClient returns a Client for the public Wikidata endpoints.
func NewClient(opts ...Option) *Client {
	c := &Client{
		apiURL:     DefaultAPIURL,
		sparqlURL:  DefaultSPARQLURL,
		userAgent:  DefaultUserAgent,
		httpClient: &http.Client{Timeout: DefaultTimeout},
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// searchResponse is the wbsearchentities response envelope.
type searchResponse struct {
	Search []struct {
		ID          string `json:"id"`
		Label       string `json:"label"`
		Description string `json:"description"`
	} `json:"search"`
}

// searchType maps an identifier kind to the wbsearchentities type
// parameter.
func searchType(kind types.IdentifierKind) string {
	if kind == types.Property {
		return "property"
	}
	return "item"
}

// Search performs a text search against the wbsearchentities endpoint
// and returns ranked candidates. An empty match set returns an empty
// slice, not an error; transport failures and malformed bodies surface
// as UpstreamError. Candidates whose id does not parse as the requested
// kind are skipped.
func (c *Client) Search(ctx context.Context, text string, kind types.IdentifierKind, language string, limit int) ([]types.Candidate, error) {
	if limit <= 0 {
		limit = 5
	}

	params := url.Values{}
	params.Set("action", "wbsearchentities")
	params.Set("format", "json")
	params.Set("search", text)
	params.Set("language", language)
	params.Set("languagefallback", "1")
	params.Set("limit", strconv.Itoa(limit))
	params.Set("type", searchType(kind))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create search request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &UpstreamError{Endpoint: "search", Message: err.Error()}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &UpstreamError{Endpoint: "search", Message: err.Error()}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &UpstreamError{Endpoint: "search", StatusCode: resp.StatusCode, Message: truncate(string(body), 200)}
	}

	var parsed searchResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, &UpstreamError{Endpoint: "search", Message: fmt.Sprintf("malformed response body: %v", err)}
	}

	candidates := make([]types.Candidate, 0, len(parsed.Search))
	for _, s := range parsed.Search {
		id, err := types.NewIdentifier(s.ID, kind)
		if err != nil {
			c.logger.Warn("skipping search candidate with unexpected id", "id", s.ID, "kind", kind)
			continue
		}
		candidates = append(candidates, types.Candidate{
			ID:          id,
			Label:       s.Label,
			Description: s.Description,
		})
	}
	return candidates, nil
}

// ResolveEntity resolves free text to the top-ranked entity identifier.
// The second return value is false when no candidate matched; that is an
// expected outcome, not an error.
func (c *Client) ResolveEntity(ctx context.Context, text, language string) (types.Identifier, bool, error) {
	return c.resolve(ctx, text, types.Entity, language)
}

// ResolveProperty resolves free text to the top-ranked property
// identifier.
func (c *Client) ResolveProperty(ctx context.Context, text, language string) (types.Identifier, bool, error) {
	return c.resolve(ctx, text, types.Property, language)
}

func (c *Client) resolve(ctx context.Context, text string, kind types.IdentifierKind, language string) (types.Identifier, bool, error) {
	candidates, err := c.Search(ctx, text, kind, language, 1)
	if err != nil {
		return types.Identifier{}, false, err
	}
	if len(candidates) == 0 {
		c.logger.Warn("no search candidates", "text", text, "kind", kind)
		return types.Identifier{}, false, nil
	}
	return candidates[0].ID, true, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
