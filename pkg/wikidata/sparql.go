package wikidata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// Binding is one SPARQL result row, mapping variable names to values.
// Variables absent from a row are simply missing keys.
type Binding map[string]BindingValue

// BindingValue is the value cell of a result binding.
type BindingValue struct {
	Type  string `json:"type,omitempty"`
	Value string `json:"value"`
}

// Value returns the string value bound to the named variable, or the
// empty string when the variable is absent from this row.
func (b Binding) Value(name string) string {
	return b[name].Value
}

// Has reports whether the named variable is bound in this row.
func (b Binding) Has(name string) bool {
	_, ok := b[name]
	return ok
}

// sparqlResponse is the application/sparql-results+json envelope.
type sparqlResponse struct {
	Results struct {
		Bindings []Binding `json:"bindings"`
	} `json:"results"`
}

// Query executes a SPARQL query against the WDQS endpoint and returns
// the raw result rows. Non-success responses surface as UpstreamError,
// malformed bodies as ParseError. There is no retry at this layer.
func (c *Client) Query(ctx context.Context, query string) ([]Binding, error) {
	form := url.Values{}
	form.Set("query", query)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.sparqlURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create query request: %w", err)
	}
	req.Header.Set("Accept", "application/sparql-results+json")
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded; charset=UTF-8")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &UpstreamError{Endpoint: "sparql", Message: err.Error()}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &UpstreamError{Endpoint: "sparql", Message: err.Error()}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Error("WDQS query failed", "status", resp.StatusCode, "body", truncate(string(body), 200))
		return nil, &UpstreamError{Endpoint: "sparql", StatusCode: resp.StatusCode, Message: truncate(string(body), 200)}
	}

	var parsed sparqlResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, &ParseError{Endpoint: "sparql", Message: err.Error()}
	}
	return parsed.Results.Bindings, nil
}
