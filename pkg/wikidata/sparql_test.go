package wikidata

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/soundprediction/wikibio/pkg/config"
)

func TestQueryPostsFormEncodedQuery(t *testing.T) {
	const query = "SELECT ?value WHERE { ?s ?p ?value } LIMIT 1"

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if got := r.Header.Get("Accept"); got != "application/sparql-results+json" {
			t.Errorf("Accept = %q", got)
		}
		body, _ := io.ReadAll(r.Body)
		form, err := url.ParseQuery(string(body))
		if err != nil {
			t.Errorf("body is not form-encoded: %v", err)
		}
		if got := form.Get("query"); got != query {
			t.Errorf("query field = %q, want %q", got, query)
		}
		w.Write([]byte(`{"results":{"bindings":[
			{"value":{"type":"uri","value":"http://www.wikidata.org/entity/Q2338559"},
			 "valueLabel":{"type":"literal","value":"Pep Guardiola"},
			 "start":{"type":"literal","value":"2016-07-01T00:00:00Z"}}
		]}}`))
	}))
	defer server.Close()

	c := NewClient(WithSPARQLURL(server.URL))
	rows, err := c.Query(context.Background(), query)
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(rows))
	}

	row := rows[0]
	if got := row.Value("valueLabel"); got != "Pep Guardiola" {
		t.Errorf("valueLabel = %q", got)
	}
	if !row.Has("start") || row.Has("end") {
		t.Errorf("binding presence wrong: %+v", row)
	}
	if got := row.Value("end"); got != "" {
		t.Errorf("absent variable should read as empty, got %q", got)
	}
}

func TestQueryUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "java.util.concurrent.TimeoutException", http.StatusInternalServerError)
	}))
	defer server.Close()

	c := NewClient(WithSPARQLURL(server.URL))
	_, err := c.Query(context.Background(), "SELECT * WHERE {}")
	if err == nil {
		t.Fatal("Query succeeded, want UpstreamError")
	}
	var upstream *UpstreamError
	if !errors.As(err, &upstream) {
		t.Fatalf("error = %v, want UpstreamError", err)
	}
	if upstream.StatusCode != http.StatusInternalServerError {
		t.Errorf("StatusCode = %d", upstream.StatusCode)
	}
}

func TestQueryParseError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`this is not sparql json`))
	}))
	defer server.Close()

	c := NewClient(WithSPARQLURL(server.URL))
	_, err := c.Query(context.Background(), "SELECT * WHERE {}")
	if err == nil {
		t.Fatal("Query succeeded, want ParseError")
	}
	if !errors.Is(err, &ParseError{}) {
		t.Errorf("error = %v, want ParseError", err)
	}
}

func TestBreakerExecutorTripsToUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusBadGateway)
	}))
	defer server.Close()

	exec := NewBreakerExecutor(NewClient(WithSPARQLURL(server.URL)), config.CircuitBreakerConfig{
		Enabled:          true,
		MaxRequests:      1,
		Interval:         60,
		Timeout:          60,
		ReadyToTripRatio: 0.5,
	})

	// Enough consecutive failures to trip the breaker.
	var err error
	for i := 0; i < 5; i++ {
		_, err = exec.Query(context.Background(), "SELECT * WHERE {}")
	}
	if err == nil {
		t.Fatal("expected failure")
	}
	if !errors.Is(err, &UpstreamError{}) {
		t.Errorf("error = %v, want UpstreamError", err)
	}
}
