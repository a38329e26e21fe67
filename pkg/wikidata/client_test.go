package wikidata

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/soundprediction/wikibio/pkg/types"
)

func TestSearchMapsCandidates(t *testing.T) {
	var gotQuery map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		gotQuery = map[string]string{
			"action":   q.Get("action"),
			"format":   q.Get("format"),
			"search":   q.Get("search"),
			"language": q.Get("language"),
			"limit":    q.Get("limit"),
			"type":     q.Get("type"),
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"search":[
			{"id":"Q50602","label":"Manchester City F.C.","description":"association football club"},
			{"id":"Q18656","label":"Manchester City W.F.C."}
		]}`))
	}))
	defer server.Close()

	c := NewClient(WithAPIURL(server.URL))
	candidates, err := c.Search(context.Background(), "Manchester City", types.Entity, "en", 5)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}

	if gotQuery["action"] != "wbsearchentities" || gotQuery["format"] != "json" {
		t.Errorf("unexpected request params: %+v", gotQuery)
	}
	if gotQuery["search"] != "Manchester City" || gotQuery["language"] != "en" {
		t.Errorf("unexpected search params: %+v", gotQuery)
	}
	if gotQuery["limit"] != "5" || gotQuery["type"] != "item" {
		t.Errorf("unexpected limit/type: %+v", gotQuery)
	}

	if len(candidates) != 2 {
		t.Fatalf("got %d candidates, want 2", len(candidates))
	}
	if candidates[0].ID.String() != "Q50602" || candidates[0].Label != "Manchester City F.C." {
		t.Errorf("first candidate = %+v", candidates[0])
	}
	if candidates[1].Description != "" {
		t.Errorf("missing description should stay empty, got %q", candidates[1].Description)
	}
}

func TestSearchPropertyType(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("type"); got != "property" {
			t.Errorf("type param = %q, want property", got)
		}
		w.Write([]byte(`{"search":[{"id":"P286","label":"head coach"}]}`))
	}))
	defer server.Close()

	c := NewClient(WithAPIURL(server.URL))
	candidates, err := c.Search(context.Background(), "head coach", types.Property, "en", 1)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(candidates) != 1 || candidates[0].ID.String() != "P286" {
		t.Errorf("candidates = %+v", candidates)
	}
}

func TestSearchEmptyResultIsNotAnError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"search":[]}`))
	}))
	defer server.Close()

	c := NewClient(WithAPIURL(server.URL))
	candidates, err := c.Search(context.Background(), "zxqv nonsense", types.Entity, "en", 1)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(candidates) != 0 {
		t.Errorf("got %d candidates, want 0", len(candidates))
	}
}

func TestSearchUpstreamFailures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"server error", func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "maintenance", http.StatusServiceUnavailable)
		}},
		{"malformed body", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`<html>not json</html>`))
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			c := NewClient(WithAPIURL(server.URL))
			_, err := c.Search(context.Background(), "anything", types.Entity, "en", 1)
			if err == nil {
				t.Fatal("Search succeeded, want UpstreamError")
			}
			if !errors.Is(err, &UpstreamError{}) {
				t.Errorf("error = %v, want UpstreamError", err)
			}
		})
	}
}

func TestSearchSkipsMalformedCandidateIDs(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"search":[{"id":"L99","label":"a lexeme"},{"id":"Q42","label":"Douglas Adams"}]}`))
	}))
	defer server.Close()

	c := NewClient(WithAPIURL(server.URL))
	candidates, err := c.Search(context.Background(), "adams", types.Entity, "en", 2)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(candidates) != 1 || candidates[0].ID.String() != "Q42" {
		t.Errorf("candidates = %+v", candidates)
	}
}

func TestResolveEntityTopCandidate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"search":[{"id":"Q50602","label":"Manchester City F.C."}]}`))
	}))
	defer server.Close()

	c := NewClient(WithAPIURL(server.URL))
	id, found, err := c.ResolveEntity(context.Background(), "Manchester City", "en")
	if err != nil {
		t.Fatalf("ResolveEntity failed: %v", err)
	}
	if !found {
		t.Fatal("ResolveEntity found = false")
	}
	if id.String() != "Q50602" {
		t.Errorf("id = %s, want Q50602", id)
	}
}

func TestResolveEntityNoMatchIsSoft(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"search":[]}`))
	}))
	defer server.Close()

	c := NewClient(WithAPIURL(server.URL))
	id, found, err := c.ResolveEntity(context.Background(), "zxqv nonsense", "en")
	if err != nil {
		t.Fatalf("ResolveEntity returned error for empty match set: %v", err)
	}
	if found {
		t.Error("found = true for empty match set")
	}
	if !id.IsZero() {
		t.Errorf("id should be zero, got %s", id)
	}
}

func TestResolvePropertyUsesUserAgent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("User-Agent"); got != "test-agent/1.0" {
			t.Errorf("User-Agent = %q", got)
		}
		w.Write([]byte(`{"search":[{"id":"P286","label":"head coach"}]}`))
	}))
	defer server.Close()

	c := NewClient(WithAPIURL(server.URL), WithUserAgent("test-agent/1.0"))
	id, found, err := c.ResolveProperty(context.Background(), "head coach", "en")
	if err != nil || !found || id.String() != "P286" {
		t.Errorf("ResolveProperty = (%s, %v, %v)", id, found, err)
	}
}
