// Package wikidata talks to the public Wikidata services: the
// wbsearchentities text-search endpoint for turning free text into
// identifiers, and the WDQS SPARQL endpoint for structured queries. It
// builds the parameterized queries, executes them, and parses the
// loosely-typed result bindings into the shapes in pkg/types.
//
// Identifier and year validation happens at every point text crosses
// into generated query syntax; see pkg/types.Identifier and YearFilter.
package wikidata
