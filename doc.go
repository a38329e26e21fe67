// Package wikibio resolves free-text entity and property mentions to
// Wikidata identifiers, runs temporally-filtered SPARQL queries against
// the public query service, and merges the results into a normalized,
// deduplicated, chronologically ordered biography record with a
// flattened textual rendering for retrieval-augmented generation.
//
// The central operation is Client.Lookup: "find who held
// property P on entity Q around year Y, then fetch that person's full
// biography."
package wikibio
