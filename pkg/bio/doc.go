// Package bio turns parsed Wikidata result rows into the aggregate
// biography record: it deduplicates list and timeline collections,
// orders timelines chronologically, and renders the flattened rag_text
// summary for downstream text generation.
package bio
