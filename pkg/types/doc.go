// Package types defines the shared data model for wikibio: validated
// Wikidata identifiers, labeled graph references, time-qualified facts,
// and the aggregate biography record produced per lookup.
package types
