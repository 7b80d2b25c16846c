// Package search answers free-text queries against the vector index.
//
// The Searcher embeds a query with the same embedding model the index
// was built with and returns the nearest entries ranked by cosine
// similarity, best first. Searching never mutates persisted state.
package search
