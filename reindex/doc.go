// Package reindex rebuilds the vector index from the analysis log.
//
// Changing the embedding model or the embedding-text policy must be a
// deliberate re-index rather than silent drift. The Reindexer recomputes
// every analyzed article's document under the current policy, re-embeds
// it, and overwrites the stored entry under the same key. The record
// logs are never touched.
//
// Articles are processed in batches with progress reporting and bounded
// retries around the embedding calls.
package reindex
