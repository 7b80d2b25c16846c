// Package pipeline orchestrates the article processing stages.
//
// Each stage is independently re-runnable and idempotent:
//   - Scraper fetches URLs and appends one raw record per URL, skipping
//     URLs that already have a record.
//   - Analyzer turns ok raw records into AI records via the LLM.
//   - Indexer embeds ok AI records into the vector store.
//   - Ingestor composes the three for a single URL, short-circuiting at
//     the first point where the work already exists.
//
// Stages process records sequentially, one at a time, and absorb
// per-record failures into summary counts; only setup errors (unreadable
// input, unwritable logs, a broken store) abort a run. The stages assume
// a single writing process.
package pipeline
