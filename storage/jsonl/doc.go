// Package jsonl implements the append-only record logs over
// newline-delimited JSON files: one JSON object per line, UTF-8.
//
// Each log holds at most one record per normalized URL. Appends are guarded
// by an in-memory seen-map loaded once at open time, so existence checks are
// O(1) and re-runs never duplicate work. The files are the durable source of
// truth; the map is just the index.
//
// Single-writer: the check-then-append pair is not atomic against concurrent
// writers. One process at a time owns a log.
package jsonl
