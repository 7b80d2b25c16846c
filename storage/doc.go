// Package storage defines the persistence contracts of the pipeline: the two
// append-only record logs and the vector store.
//
// The interfaces decouple the stages from the concrete backends. The jsonl
// subpackage implements RawLog and AILog over newline-delimited JSON files;
// the badger subpackage implements VectorStore over BadgerDB.
//
// # Constructor Return Type Pattern
//
// Public constructors in the implementation subpackages return these
// interfaces, not concrete types:
//
//	raw, err := jsonl.OpenRawLog(path)      // returns storage.RawLog
//	store, err := badger.Open(dir)          // returns storage.VectorStore
//
// Consumers stay decoupled from backend specifics and tests can substitute
// in-memory implementations without modification.
//
// # Durability Model
//
// The logs are append-only audit trails: one record per normalized URL,
// failures retained alongside successes. A process killed mid-run leaves
// already-appended records durable; unprocessed work is simply picked up by
// the next run. There are no cross-store transactions.
//
// # Concurrency
//
// The record logs assume a single writing process; their check-then-append
// sequence is not safe against concurrent writers. The vector store inherits
// BadgerDB's transactional guarantees and is safe for concurrent use.
package storage
