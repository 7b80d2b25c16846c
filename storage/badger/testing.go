package badger

import (
	badgerdb "github.com/dgraph-io/badger/v4"

	"github.com/VetalKamen/news-scrapper/storage"
)

// OpenInMemory opens a vector store backed by an in-memory BadgerDB.
// Nothing is persisted. Intended for tests; callers must still Close it.
func OpenInMemory() (storage.VectorStore, error) {
	return open(badgerdb.DefaultOptions("").WithInMemory(true))
}
