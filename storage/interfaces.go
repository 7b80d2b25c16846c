package storage

import (
	"context"
	"time"

	"github.com/VetalKamen/news-scrapper/core"
)

// RawLog provides access to the append-only raw scrape log.
//
// Implementations assume a single writing process; the check-then-append
// sequence is not guarded against concurrent writers.
type RawLog interface {
	// Exists reports whether any record exists for the normalized URL,
	// regardless of its status.
	Exists(url string) bool

	// Status returns the recorded status for the normalized URL and
	// whether a record exists at all.
	Status(url string) (core.Status, bool)

	// Get retrieves the record for the normalized URL.
	// Returns ErrNotFound if no record exists.
	Get(url string) (*core.RawRecord, error)

	// Append validates the record and appends it as one new log line.
	// Returns ErrDuplicateRecord if the URL already has a record; the
	// log holds at most one record per normalized URL.
	Append(record *core.RawRecord) error

	// Replace atomically rewrites the log with the URL's previous record
	// dropped and the given record appended. Returns ErrNotFound if the
	// URL has no record yet. Used only by the retry-failed policy.
	Replace(record *core.RawRecord) error

	// ForEach streams every record in log order. Each call re-reads the
	// log from the start. Corrupt lines are skipped with a logged
	// warning. Iteration stops early if fn returns an error.
	ForEach(fn func(record *core.RawRecord) error) error
}

// AILog provides access to the append-only AI analysis log.
// Same contract and single-writer assumption as RawLog.
type AILog interface {
	// Exists reports whether any record exists for the normalized URL.
	Exists(url string) bool

	// Status returns the recorded status for the normalized URL and
	// whether a record exists at all.
	Status(url string) (core.Status, bool)

	// Get retrieves the record for the normalized URL.
	// Returns ErrNotFound if no record exists.
	Get(url string) (*core.AIRecord, error)

	// Append validates the record and appends it as one new log line.
	// Returns ErrDuplicateRecord if the URL already has a record.
	Append(record *core.AIRecord) error

	// Replace atomically rewrites the log with the URL's previous record
	// dropped and the given record appended. Returns ErrNotFound if the
	// URL has no record yet.
	Replace(record *core.AIRecord) error

	// ForEach streams every record in log order. Each call re-reads the
	// log from the start. Corrupt lines are skipped with a logged warning.
	ForEach(fn func(record *core.AIRecord) error) error
}

// VectorStore provides persistent storage of article embeddings keyed by the
// ID of the normalized URL, plus nearest-neighbor retrieval.
type VectorStore interface {
	// Exists reports whether an entry is stored under the key.
	Exists(ctx context.Context, key core.ID) (bool, error)

	// Upsert stores the entry, overwriting any previous entry under the
	// same key. Re-adding an identical key is a no-op, not an error.
	Upsert(ctx context.Context, entry *VectorEntry) error

	// Query returns up to k entries ranked by cosine similarity to the
	// given vector, best first. Ties keep the store's iteration order.
	Query(ctx context.Context, vector []float32, k int) ([]*Hit, error)

	// Count returns the number of stored entries.
	Count(ctx context.Context) (int, error)

	// ForEach visits every stored entry. Iteration order is the store's
	// key order. Iteration stops early if fn returns an error.
	ForEach(ctx context.Context, fn func(entry *VectorEntry) error) error

	// Close closes the store and releases resources.
	Close() error
}

// VectorEntry is one stored article embedding with its searchable document
// text and display metadata.
type VectorEntry struct {
	Key      core.ID   `json:"key"`
	URL      string    `json:"url"`
	Vector   []float32 `json:"vector"`
	Document string    `json:"document"`
	Meta     Metadata  `json:"meta"`
}

// Metadata carries the display and audit fields stored alongside a vector.
type Metadata struct {
	Title       string    `json:"title,omitempty"`
	URL         string    `json:"url"`
	Source      string    `json:"source,omitempty"`
	Summary     string    `json:"summary,omitempty"`
	Topics      []string  `json:"topics,omitempty"`
	LLMModel    string    `json:"llm_model,omitempty"`
	EmbedPolicy string    `json:"embed_policy,omitempty"`
	IndexedAt   time.Time `json:"indexed_at"`
}

// Hit is a single ranked result from VectorStore.Query.
type Hit struct {
	Entry *VectorEntry
	Score float32
}
