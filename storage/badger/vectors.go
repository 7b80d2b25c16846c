package badger

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/dgraph-io/badger/v4"

	"github.com/VetalKamen/news-scrapper/core"
	"github.com/VetalKamen/news-scrapper/storage"
)

// Exists reports whether an entry is stored under the key.
func (s *Store) Exists(ctx context.Context, key core.ID) (bool, error) {
	var exists bool

	err := s.withTx(func(tx *badger.Txn) error {
		_, err := tx.Get(makeEntryKey(key))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return nil
			}
			return err
		}
		exists = true
		return nil
	}, false)

	return exists, err
}

// Upsert stores the entry under its key, overwriting any previous value.
func (s *Store) Upsert(ctx context.Context, entry *storage.VectorEntry) error {
	if err := storage.ValidateEntry(entry); err != nil {
		return err
	}

	value, err := storage.MarshalEntry(entry)
	if err != nil {
		return err
	}

	return s.withTx(func(tx *badger.Txn) error {
		if err := tx.Set(makeEntryKey(entry.Key), value); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// Query returns up to k entries ranked by cosine similarity to the vector,
// best first. Stored vectors are unit length, so the dot product is the
// cosine similarity. Equal scores keep the store's key iteration order.
func (s *Store) Query(ctx context.Context, vector []float32, k int) ([]*storage.Hit, error) {
	if len(vector) == 0 {
		return nil, fmt.Errorf("%w: empty query vector", storage.ErrInvalidQuery)
	}
	if k <= 0 {
		return nil, fmt.Errorf("%w: k must be positive, got %d", storage.ErrInvalidQuery, k)
	}

	var hits []*storage.Hit

	err := s.withTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(entryPrefix)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			entry, err := readEntry(iter.Item())
			if err != nil {
				return err
			}
			if entry == nil || len(entry.Vector) == 0 {
				continue
			}

			hits = append(hits, &storage.Hit{
				Entry: entry,
				Score: dotProduct(vector, entry.Vector),
			})
		}

		return nil
	}, false)

	if err != nil {
		return nil, err
	}

	slices.SortStableFunc(hits, func(a, b *storage.Hit) int {
		if a.Score > b.Score {
			return -1
		}
		if a.Score < b.Score {
			return 1
		}
		return 0
	})

	if len(hits) > k {
		hits = hits[:k]
	}

	return hits, nil
}

// Count returns the number of stored entries.
func (s *Store) Count(ctx context.Context) (int, error) {
	count := 0

	err := s.withTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(entryPrefix)
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			count++
		}
		return nil
	}, false)

	return count, err
}

// ForEach visits every stored entry in key order.
func (s *Store) ForEach(ctx context.Context, fn func(entry *storage.VectorEntry) error) error {
	return s.withTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(entryPrefix)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			entry, err := readEntry(iter.Item())
			if err != nil {
				return err
			}
			if entry == nil {
				continue
			}
			if err := fn(entry); err != nil {
				return err
			}
		}
		return nil
	}, false)
}

// readEntry decodes a vector entry from a badger item.
func readEntry(item *badger.Item) (*storage.VectorEntry, error) {
	var entry *storage.VectorEntry
	err := item.Value(func(val []byte) error {
		var err error
		entry, err = storage.UnmarshalEntry(val)
		return err
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// dotProduct calculates the dot product of two vectors.
func dotProduct(a, b []float32) float32 {
	var sum float32
	minLen := len(a)
	if len(b) < minLen {
		minLen = len(b)
	}
	for i := 0; i < minLen; i++ {
		sum += a[i] * b[i]
	}
	return sum
}
