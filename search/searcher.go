package search

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/VetalKamen/news-scrapper/ai"
	"github.com/VetalKamen/news-scrapper/storage"
)

// DefaultLimit is the number of hits returned when the caller does not
// ask for a specific count.
const DefaultLimit = 5

// Result is a single ranked hit. Rank is 1-based in display order.
type Result struct {
	Rank  int
	Score float32
	Entry *storage.VectorEntry
}

// Preview returns the hit's document cut to maxChars runes for display,
// with an ellipsis marker when anything was cut. maxChars <= 0 uses
// PreviewChars.
func (r *Result) Preview(maxChars int) string {
	return previewText(r.Entry.Document, maxChars)
}

// Searcher answers free-text queries against the vector store.
type Searcher struct {
	store    storage.VectorStore
	embedder ai.Embedder
	logger   *slog.Logger
}

// Option configures a Searcher.
type Option func(*Searcher) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Searcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// NewSearcher creates a new searcher. The embedder must use the same
// model the index was built with; querying with a different model
// degrades ranking silently instead of failing.
func NewSearcher(store storage.VectorStore, embedder ai.Embedder, opts ...Option) (*Searcher, error) {
	if store == nil {
		return nil, ErrVectorStoreRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	s := &Searcher{
		store:    store,
		embedder: embedder,
		logger:   slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// Search embeds the query and returns up to k entries ranked best
// first. Ties keep the store's iteration order. k <= 0 falls back to
// DefaultLimit.
func (s *Searcher) Search(ctx context.Context, query string, k int) ([]*Result, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}
	if k <= 0 {
		k = DefaultLimit
	}

	vector, err := s.embedder.EmbedText(ctx, query)
	if err != nil {
		s.logger.Error("error generating embedding for query", "err", err)
		return nil, fmt.Errorf("embed query: %w", err)
	}

	hits, err := s.store.Query(ctx, vector, k)
	if err != nil {
		s.logger.Error("error querying vector store", "err", err)
		return nil, fmt.Errorf("query vector store: %w", err)
	}

	results := make([]*Result, 0, len(hits))
	for i, hit := range hits {
		results = append(results, &Result{
			Rank:  i + 1,
			Score: hit.Score,
			Entry: hit.Entry,
		})
	}

	s.logger.Info("search returned results", "hits", len(results), "k", k)
	return results, nil
}
