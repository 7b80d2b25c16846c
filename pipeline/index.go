package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/VetalKamen/news-scrapper/ai"
	"github.com/VetalKamen/news-scrapper/core"
	"github.com/VetalKamen/news-scrapper/storage"
)

// maxMetaSummaryChars bounds the summary copy stored in vector metadata.
// The full summary stays in the AI log; metadata is for display.
const maxMetaSummaryChars = 2000

// IndexSummary reports the outcome of one index run. Failed entries stay
// un-indexed and are retried on the next run.
type IndexSummary struct {
	Added             int `json:"added"`
	SkippedExisting   int `json:"skipped_existing"`
	SkippedIneligible int `json:"skipped_ineligible"`
	Failed            int `json:"failed"`
}

// IndexOptions holds per-run parameters for the index stage.
type IndexOptions struct {
	// Limit caps newly added entries. Zero means no limit.
	Limit int
}

// Indexer runs the index stage: every ok AI record not yet in the vector
// store gets its embedding computed and upserted.
type Indexer struct {
	aiLog    storage.AILog
	store    storage.VectorStore
	embedder ai.Embedder
	logger   *slog.Logger
}

// NewIndexer creates an index stage over the given AI log, vector store
// and embedder.
func NewIndexer(aiLog storage.AILog, store storage.VectorStore, embedder ai.Embedder, opts ...Option) (*Indexer, error) {
	if aiLog == nil {
		return nil, ErrAILogRequired
	}
	if store == nil {
		return nil, ErrVectorStoreRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	o := newOptions(opts...)
	return &Indexer{
		aiLog:    aiLog,
		store:    store,
		embedder: embedder,
		logger:   o.logger.With("stage", "index"),
	}, nil
}

type indexOutcome int

const (
	indexAdded indexOutcome = iota
	indexSkippedExisting
	indexSkippedIneligible
	indexFailed
)

// Run indexes every eligible AI record in log order. Embedding and store
// failures are counted per record and never abort the run.
func (ix *Indexer) Run(ctx context.Context, opts *IndexOptions) (*IndexSummary, error) {
	if opts == nil {
		opts = &IndexOptions{}
	}
	summary := &IndexSummary{}

	err := ix.aiLog.ForEach(func(rec *core.AIRecord) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if opts.Limit > 0 && summary.Added >= opts.Limit {
			return errStopIteration
		}

		outcome, err := ix.indexRecord(ctx, rec)
		switch outcome {
		case indexAdded:
			summary.Added++
			ix.logger.Debug("indexed article", "url", rec.URL)
		case indexSkippedExisting:
			summary.SkippedExisting++
		case indexSkippedIneligible:
			summary.SkippedIneligible++
		case indexFailed:
			summary.Failed++
			ix.logger.Warn("indexing failed", "url", rec.URL, "err", err)
		}
		return nil
	})
	if err != nil && !errors.Is(err, errStopIteration) {
		return summary, err
	}

	ix.logger.Info("index finished",
		"added", summary.Added, "skipped_existing", summary.SkippedExisting,
		"skipped_ineligible", summary.SkippedIneligible, "failed", summary.Failed)
	return summary, nil
}

// indexRecord embeds and stores one AI record. The error is non-nil only
// for the indexFailed outcome and describes what went wrong.
func (ix *Indexer) indexRecord(ctx context.Context, rec *core.AIRecord) (indexOutcome, error) {
	if rec.Status != core.StatusOK || strings.TrimSpace(rec.Summary) == "" {
		return indexSkippedIneligible, nil
	}

	key := core.IDFromURL(rec.URL)
	exists, err := ix.store.Exists(ctx, key)
	if err != nil {
		return indexFailed, fmt.Errorf("existence check: %w", err)
	}
	if exists {
		return indexSkippedExisting, nil
	}

	doc := core.EmbedText(rec)
	vector, err := ix.embedder.EmbedText(ctx, doc)
	if err != nil {
		return indexFailed, fmt.Errorf("embed document: %w", err)
	}

	entry := &storage.VectorEntry{
		Key:      key,
		URL:      rec.URL,
		Vector:   vector,
		Document: doc,
		Meta: storage.Metadata{
			Title:       rec.Title,
			URL:         rec.URL,
			Source:      rec.Source,
			Summary:     truncateChars(rec.Summary, maxMetaSummaryChars),
			Topics:      rec.Topics,
			LLMModel:    rec.LLMModel,
			EmbedPolicy: core.EmbedTextPolicy,
			IndexedAt:   time.Now().UTC(),
		},
	}

	if err := ix.store.Upsert(ctx, entry); err != nil {
		return indexFailed, fmt.Errorf("vector upsert: %w", err)
	}
	return indexAdded, nil
}

func truncateChars(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
