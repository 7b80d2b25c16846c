package reindex

import (
	"context"
	"fmt"
	"time"

	"github.com/VetalKamen/news-scrapper/ai"
	"github.com/VetalKamen/news-scrapper/core"
	"github.com/VetalKamen/news-scrapper/retry"
	"github.com/VetalKamen/news-scrapper/storage"
)

// metaSummaryChars caps the summary stored in entry metadata, matching
// the index stage's display truncation.
const metaSummaryChars = 2000

// batchProcessor embeds batches of analysis records and rewrites their
// vector entries.
type batchProcessor struct {
	store    storage.VectorStore
	embedder ai.Embedder
	policy   retry.Policy
}

func newBatchProcessor(store storage.VectorStore, embedder ai.Embedder, config *Config) *batchProcessor {
	return &batchProcessor{
		store:    store,
		embedder: embedder,
		policy: retry.Policy{
			MaxAttempts: config.MaxRetries,
			BaseDelay:   config.RetryDelay,
		},
	}
}

// process re-embeds one batch under the current policy and overwrites
// the stored entries. Returns how many entries were rewritten.
func (bp *batchProcessor) process(ctx context.Context, batch []*core.AIRecord) (int, error) {
	if len(batch) == 0 {
		return 0, nil
	}

	docs := make([]string, len(batch))
	for i, rec := range batch {
		docs[i] = core.EmbedText(rec)
	}

	var vectors [][]float32
	err := bp.policy.Do(ctx, func() error {
		var err error
		vectors, err = bp.embedder.EmbedTexts(ctx, docs)
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("embed batch: %w", err)
	}
	if len(vectors) != len(batch) {
		return 0, fmt.Errorf("embedding count mismatch: expected %d, got %d",
			len(batch), len(vectors))
	}

	rewritten := 0
	for i, rec := range batch {
		entry := entryFromRecord(rec, docs[i], NormalizeVector(vectors[i]))
		if err := bp.store.Upsert(ctx, entry); err != nil {
			return rewritten, fmt.Errorf("rewrite entry for %s: %w", rec.URL, err)
		}
		rewritten++
	}

	return rewritten, nil
}

// entryFromRecord builds the replacement vector entry for an analyzed
// article.
func entryFromRecord(rec *core.AIRecord, document string, vector []float32) *storage.VectorEntry {
	summary := rec.Summary
	if runes := []rune(summary); len(runes) > metaSummaryChars {
		summary = string(runes[:metaSummaryChars])
	}

	return &storage.VectorEntry{
		Key:      core.IDFromURL(rec.URL),
		URL:      rec.URL,
		Vector:   vector,
		Document: document,
		Meta: storage.Metadata{
			Title:       rec.Title,
			URL:         rec.URL,
			Source:      rec.Source,
			Summary:     summary,
			Topics:      rec.Topics,
			LLMModel:    rec.LLMModel,
			EmbedPolicy: core.EmbedTextPolicy,
			IndexedAt:   time.Now().UTC(),
		},
	}
}
