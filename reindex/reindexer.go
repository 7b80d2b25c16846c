package reindex

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/VetalKamen/news-scrapper/ai"
	"github.com/VetalKamen/news-scrapper/core"
	"github.com/VetalKamen/news-scrapper/storage"
)

// Config holds tuning for the reindex operation.
type Config struct {
	// BatchSize is the number of articles embedded per API call.
	BatchSize int

	// ReportInterval is how often to report progress (number of articles).
	ReportInterval int

	// MaxRetries is the maximum number of attempts for a failed
	// embedding batch.
	MaxRetries int

	// RetryDelay is the base delay for exponential backoff.
	RetryDelay time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		BatchSize:      50,
		ReportInterval: 50,
		MaxRetries:     3,
		RetryDelay:     time.Second,
	}
}

// Summary reports what a reindex run did.
type Summary struct {
	Reembedded int `json:"reembedded"`
	Failed     int `json:"failed"`
}

// Reindexer rewrites the vector entry of every analyzed article.
type Reindexer struct {
	aiLog     storage.AILog
	store     storage.VectorStore
	config    *Config
	progress  io.Writer
	processor *batchProcessor
}

// NewReindexer creates a new reindexer.
// progress is where progress output is written, typically os.Stderr.
func NewReindexer(
	aiLog storage.AILog,
	store storage.VectorStore,
	embedder ai.Embedder,
	config *Config,
	progress io.Writer,
) (*Reindexer, error) {
	if aiLog == nil {
		return nil, ErrAILogRequired
	}
	if store == nil {
		return nil, ErrVectorStoreRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	if config == nil {
		config = DefaultConfig()
	}
	if progress == nil {
		progress = io.Discard
	}

	return &Reindexer{
		aiLog:     aiLog,
		store:     store,
		config:    config,
		progress:  progress,
		processor: newBatchProcessor(store, embedder, config),
	}, nil
}

// Run re-embeds every ok analysis record under the current embedding
// policy and overwrites the stored entries. A batch that cannot be
// embedded after the configured retries is counted as failed and the
// run moves on; re-running repairs whatever was left behind.
func (r *Reindexer) Run(ctx context.Context) (*Summary, error) {
	var records []*core.AIRecord
	err := r.aiLog.ForEach(func(rec *core.AIRecord) error {
		if rec.Status != core.StatusOK || strings.TrimSpace(rec.Summary) == "" {
			return nil
		}
		records = append(records, rec)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("read analysis log: %w", err)
	}

	summary := &Summary{}
	total := len(records)
	if total == 0 {
		fmt.Fprintf(r.progress, "No analyzed articles to reindex (0 records)\n")
		return summary, nil
	}

	fmt.Fprintf(r.progress, "Starting reindex of %d articles (batch size: %d)\n",
		total, r.config.BatchSize)

	tracker := NewProgressTracker(r.progress, total, r.config.ReportInterval)
	tracker.Start()

	for start := 0; start < total; start += r.config.BatchSize {
		select {
		case <-ctx.Done():
			return summary, ctx.Err()
		default:
		}

		end := start + r.config.BatchSize
		if end > total {
			end = total
		}
		batch := records[start:end]

		rewritten, err := r.processor.process(ctx, batch)
		summary.Reembedded += rewritten
		if err != nil {
			failed := len(batch) - rewritten
			summary.Failed += failed
			fmt.Fprintf(r.progress, "\nbatch failed (%d articles): %v\n", failed, err)
		}

		tracker.Update(summary.Reembedded + summary.Failed)
	}

	tracker.Finish()

	elapsed := tracker.Elapsed()
	fmt.Fprintf(r.progress, "Reindex complete. Rewrote %d of %d articles in %v (%.1f articles/sec)\n",
		summary.Reembedded, total, elapsed.Round(time.Second),
		float64(summary.Reembedded)/elapsed.Seconds())

	return summary, nil
}
