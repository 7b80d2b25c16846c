package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/VetalKamen/news-scrapper/ai"
	"github.com/VetalKamen/news-scrapper/core"
	"github.com/VetalKamen/news-scrapper/fetch"
	"github.com/VetalKamen/news-scrapper/storage"
)

// DefaultIngestMinChars is the acceptance threshold for single-URL
// ingest. Deliberately lower than the batch threshold: someone handing
// over one specific URL has already decided they want it.
const DefaultIngestMinChars = 300

// IngestResult is the consolidated outcome of a single-URL ingest.
// Stage and Detail are set for failed results and name where the flow
// stopped; the per-stage summaries cover whatever stages actually ran.
type IngestResult struct {
	URL     string          `json:"url"`
	Status  core.Status     `json:"status"`
	Stage   string          `json:"stage,omitempty"`
	Detail  string          `json:"detail,omitempty"`
	Scrape  *ScrapeSummary  `json:"scrape,omitempty"`
	Analyze *AnalyzeSummary `json:"analyze,omitempty"`
	Index   *IndexSummary   `json:"index,omitempty"`
}

// IngestOptions holds per-run parameters for ingest.
type IngestOptions struct {
	// MinChars is the minimum extracted character count to accept the
	// article. Zero means DefaultIngestMinChars.
	MinChars int

	// RetryFailed re-attempts a previously failed scrape or analysis
	// for this URL instead of reporting the old failure.
	RetryFailed bool
}

// Ingestor runs scrape, analyze and index end-to-end for one URL,
// short-circuiting at the first point where the work already exists. LLM
// and embedding cost is incurred at most once per URL across any number
// of invocations.
type Ingestor struct {
	rawLog   storage.RawLog
	aiLog    storage.AILog
	scraper  *Scraper
	analyzer *Analyzer
	indexer  *Indexer
	logger   *slog.Logger
}

// NewIngestor creates an ingest orchestrator over the full set of
// pipeline dependencies.
func NewIngestor(
	rawLog storage.RawLog,
	aiLog storage.AILog,
	store storage.VectorStore,
	extractor fetch.Extractor,
	llm ai.Analyzer,
	embedder ai.Embedder,
	opts ...Option,
) (*Ingestor, error) {
	scraper, err := NewScraper(rawLog, extractor, opts...)
	if err != nil {
		return nil, err
	}
	analyzer, err := NewAnalyzer(rawLog, aiLog, llm, opts...)
	if err != nil {
		return nil, err
	}
	indexer, err := NewIndexer(aiLog, store, embedder, opts...)
	if err != nil {
		return nil, err
	}

	o := newOptions(opts...)
	return &Ingestor{
		rawLog:   rawLog,
		aiLog:    aiLog,
		scraper:  scraper,
		analyzer: analyzer,
		indexer:  indexer,
		logger:   o.logger.With("stage", "ingest"),
	}, nil
}

// Run ingests one URL end-to-end. The returned error is reserved for
// cancellation and log write failures; everything the pipeline could
// classify comes back inside the result.
func (in *Ingestor) Run(ctx context.Context, rawURL string, opts *IngestOptions) (*IngestResult, error) {
	if opts == nil {
		opts = &IngestOptions{}
	}
	minChars := opts.MinChars
	if minChars <= 0 {
		minChars = DefaultIngestMinChars
	}

	key, normErr := core.NormalizeURL(rawURL)
	if normErr != nil {
		// The scrape step records the bad input; keep its key for lookups.
		key = strings.TrimSpace(rawURL)
	}
	result := &IngestResult{URL: key}

	in.logger.Info("ingesting url", "url", key)

	// Already analyzed successfully: nothing to do, nothing to call.
	if status, ok := in.aiLog.Status(key); ok && status == core.StatusOK {
		result.Status = core.StatusSkipped
		result.Detail = "already analyzed"
		in.logger.Info("skipping already-analyzed url", "url", key)
		return result, nil
	}

	scrapeSummary, err := in.scraper.Run(ctx, []string{rawURL}, &ScrapeOptions{
		MinChars:    minChars,
		RetryFailed: opts.RetryFailed,
	})
	result.Scrape = scrapeSummary
	if err != nil {
		return result, err
	}

	// The scrape may have been skipped against an older record; either
	// way a usable ok raw record must exist to go on.
	raw, err := in.rawLog.Get(key)
	if err != nil || raw.Status != core.StatusOK || strings.TrimSpace(raw.Text) == "" {
		result.Status = core.StatusFailed
		result.Stage = "scrape"
		result.Detail = scrapeFailureDetail(raw, err)
		return result, nil
	}

	replaceAI := false
	if _, ok := in.aiLog.Status(key); ok {
		// The short-circuit above rules out ok, so this record is failed.
		if !opts.RetryFailed {
			result.Status = core.StatusFailed
			result.Stage = "analyze"
			result.Detail = "analysis previously failed; retry disabled"
			return result, nil
		}
		replaceAI = true
	}

	aiRecord := in.analyzer.analyzeRecord(ctx, raw)

	var writeErr error
	if replaceAI {
		writeErr = in.aiLog.Replace(aiRecord)
	} else {
		writeErr = in.aiLog.Append(aiRecord)
	}
	if writeErr != nil {
		return result, fmt.Errorf("record analysis for %s: %w", key, writeErr)
	}

	if aiRecord.Status != core.StatusOK {
		result.Analyze = &AnalyzeSummary{Failed: 1}
		result.Status = core.StatusFailed
		result.Stage = "analyze"
		result.Detail = aiRecord.Error
		return result, nil
	}
	result.Analyze = &AnalyzeSummary{Processed: 1}

	indexSummary := &IndexSummary{}
	result.Index = indexSummary
	outcome, indexErr := in.indexer.indexRecord(ctx, aiRecord)
	switch outcome {
	case indexAdded:
		indexSummary.Added = 1
	case indexSkippedExisting:
		indexSummary.SkippedExisting = 1
	case indexSkippedIneligible:
		indexSummary.SkippedIneligible = 1
	case indexFailed:
		indexSummary.Failed = 1
		result.Status = core.StatusFailed
		result.Stage = "index"
		result.Detail = indexErr.Error()
		return result, nil
	}

	result.Status = core.StatusOK
	in.logger.Info("ingest finished", "url", key, "status", result.Status)
	return result, nil
}

func scrapeFailureDetail(raw *core.RawRecord, err error) string {
	if err != nil || raw == nil {
		return "no usable raw record"
	}
	if raw.Error != "" {
		return raw.Error
	}
	return fmt.Sprintf("raw record status is %q", raw.Status)
}
