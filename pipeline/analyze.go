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

// AnalyzeSummary reports the outcome of one analyze run.
type AnalyzeSummary struct {
	Processed      int `json:"processed"`
	Failed         int `json:"failed"`
	SkippedAlready int `json:"skipped_already"`
}

// AnalyzeOptions holds per-run parameters for the analyze stage.
type AnalyzeOptions struct {
	// Limit caps successful analyses; failures do not count against it.
	// Zero means no limit.
	Limit int

	// RetryFailed re-analyzes articles whose existing AI record is
	// failed, replacing the old record with the new outcome.
	RetryFailed bool
}

// Analyzer runs the analyze stage: every ok raw record that has no AI
// record yet is summarized and tagged by the LLM, producing exactly one
// AI record, success or failure.
type Analyzer struct {
	rawLog storage.RawLog
	aiLog  storage.AILog
	llm    ai.Analyzer
	logger *slog.Logger
}

// NewAnalyzer creates an analyze stage over the given logs and LLM analyzer.
func NewAnalyzer(rawLog storage.RawLog, aiLog storage.AILog, llm ai.Analyzer, opts ...Option) (*Analyzer, error) {
	if rawLog == nil {
		return nil, ErrRawLogRequired
	}
	if aiLog == nil {
		return nil, ErrAILogRequired
	}
	if llm == nil {
		return nil, ErrAnalyzerRequired
	}
	o := newOptions(opts...)
	return &Analyzer{
		rawLog: rawLog,
		aiLog:  aiLog,
		llm:    llm,
		logger: o.logger.With("stage", "analyze"),
	}, nil
}

// Run analyzes every eligible raw record in log order. Eligible means
// status ok with non-empty text and no existing AI record (unless the
// retry policy says otherwise). LLM failures are recorded as failed AI
// records, never propagated.
func (a *Analyzer) Run(ctx context.Context, opts *AnalyzeOptions) (*AnalyzeSummary, error) {
	if opts == nil {
		opts = &AnalyzeOptions{}
	}
	summary := &AnalyzeSummary{}

	idx := 0
	err := a.rawLog.ForEach(func(raw *core.RawRecord) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if raw.Status != core.StatusOK || strings.TrimSpace(raw.Text) == "" {
			return nil
		}
		if opts.Limit > 0 && summary.Processed >= opts.Limit {
			return errStopIteration
		}
		idx++

		replace := false
		if status, ok := a.aiLog.Status(raw.URL); ok {
			if status != core.StatusFailed || !opts.RetryFailed {
				summary.SkippedAlready++
				return nil
			}
			replace = true
		}

		a.logger.Info("analyzing article", "index", idx, "url", raw.URL, "retry", replace)

		record := a.analyzeRecord(ctx, raw)

		var err error
		if replace {
			err = a.aiLog.Replace(record)
		} else {
			err = a.aiLog.Append(record)
		}
		if err != nil {
			return fmt.Errorf("record analysis for %s: %w", raw.URL, err)
		}

		if record.Status == core.StatusOK {
			summary.Processed++
		} else {
			summary.Failed++
			a.logger.Warn("analysis failed", "url", raw.URL, "error", record.Error)
		}
		return nil
	})
	if err != nil && !errors.Is(err, errStopIteration) {
		return summary, err
	}

	a.logger.Info("analyze finished",
		"processed", summary.Processed, "failed", summary.Failed,
		"skipped_already", summary.SkippedAlready)
	return summary, nil
}

// analyzeRecord calls the LLM for one raw record and builds the AI record
// for it. The record inherits the article's identity fields and carries
// the model name either way, so failed analyses are auditable too.
func (a *Analyzer) analyzeRecord(ctx context.Context, raw *core.RawRecord) *core.AIRecord {
	record := &core.AIRecord{
		URL:        raw.URL,
		Source:     raw.Source,
		Title:      raw.Title,
		LLMModel:   a.llm.Model(),
		AnalyzedAt: time.Now().UTC(),
	}

	analysis, err := a.llm.Analyze(ctx, raw.Title, raw.Text)
	if err != nil {
		record.Status = core.StatusFailed
		record.Error = fmt.Sprintf("llm error: %v", err)
		return record
	}

	record.Status = core.StatusOK
	record.Summary = analysis.Summary
	record.Topics = analysis.Topics
	return record
}
