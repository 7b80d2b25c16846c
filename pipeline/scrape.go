package pipeline

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/VetalKamen/news-scrapper/core"
	"github.com/VetalKamen/news-scrapper/fetch"
	"github.com/VetalKamen/news-scrapper/storage"
)

// DefaultMinChars is the minimum extracted text length for a batch-scraped
// article to be recorded as ok.
const DefaultMinChars = 500

// ScrapeSummary reports the outcome of one scrape run. Added counts the
// records written this run (ok + failed + skipped); SkippedExisting counts
// URLs left alone because they already had a record.
type ScrapeSummary struct {
	Total           int `json:"total"`
	Added           int `json:"added"`
	OK              int `json:"ok"`
	Failed          int `json:"failed"`
	Skipped         int `json:"skipped"`
	SkippedExisting int `json:"skipped_existing"`
}

// ScrapeOptions holds per-run parameters for the scrape stage.
type ScrapeOptions struct {
	// MinChars is the minimum extracted character count for an ok
	// record. Zero means DefaultMinChars.
	MinChars int

	// Limit caps how many URLs are taken from the input after
	// deduplication. Zero means no limit.
	Limit int

	// Sleep is a politeness delay inserted after every fetch.
	Sleep time.Duration

	// RetryFailed re-fetches URLs whose existing record is failed,
	// replacing the old record with the new outcome. Records with ok or
	// skipped status are never re-fetched.
	RetryFailed bool
}

// Scraper runs the scrape stage: fetch each URL, extract its readable
// text, classify the outcome and append exactly one raw record per URL.
type Scraper struct {
	rawLog    storage.RawLog
	extractor fetch.Extractor
	logger    *slog.Logger
}

// NewScraper creates a scrape stage over the given raw log and extractor.
func NewScraper(rawLog storage.RawLog, extractor fetch.Extractor, opts ...Option) (*Scraper, error) {
	if rawLog == nil {
		return nil, ErrRawLogRequired
	}
	if extractor == nil {
		return nil, ErrExtractorRequired
	}
	o := newOptions(opts...)
	return &Scraper{
		rawLog:    rawLog,
		extractor: extractor,
		logger:    o.logger.With("stage", "scrape"),
	}, nil
}

// scrapeInput is one deduplicated batch entry. key is the record identity:
// the normalized URL, or the raw input when normalization failed (the
// failure still gets a record, keyed by what the user supplied).
type scrapeInput struct {
	key     string
	normErr error
}

// Run scrapes the given URLs in order. Inputs are normalized and
// deduplicated first-occurrence-wins before the optional limit applies.
// Per-URL failures are recorded, never propagated; the returned error is
// reserved for cancellation and log write failures.
func (s *Scraper) Run(ctx context.Context, urls []string, opts *ScrapeOptions) (*ScrapeSummary, error) {
	if opts == nil {
		opts = &ScrapeOptions{}
	}
	minChars := opts.MinChars
	if minChars <= 0 {
		minChars = DefaultMinChars
	}

	batch := prepareScrapeBatch(urls, opts.Limit)
	summary := &ScrapeSummary{Total: len(batch)}

	for i, in := range batch {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		replace := false
		if status, ok := s.rawLog.Status(in.key); ok {
			if status != core.StatusFailed || !opts.RetryFailed {
				summary.SkippedExisting++
				s.logger.Info("skipping already-scraped url",
					"index", i+1, "total", summary.Total, "url", in.key)
				continue
			}
			replace = true
		}

		s.logger.Info("processing url",
			"index", i+1, "total", summary.Total, "url", in.key, "retry", replace)

		record := s.scrapeOne(ctx, in, minChars)

		var err error
		if replace {
			err = s.rawLog.Replace(record)
		} else {
			err = s.rawLog.Append(record)
		}
		if err != nil {
			return summary, fmt.Errorf("record scrape result for %s: %w", in.key, err)
		}

		summary.Added++
		switch record.Status {
		case core.StatusOK:
			summary.OK++
		case core.StatusSkipped:
			summary.Skipped++
		default:
			summary.Failed++
		}

		if opts.Sleep > 0 {
			if err := sleepCtx(ctx, opts.Sleep); err != nil {
				return summary, err
			}
		}
	}

	s.logger.Info("scraping finished",
		"total", summary.Total, "added", summary.Added, "ok", summary.OK,
		"failed", summary.Failed, "skipped", summary.Skipped,
		"skipped_existing", summary.SkippedExisting)
	return summary, nil
}

// scrapeOne fetches and classifies a single URL. It always returns a
// record; fetch problems become failed records, not errors.
func (s *Scraper) scrapeOne(ctx context.Context, in scrapeInput, minChars int) *core.RawRecord {
	record := &core.RawRecord{
		URL:       in.key,
		Source:    hostOf(in.key),
		FetchedAt: time.Now().UTC(),
	}

	if in.normErr != nil {
		record.Status = core.StatusFailed
		record.Error = fmt.Sprintf("invalid url: %v", in.normErr)
		return record
	}

	article, err := s.extractor.Extract(ctx, in.key)
	if err != nil {
		record.Status = core.StatusFailed
		record.Error = fmt.Sprintf("http error: %v", err)
		return record
	}

	if article.Source != "" {
		record.Source = article.Source
	}
	record.Title = article.Title
	record.HTTPStatus = article.HTTPStatus
	record.ContentType = article.ContentType
	record.Language = article.Language
	record.LanguageConfidence = article.LanguageConfidence
	record.Chars = article.Chars

	switch {
	case article.HTTPStatus >= 400:
		record.Status = core.StatusFailed
		record.Error = fmt.Sprintf("HTTP %d", article.HTTPStatus)
	case !fetch.IsHTML(article.ContentType):
		record.Status = core.StatusSkipped
		record.Error = fmt.Sprintf("unsupported content type: %s", article.ContentType)
	case article.BodyChars == 0:
		record.Status = core.StatusFailed
		record.Error = "Empty HTML response"
	case article.Chars < minChars:
		record.Status = core.StatusFailed
		record.Error = fmt.Sprintf("Extraction too short (<%d chars)", minChars)
	default:
		record.Status = core.StatusOK
		record.Text = article.Text
	}

	return record
}

// prepareScrapeBatch normalizes and deduplicates the input, first
// occurrence wins, then applies the limit. Unnormalizable inputs stay in
// the batch keyed by their raw form so the failure gets recorded.
func prepareScrapeBatch(urls []string, limit int) []scrapeInput {
	seen := make(map[string]struct{}, len(urls))
	batch := make([]scrapeInput, 0, len(urls))

	for _, raw := range urls {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		key, err := core.NormalizeURL(raw)
		if err != nil {
			key = raw
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		batch = append(batch, scrapeInput{key: key, normErr: err})
	}

	if limit > 0 && len(batch) > limit {
		batch = batch[:limit]
	}
	return batch
}

// ReadURLsFile reads scrape input from a text file: one URL per line,
// blank lines and #-comment lines ignored, duplicates dropped while
// preserving order. A missing file is an error; it aborts the command
// rather than silently scraping nothing.
func ReadURLsFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("read urls file: %w", err)
	}
	defer f.Close()

	seen := make(map[string]struct{})
	var urls []string

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if _, dup := seen[line]; dup {
			continue
		}
		seen[line] = struct{}{}
		urls = append(urls, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read urls file: %w", err)
	}
	return urls, nil
}

func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return u.Host
}

// sleepCtx waits for the duration unless the context ends first.
func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
