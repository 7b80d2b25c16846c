package web

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/VetalKamen/news-scrapper/fetch"
	"github.com/VetalKamen/news-scrapper/retry"
)

const (
	defaultTimeout = 20 * time.Second

	// maxBodyBytes caps how much of a response is read. Articles are far
	// below this; the cap guards against endless streams.
	maxBodyBytes = 10 << 20

	fetchBaseDelay = 500 * time.Millisecond
	fetchMaxDelay  = 6 * time.Second
	fetchAttempts  = 3
)

// Browser-like request headers. Several news sites serve bot user agents
// an interstitial or a 403.
var defaultHeaders = map[string]string{
	"User-Agent": "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) " +
		"AppleWebKit/537.36 (KHTML, like Gecko) " +
		"Chrome/120.0.0.0 Safari/537.36",
	"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8",
	"Accept-Language": "en-US,en;q=0.9",
	"Cache-Control":   "no-cache",
	"Pragma":          "no-cache",
}

// Extractor implements fetch.Extractor over net/http with readability
// content extraction and language detection.
type Extractor struct {
	client *http.Client
	retry  retry.Policy
	logger *slog.Logger
}

var _ fetch.Extractor = (*Extractor)(nil)

// Option configures an Extractor.
type Option func(*Extractor)

// WithTimeout overrides the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(e *Extractor) {
		e.client.Timeout = d
	}
}

// WithHTTPClient replaces the HTTP client entirely, used by tests.
func WithHTTPClient(c *http.Client) Option {
	return func(e *Extractor) {
		e.client = c
	}
}

// NewExtractor creates a production extractor. Redirects are followed and
// transient transport failures are retried with backoff.
func NewExtractor(opts ...Option) fetch.Extractor {
	e := &Extractor{
		client: &http.Client{Timeout: defaultTimeout},
		retry: retry.Policy{
			MaxAttempts: fetchAttempts,
			BaseDelay:   fetchBaseDelay,
			MaxDelay:    fetchMaxDelay,
		},
		logger: slog.Default().With("component", "fetcher"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Close releases idle connections held by the HTTP client.
func (e *Extractor) Close() error {
	e.client.CloseIdleConnections()
	return nil
}

// Extract fetches the URL and extracts its readable content. Only
// transport failures surface as errors; HTTP error statuses and
// unsupported content types come back on the Article. Extraction is
// skipped for error statuses and non-HTML bodies since nothing downstream
// reads them.
func (e *Extractor) Extract(ctx context.Context, pageURL string) (*fetch.Article, error) {
	var (
		body        []byte
		finalURL    string
		status      int
		contentType string
	)

	err := e.retry.Do(ctx, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
		if err != nil {
			return err
		}
		for k, v := range defaultHeaders {
			req.Header.Set(k, v)
		}

		resp, err := e.client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
		if err != nil {
			return err
		}

		body = data
		finalURL = resp.Request.URL.String()
		status = resp.StatusCode
		contentType = resp.Header.Get("Content-Type")
		return nil
	})
	if err != nil {
		e.logger.Warn("fetch failed", "url", pageURL, "err", err)
		return nil, err
	}

	article := &fetch.Article{
		URL:         finalURL,
		Source:      hostOf(finalURL),
		HTTPStatus:  status,
		ContentType: contentType,
		BodyChars:   utf8.RuneCount(body),
	}

	if status >= 400 || article.BodyChars == 0 || !fetch.IsHTML(contentType) {
		return article, nil
	}

	title, text := extractReadable(finalURL, string(body))
	article.Title = title
	article.Text = text
	article.Chars = utf8.RuneCountInString(text)

	if text != "" {
		article.Language, article.LanguageConfidence = detectLanguage(text)
	}

	e.logger.Debug("fetched article",
		"url", finalURL,
		"status", status,
		"chars", article.Chars,
		"language", article.Language)
	return article, nil
}

// hostOf returns the lowercase host of a URL, or empty when unparsable.
func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Host)
}
