package mock

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/VetalKamen/news-scrapper/fetch"
)

// MockExtractor is a test double for fetch.Extractor.
// It allows custom behavior injection via function fields.
type MockExtractor struct {
	// ExtractFunc is called by Extract if set.
	// If nil, uses default deterministic behavior.
	ExtractFunc func(ctx context.Context, url string) (*fetch.Article, error)

	callCount int
}

var _ fetch.Extractor = (*MockExtractor)(nil)

// NewMockExtractor creates a mock extractor with default behavior.
// Returns the concrete type so tests can inject behavior and assert on calls.
func NewMockExtractor() *MockExtractor {
	return &MockExtractor{}
}

// Extract returns a deterministic, successfully extracted article for the
// URL: an HTML 200 response with several hundred characters of text.
func (m *MockExtractor) Extract(ctx context.Context, pageURL string) (*fetch.Article, error) {
	m.callCount++

	if m.ExtractFunc != nil {
		return m.ExtractFunc(ctx, pageURL)
	}

	text := strings.TrimSpace(strings.Repeat("The quick brown fox jumps over the lazy dog. ", 14))
	return &fetch.Article{
		URL:                pageURL,
		Source:             hostOf(pageURL),
		Title:              fmt.Sprintf("Article at %s", pageURL),
		Text:               text,
		Chars:              utf8.RuneCountInString(text),
		BodyChars:          len(text) * 2,
		HTTPStatus:         200,
		ContentType:        "text/html; charset=utf-8",
		Language:           "en",
		LanguageConfidence: 0.99,
	}, nil
}

// Close is a no-op for the mock extractor.
func (m *MockExtractor) Close() error {
	return nil
}

// CallCount returns the number of times Extract was called.
func (m *MockExtractor) CallCount() int {
	return m.callCount
}

// Reset clears the call count and injected behavior.
func (m *MockExtractor) Reset() {
	m.callCount = 0
	m.ExtractFunc = nil
}

func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Host)
}
