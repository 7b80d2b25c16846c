package mock

import (
	"context"
	"fmt"
	"strings"

	"github.com/VetalKamen/news-scrapper/ai"
)

// MockAnalyzer is a test double for ai.Analyzer.
// It allows custom behavior injection via function fields.
type MockAnalyzer struct {
	// AnalyzeFunc is called by Analyze if set.
	// If nil, uses default deterministic behavior.
	AnalyzeFunc func(ctx context.Context, title, text string) (*ai.Analysis, error)

	// ModelName is returned by Model. Defaults to "mock-model".
	ModelName string

	callCount int
}

var _ ai.Analyzer = (*MockAnalyzer)(nil)

// NewMockAnalyzer creates a mock analyzer with default deterministic behavior.
// Returns the concrete type so tests can inject behavior and assert on calls.
func NewMockAnalyzer() *MockAnalyzer {
	return &MockAnalyzer{ModelName: "mock-model"}
}

// Analyze produces a deterministic analysis derived from the article.
// The result always satisfies the analysis output contract.
func (m *MockAnalyzer) Analyze(ctx context.Context, title, text string) (*ai.Analysis, error) {
	m.callCount++

	if m.AnalyzeFunc != nil {
		return m.AnalyzeFunc(ctx, title, text)
	}

	if strings.TrimSpace(text) == "" {
		return nil, ai.ErrEmptyInput
	}

	topics := []string{"mock", "analysis"}
	for _, word := range strings.Fields(strings.ToLower(title)) {
		word = strings.Trim(word, ".,!?;:\"'()[]")
		if word != "" {
			topics = append(topics, word)
		}
		if len(topics) == ai.MaxTopics {
			break
		}
	}
	topics = ai.NormalizeTopics(topics)
	for _, filler := range []string{"news", "articles", "testing"} {
		if len(topics) >= ai.MinTopics {
			break
		}
		topics = append(topics, filler)
	}
	topics = ai.NormalizeTopics(topics)

	analysis := &ai.Analysis{
		Summary: fmt.Sprintf("Deterministic summary of %d characters of article text.", len(text)),
		Topics:  topics,
	}
	analysis.Normalize()
	if err := analysis.Validate(); err != nil {
		return nil, err
	}
	return analysis, nil
}

// Model returns the configured mock model identifier.
func (m *MockAnalyzer) Model() string {
	return m.ModelName
}

// CallCount returns the number of times Analyze was called.
func (m *MockAnalyzer) CallCount() int {
	return m.callCount
}

// Reset clears the call count and injected behavior.
func (m *MockAnalyzer) Reset() {
	m.callCount = 0
	m.AnalyzeFunc = nil
}
