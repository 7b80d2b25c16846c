package openai

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"

	"github.com/VetalKamen/news-scrapper/ai"
	"github.com/VetalKamen/news-scrapper/retry"
)

// stubModel scripts GenerateContent responses per call.
type stubModel struct {
	responses []string
	errs      []error
	calls     int
}

func (m *stubModel) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	idx := m.calls
	m.calls++

	if idx < len(m.errs) && m.errs[idx] != nil {
		return nil, m.errs[idx]
	}

	content := ""
	if len(m.responses) > 0 {
		if idx >= len(m.responses) {
			idx = len(m.responses) - 1
		}
		content = m.responses[idx]
	}

	return &llms.ContentResponse{
		Choices: []*llms.ContentChoice{{Content: content}},
	}, nil
}

func (m *stubModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return "", errors.New("not implemented")
}

func newTestAnalyzer(client llms.Model, maxAttempts int) *Analyzer {
	return &Analyzer{
		client:      client,
		model:       "gpt-4o-mini",
		maxTokens:   400,
		temperature: 0.2,
		retry:       retry.Policy{MaxAttempts: maxAttempts, BaseDelay: time.Millisecond},
		logger:      slog.Default().With("component", "openai-analyzer"),
	}
}

const validResponse = `{"summary":"The article reports three things. It explains the context. It closes with outlook.","topics":["Economy","Markets","policy"]}`

func TestAnalyze_ValidResponse(t *testing.T) {
	model := &stubModel{responses: []string{validResponse}}
	analyzer := newTestAnalyzer(model, 3)

	analysis, err := analyzer.Analyze(context.Background(), "Headline", "Body text of the article.")
	require.NoError(t, err)
	require.NotNil(t, analysis)

	assert.Equal(t, 1, model.calls)
	assert.Contains(t, analysis.Summary, "three things")
	// Topics come back normalized.
	assert.Equal(t, []string{"economy", "markets", "policy"}, analysis.Topics)
}

func TestAnalyze_FencedResponse(t *testing.T) {
	model := &stubModel{responses: []string{"```json\n" + validResponse + "\n```"}}
	analyzer := newTestAnalyzer(model, 3)

	analysis, err := analyzer.Analyze(context.Background(), "Headline", "Body text.")
	require.NoError(t, err)
	assert.Len(t, analysis.Topics, 3)
}

func TestAnalyze_RetriesMalformedJSON(t *testing.T) {
	model := &stubModel{responses: []string{"{not valid", validResponse}}
	analyzer := newTestAnalyzer(model, 3)

	analysis, err := analyzer.Analyze(context.Background(), "Headline", "Body text.")
	require.NoError(t, err)
	assert.Equal(t, 2, model.calls)
	assert.NotEmpty(t, analysis.Summary)
}

func TestAnalyze_ExhaustsRetries(t *testing.T) {
	model := &stubModel{responses: []string{"{not valid"}}
	analyzer := newTestAnalyzer(model, 2)

	analysis, err := analyzer.Analyze(context.Background(), "Headline", "Body text.")
	require.Error(t, err)
	assert.Nil(t, analysis)
	assert.Equal(t, 2, model.calls)
}

func TestAnalyze_RetriesAPIError(t *testing.T) {
	apiErr := errors.New("rate limited")
	model := &stubModel{
		errs:      []error{apiErr, nil},
		responses: []string{"", validResponse},
	}
	analyzer := newTestAnalyzer(model, 3)

	analysis, err := analyzer.Analyze(context.Background(), "Headline", "Body text.")
	require.NoError(t, err)
	assert.Equal(t, 2, model.calls)
	assert.NotNil(t, analysis)
}

func TestAnalyze_PersistentAPIError(t *testing.T) {
	apiErr := errors.New("model offline")
	model := &stubModel{errs: []error{apiErr, apiErr, apiErr}}
	analyzer := newTestAnalyzer(model, 3)

	analysis, err := analyzer.Analyze(context.Background(), "Headline", "Body text.")
	require.Error(t, err)
	assert.ErrorIs(t, err, apiErr)
	assert.Nil(t, analysis)
	assert.Equal(t, 3, model.calls)
}

func TestAnalyze_RejectsContractViolations(t *testing.T) {
	t.Run("too few topics", func(t *testing.T) {
		model := &stubModel{responses: []string{`{"summary":"Fine summary.","topics":["one","two"]}`}}
		analyzer := newTestAnalyzer(model, 1)

		_, err := analyzer.Analyze(context.Background(), "Headline", "Body text.")
		assert.ErrorIs(t, err, ai.ErrInvalidAnalysis)
	})

	t.Run("empty summary", func(t *testing.T) {
		model := &stubModel{responses: []string{`{"summary":"  ","topics":["a","b","c"]}`}}
		analyzer := newTestAnalyzer(model, 1)

		_, err := analyzer.Analyze(context.Background(), "Headline", "Body text.")
		assert.ErrorIs(t, err, ai.ErrInvalidAnalysis)
	})

	t.Run("duplicate topics collapse below minimum", func(t *testing.T) {
		model := &stubModel{responses: []string{`{"summary":"Fine summary.","topics":["same","Same","SAME"]}`}}
		analyzer := newTestAnalyzer(model, 1)

		_, err := analyzer.Analyze(context.Background(), "Headline", "Body text.")
		assert.ErrorIs(t, err, ai.ErrInvalidAnalysis)
	})
}

func TestAnalyze_EmptyText(t *testing.T) {
	model := &stubModel{responses: []string{validResponse}}
	analyzer := newTestAnalyzer(model, 3)

	_, err := analyzer.Analyze(context.Background(), "Headline", "   ")
	assert.ErrorIs(t, err, ai.ErrEmptyInput)
	assert.Equal(t, 0, model.calls)
}

func TestAnalyzerModel(t *testing.T) {
	analyzer := newTestAnalyzer(&stubModel{}, 1)
	assert.Equal(t, "gpt-4o-mini", analyzer.Model())
}
