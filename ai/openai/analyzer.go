package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/VetalKamen/news-scrapper/ai"
	"github.com/VetalKamen/news-scrapper/retry"
)

// Backoff schedule for analysis calls. Transient API failures and
// malformed responses share the same budget.
const (
	analyzeBaseDelay = 1 * time.Second
	analyzeMaxDelay  = 10 * time.Second
)

// Analyzer implements ai.Analyzer using OpenAI-compatible chat APIs.
type Analyzer struct {
	client      llms.Model
	model       string
	maxTokens   int
	temperature float64
	retry       retry.Policy
	logger      *slog.Logger
}

var _ ai.Analyzer = (*Analyzer)(nil)

// newAnalyzer is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newAnalyzer(config *ai.Config) (*Analyzer, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	opts := []openai.Option{
		openai.WithToken(config.APIKey),
		openai.WithModel(config.Model),
	}
	if config.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(config.BaseURL))
	}

	client, err := openai.New(opts...)
	if err != nil {
		return nil, err
	}

	return &Analyzer{
		client:      client,
		model:       config.Model,
		maxTokens:   config.MaxTokens,
		temperature: config.Temperature,
		retry: retry.Policy{
			MaxAttempts: config.MaxAttempts,
			BaseDelay:   analyzeBaseDelay,
			MaxDelay:    analyzeMaxDelay,
		},
		logger: slog.Default().With("component", "openai-analyzer"),
	}, nil
}

// NewAnalyzer creates a new article analyzer using the provided configuration.
//
// Returns ai.Analyzer interface to enforce abstraction.
func NewAnalyzer(config *ai.Config) (ai.Analyzer, error) {
	return newAnalyzer(config)
}

// Model returns the identifier of the chat model used for analysis.
func (a *Analyzer) Model() string {
	return a.model
}

// Analyze summarizes the article and tags it with topics. The whole call,
// generation plus parsing, is retried with backoff so a malformed response
// gets a fresh completion rather than a doomed re-parse.
func (a *Analyzer) Analyze(ctx context.Context, title, text string) (*ai.Analysis, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ai.ErrEmptyInput
	}

	content := []llms.MessageContent{
		{
			Role: llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{
				llms.TextPart(systemPrompt),
			},
		},
		{
			Role: llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{
				llms.TextPart(buildAnalysisPrompt(title, text)),
			},
		},
	}

	var result *ai.Analysis

	err := a.retry.Do(ctx, func() error {
		analysis, err := a.generateOnce(ctx, content)
		if err != nil {
			return err
		}
		result = analysis
		return nil
	})
	if err != nil {
		a.logger.Error("analysis failed", "title", title, "err", err)
		return nil, err
	}

	a.logger.Debug("analysis complete", "title", title, "topics", len(result.Topics))
	return result, nil
}

// generateOnce performs a single completion round trip and parses it.
func (a *Analyzer) generateOnce(ctx context.Context, content []llms.MessageContent) (*ai.Analysis, error) {
	response, err := a.client.GenerateContent(ctx, content,
		llms.WithTemperature(a.temperature),
		llms.WithMaxTokens(a.maxTokens),
		llms.WithJSONMode(),
	)
	if err != nil {
		return nil, err
	}

	if len(response.Choices) == 0 {
		return nil, errors.New("model returned no choices")
	}

	raw := sanitizeJSON(response.Choices[0].Content)

	var analysis ai.Analysis
	if err := json.Unmarshal([]byte(raw), &analysis); err != nil {
		a.logger.Warn("unparseable model response", "response", raw, "err", err)
		return nil, fmt.Errorf("invalid JSON from model: %w", err)
	}

	analysis.Normalize()
	if err := analysis.Validate(); err != nil {
		a.logger.Warn("model response failed validation", "err", err)
		return nil, err
	}

	return &analysis, nil
}
