package ai

import (
	"errors"
	"strings"
)

// Config holds configuration for AI service providers.
type Config struct {
	// APIKey authenticates against the OpenAI-compatible API.
	APIKey string

	// BaseURL optionally overrides the API endpoint, for OpenAI-compatible
	// servers such as Ollama or vLLM. Empty means the provider default.
	// Example: "http://localhost:11434/v1"
	BaseURL string

	// Model is the chat model used for article analysis.
	// Example: "gpt-4o-mini"
	Model string

	// EmbeddingModel is the model used for text embeddings.
	// Example: "text-embedding-3-small"
	EmbeddingModel string

	// MaxTokens bounds the analysis completion length.
	MaxTokens int

	// Temperature is the sampling temperature for analysis calls. Low
	// values keep the JSON output stable.
	Temperature float64

	// MaxAttempts is how many times an analysis call is tried before the
	// article is recorded as failed.
	MaxAttempts int
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithAPIKey sets the API key.
func WithAPIKey(key string) ConfigOption {
	return func(c *Config) {
		c.APIKey = key
	}
}

// WithBaseURL sets the API endpoint override.
func WithBaseURL(url string) ConfigOption {
	return func(c *Config) {
		c.BaseURL = url
	}
}

// WithModel sets the analysis model identifier.
func WithModel(model string) ConfigOption {
	return func(c *Config) {
		c.Model = model
	}
}

// WithEmbeddingModel sets the embedding model identifier.
func WithEmbeddingModel(model string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingModel = model
	}
}

// WithMaxTokens sets the completion token budget for analysis calls.
func WithMaxTokens(n int) ConfigOption {
	return func(c *Config) {
		c.MaxTokens = n
	}
}

// WithTemperature sets the sampling temperature for analysis calls.
func WithTemperature(t float64) ConfigOption {
	return func(c *Config) {
		c.Temperature = t
	}
}

// WithMaxAttempts sets the retry budget for analysis calls.
func WithMaxAttempts(n int) ConfigOption {
	return func(c *Config) {
		c.MaxAttempts = n
	}
}

// DefaultConfig returns a Config with the defaults used by the pipeline.
// The API key always has to be supplied by the caller.
func DefaultConfig() *Config {
	return &Config{
		Model:          "gpt-4o-mini",
		EmbeddingModel: "text-embedding-3-small",
		MaxTokens:      400,
		Temperature:    0.2,
		MaxAttempts:    3,
	}
}

// NewConfig creates a Config with the default values and applies the
// provided options.
//
// Example:
//
//	cfg := ai.NewConfig(
//	    ai.WithAPIKey(key),
//	    ai.WithModel("gpt-4o-mini"),
//	)
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Normalize ensures the configuration is in a canonical form. A BaseURL
// override gets the /v1 suffix most OpenAI-compatible servers (Ollama,
// LocalAI, vLLM) expect.
func (c *Config) Normalize() {
	c.APIKey = strings.TrimSpace(c.APIKey)
	if c.BaseURL != "" && !strings.HasSuffix(c.BaseURL, "/v1") {
		c.BaseURL = strings.TrimSuffix(c.BaseURL, "/")
		c.BaseURL = c.BaseURL + "/v1"
	}
}

// Validate checks that the configuration is valid and complete.
// It normalizes the configuration before validation.
func (c *Config) Validate() error {
	c.Normalize()

	if c.APIKey == "" {
		return errors.New("ai config: APIKey is required")
	}
	if len(c.APIKey) < 10 {
		return errors.New("ai config: APIKey looks too short")
	}
	if c.Model == "" {
		return errors.New("ai config: Model is required")
	}
	if c.EmbeddingModel == "" {
		return errors.New("ai config: EmbeddingModel is required")
	}
	if c.MaxTokens <= 0 {
		return errors.New("ai config: MaxTokens must be positive")
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return errors.New("ai config: Temperature must be between 0 and 2")
	}
	if c.MaxAttempts < 1 {
		return errors.New("ai config: MaxAttempts must be at least 1")
	}
	return nil
}
