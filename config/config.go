// Package config holds the explicit configuration object for the pipeline.
//
// Precedence is fixed: built-in defaults, then an optional YAML file, then
// environment variables. Nothing in this package reads configuration
// ambiently at use time; the CLI loads a Config once and passes it into
// every constructor.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Defaults applied wherever the YAML file and environment are silent.
const (
	DefaultDataDir        = "data"
	DefaultLogLevel       = "info"
	DefaultModel          = "gpt-4o-mini"
	DefaultEmbeddingModel = "text-embedding-3-small"
	DefaultScrapeMinChars = 500
	DefaultIngestMinChars = 300
	DefaultTimeoutSecs    = 20
	DefaultTopK           = 5
)

// OpenAIConfig holds credentials and model selection for the
// OpenAI-compatible API.
type OpenAIConfig struct {
	// APIKey is intentionally excluded from YAML; it is supplied through
	// the OPENAI_API_KEY environment variable (or a .env file) only, so a
	// committed config file can never leak it.
	APIKey         string `yaml:"-"`
	BaseURL        string `yaml:"base_url,omitempty"`
	Model          string `yaml:"model"`
	EmbeddingModel string `yaml:"embedding_model"`
}

// ScrapeConfig configures the batch scrape stage.
type ScrapeConfig struct {
	MinChars    int `yaml:"min_chars"`
	TimeoutSecs int `yaml:"timeout_secs"`
}

// IngestConfig configures the single-URL ingest flow, which accepts
// shorter articles than the batch stage.
type IngestConfig struct {
	MinChars int `yaml:"min_chars"`
}

// SearchConfig configures the search command.
type SearchConfig struct {
	TopK int `yaml:"top_k"`
}

// Config is the root configuration for the scraping pipeline.
type Config struct {
	DataDir string `yaml:"data_dir"`

	// VectorDir overrides the vector store location. Empty means
	// <data_dir>/vectorstore.
	VectorDir string `yaml:"vector_dir,omitempty"`

	LogLevel string `yaml:"log_level"`

	// RetryFailed makes the analyze stage re-attempt articles whose
	// previous analysis failed instead of skipping them.
	RetryFailed bool `yaml:"retry_failed"`

	OpenAI OpenAIConfig `yaml:"openai"`
	Scrape ScrapeConfig `yaml:"scrape"`
	Ingest IngestConfig `yaml:"ingest"`
	Search SearchConfig `yaml:"search"`
}

// Default returns a Config with all built-in defaults applied and no
// credentials set.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// Load reads a config from path. A missing file is not an error: defaults
// are used. Environment variables are applied on top of whatever the file
// provided, so the environment always wins.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		// Defaults only.
	case err != nil:
		return nil, fmt.Errorf("read config %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	applyDefaults(cfg)
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the config to the given path, creating directories as needed.
// The API key is never written.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func applyDefaults(cfg *Config) {
	if cfg.DataDir == "" {
		cfg.DataDir = DefaultDataDir
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = DefaultLogLevel
	}
	if cfg.OpenAI.Model == "" {
		cfg.OpenAI.Model = DefaultModel
	}
	if cfg.OpenAI.EmbeddingModel == "" {
		cfg.OpenAI.EmbeddingModel = DefaultEmbeddingModel
	}
	if cfg.Scrape.MinChars == 0 {
		cfg.Scrape.MinChars = DefaultScrapeMinChars
	}
	if cfg.Scrape.TimeoutSecs == 0 {
		cfg.Scrape.TimeoutSecs = DefaultTimeoutSecs
	}
	if cfg.Ingest.MinChars == 0 {
		cfg.Ingest.MinChars = DefaultIngestMinChars
	}
	if cfg.Search.TopK == 0 {
		cfg.Search.TopK = DefaultTopK
	}
}

// applyEnv overlays recognized environment variables onto the config.
// Unset and empty variables leave the current value alone.
func (c *Config) applyEnv() error {
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		c.OpenAI.APIKey = v
	}
	if v := os.Getenv("OPENAI_MODEL"); v != "" {
		c.OpenAI.Model = v
	}
	if v := os.Getenv("OPENAI_EMBEDDING_MODEL"); v != "" {
		c.OpenAI.EmbeddingModel = v
	}
	if v := os.Getenv("OPENAI_BASE_URL"); v != "" {
		c.OpenAI.BaseURL = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("DATA_DIR"); v != "" {
		c.DataDir = v
	}
	if v := os.Getenv("VECTOR_DIR"); v != "" {
		c.VectorDir = v
	}
	if v := os.Getenv("RETRY_FAILED"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid RETRY_FAILED value %q: %w", v, err)
		}
		c.RetryFailed = b
	}
	if v := os.Getenv("HTTP_TIMEOUT"); v != "" {
		secs, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid HTTP_TIMEOUT value %q: expected whole seconds: %w", v, err)
		}
		c.Scrape.TimeoutSecs = secs
	}
	return nil
}

// RawLogPath is the location of the raw article log.
func (c *Config) RawLogPath() string {
	return filepath.Join(c.DataDir, "raw", "articles_raw.jsonl")
}

// AILogPath is the location of the analyzed article log.
func (c *Config) AILogPath() string {
	return filepath.Join(c.DataDir, "processed", "articles_ai.jsonl")
}

// VectorStoreDir is the directory owned by the vector store.
func (c *Config) VectorStoreDir() string {
	if c.VectorDir != "" {
		return c.VectorDir
	}
	return filepath.Join(c.DataDir, "vectorstore")
}

// HTTPTimeout is the per-request timeout for article fetches.
func (c *Config) HTTPTimeout() time.Duration {
	return time.Duration(c.Scrape.TimeoutSecs) * time.Second
}

// Level maps the configured log level onto slog. Both "warn" and the
// longer "warning" are accepted.
func (c *Config) Level() (slog.Level, error) {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("invalid log level %q: must be one of debug, info, warning, error", c.LogLevel)
}

// Validate checks that the configuration is complete enough to run any
// command that touches the OpenAI API or the data directory.
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return errors.New("config: data_dir is required")
	}
	if c.OpenAI.APIKey == "" {
		return errors.New("config: OPENAI_API_KEY is required")
	}
	if len(c.OpenAI.APIKey) < 10 {
		return errors.New("config: OPENAI_API_KEY looks too short")
	}
	if c.OpenAI.Model == "" {
		return errors.New("config: openai.model is required")
	}
	if c.OpenAI.EmbeddingModel == "" {
		return errors.New("config: openai.embedding_model is required")
	}
	if c.Scrape.MinChars <= 0 {
		return errors.New("config: scrape.min_chars must be positive")
	}
	if c.Scrape.TimeoutSecs <= 0 {
		return errors.New("config: scrape.timeout_secs must be positive")
	}
	if c.Ingest.MinChars <= 0 {
		return errors.New("config: ingest.min_chars must be positive")
	}
	if c.Search.TopK <= 0 {
		return errors.New("config: search.top_k must be positive")
	}
	if _, err := c.Level(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// EnsureDirs creates the data directories the pipeline writes to. It is
// safe to call repeatedly.
func (c *Config) EnsureDirs() error {
	dirs := []string{
		filepath.Dir(c.RawLogPath()),
		filepath.Dir(c.AILogPath()),
		c.VectorStoreDir(),
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create data directory %s: %w", dir, err)
		}
	}
	return nil
}
