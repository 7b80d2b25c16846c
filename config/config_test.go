package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pipelineEnvVars is every variable applyEnv reads. Tests clear them all so
// the developer's real environment cannot leak into assertions.
var pipelineEnvVars = []string{
	"OPENAI_API_KEY",
	"OPENAI_MODEL",
	"OPENAI_EMBEDDING_MODEL",
	"OPENAI_BASE_URL",
	"LOG_LEVEL",
	"DATA_DIR",
	"VECTOR_DIR",
	"RETRY_FAILED",
	"HTTP_TIMEOUT",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range pipelineEnvVars {
		t.Setenv(key, "")
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "data", cfg.DataDir)
	assert.Equal(t, "", cfg.VectorDir)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.RetryFailed)
	assert.Equal(t, "gpt-4o-mini", cfg.OpenAI.Model)
	assert.Equal(t, "text-embedding-3-small", cfg.OpenAI.EmbeddingModel)
	assert.Empty(t, cfg.OpenAI.APIKey)
	assert.Equal(t, 500, cfg.Scrape.MinChars)
	assert.Equal(t, 20, cfg.Scrape.TimeoutSecs)
	assert.Equal(t, 300, cfg.Ingest.MinChars)
	assert.Equal(t, 5, cfg.Search.TopK)
}

func TestLoad_MissingFile(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "no-such-config.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_YAMLFile(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := `
data_dir: /tmp/news
log_level: debug
retry_failed: true
openai:
  model: gpt-4o
scrape:
  min_chars: 250
search:
  top_k: 10
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/news", cfg.DataDir)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.True(t, cfg.RetryFailed)
	assert.Equal(t, "gpt-4o", cfg.OpenAI.Model)
	assert.Equal(t, 250, cfg.Scrape.MinChars)
	assert.Equal(t, 10, cfg.Search.TopK)

	// Fields the file leaves out fall back to defaults.
	assert.Equal(t, "text-embedding-3-small", cfg.OpenAI.EmbeddingModel)
	assert.Equal(t, 20, cfg.Scrape.TimeoutSecs)
	assert.Equal(t, 300, cfg.Ingest.MinChars)
}

func TestLoad_InvalidYAML(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("data_dir: [not: closed"), 0o644))

	cfg, err := Load(path)
	assert.Error(t, err)
	assert.Nil(t, cfg)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := `
data_dir: /from/file
openai:
  model: from-file-model
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	t.Setenv("DATA_DIR", "/from/env")
	t.Setenv("OPENAI_MODEL", "from-env-model")
	t.Setenv("OPENAI_API_KEY", "sk-test-0123456789")
	t.Setenv("OPENAI_BASE_URL", "http://localhost:11434/v1")
	t.Setenv("VECTOR_DIR", "/vectors/elsewhere")
	t.Setenv("RETRY_FAILED", "true")
	t.Setenv("HTTP_TIMEOUT", "45")
	t.Setenv("LOG_LEVEL", "error")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/from/env", cfg.DataDir)
	assert.Equal(t, "from-env-model", cfg.OpenAI.Model)
	assert.Equal(t, "sk-test-0123456789", cfg.OpenAI.APIKey)
	assert.Equal(t, "http://localhost:11434/v1", cfg.OpenAI.BaseURL)
	assert.Equal(t, "/vectors/elsewhere", cfg.VectorDir)
	assert.True(t, cfg.RetryFailed)
	assert.Equal(t, 45, cfg.Scrape.TimeoutSecs)
	assert.Equal(t, "error", cfg.LogLevel)
}

func TestLoad_BadEnvValues(t *testing.T) {
	t.Run("retry_failed not a bool", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("RETRY_FAILED", "sometimes")

		cfg, err := Load(filepath.Join(t.TempDir(), "config.yaml"))
		assert.Error(t, err)
		assert.Nil(t, cfg)
		assert.Contains(t, err.Error(), "RETRY_FAILED")
	})

	t.Run("http_timeout not a number", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("HTTP_TIMEOUT", "20s")

		cfg, err := Load(filepath.Join(t.TempDir(), "config.yaml"))
		assert.Error(t, err)
		assert.Nil(t, cfg)
		assert.Contains(t, err.Error(), "HTTP_TIMEOUT")
	})
}

func TestConfig_Paths(t *testing.T) {
	cfg := Default()
	cfg.DataDir = "/srv/news"

	assert.Equal(t, filepath.Join("/srv/news", "raw", "articles_raw.jsonl"), cfg.RawLogPath())
	assert.Equal(t, filepath.Join("/srv/news", "processed", "articles_ai.jsonl"), cfg.AILogPath())
	assert.Equal(t, filepath.Join("/srv/news", "vectorstore"), cfg.VectorStoreDir())

	cfg.VectorDir = "/mnt/vectors"
	assert.Equal(t, "/mnt/vectors", cfg.VectorStoreDir())
}

func TestConfig_Level(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{"debug", slog.LevelDebug, false},
		{"info", slog.LevelInfo, false},
		{"", slog.LevelInfo, false},
		{"warn", slog.LevelWarn, false},
		{"warning", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"DEBUG", slog.LevelDebug, false},
		{"Warning", slog.LevelWarn, false},
		{"verbose", 0, true},
	}

	for _, tt := range tests {
		t.Run("level "+tt.in, func(t *testing.T) {
			cfg := Default()
			cfg.LogLevel = tt.in
			level, err := cfg.Level()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, level)
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	valid := func() *Config {
		cfg := Default()
		cfg.OpenAI.APIKey = "sk-test-0123456789"
		return cfg
	}

	t.Run("valid config", func(t *testing.T) {
		assert.NoError(t, valid().Validate())
	})

	t.Run("missing api key", func(t *testing.T) {
		cfg := valid()
		cfg.OpenAI.APIKey = ""
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "OPENAI_API_KEY is required")
	})

	t.Run("short api key", func(t *testing.T) {
		cfg := valid()
		cfg.OpenAI.APIKey = "sk-short"
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "looks too short")
	})

	t.Run("missing data dir", func(t *testing.T) {
		cfg := valid()
		cfg.DataDir = ""
		assert.Error(t, cfg.Validate())
	})

	t.Run("non-positive thresholds", func(t *testing.T) {
		cfg := valid()
		cfg.Scrape.MinChars = 0
		assert.Error(t, cfg.Validate())

		cfg = valid()
		cfg.Ingest.MinChars = -1
		assert.Error(t, cfg.Validate())

		cfg = valid()
		cfg.Search.TopK = 0
		assert.Error(t, cfg.Validate())

		cfg = valid()
		cfg.Scrape.TimeoutSecs = 0
		assert.Error(t, cfg.Validate())
	})

	t.Run("bad log level", func(t *testing.T) {
		cfg := valid()
		cfg.LogLevel = "loud"
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid log level")
	})
}

func TestConfig_EnsureDirs(t *testing.T) {
	cfg := Default()
	cfg.DataDir = filepath.Join(t.TempDir(), "data")

	require.NoError(t, cfg.EnsureDirs())

	for _, dir := range []string{
		filepath.Join(cfg.DataDir, "raw"),
		filepath.Join(cfg.DataDir, "processed"),
		filepath.Join(cfg.DataDir, "vectorstore"),
	} {
		info, err := os.Stat(dir)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	}

	// Second call is a no-op.
	require.NoError(t, cfg.EnsureDirs())
}

func TestSave_RoundTrip(t *testing.T) {
	clearEnv(t)

	cfg := Default()
	cfg.DataDir = "/srv/news"
	cfg.RetryFailed = true
	cfg.OpenAI.APIKey = "sk-secret-never-on-disk"
	cfg.Scrape.MinChars = 321

	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	require.NoError(t, Save(path, cfg))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "sk-secret-never-on-disk")

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/srv/news", loaded.DataDir)
	assert.True(t, loaded.RetryFailed)
	assert.Equal(t, 321, loaded.Scrape.MinChars)
	assert.Empty(t, loaded.OpenAI.APIKey)
}
