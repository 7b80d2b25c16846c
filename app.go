package newscrapper

import (
	"errors"
	"io"
	"log/slog"

	"github.com/VetalKamen/news-scrapper/ai"
	"github.com/VetalKamen/news-scrapper/ai/openai"
	"github.com/VetalKamen/news-scrapper/config"
	"github.com/VetalKamen/news-scrapper/fetch"
	"github.com/VetalKamen/news-scrapper/fetch/web"
	"github.com/VetalKamen/news-scrapper/pipeline"
	"github.com/VetalKamen/news-scrapper/reindex"
	"github.com/VetalKamen/news-scrapper/search"
	"github.com/VetalKamen/news-scrapper/storage"
	"github.com/VetalKamen/news-scrapper/storage/badger"
	"github.com/VetalKamen/news-scrapper/storage/jsonl"
)

// ErrConfigRequired is returned when Open is called without a configuration.
var ErrConfigRequired = errors.New("config required")

// App wires the record logs, the vector store and the external
// capabilities from one configuration and hands out the stage
// orchestrators built on them.
type App struct {
	cfg       *config.Config
	rawLog    storage.RawLog
	aiLog     storage.AILog
	store     storage.VectorStore
	extractor fetch.Extractor
	provider  ai.Provider
	logger    *slog.Logger
}

// AppOption configures an App.
type AppOption func(*appOptions)

type appOptions struct {
	logger    *slog.Logger
	extractor fetch.Extractor
	provider  ai.Provider
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) AppOption {
	return func(o *appOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithExtractor replaces the web extractor, used by tests.
func WithExtractor(extractor fetch.Extractor) AppOption {
	return func(o *appOptions) {
		o.extractor = extractor
	}
}

// WithProvider replaces the OpenAI provider, used by tests.
func WithProvider(provider ai.Provider) AppOption {
	return func(o *appOptions) {
		o.provider = provider
	}
}

// Open builds the full dependency graph under cfg's data directory:
// both record logs, the vector store, the article extractor and the AI
// provider. The caller owns the returned App and must Close it.
func Open(cfg *config.Config, opts ...AppOption) (*App, error) {
	if cfg == nil {
		return nil, ErrConfigRequired
	}

	o := &appOptions{logger: slog.Default()}
	for _, opt := range opts {
		opt(o)
	}

	if err := cfg.EnsureDirs(); err != nil {
		return nil, err
	}

	rawLog, err := jsonl.OpenRawLog(cfg.RawLogPath())
	if err != nil {
		return nil, err
	}

	aiLog, err := jsonl.OpenAILog(cfg.AILogPath())
	if err != nil {
		return nil, err
	}

	store, err := badger.Open(cfg.VectorStoreDir())
	if err != nil {
		return nil, err
	}

	extractor := o.extractor
	if extractor == nil {
		extractor = web.NewExtractor(web.WithTimeout(cfg.HTTPTimeout()))
	}

	provider := o.provider
	if provider == nil {
		provider, err = openai.NewProvider(ai.NewConfig(
			ai.WithAPIKey(cfg.OpenAI.APIKey),
			ai.WithBaseURL(cfg.OpenAI.BaseURL),
			ai.WithModel(cfg.OpenAI.Model),
			ai.WithEmbeddingModel(cfg.OpenAI.EmbeddingModel),
		))
		if err != nil {
			extractor.Close()
			store.Close()
			return nil, err
		}
	}

	return &App{
		cfg:       cfg,
		rawLog:    rawLog,
		aiLog:     aiLog,
		store:     store,
		extractor: extractor,
		provider:  provider,
		logger:    o.logger,
	}, nil
}

// Close releases the vector store and the external clients. The record
// logs keep no handles open between operations.
func (a *App) Close() error {
	if err := a.extractor.Close(); err != nil {
		a.logger.Error("error closing extractor", "err", err)
	}
	if err := a.provider.Close(); err != nil {
		a.logger.Error("error closing AI provider", "err", err)
	}
	if err := a.store.Close(); err != nil {
		a.logger.Error("error closing vector store", "err", err)
		return err
	}
	return nil
}

// Config returns the configuration the App was opened with.
func (a *App) Config() *config.Config {
	return a.cfg
}

// RawLog returns the scrape record log.
func (a *App) RawLog() storage.RawLog {
	return a.rawLog
}

// AILog returns the analysis record log.
func (a *App) AILog() storage.AILog {
	return a.aiLog
}

// VectorStore returns the vector index.
func (a *App) VectorStore() storage.VectorStore {
	return a.store
}

func (a *App) NewScraper(opts ...pipeline.Option) (*pipeline.Scraper, error) {
	return pipeline.NewScraper(a.rawLog, a.extractor, opts...)
}

func (a *App) NewAnalyzer(opts ...pipeline.Option) (*pipeline.Analyzer, error) {
	return pipeline.NewAnalyzer(a.rawLog, a.aiLog, a.provider.Analyzer(), opts...)
}

func (a *App) NewIndexer(opts ...pipeline.Option) (*pipeline.Indexer, error) {
	return pipeline.NewIndexer(a.aiLog, a.store, a.provider.Embedder(), opts...)
}

func (a *App) NewIngestor(opts ...pipeline.Option) (*pipeline.Ingestor, error) {
	return pipeline.NewIngestor(a.rawLog, a.aiLog, a.store, a.extractor,
		a.provider.Analyzer(), a.provider.Embedder(), opts...)
}

func (a *App) NewSearcher(opts ...search.Option) (*search.Searcher, error) {
	return search.NewSearcher(a.store, a.provider.Embedder(), opts...)
}

// NewReindexer creates the maintenance reindexer. progress may be nil,
// in which case progress output is discarded.
func (a *App) NewReindexer(config *reindex.Config, progress io.Writer) (*reindex.Reindexer, error) {
	return reindex.NewReindexer(a.aiLog, a.store, a.provider.Embedder(), config, progress)
}
