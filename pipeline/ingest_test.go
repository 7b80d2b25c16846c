package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VetalKamen/news-scrapper/ai"
	aimock "github.com/VetalKamen/news-scrapper/ai/mock"
	"github.com/VetalKamen/news-scrapper/core"
	"github.com/VetalKamen/news-scrapper/fetch"
	fetchmock "github.com/VetalKamen/news-scrapper/fetch/mock"
	"github.com/VetalKamen/news-scrapper/storage"
)

type ingestFixture struct {
	rawLog    storage.RawLog
	aiLog     storage.AILog
	store     storage.VectorStore
	extractor *fetchmock.MockExtractor
	llm       *aimock.MockAnalyzer
	embedder  *aimock.MockEmbedder
	ingestor  *Ingestor
}

func newIngestFixture(t *testing.T) *ingestFixture {
	t.Helper()
	f := &ingestFixture{
		rawLog:    newTestRawLog(t),
		aiLog:     newTestAILog(t),
		store:     newTestVectorStore(t),
		extractor: fetchmock.NewMockExtractor(),
		llm:       aimock.NewMockAnalyzer(),
		embedder:  aimock.NewMockEmbedder(),
	}
	ingestor, err := NewIngestor(f.rawLog, f.aiLog, f.store, f.extractor, f.llm, f.embedder)
	require.NoError(t, err)
	f.ingestor = ingestor
	return f
}

func TestNewIngestor_Validation(t *testing.T) {
	f := newIngestFixture(t)

	_, err := NewIngestor(nil, f.aiLog, f.store, f.extractor, f.llm, f.embedder)
	assert.ErrorIs(t, err, ErrRawLogRequired)

	_, err = NewIngestor(f.rawLog, nil, f.store, f.extractor, f.llm, f.embedder)
	assert.ErrorIs(t, err, ErrAILogRequired)

	_, err = NewIngestor(f.rawLog, f.aiLog, nil, f.extractor, f.llm, f.embedder)
	assert.ErrorIs(t, err, ErrVectorStoreRequired)

	_, err = NewIngestor(f.rawLog, f.aiLog, f.store, nil, f.llm, f.embedder)
	assert.ErrorIs(t, err, ErrExtractorRequired)

	_, err = NewIngestor(f.rawLog, f.aiLog, f.store, f.extractor, nil, f.embedder)
	assert.ErrorIs(t, err, ErrAnalyzerRequired)

	_, err = NewIngestor(f.rawLog, f.aiLog, f.store, f.extractor, f.llm, nil)
	assert.ErrorIs(t, err, ErrEmbedderRequired)
}

func TestIngest_FullFlow(t *testing.T) {
	f := newIngestFixture(t)
	url := "https://news.example/economy/rates"

	result, err := f.ingestor.Run(context.Background(), url, nil)
	require.NoError(t, err)

	assert.Equal(t, core.StatusOK, result.Status)
	assert.Equal(t, url, result.URL)
	assert.Empty(t, result.Stage)
	assert.Equal(t, &ScrapeSummary{Total: 1, Added: 1, OK: 1}, result.Scrape)
	assert.Equal(t, &AnalyzeSummary{Processed: 1}, result.Analyze)
	assert.Equal(t, &IndexSummary{Added: 1}, result.Index)

	raw, err := f.rawLog.Get(url)
	require.NoError(t, err)
	assert.Equal(t, core.StatusOK, raw.Status)

	rec, err := f.aiLog.Get(url)
	require.NoError(t, err)
	assert.Equal(t, core.StatusOK, rec.Status)
	assert.Equal(t, "mock-model", rec.LLMModel)

	exists, err := f.store.Exists(context.Background(), core.IDFromURL(url))
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestIngest_ShortCircuitsAlreadyAnalyzed(t *testing.T) {
	f := newIngestFixture(t)
	url := "https://news.example/economy/rates"

	_, err := f.ingestor.Run(context.Background(), url, nil)
	require.NoError(t, err)

	extractCalls := f.extractor.CallCount()
	llmCalls := f.llm.CallCount()
	embedCalls := f.embedder.CallCount()

	result, err := f.ingestor.Run(context.Background(), url, nil)
	require.NoError(t, err)

	assert.Equal(t, core.StatusSkipped, result.Status)
	assert.Equal(t, "already analyzed", result.Detail)
	assert.Nil(t, result.Scrape)
	assert.Nil(t, result.Analyze)
	assert.Nil(t, result.Index)

	assert.Equal(t, extractCalls, f.extractor.CallCount())
	assert.Equal(t, llmCalls, f.llm.CallCount())
	assert.Equal(t, embedCalls, f.embedder.CallCount())

	// A differently spelled URL resolves to the same record.
	result, err = f.ingestor.Run(context.Background(), "HTTPS://News.Example/economy/rates/", nil)
	require.NoError(t, err)
	assert.Equal(t, core.StatusSkipped, result.Status)
	assert.Equal(t, url, result.URL)
	assert.Equal(t, llmCalls, f.llm.CallCount())
}

func TestIngest_FailedScrape(t *testing.T) {
	f := newIngestFixture(t)
	f.extractor.ExtractFunc = func(_ context.Context, _ string) (*fetch.Article, error) {
		return nil, errors.New("dial tcp: connection refused")
	}

	result, err := f.ingestor.Run(context.Background(), "https://news.example/down", nil)
	require.NoError(t, err)

	assert.Equal(t, core.StatusFailed, result.Status)
	assert.Equal(t, "scrape", result.Stage)
	assert.Contains(t, result.Detail, "http error:")
	assert.Contains(t, result.Detail, "connection refused")
	require.NotNil(t, result.Scrape)
	assert.Equal(t, 1, result.Scrape.Failed)
	assert.Nil(t, result.Analyze)
	assert.Nil(t, result.Index)

	assert.Zero(t, f.llm.CallCount())
	assert.Zero(t, f.embedder.CallCount())

	raw, err := f.rawLog.Get("https://news.example/down")
	require.NoError(t, err)
	assert.Equal(t, core.StatusFailed, raw.Status)
}

func TestIngest_ShortText(t *testing.T) {
	f := newIngestFixture(t)
	f.extractor.ExtractFunc = func(_ context.Context, pageURL string) (*fetch.Article, error) {
		article := okArticle(pageURL)
		article.Text = "Too short."
		article.Chars = 10
		return article, nil
	}

	result, err := f.ingestor.Run(context.Background(), "https://news.example/stub", nil)
	require.NoError(t, err)

	assert.Equal(t, core.StatusFailed, result.Status)
	assert.Equal(t, "scrape", result.Stage)
	assert.Equal(t, "Extraction too short (<300 chars)", result.Detail)
	assert.Zero(t, f.llm.CallCount())

	// A lower threshold accepts the same article.
	result, err = f.ingestor.Run(context.Background(), "https://news.example/stub",
		&IngestOptions{MinChars: 5, RetryFailed: true})
	require.NoError(t, err)
	assert.Equal(t, core.StatusOK, result.Status)
}

func TestIngest_FailedAnalysis(t *testing.T) {
	f := newIngestFixture(t)
	url := "https://news.example/economy/rates"
	f.llm.AnalyzeFunc = func(_ context.Context, _, _ string) (*ai.Analysis, error) {
		return nil, errors.New("model overloaded")
	}

	result, err := f.ingestor.Run(context.Background(), url, nil)
	require.NoError(t, err)

	assert.Equal(t, core.StatusFailed, result.Status)
	assert.Equal(t, "analyze", result.Stage)
	assert.Equal(t, "llm error: model overloaded", result.Detail)
	assert.Equal(t, &AnalyzeSummary{Failed: 1}, result.Analyze)
	assert.Nil(t, result.Index)

	rec, err := f.aiLog.Get(url)
	require.NoError(t, err)
	assert.Equal(t, core.StatusFailed, rec.Status)

	// Default policy refuses to spend on the model again.
	llmCalls := f.llm.CallCount()
	result, err = f.ingestor.Run(context.Background(), url, nil)
	require.NoError(t, err)
	assert.Equal(t, core.StatusFailed, result.Status)
	assert.Equal(t, "analyze", result.Stage)
	assert.Equal(t, "analysis previously failed; retry disabled", result.Detail)
	assert.Equal(t, llmCalls, f.llm.CallCount())

	// With retries enabled and the model recovered, the record is replaced.
	f.llm.AnalyzeFunc = nil
	result, err = f.ingestor.Run(context.Background(), url, &IngestOptions{RetryFailed: true})
	require.NoError(t, err)
	assert.Equal(t, core.StatusOK, result.Status)
	assert.Equal(t, &IndexSummary{Added: 1}, result.Index)
	assert.Equal(t, 1, countAIRecords(t, f.aiLog))

	rec, err = f.aiLog.Get(url)
	require.NoError(t, err)
	assert.Equal(t, core.StatusOK, rec.Status)
}

func TestIngest_UsesExistingRawRecord(t *testing.T) {
	f := newIngestFixture(t)
	url := "https://news.example/economy/rates"

	scraper, err := NewScraper(f.rawLog, f.extractor)
	require.NoError(t, err)
	_, err = scraper.Run(context.Background(), []string{url}, nil)
	require.NoError(t, err)
	extractCalls := f.extractor.CallCount()

	result, err := f.ingestor.Run(context.Background(), url, nil)
	require.NoError(t, err)

	assert.Equal(t, core.StatusOK, result.Status)
	assert.Equal(t, &ScrapeSummary{Total: 1, SkippedExisting: 1}, result.Scrape)
	assert.Equal(t, extractCalls, f.extractor.CallCount())
	assert.Equal(t, &AnalyzeSummary{Processed: 1}, result.Analyze)
	assert.Equal(t, &IndexSummary{Added: 1}, result.Index)
}

func TestIngest_IndexFailure(t *testing.T) {
	f := newIngestFixture(t)
	url := "https://news.example/economy/rates"
	f.embedder.EmbedTextFunc = func(_ context.Context, _ string) ([]float32, error) {
		return nil, errors.New("embedding service unavailable")
	}

	result, err := f.ingestor.Run(context.Background(), url, nil)
	require.NoError(t, err)

	assert.Equal(t, core.StatusFailed, result.Status)
	assert.Equal(t, "index", result.Stage)
	assert.Contains(t, result.Detail, "embedding service unavailable")
	assert.Equal(t, &AnalyzeSummary{Processed: 1}, result.Analyze)
	assert.Equal(t, &IndexSummary{Failed: 1}, result.Index)

	// The analysis survived, so a repeat ingest does not spend again.
	llmCalls := f.llm.CallCount()
	result, err = f.ingestor.Run(context.Background(), url, nil)
	require.NoError(t, err)
	assert.Equal(t, core.StatusSkipped, result.Status)
	assert.Equal(t, llmCalls, f.llm.CallCount())

	// A batch index run picks the orphaned record up.
	f.embedder.EmbedTextFunc = nil
	indexer, err := NewIndexer(f.aiLog, f.store, f.embedder)
	require.NoError(t, err)
	summary, err := indexer.Run(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, &IndexSummary{Added: 1}, summary)
}

func TestIngest_InvalidURL(t *testing.T) {
	f := newIngestFixture(t)

	result, err := f.ingestor.Run(context.Background(), "ftp://news.example/feed", nil)
	require.NoError(t, err)

	assert.Equal(t, core.StatusFailed, result.Status)
	assert.Equal(t, "scrape", result.Stage)
	assert.Contains(t, result.Detail, "invalid url")
	assert.Equal(t, "ftp://news.example/feed", result.URL)
	assert.Zero(t, f.extractor.CallCount())

	raw, err := f.rawLog.Get("ftp://news.example/feed")
	require.NoError(t, err)
	assert.Equal(t, core.StatusFailed, raw.Status)
}
