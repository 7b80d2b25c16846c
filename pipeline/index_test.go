package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	aimock "github.com/VetalKamen/news-scrapper/ai/mock"
	"github.com/VetalKamen/news-scrapper/core"
	"github.com/VetalKamen/news-scrapper/storage"
	"github.com/VetalKamen/news-scrapper/storage/badger"
)

func newTestVectorStore(t *testing.T) storage.VectorStore {
	t.Helper()
	store, err := badger.OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func okAIRecord(url string) *core.AIRecord {
	return &core.AIRecord{
		URL:        url,
		Source:     "news.example",
		Title:      "Central bank raises rates",
		Summary:    "The central bank raised its key interest rate by a quarter point.",
		Topics:     []string{"economy", "interest rates", "central bank"},
		LLMModel:   "mock-model",
		AnalyzedAt: time.Now().UTC(),
		Status:     core.StatusOK,
	}
}

func failedAIRecord(url string) *core.AIRecord {
	return &core.AIRecord{
		URL:        url,
		Source:     "news.example",
		AnalyzedAt: time.Now().UTC(),
		Status:     core.StatusFailed,
		Error:      "llm error: model overloaded",
	}
}

func TestNewIndexer_Validation(t *testing.T) {
	aiLog := newTestAILog(t)
	store := newTestVectorStore(t)
	embedder := aimock.NewMockEmbedder()

	_, err := NewIndexer(nil, store, embedder)
	assert.ErrorIs(t, err, ErrAILogRequired)

	_, err = NewIndexer(aiLog, nil, embedder)
	assert.ErrorIs(t, err, ErrVectorStoreRequired)

	_, err = NewIndexer(aiLog, store, nil)
	assert.ErrorIs(t, err, ErrEmbedderRequired)
}

func TestIndexer_AddsOKRecords(t *testing.T) {
	aiLog := newTestAILog(t)
	store := newTestVectorStore(t)
	require.NoError(t, aiLog.Append(okAIRecord("https://news.example/one")))
	require.NoError(t, aiLog.Append(failedAIRecord("https://news.example/broken")))
	require.NoError(t, aiLog.Append(okAIRecord("https://news.example/two")))

	embedder := aimock.NewMockEmbedder()
	indexer, err := NewIndexer(aiLog, store, embedder)
	require.NoError(t, err)

	summary, err := indexer.Run(context.Background(), nil)
	require.NoError(t, err)

	assert.Equal(t, &IndexSummary{Added: 2, SkippedIneligible: 1}, summary)

	count, err := store.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	// The stored entry carries the full document and display metadata.
	key := core.IDFromURL("https://news.example/one")
	exists, err := store.Exists(context.Background(), key)
	require.NoError(t, err)
	require.True(t, exists)

	var entry *storage.VectorEntry
	require.NoError(t, store.ForEach(context.Background(), func(e *storage.VectorEntry) error {
		if e.Key == key {
			entry = e
		}
		return nil
	}))
	require.NotNil(t, entry)

	expected := okAIRecord("https://news.example/one")
	assert.Equal(t, core.EmbedText(expected), entry.Document)
	assert.Equal(t, "https://news.example/one", entry.URL)
	assert.Equal(t, expected.Title, entry.Meta.Title)
	assert.Equal(t, expected.Summary, entry.Meta.Summary)
	assert.Equal(t, expected.Topics, entry.Meta.Topics)
	assert.Equal(t, expected.LLMModel, entry.Meta.LLMModel)
	assert.Equal(t, core.EmbedTextPolicy, entry.Meta.EmbedPolicy)
	assert.False(t, entry.Meta.IndexedAt.IsZero())
	assert.NotEmpty(t, entry.Vector)
}

func TestIndexer_SkipsExistingKeys(t *testing.T) {
	aiLog := newTestAILog(t)
	store := newTestVectorStore(t)
	require.NoError(t, aiLog.Append(okAIRecord("https://news.example/one")))
	require.NoError(t, aiLog.Append(okAIRecord("https://news.example/two")))

	embedder := aimock.NewMockEmbedder()
	indexer, err := NewIndexer(aiLog, store, embedder)
	require.NoError(t, err)

	_, err = indexer.Run(context.Background(), nil)
	require.NoError(t, err)
	calls := embedder.CallCount()

	summary, err := indexer.Run(context.Background(), nil)
	require.NoError(t, err)

	assert.Equal(t, &IndexSummary{SkippedExisting: 2}, summary)
	assert.Equal(t, calls, embedder.CallCount())

	count, err := store.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestIndexer_EmbeddingFailureLeavesRecordForRetry(t *testing.T) {
	aiLog := newTestAILog(t)
	store := newTestVectorStore(t)
	require.NoError(t, aiLog.Append(okAIRecord("https://news.example/one")))
	require.NoError(t, aiLog.Append(okAIRecord("https://news.example/two")))

	embedder := aimock.NewMockEmbedder()
	failDoc := core.EmbedText(okAIRecord("https://news.example/two"))
	embedder.EmbedTextFunc = func(_ context.Context, text string) ([]float32, error) {
		if text == failDoc {
			return nil, errors.New("embedding service unavailable")
		}
		return []float32{0.1, 0.2, 0.3}, nil
	}

	indexer, err := NewIndexer(aiLog, store, embedder)
	require.NoError(t, err)

	summary, err := indexer.Run(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, &IndexSummary{Added: 1, Failed: 1}, summary)

	exists, err := store.Exists(context.Background(), core.IDFromURL("https://news.example/two"))
	require.NoError(t, err)
	assert.False(t, exists)

	// The next run picks the failed record up again.
	embedder.EmbedTextFunc = nil
	summary, err = indexer.Run(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, &IndexSummary{Added: 1, SkippedExisting: 1}, summary)

	count, err := store.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestIndexer_Limit(t *testing.T) {
	aiLog := newTestAILog(t)
	store := newTestVectorStore(t)
	for i := 1; i <= 3; i++ {
		require.NoError(t, aiLog.Append(okAIRecord(fmt.Sprintf("https://news.example/%d", i))))
	}

	indexer, err := NewIndexer(aiLog, store, aimock.NewMockEmbedder())
	require.NoError(t, err)

	summary, err := indexer.Run(context.Background(), &IndexOptions{Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Added)

	count, err := store.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestIndexer_TruncatesMetadataSummary(t *testing.T) {
	aiLog := newTestAILog(t)
	store := newTestVectorStore(t)

	record := okAIRecord("https://news.example/long")
	record.Summary = strings.Repeat("x", maxMetaSummaryChars+500)
	require.NoError(t, aiLog.Append(record))

	indexer, err := NewIndexer(aiLog, store, aimock.NewMockEmbedder())
	require.NoError(t, err)

	_, err = indexer.Run(context.Background(), nil)
	require.NoError(t, err)

	require.NoError(t, store.ForEach(context.Background(), func(e *storage.VectorEntry) error {
		assert.Len(t, e.Meta.Summary, maxMetaSummaryChars)
		// The embedded document keeps the full summary.
		assert.Contains(t, e.Document, record.Summary)
		return nil
	}))
}
