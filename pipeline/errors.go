package pipeline

import "errors"

var (
	// ErrRawLogRequired is returned when a raw log is not provided.
	ErrRawLogRequired = errors.New("raw log required")

	// ErrAILogRequired is returned when an AI log is not provided.
	ErrAILogRequired = errors.New("AI log required")

	// ErrVectorStoreRequired is returned when a vector store is not provided.
	ErrVectorStoreRequired = errors.New("vector store required")

	// ErrExtractorRequired is returned when an article extractor is not provided.
	ErrExtractorRequired = errors.New("extractor required")

	// ErrAnalyzerRequired is returned when an LLM analyzer is not provided.
	ErrAnalyzerRequired = errors.New("analyzer required")

	// ErrEmbedderRequired is returned when an embedder is not provided.
	ErrEmbedderRequired = errors.New("embedder required")
)

// errStopIteration ends a log iteration early once a run limit is reached.
var errStopIteration = errors.New("stop iteration")
