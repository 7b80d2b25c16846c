package reindex

import "errors"

var (
	// ErrAILogRequired is returned when an analysis log is not provided.
	ErrAILogRequired = errors.New("analysis log required")

	// ErrVectorStoreRequired is returned when a vector store is not provided.
	ErrVectorStoreRequired = errors.New("vector store required")

	// ErrEmbedderRequired is returned when an embedder is not provided.
	ErrEmbedderRequired = errors.New("embedder required")
)
