package ai

import "context"

// Embedder generates vector embeddings from text for semantic similarity search.
// Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	// Returns ErrEmptyInput if the text is empty.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates vector embeddings for multiple text strings in
	// a batch. The returned slice contains embeddings in the same order as
	// the input texts. Returns an error if any embedding fails.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// Analyzer produces a structured analysis (summary plus topic tags) for
// one article. Implementations must be thread-safe for concurrent use.
type Analyzer interface {
	// Analyze summarizes the article and tags it with topics. The returned
	// analysis is normalized and validated; an error means no usable
	// analysis could be produced and the caller should record a failure.
	Analyze(ctx context.Context, title, text string) (*Analysis, error)

	// Model returns the identifier of the underlying model, recorded
	// alongside every analysis for provenance.
	Model() string
}

// Provider aggregates the AI services behind one lifecycle. A provider
// creates and manages Embedder and Analyzer instances, ensuring they
// share configuration and resources.
type Provider interface {
	// Embedder returns the text embedding service.
	Embedder() Embedder

	// Analyzer returns the article analysis service.
	Analyzer() Analyzer

	// Close releases resources held by the provider and its services.
	Close() error
}
