package fetch

import "context"

// Extractor fetches a URL and extracts its readable article content.
// Implementations must be thread-safe for concurrent use.
type Extractor interface {
	// Extract fetches the URL and returns the article. An error is
	// returned only for transport-level failures (DNS, timeout, closed
	// connection); HTTP error statuses, unsupported content types and
	// unextractable pages come back as an Article describing what was
	// found so the caller can classify the outcome.
	Extract(ctx context.Context, url string) (*Article, error)

	// Close releases resources held by the extractor.
	Close() error
}
