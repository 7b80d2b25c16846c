// Package ai provides abstractions for the AI services the pipeline
// depends on: text embeddings and article analysis.
//
// This package defines interfaces only, so the pipeline stages depend on
// abstractions rather than concrete API clients.
//
// # Design
//
// The package is built around three interfaces:
//
//   - Embedder: generates vector embeddings from text
//   - Analyzer: produces a summary and topic tags for one article
//   - Provider: aggregates both services behind one lifecycle
//
// # Implementation Packages
//
// Two implementation sub-packages exist:
//
//   - ai/openai: production implementation backed by OpenAI-compatible APIs
//   - ai/mock: test doubles for unit testing without external services
//
// # Constructor Return Type Pattern
//
// Public constructors (openai.NewProvider, openai.NewEmbedder) return
// INTERFACE types to prevent coupling to implementation details:
//
//	provider, err := openai.NewProvider(cfg)  // returns ai.Provider
//
// Mock constructors return CONCRETE types so tests can inject behavior
// and assert on call counts:
//
//	embedder := mock.NewEmbedder()           // returns *mock.Embedder
//	embedder.EmbedTextFunc = func(...) ...   // needs concrete type
//
// # Output Contract
//
// Every Analysis handed to callers is normalized (trimmed summary,
// lowercase deduplicated topics) and satisfies Validate: non-empty
// summary, MinTopics to MaxTopics tags. Responses that cannot be brought
// into this form surface as errors, never as partial records.
package ai
