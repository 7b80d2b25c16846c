// Package mock provides test double implementations of AI service interfaces.
//
// This package contains mock implementations of ai.Embedder, ai.Analyzer,
// and ai.Provider for use in unit tests. The mocks allow tests to run
// without external AI services and enable controlled, deterministic
// behavior.
//
// # Usage in Tests
//
//	// Basic usage with default behavior
//	provider := mock.NewMockProvider()
//	vector, err := provider.Embedder().EmbedText(ctx, "test")
//
//	// Custom behavior injection
//	analyzer := mock.NewMockAnalyzer()
//	analyzer.AnalyzeFunc = func(ctx context.Context, title, text string) (*ai.Analysis, error) {
//	    return nil, errors.New("model offline")
//	}
//
//	// Check call counts
//	count := analyzer.CallCount()
//
// # Default Behavior
//
//   - MockEmbedder: returns unit-length vectors derived from the text hash,
//     so identical text embeds identically
//   - MockAnalyzer: returns a valid analysis derived from the title and text
//   - MockProvider: aggregates mock embedder and analyzer
package mock
