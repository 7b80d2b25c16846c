// Package openai provides AI service implementations using OpenAI-compatible APIs.
//
// This package implements the ai.Provider interface using the langchaingo
// library to communicate with OpenAI or OpenAI-compatible services (such
// as Ollama, LocalAI, or vLLM via the BaseURL override).
//
// Analysis calls run with JSON mode, a low temperature and a bounded
// completion length, and are retried with exponential backoff. Responses
// are sanitized (code fences, stray prose, trailing commas) before
// parsing, then normalized and validated against the analysis contract.
//
// # Usage
//
//	cfg := ai.NewConfig(
//	    ai.WithAPIKey(key),
//	    ai.WithModel("gpt-4o-mini"),
//	    ai.WithEmbeddingModel("text-embedding-3-small"),
//	)
//
//	provider, err := openai.NewProvider(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer provider.Close()
//
//	vector, err := provider.Embedder().EmbedText(ctx, "sample text")
//	analysis, err := provider.Analyzer().Analyze(ctx, title, text)
package openai
