// Package fetch defines the contract for retrieving and extracting web
// articles.
//
// The Extractor interface separates transport outcomes from content
// classification: implementations report what a URL returned (status,
// content type, extracted title and text, detected language) and reserve
// Go errors for transport-level failures. Deciding whether that outcome
// is an ok, failed or skipped article belongs to the scraping stage.
//
// Two implementation sub-packages exist:
//
//   - fetch/web: production implementation over net/http with readability
//     extraction and language detection
//   - fetch/mock: scriptable test double
package fetch
