// Package web is the production fetch.Extractor: net/http with
// browser-like headers, redirect following and retried transient
// failures, readability-based article extraction with a <title> fallback,
// and n-gram language detection over the extracted text.
package web
