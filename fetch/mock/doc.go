// Package mock provides a scriptable test double for fetch.Extractor.
//
// The default behavior returns a valid extracted article for any URL;
// tests script failures, short pages, error statuses or non-HTML content
// through the ExtractFunc field.
package mock
