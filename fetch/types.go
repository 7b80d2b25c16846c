package fetch

import "strings"

// Article is the outcome of fetching one URL and extracting its readable
// content. Transport facts (HTTPStatus, ContentType, BodyChars) are always
// populated when the request itself succeeded, even if nothing could be
// extracted; classification into ok/failed/skipped is the caller's job.
type Article struct {
	// URL is the final URL after redirects.
	URL string

	// Source is the host component of the final URL.
	Source string

	Title string
	Text  string

	// Chars counts the characters (runes) of the extracted text.
	Chars int

	// BodyChars counts the characters of the raw response body. Zero with
	// a successful request means the server returned an empty document.
	BodyChars int

	HTTPStatus  int
	ContentType string

	// Language is the lowercase ISO 639-1 code of the detected text
	// language, empty when no text was extracted or detection failed.
	Language           string
	LanguageConfidence float64
}

// IsHTML reports whether a Content-Type header names an HTML document.
// An empty value counts as HTML since some sites omit the header entirely.
func IsHTML(contentType string) bool {
	if strings.TrimSpace(contentType) == "" {
		return true
	}
	mediaType := contentType
	if i := strings.IndexByte(mediaType, ';'); i != -1 {
		mediaType = mediaType[:i]
	}
	switch strings.ToLower(strings.TrimSpace(mediaType)) {
	case "text/html", "application/xhtml+xml":
		return true
	}
	return false
}
