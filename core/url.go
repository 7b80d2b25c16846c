package core

import (
	"fmt"
	"net/url"
	"strings"
)

// NormalizeURL canonicalizes a URL into the identity key used across every
// stage. All dedup checks key on this form, never on the literal input.
//
// Canonical form: scheme://host[/path] where
//   - scheme and host are lowercased; a missing scheme defaults to https
//   - default ports (:80 for http, :443 for https) are stripped
//   - the fragment is stripped
//   - the query string is dropped entirely; article URLs carry tracking
//     parameters (utm_* and friends) that would split one article into
//     many identities
//   - trailing slashes are stripped ("https://h/" and "https://h" are the
//     same key)
//
// Inputs with userinfo, an empty host, or a non-http(s) scheme are rejected
// with ErrInvalidURL.
func NormalizeURL(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", fmt.Errorf("%w: empty input", ErrInvalidURL)
	}

	if !strings.Contains(s, "://") {
		s = "https://" + s
	}

	u, err := url.Parse(s)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}

	scheme := strings.ToLower(u.Scheme)
	if scheme != "http" && scheme != "https" {
		return "", fmt.Errorf("%w: unsupported scheme %q", ErrInvalidURL, u.Scheme)
	}

	if u.User != nil {
		return "", fmt.Errorf("%w: userinfo not allowed", ErrInvalidURL)
	}

	host := strings.ToLower(u.Host)
	switch scheme {
	case "http":
		host = strings.TrimSuffix(host, ":80")
	case "https":
		host = strings.TrimSuffix(host, ":443")
	}
	if host == "" {
		return "", fmt.Errorf("%w: empty host", ErrInvalidURL)
	}

	path := strings.TrimRight(u.EscapedPath(), "/")

	return scheme + "://" + host + path, nil
}
