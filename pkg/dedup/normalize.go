// pkg/dedup/normalize.go
// Package dedup merges overlapping discoveries from multiple tool runs.
// It offers an exact pass (hash of the normalized URL) and a fuzzy pass
// (edit-distance similarity), plus keyed dedup for technologies and
// findings.
package dedup

import (
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"strings"
)

// NormalizeURL produces the stable dedup key form of a URL:
//
//   - scheme and host lowercased
//   - default ports 80/443 dropped
//   - a trailing slash stripped from non-root paths
//   - query parameters decoded and sorted by key
//   - fragment dropped
//
// This is deliberately more aggressive than the URL merge pipeline's
// normalization, which preserves path case and sorts raw query tokens.
// Unparseable input falls back to lowercased trimmed text so hashing still
// yields a stable key.
func NormalizeURL(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Scheme == "" {
		return strings.ToLower(strings.TrimSpace(raw))
	}

	scheme := strings.ToLower(u.Scheme)
	host := strings.ToLower(u.Hostname())
	port := u.Port()
	if (scheme == "http" && port == "80") || (scheme == "https" && port == "443") {
		port = ""
	}
	if port != "" {
		host = host + ":" + port
	}

	path := u.EscapedPath()
	for len(path) > 1 && strings.HasSuffix(path, "/") {
		path = strings.TrimSuffix(path, "/")
	}
	if path == "" {
		path = "/"
	}

	var query string
	if u.RawQuery != "" {
		if values, qerr := url.ParseQuery(u.RawQuery); qerr == nil {
			query = values.Encode() // sorted by decoded key
		} else {
			query = u.RawQuery
		}
	}

	norm := scheme + "://" + host + path
	if query != "" {
		norm += "?" + query
	}
	return norm
}

// URLKey returns the SHA-256 hex digest of the normalized URL, the exact-
// pass grouping key.
func URLKey(raw string) string {
	sum := sha256.Sum256([]byte(NormalizeURL(raw)))
	return hex.EncodeToString(sum[:])
}

// hostOf extracts the host (with any non-default port) from a normalized
// URL, used to bucket the fuzzy pass.
func hostOf(normalized string) string {
	u, err := url.Parse(normalized)
	if err != nil {
		return normalized
	}
	return u.Host
}
