// pkg/urlmerge/normalize.go
package urlmerge

import (
	"net/url"
	"sort"
	"strings"
)

// Normalize returns the merge key form of a URL:
//
//   - scheme and host lowercased; path and query case preserved, since
//     paths can be case-sensitive on the server
//   - fragment stripped
//   - the raw query's &-delimited segments sorted lexicographically
//
// The query sort operates on whole key=value tokens as opaque strings, not
// on decoded parameter names. That is intentionally laxer canonicalization
// than pkg/dedup's NormalizeURL: the two pipelines serve callers with
// different tolerance for false-duplicate merges, and the divergence is
// kept rather than unified.
func Normalize(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Scheme == "" {
		// Not parseable as an absolute URL: at minimum drop the fragment.
		if i := strings.IndexByte(rawURL, '#'); i >= 0 {
			return rawURL[:i]
		}
		return rawURL
	}

	query := ""
	if u.RawQuery != "" {
		tokens := strings.Split(u.RawQuery, "&")
		sort.Strings(tokens)
		query = strings.Join(tokens, "&")
	}

	norm := strings.ToLower(u.Scheme) + "://" + strings.ToLower(u.Host) + u.EscapedPath()
	if query != "" {
		norm += "?" + query
	}
	return norm
}
