// pkg/dedup/normalize_test.go
package dedup

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeURL(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"lowercases scheme and host", "HTTPS://Example.COM/Path", "https://example.com/Path"},
		{"drops default https port", "https://example.com:443/a", "https://example.com/a"},
		{"drops default http port", "http://example.com:80/a", "http://example.com/a"},
		{"keeps non-default port", "https://example.com:8443/a", "https://example.com:8443/a"},
		{"strips trailing slash", "https://example.com/a/", "https://example.com/a"},
		{"strips repeated trailing slashes", "https://example.com/a///", "https://example.com/a"},
		{"keeps root slash", "https://example.com/", "https://example.com/"},
		{"adds root slash", "https://example.com", "https://example.com/"},
		{"sorts query by key", "https://example.com/a?z=1&a=2", "https://example.com/a?a=2&z=1"},
		{"drops fragment", "https://example.com/a#section", "https://example.com/a"},
		{"unparseable falls back to lowercase", "  NOT A URL  ", "not a url"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, NormalizeURL(tt.in))
		})
	}
}

func TestNormalizeURLIdempotent(t *testing.T) {
	inputs := []string{
		"HTTPS://Example.COM:443/a/b/?z=1&a=2#frag",
		"http://example.com",
		"https://example.com/a?x=%20y",
	}
	for _, in := range inputs {
		once := NormalizeURL(in)
		require.Equal(t, once, NormalizeURL(once), in)
	}
}

func TestURLKeyEquivalentForms(t *testing.T) {
	require.Equal(t, URLKey("https://example.com/a/"), URLKey("HTTPS://EXAMPLE.COM/a"))
	require.Equal(t, URLKey("https://example.com:443/a?b=1&a=2"), URLKey("https://example.com/a?a=2&b=1"))
	require.NotEqual(t, URLKey("https://example.com/a"), URLKey("https://example.com/b"))
	require.Len(t, URLKey("anything"), 64)
}
