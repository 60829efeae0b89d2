// pkg/adapters/katana_test.go
package adapters

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/reconmux/reconmux/pkg/schema"
)

func TestKatanaConfigFromMap(t *testing.T) {
	cfg := KatanaConfigFromMap(map[string]interface{}{
		"depth":         "4", // loose types coerce
		"max_urls":      200,
		"js_crawl":      true,
		"scope_domains": []string{"example.com"},
	})
	require.Equal(t, 4, cfg.Depth)
	require.Equal(t, 200, cfg.MaxURLs)
	require.True(t, cfg.JSCrawl)
	require.Equal(t, []string{"example.com"}, cfg.ScopeDomains)
	// Untouched fields keep defaults.
	require.Equal(t, 10, cfg.Concurrency)
}

func TestKatanaConfigFromMapSanitizes(t *testing.T) {
	cfg := KatanaConfigFromMap(map[string]interface{}{
		"depth":       -1,
		"max_urls":    0,
		"concurrency": -5,
	})
	require.Equal(t, 1, cfg.Depth)
	require.Equal(t, 1, cfg.MaxURLs)
	require.Equal(t, 1, cfg.Concurrency)
}

func TestKatanaBuildArgs(t *testing.T) {
	cfg := DefaultKatanaConfig()
	cfg.JSCrawl = true
	cfg.Proxy = "http://127.0.0.1:8080"
	k := NewKatana("https://example.com", cfg)

	args := strings.Join(k.buildArgs(), " ")
	require.Contains(t, args, "-u https://example.com")
	require.Contains(t, args, "-d 3")
	require.Contains(t, args, "-headless")
	require.Contains(t, args, "-proxy http://127.0.0.1:8080")
	require.Contains(t, args, "-silent")
}

func TestKatanaNormalize(t *testing.T) {
	k := NewKatana("https://example.com", DefaultKatanaConfig())

	records := []katanaRecord{{URL: "https://example.com/search?q=1&page=2"}}
	records[0].Request.Method = "POST"
	records[0].Response.StatusCode = 200

	result := k.Normalize(records)
	require.True(t, result.Success)
	require.Len(t, result.Endpoints, 1)

	ep := result.Endpoints[0]
	require.Equal(t, schema.MethodPost, ep.Method)
	require.Equal(t, 200, ep.StatusCode)
	require.Equal(t, []string{"q", "page"}, ep.Parameters)
	require.Equal(t, "katana", ep.DiscoveredBy)
	require.Contains(t, ep.Tags, "web-crawl")
}

func TestKatanaNormalizeScopeFilter(t *testing.T) {
	cfg := DefaultKatanaConfig()
	cfg.ScopeDomains = []string{"example.com"}
	k := NewKatana("https://example.com", cfg)

	result := k.Normalize([]katanaRecord{
		{URL: "https://sub.example.com/in-scope"},
		{URL: "https://evil.org/out-of-scope"},
	})
	require.Len(t, result.Endpoints, 1)
	require.Equal(t, "https://sub.example.com/in-scope", result.Endpoints[0].URL)
}

func TestKatanaNormalizeForeignRaw(t *testing.T) {
	k := NewKatana("https://example.com", DefaultKatanaConfig())
	for _, raw := range []interface{}{nil, "garbage", 42} {
		result := k.Normalize(raw)
		require.NotNil(t, result)
		require.Empty(t, result.Endpoints)
		require.Equal(t, "katana", result.ToolName)
	}
}
