// pkg/dedup/endpoint_test.go
package dedup

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/reconmux/reconmux/pkg/schema"
)

func ep(url string, confidence float64) schema.Endpoint {
	e := schema.NewEndpoint(url)
	e.Confidence = confidence
	return e
}

func TestNewEndpointDeduplicatorValidation(t *testing.T) {
	for _, bad := range []float64{-0.1, 1.1} {
		_, err := NewEndpointDeduplicator(bad)
		require.Error(t, err)
	}
	d, err := NewEndpointDeduplicator(DefaultFuzzyThreshold)
	require.NoError(t, err)
	require.NotNil(t, d)
}

func TestExactPassCollapsesEquivalentURLs(t *testing.T) {
	d, err := NewEndpointDeduplicator(DefaultFuzzyThreshold)
	require.NoError(t, err)

	// Trailing slash and host case differences normalize to one key.
	out := d.Deduplicate([]schema.Endpoint{
		ep("https://example.com/path/", 0.5),
		ep("https://EXAMPLE.com/path", 0.6),
	})
	require.Len(t, out, 1)
	// Higher-confidence survivor plus the exact-merge boost.
	require.InDelta(t, 0.65, out[0].Confidence, 1e-9)
}

func TestExactPassConfidenceCapped(t *testing.T) {
	d, _ := NewEndpointDeduplicator(DefaultFuzzyThreshold)
	out := d.Deduplicate([]schema.Endpoint{
		ep("https://example.com/a", 1.0),
		ep("https://example.com/a", 1.0),
		ep("https://example.com/a", 1.0),
	})
	require.Len(t, out, 1)
	require.Equal(t, 1.0, out[0].Confidence)
}

func TestFuzzyPassMergesNearDuplicates(t *testing.T) {
	d, err := NewEndpointDeduplicator(0.85)
	require.NoError(t, err)

	// Same host, one character apart: similarity well above 0.85.
	out := d.Deduplicate([]schema.Endpoint{
		ep("https://example.com/users/profile1", 0.5),
		ep("https://example.com/users/profile2", 0.7),
	})
	require.Len(t, out, 1)
	// Higher-confidence survivor plus the fuzzy-merge boost.
	require.InDelta(t, 0.73, out[0].Confidence, 1e-9)
	require.Equal(t, "https://example.com/users/profile2", out[0].URL)
}

func TestFuzzyPassRespectsHostBuckets(t *testing.T) {
	d, _ := NewEndpointDeduplicator(0.85)

	// Nearly identical paths on different hosts never merge.
	out := d.Deduplicate([]schema.Endpoint{
		ep("https://a.example.com/users/profile", 0.5),
		ep("https://b.example.com/users/profile", 0.5),
	})
	require.Len(t, out, 2)
}

func TestFuzzyPassKeepsDistinctURLs(t *testing.T) {
	d, _ := NewEndpointDeduplicator(0.85)
	out := d.Deduplicate([]schema.Endpoint{
		ep("https://example.com/login", 0.5),
		ep("https://example.com/api/v1/orders", 0.5),
	})
	require.Len(t, out, 2)
}

func TestDeduplicateDeterministicOrder(t *testing.T) {
	d, _ := NewEndpointDeduplicator(0.85)
	in := []schema.Endpoint{
		ep("https://b.example.com/x", 0.5),
		ep("https://a.example.com/y", 0.5),
		ep("https://b.example.com/completely-different", 0.5),
	}
	first := d.Deduplicate(in)
	for i := 0; i < 10; i++ {
		again := d.Deduplicate(in)
		require.Equal(t, first, again)
	}
	// First-seen host order: b before a.
	require.Equal(t, "https://b.example.com/x", first[0].URL)
}

func TestDeduplicateEmptyInput(t *testing.T) {
	d, _ := NewEndpointDeduplicator(0.85)
	require.Empty(t, d.Deduplicate(nil))
	require.Empty(t, d.Deduplicate([]schema.Endpoint{}))
}
