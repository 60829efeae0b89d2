// pkg/ratelimit/registry_test.go
package ratelimit

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRegistryDefaults(t *testing.T) {
	r := NewRegistry()
	for _, tool := range []string{"katana", "gau", "kiterunner", "hackertarget", "pingprobe"} {
		require.NotNil(t, r.Get(tool), tool)
	}
	require.Equal(t, 2.0, r.Get("hackertarget").Rate())
	require.Equal(t, 5.0, r.Get("hackertarget").Capacity())
}

func TestRegistryFallbackShared(t *testing.T) {
	r := NewEmptyRegistry()
	a := r.Get("mystery-tool")
	b := r.Get("mystery-tool")
	require.Same(t, a, b, "lookups for the same unknown tool must share one bucket")
	require.Equal(t, float64(fallbackRate), a.Rate())
	require.Equal(t, float64(fallbackCapacity), a.Capacity())
}

func TestRegistryRegisterOverride(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register("katana", 1, 2))
	require.Equal(t, 1.0, r.Get("katana").Rate())
	require.Equal(t, 2.0, r.Get("katana").Capacity())

	require.Error(t, r.Register("katana", 0, 2))
}

func TestRegistryNames(t *testing.T) {
	r := NewEmptyRegistry()
	require.Empty(t, r.Names())
	require.NoError(t, r.Register("gau", 5, 10))
	require.Equal(t, []string{"gau"}, r.Names())
}
