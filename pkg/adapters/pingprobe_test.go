// pkg/adapters/pingprobe_test.go
package adapters

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestPingProbeConfigFromMap(t *testing.T) {
	cfg := PingProbeConfigFromMap(map[string]interface{}{
		"count":    5,
		"interval": "100ms",
		"timeout":  "2s",
	})
	require.Equal(t, 5, cfg.Count)
	require.Equal(t, 100*time.Millisecond, cfg.Interval)
	require.Equal(t, 2*time.Second, cfg.Timeout)
}

func TestPingProbeConfigFromMapSanitizes(t *testing.T) {
	cfg := PingProbeConfigFromMap(map[string]interface{}{
		"count":   0,
		"timeout": "-1s",
	})
	require.Equal(t, 1, cfg.Count)
	require.Equal(t, 3*time.Second, cfg.Timeout)
}

func TestPingProbeNormalizeLive(t *testing.T) {
	p := NewPingProbe("example.com", DefaultPingProbeConfig())
	result := p.Normalize(pingOutcome{Host: "example.com", PacketsSent: 3, PacketsRecv: 3, AvgRTT: 12 * time.Millisecond})

	require.Len(t, result.Endpoints, 1)
	ep := result.Endpoints[0]
	require.True(t, ep.IsLive)
	require.Equal(t, 1.0, ep.Confidence)
	require.Equal(t, "https://example.com/", ep.URL)
	require.Contains(t, ep.Tags, "icmp")
	require.Equal(t, 3, ep.Extra["packets_recv"])
}

func TestPingProbeNormalizeNoReply(t *testing.T) {
	p := NewPingProbe("example.com", DefaultPingProbeConfig())
	result := p.Normalize(pingOutcome{Host: "example.com", PacketsSent: 3, PacketsRecv: 0})

	require.Len(t, result.Endpoints, 1)
	require.False(t, result.Endpoints[0].IsLive)
	require.Equal(t, 0.3, result.Endpoints[0].Confidence)
}

func TestPingProbeNormalizeForeignRaw(t *testing.T) {
	p := NewPingProbe("example.com", DefaultPingProbeConfig())
	result := p.Normalize("garbage")
	require.NotNil(t, result)
	require.Empty(t, result.Endpoints)
}
