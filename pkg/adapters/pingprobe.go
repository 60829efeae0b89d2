// pkg/adapters/pingprobe.go
package adapters

import (
	"context"
	"os"
	"runtime"
	"time"

	"github.com/go-ping/ping"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cast"

	"github.com/reconmux/reconmux/pkg/schema"
	"github.com/reconmux/reconmux/pkg/target"
)

// PingProbeConfig holds configuration for the ICMP liveness pre-probe.
type PingProbeConfig struct {
	Count      int
	Interval   time.Duration
	Timeout    time.Duration
	Privileged bool
}

// DefaultPingProbeConfig returns quick-probe defaults: three echoes within
// three seconds.
func DefaultPingProbeConfig() PingProbeConfig {
	return PingProbeConfig{
		Count:    3,
		Interval: 200 * time.Millisecond,
		Timeout:  3 * time.Second,
	}
}

// PingProbeConfigFromMap applies loosely-typed overrides on top of the
// defaults.
func PingProbeConfigFromMap(overrides map[string]interface{}) PingProbeConfig {
	cfg := DefaultPingProbeConfig()
	if v, ok := overrides["count"]; ok {
		cfg.Count = cast.ToInt(v)
	}
	if v, ok := overrides["interval"]; ok {
		if d, err := time.ParseDuration(cast.ToString(v)); err == nil {
			cfg.Interval = d
		}
	}
	if v, ok := overrides["timeout"]; ok {
		if d, err := time.ParseDuration(cast.ToString(v)); err == nil {
			cfg.Timeout = d
		}
	}
	if v, ok := overrides["privileged"]; ok {
		cfg.Privileged = cast.ToBool(v)
	}
	if cfg.Count < 1 {
		cfg.Count = 1
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 3 * time.Second
	}
	return cfg
}

// pingOutcome is the raw result of one probe.
type pingOutcome struct {
	Host        string
	PacketsSent int
	PacketsRecv int
	AvgRTT      time.Duration
}

// PingProbe is an ICMP liveness pre-probe: it confirms whether a target
// host answers echo requests before heavier tools are pointed at it.
type PingProbe struct {
	target string
	config PingProbeConfig
	logger zerolog.Logger
}

// NewPingProbe builds a ping adapter for one target.
func NewPingProbe(rawTarget string, config PingProbeConfig) *PingProbe {
	return &PingProbe{
		target: rawTarget,
		config: config,
		logger: log.With().Str("adapter", "pingprobe").Str("target", rawTarget).Logger(),
	}
}

// ToolName implements orchestrator.Adapter.
func (p *PingProbe) ToolName() string { return "pingprobe" }

// Execute sends ICMP echoes to the target host and returns the probe
// outcome. The pinger is stopped when ctx is cancelled.
func (p *PingProbe) Execute(ctx context.Context) (interface{}, error) {
	host := target.Host(p.target)

	pinger, err := ping.NewPinger(host)
	if err != nil {
		return nil, err
	}
	pinger.Count = p.config.Count
	pinger.Interval = p.config.Interval
	pinger.Timeout = p.config.Timeout
	pinger.SetPrivileged(p.privileged())

	done := make(chan error, 1)
	go func() { done <- pinger.Run() }()

	select {
	case <-ctx.Done():
		pinger.Stop()
		<-done
		return nil, ctx.Err()
	case err := <-done:
		if err != nil {
			return nil, err
		}
	}

	stats := pinger.Statistics()
	outcome := pingOutcome{
		Host:        host,
		PacketsSent: stats.PacketsSent,
		PacketsRecv: stats.PacketsRecv,
		AvgRTT:      stats.AvgRtt,
	}
	p.logger.Debug().Int("sent", outcome.PacketsSent).Int("recv", outcome.PacketsRecv).
		Dur("avg_rtt", outcome.AvgRTT).Msg("ping probe finished")
	return outcome, nil
}

// privileged downgrades a privileged-ping request when the process lacks
// raw-socket rights.
func (p *PingProbe) privileged() bool {
	if !p.config.Privileged {
		return false
	}
	if runtime.GOOS != "windows" && os.Geteuid() != 0 {
		p.logger.Warn().Msg("privileged ping requested without root, falling back to unprivileged")
		return false
	}
	return true
}

// Normalize converts the probe outcome into a ReconResult with a single
// endpoint marking the host's liveness.
func (p *PingProbe) Normalize(raw interface{}) *schema.ReconResult {
	result := schema.NewResult(p.ToolName(), p.target)
	outcome, ok := raw.(pingOutcome)
	if !ok {
		return result
	}

	live := outcome.PacketsRecv > 0
	ep := schema.NewEndpoint("https://" + outcome.Host + "/")
	ep.Method = schema.MethodUnknown
	ep.IsLive = live
	ep.DiscoveredBy = "pingprobe"
	ep.Tags = []string{"liveness", "icmp"}
	ep.Extra = map[string]interface{}{
		"source":       "pingprobe",
		"packets_sent": outcome.PacketsSent,
		"packets_recv": outcome.PacketsRecv,
		"avg_rtt_ms":   float64(outcome.AvgRTT) / float64(time.Millisecond),
	}
	if !live {
		ep.Confidence = 0.3
	}
	result.Endpoints = append(result.Endpoints, ep)
	return result
}
