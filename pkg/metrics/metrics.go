// pkg/metrics/metrics.go
// Package metrics aggregates per-invocation counters for scan observability.
// Counters are advisory: nothing in the pipeline changes behavior based on
// them.
package metrics

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/reconmux/reconmux/pkg/schema"
)

// ToolStats accumulates counters for a single tool.
type ToolStats struct {
	Runs         int64   `json:"runs"`
	Failures     int64   `json:"failures"`
	Endpoints    int64   `json:"endpoints"`
	Technologies int64   `json:"technologies"`
	Findings     int64   `json:"findings"`
	TotalSeconds float64 `json:"total_seconds"`
}

// Collector aggregates ReconResult counters across many orchestrations.
// It is safe for concurrent use.
type Collector struct {
	mu      sync.Mutex
	started time.Time
	total   ToolStats
	perTool map[string]*ToolStats
}

// NewCollector returns an empty collector.
func NewCollector() *Collector {
	return &Collector{
		started: time.Now(),
		perTool: make(map[string]*ToolStats),
	}
}

// Observe folds one finished result into the counters.
func (c *Collector) Observe(res *schema.ReconResult) {
	if res == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	ts, ok := c.perTool[res.ToolName]
	if !ok {
		ts = &ToolStats{}
		c.perTool[res.ToolName] = ts
	}
	for _, s := range []*ToolStats{&c.total, ts} {
		s.Runs++
		if !res.Success {
			s.Failures++
		}
		s.Endpoints += int64(res.EndpointCount())
		s.Technologies += int64(res.TechnologyCount())
		s.Findings += int64(res.FindingCount())
		s.TotalSeconds += res.DurationSeconds
	}
}

// Snapshot holds a point-in-time copy of all counters.
type Snapshot struct {
	UptimeSeconds float64              `json:"uptime_seconds"`
	Total         ToolStats            `json:"total"`
	PerTool       map[string]ToolStats `json:"per_tool"`
}

// Snapshot returns a copy of the current counters.
func (c *Collector) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	snap := Snapshot{
		UptimeSeconds: time.Since(c.started).Seconds(),
		Total:         c.total,
		PerTool:       make(map[string]ToolStats, len(c.perTool)),
	}
	for name, ts := range c.perTool {
		snap.PerTool[name] = *ts
	}
	return snap
}

// Emit writes the current counters as one structured log event.
func (c *Collector) Emit(logger zerolog.Logger) {
	snap := c.Snapshot()
	logger.Info().
		Float64("uptime_seconds", snap.UptimeSeconds).
		Int64("runs", snap.Total.Runs).
		Int64("failures", snap.Total.Failures).
		Int64("endpoints", snap.Total.Endpoints).
		Int64("technologies", snap.Total.Technologies).
		Int64("findings", snap.Total.Findings).
		Interface("per_tool", snap.PerTool).
		Msg("scan metrics")
}
