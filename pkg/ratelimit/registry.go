// pkg/ratelimit/registry.go
package ratelimit

import (
	"sync"

	"github.com/rs/zerolog/log"
)

// Default per-tool budgets. Aggressive scanners get conservative buckets,
// lightweight probes get generous ones. Values are rate/capacity in
// tokens per second / tokens.
type bucketSpec struct {
	rate     float64
	capacity float64
}

var defaultSpecs = map[string]bucketSpec{
	"katana":       {rate: 30, capacity: 60},    // crawler: respect crawl delay
	"gau":          {rate: 5, capacity: 10},     // upstream archive APIs throttle hard
	"kiterunner":   {rate: 50, capacity: 100},   // API brute-force: keep polite
	"hackertarget": {rate: 2, capacity: 5},      // free-tier API quota
	"pingprobe":    {rate: 100, capacity: 200},  // local ICMP, cheap
	"naabu":        {rate: 1000, capacity: 2000},
	"nuclei":       {rate: 50, capacity: 100},
	"httpx":        {rate: 200, capacity: 400},
	"subfinder":    {rate: 5, capacity: 10},
}

// Fallback bucket parameters for tools without a registered entry.
const (
	fallbackRate     = 10
	fallbackCapacity = 20
)

// Registry maps tool names to shared token buckets. It is constructed once
// at startup and injected; lookups after startup are read-mostly, so a
// RWMutex guards the map while each bucket guards its own counters.
type Registry struct {
	mu      sync.RWMutex
	buckets map[string]*TokenBucket
}

// NewRegistry returns a registry pre-populated with the default per-tool
// buckets.
func NewRegistry() *Registry {
	r := &Registry{buckets: make(map[string]*TokenBucket, len(defaultSpecs))}
	for name, spec := range defaultSpecs {
		r.buckets[name] = MustTokenBucket(spec.rate, spec.capacity)
	}
	return r
}

// NewEmptyRegistry returns a registry with no pre-registered buckets.
// Unknown tools still get the shared fallback bucket on lookup.
func NewEmptyRegistry() *Registry {
	return &Registry{buckets: make(map[string]*TokenBucket)}
}

// Register installs (or replaces) the bucket for a tool name.
func (r *Registry) Register(toolName string, rate, capacity float64) error {
	b, err := NewTokenBucket(rate, capacity)
	if err != nil {
		return err
	}
	r.mu.Lock()
	if _, exists := r.buckets[toolName]; exists {
		log.Debug().Str("tool", toolName).Msg("replacing existing rate-limit bucket")
	}
	r.buckets[toolName] = b
	r.mu.Unlock()
	return nil
}

// Get returns the shared bucket for a tool name. Unregistered tools share a
// single lazily-created fallback bucket so that unknown tools are still
// throttled conservatively.
func (r *Registry) Get(toolName string) *TokenBucket {
	r.mu.RLock()
	b, ok := r.buckets[toolName]
	r.mu.RUnlock()
	if ok {
		return b
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if b, ok = r.buckets[toolName]; ok {
		return b
	}
	b = MustTokenBucket(fallbackRate, fallbackCapacity)
	r.buckets[toolName] = b
	log.Debug().Str("tool", toolName).
		Float64("rate", fallbackRate).Float64("capacity", fallbackCapacity).
		Msg("no rate-limit bucket registered, using fallback")
	return b
}

// Names returns the registered tool names, for diagnostics.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.buckets))
	for name := range r.buckets {
		names = append(names, name)
	}
	return names
}
