// pkg/config/config.go
// Package config loads application configuration with koanf. Precedence,
// lowest to highest: hardcoded defaults, YAML config file, command-line
// flags.
package config

import (
	"fmt"
	"sync"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"github.com/reconmux/reconmux/pkg/ratelimit"
)

// Manager loads and serves the application configuration.
type Manager struct {
	k          *koanf.Koanf
	mu         sync.RWMutex
	current    Config
	configFile string
}

// NewManager returns a manager holding the defaults; call Load to apply
// file and flag overrides.
func NewManager() *Manager {
	return &Manager{
		k:       koanf.New("."),
		current: DefaultConfig(),
	}
}

// Load merges defaults, the optional YAML config file, and flags into the
// current configuration.
func (m *Manager) Load(flags *pflag.FlagSet, configFile string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.configFile = configFile
	return m.loadLocked(flags)
}

func (m *Manager) loadLocked(flags *pflag.FlagSet) error {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(DefaultConfigAsMap(), "."), nil); err != nil {
		return fmt.Errorf("loading defaults: %w", err)
	}

	if m.configFile != "" {
		if err := k.Load(file.Provider(m.configFile), yaml.Parser()); err != nil {
			return fmt.Errorf("loading config file %s: %w", m.configFile, err)
		}
	}

	if flags != nil {
		if err := k.Load(posflag.Provider(flags, ".", k), nil); err != nil {
			return fmt.Errorf("loading flags: %w", err)
		}
	}

	cfg := DefaultConfig()
	if err := k.Unmarshal("", &cfg); err != nil {
		return fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := validateConfig(&cfg); err != nil {
		return err
	}

	m.k = k
	m.current = cfg
	return nil
}

// Current returns a copy of the loaded configuration.
func (m *Manager) Current() Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// BuildRegistry constructs the shared rate-limiter registry: built-in
// per-tool defaults overlaid with any configured overrides.
func (m *Manager) BuildRegistry() (*ratelimit.Registry, error) {
	reg := ratelimit.NewRegistry()
	for tool, rl := range m.Current().Scan.RateLimits {
		if err := reg.Register(tool, rl.Rate, rl.Capacity); err != nil {
			return nil, fmt.Errorf("rate limit for %q: %w", tool, err)
		}
	}
	return reg, nil
}

func validateConfig(cfg *Config) error {
	if cfg.Scan.MaxConcurrentTargets < 1 {
		return fmt.Errorf("scan.max_concurrent_targets must be >= 1, got %d", cfg.Scan.MaxConcurrentTargets)
	}
	if cfg.Scan.FuzzyThreshold < 0 || cfg.Scan.FuzzyThreshold > 1 {
		return fmt.Errorf("scan.fuzzy_threshold must be in [0, 1], got %v", cfg.Scan.FuzzyThreshold)
	}
	if cfg.Scan.Retry.MaxAttempts < 1 {
		return fmt.Errorf("scan.retry.max_attempts must be >= 1, got %d", cfg.Scan.Retry.MaxAttempts)
	}
	for tool, rl := range cfg.Scan.RateLimits {
		if rl.Rate <= 0 || rl.Capacity <= 0 {
			return fmt.Errorf("scan.rate_limits.%s: rate and capacity must be > 0", tool)
		}
	}
	return nil
}
