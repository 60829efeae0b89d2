// pkg/config/types.go
package config

import "time"

// Config is the root application configuration.
type Config struct {
	Log  LogConfig  `koanf:"log"`
	Scan ScanConfig `koanf:"scan"`
}

// LogConfig controls the global logger.
type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	File   string `koanf:"file"`
}

// RateLimitConfig overrides one tool's token bucket.
type RateLimitConfig struct {
	Rate     float64 `koanf:"rate"`
	Capacity float64 `koanf:"capacity"`
}

// RetryConfig configures adapter retry behavior.
type RetryConfig struct {
	MaxAttempts   int           `koanf:"max_attempts"`
	BaseDelay     time.Duration `koanf:"base_delay"`
	MaxDelay      time.Duration `koanf:"max_delay"`
	BackoffFactor float64       `koanf:"backoff_factor"`
	Jitter        bool          `koanf:"jitter"`
}

// ScanConfig controls orchestration behavior.
type ScanConfig struct {
	// MaxConcurrentTargets bounds how many orchestrations run side by
	// side in a batch.
	MaxConcurrentTargets int `koanf:"max_concurrent_targets"`

	// AdapterTimeout bounds one adapter run end to end. Zero disables
	// the per-adapter timeout.
	AdapterTimeout time.Duration `koanf:"adapter_timeout"`

	// FuzzyThreshold is the similarity cutoff for endpoint fuzzy dedup.
	FuzzyThreshold float64 `koanf:"fuzzy_threshold"`

	// RateLimits overrides the built-in per-tool bucket defaults.
	RateLimits map[string]RateLimitConfig `koanf:"rate_limits"`

	Retry RetryConfig `koanf:"retry"`
}

// DefaultConfig returns the baseline configuration used when no file or
// flags override it.
func DefaultConfig() Config {
	return Config{
		Log: LogConfig{
			Level:  "info",
			Format: "console",
			File:   "",
		},
		Scan: ScanConfig{
			MaxConcurrentTargets: 5,
			AdapterTimeout:       10 * time.Minute,
			FuzzyThreshold:       0.85,
			RateLimits:           map[string]RateLimitConfig{},
			Retry: RetryConfig{
				MaxAttempts:   3,
				BaseDelay:     time.Second,
				MaxDelay:      60 * time.Second,
				BackoffFactor: 2.0,
				Jitter:        true,
			},
		},
	}
}

// DefaultConfigAsMap flattens the defaults into koanf's confmap form.
func DefaultConfigAsMap() map[string]interface{} {
	def := DefaultConfig()
	return map[string]interface{}{
		"log.level":                   def.Log.Level,
		"log.format":                  def.Log.Format,
		"log.file":                    def.Log.File,
		"scan.max_concurrent_targets": def.Scan.MaxConcurrentTargets,
		"scan.adapter_timeout":        def.Scan.AdapterTimeout.String(),
		"scan.fuzzy_threshold":        def.Scan.FuzzyThreshold,
		"scan.retry.max_attempts":     def.Scan.Retry.MaxAttempts,
		"scan.retry.base_delay":       def.Scan.Retry.BaseDelay.String(),
		"scan.retry.max_delay":        def.Scan.Retry.MaxDelay.String(),
		"scan.retry.backoff_factor":   def.Scan.Retry.BackoffFactor,
		"scan.retry.jitter":           def.Scan.Retry.Jitter,
	}
}
