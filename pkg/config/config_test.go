// pkg/config/config_test.go
package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "reconmux.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	m := NewManager()
	require.NoError(t, m.Load(nil, ""))

	cfg := m.Current()
	require.Equal(t, 5, cfg.Scan.MaxConcurrentTargets)
	require.Equal(t, 10*time.Minute, cfg.Scan.AdapterTimeout)
	require.Equal(t, 0.85, cfg.Scan.FuzzyThreshold)
	require.Equal(t, 3, cfg.Scan.Retry.MaxAttempts)
	require.Equal(t, "info", cfg.Log.Level)
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
log:
  level: debug
scan:
  max_concurrent_targets: 12
  fuzzy_threshold: 0.9
  rate_limits:
    katana:
      rate: 3
      capacity: 6
`)
	m := NewManager()
	require.NoError(t, m.Load(nil, path))

	cfg := m.Current()
	require.Equal(t, "debug", cfg.Log.Level)
	require.Equal(t, 12, cfg.Scan.MaxConcurrentTargets)
	require.Equal(t, 0.9, cfg.Scan.FuzzyThreshold)
	// Unset keys keep their defaults.
	require.Equal(t, 10*time.Minute, cfg.Scan.AdapterTimeout)
	require.Equal(t, 3.0, cfg.Scan.RateLimits["katana"].Rate)
}

func TestLoadMissingFileFails(t *testing.T) {
	m := NewManager()
	require.Error(t, m.Load(nil, filepath.Join(t.TempDir(), "nope.yaml")))
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"zero concurrency", "scan:\n  max_concurrent_targets: 0\n"},
		{"threshold above one", "scan:\n  fuzzy_threshold: 1.5\n"},
		{"zero retry attempts", "scan:\n  retry:\n    max_attempts: 0\n"},
		{"negative bucket rate", "scan:\n  rate_limits:\n    gau:\n      rate: -1\n      capacity: 5\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewManager()
			require.Error(t, m.Load(nil, writeConfig(t, tt.yaml)))
		})
	}
}

func TestBuildRegistryAppliesOverrides(t *testing.T) {
	path := writeConfig(t, `
scan:
  rate_limits:
    katana:
      rate: 3
      capacity: 6
`)
	m := NewManager()
	require.NoError(t, m.Load(nil, path))

	reg, err := m.BuildRegistry()
	require.NoError(t, err)
	require.Equal(t, 3.0, reg.Get("katana").Rate())
	require.Equal(t, 6.0, reg.Get("katana").Capacity())
	// Tools without overrides keep built-in defaults.
	require.Equal(t, 2.0, reg.Get("hackertarget").Rate())
}

func TestWatchReloadsOnChange(t *testing.T) {
	path := writeConfig(t, "scan:\n  max_concurrent_targets: 2\n")
	m := NewManager()
	require.NoError(t, m.Load(nil, path))
	require.Equal(t, 2, m.Current().Scan.MaxConcurrentTargets)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reloaded := make(chan Config, 1)
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = m.Watch(ctx, func(cfg Config) {
			select {
			case reloaded <- cfg:
			default:
			}
		})
	}()

	// Give the watcher time to install before rewriting the file.
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(path, []byte("scan:\n  max_concurrent_targets: 7\n"), 0o644))

	select {
	case cfg := <-reloaded:
		require.Equal(t, 7, cfg.Scan.MaxConcurrentTargets)
	case <-time.After(5 * time.Second):
		t.Fatal("config reload not observed")
	}

	cancel()
	<-done
}

func TestWatchKeepsPreviousConfigOnBadReload(t *testing.T) {
	path := writeConfig(t, "scan:\n  max_concurrent_targets: 2\n")
	m := NewManager()
	require.NoError(t, m.Load(nil, path))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() { _ = m.Watch(ctx, nil) }()
	time.Sleep(100 * time.Millisecond)

	// Invalid value: reload must fail and the old config must survive.
	require.NoError(t, os.WriteFile(path, []byte("scan:\n  max_concurrent_targets: 0\n"), 0o644))
	time.Sleep(500 * time.Millisecond)
	require.Equal(t, 2, m.Current().Scan.MaxConcurrentTargets)
}
