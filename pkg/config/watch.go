// pkg/config/watch.go
package config

import (
	"context"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
)

// Watch reloads the configuration when its file changes on disk. It blocks
// until ctx is cancelled and is a no-op when no config file was loaded.
// onReload, when non-nil, is invoked after each successful reload.
func (m *Manager) Watch(ctx context.Context, onReload func(Config)) error {
	m.mu.RLock()
	configFile := m.configFile
	m.mu.RUnlock()
	if configFile == "" {
		<-ctx.Done()
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	// Watch the directory: editors replace files on save, which drops
	// a watch placed on the file itself.
	if err := watcher.Add(filepath.Dir(configFile)); err != nil {
		return err
	}

	logger := log.With().Str("component", "config").Str("file", configFile).Logger()
	logger.Debug().Msg("watching config file")

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != filepath.Clean(configFile) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			m.mu.Lock()
			err := m.loadLocked(nil)
			cfg := m.current
			m.mu.Unlock()
			if err != nil {
				logger.Error().Err(err).Msg("config reload failed, keeping previous config")
				continue
			}
			logger.Info().Msg("config reloaded")
			if onReload != nil {
				onReload(cfg)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Error().Err(err).Msg("config watch error")
		}
	}
}
