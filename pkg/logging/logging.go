// pkg/logging/logging.go
// Package logging configures the process-wide zerolog logger used by every
// component. Scans emit structured JSON by default; the console format is
// for interactive CLI use.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options control global logger construction.
type Options struct {
	// Level is a zerolog level name ("debug", "info", ...). Empty means
	// "info".
	Level string

	// Format is "console" or "json". Empty means "console".
	Format string

	// File, when set, duplicates output to a size-rotated log file.
	File string
}

func init() {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	zerolog.TimeFieldFormat = time.RFC3339
}

// ConfigureGlobal installs the global logger according to opts. It is
// called once at startup, before any component logs.
func ConfigureGlobal(opts Options) {
	level := parseLevel(opts.Level)
	zerolog.SetGlobalLevel(level)

	var writers []io.Writer
	if strings.EqualFold(opts.Format, "json") {
		writers = append(writers, os.Stderr)
	} else {
		writers = append(writers, zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.RFC3339,
		})
	}

	if opts.File != "" {
		writers = append(writers, &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    50, // MB
			MaxBackups: 3,
			MaxAge:     14, // days
			Compress:   true,
		})
	}

	ctx := zerolog.New(zerolog.MultiLevelWriter(writers...)).With().Timestamp()
	if level <= zerolog.DebugLevel {
		ctx = ctx.Caller()
	}
	log.Logger = ctx.Logger().Level(level)
	zerolog.DefaultContextLogger = &log.Logger
}

// parseLevel converts a level name to a zerolog.Level, defaulting to info
// on unknown input.
func parseLevel(name string) zerolog.Level {
	if name == "" {
		return zerolog.InfoLevel
	}
	level, err := zerolog.ParseLevel(strings.ToLower(name))
	if err != nil {
		log.Error().Err(err).Str("level", name).Msg("invalid log level, defaulting to info")
		return zerolog.InfoLevel
	}
	return level
}

// Component returns a child logger tagged with a component name, the
// convention every package uses for its own logging.
func Component(name string) zerolog.Logger {
	return log.With().Str("component", name).Logger()
}
