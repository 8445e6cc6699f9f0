// Package logger builds the application's zerolog logger.
package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/mrlokans/library/internal/config"
)

const serviceName = "library"

// New returns a logger writing to out with the configured level and format.
// An unknown level falls back to info.
func New(cfg config.Log, out io.Writer) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}

	if cfg.Format != "json" {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	return zerolog.New(out).
		Level(level).
		With().
		Timestamp().
		Str("service", serviceName).
		Logger()
}

// Setup builds the logger for stderr and installs it as the global zerolog logger.
func Setup(cfg config.Log) zerolog.Logger {
	logger := New(cfg, os.Stderr)
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = logger
	return logger
}
