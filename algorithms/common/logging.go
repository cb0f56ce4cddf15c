package common

import (
	"io"
	"time"

	"github.com/rs/zerolog"
)

// NewLogger builds the logger a command hands down to the algorithms.
// Unknown levels fall back to info.
func NewLogger(cfg LoggingConfig, service string, out io.Writer) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}

	var w io.Writer = out
	if !cfg.JSON {
		w = zerolog.ConsoleWriter{Out: out, TimeFormat: time.TimeOnly}
	}
	return zerolog.New(w).Level(level).With().Timestamp().Str("service", service).Logger()
}
