// Package log builds the zerolog loggers used by the born-collate command.
package log

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/born-ml/collate/internal/config"
)

// Version is reported on every log line.
var Version = "dev"

func FromConfig(conf config.Log) zerolog.Logger {
	return New(os.Stderr, conf)
}

// New builds a logger writing to w. It panics on a level or format that
// config validation would have rejected.
func New(w io.Writer, conf config.Log) zerolog.Logger {
	level, err := zerolog.ParseLevel(conf.Level)
	if nil != err {
		panic("invalid logging level: " + conf.Level)
	}

	switch strings.ToLower(conf.Format) {
	case "json":
		return zerolog.
			New(w).
			With().
			Timestamp().
			Str("version", Version).
			Logger().
			Level(level)
	case "pretty":
		return zerolog.
			New(zerolog.ConsoleWriter{ //nolint:exhaustruct
				Out:          w,
				TimeFormat:   time.RFC3339,
				TimeLocation: time.UTC,
			}).
			With().
			Timestamp().
			Str("version", Version).
			Logger().
			Level(level)
	default:
		panic("invalid logging format: " + conf.Format)
	}
}

func NewDefault() zerolog.Logger {
	return New(os.Stderr, config.Log{Level: "info", Format: "pretty"})
}
