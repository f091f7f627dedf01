// Package logging builds the zerolog root logger used by every component.
package logging

import (
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// New returns the root logger. Components derive theirs with
// log.With().Str("component", ...).Logger().
func New(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	var out = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}
	return zerolog.New(out).
		Level(lvl).
		With().
		Timestamp().
		Str("service", "memescout").
		Logger()
}
