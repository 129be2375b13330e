// Package logging builds the process's zerolog.Logger from Options instead
// of relying on a package-global logger. Only cmd/enginedemo uses it; the
// internal subsystem constructors take no logger.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Options configures the root logger.
type Options struct {
	Level  string // "debug", "info", "warn", "error"
	Pretty bool   // console-writer output for local/dev runs
	Output io.Writer
}

// New builds a zerolog.Logger per Options. An empty/invalid Level falls
// back to info.
func New(opts Options) zerolog.Logger {
	level, err := zerolog.ParseLevel(opts.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}

	out := opts.Output
	if out == nil {
		out = os.Stderr
	}
	if opts.Pretty {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}

// Nop returns a disabled logger, for tests that don't care about output.
func Nop() zerolog.Logger {
	return zerolog.Nop()
}
