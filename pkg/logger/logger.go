// Package logger configures the global zerolog logger for uitest-runner.
package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

var global = zerolog.Nop()

// Init sets up console logging on stderr and returns the logger.
// Verbose enables debug level.
func Init(verbose bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)

	global = zerolog.New(zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
	}).With().Timestamp().Logger()

	return global
}

// InitWriter sets up logging to an arbitrary writer, for tests and
// captured output.
func InitWriter(w io.Writer, verbose bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)

	global = zerolog.New(w).With().Timestamp().Logger()
	return global
}

// L returns the configured logger.
func L() zerolog.Logger { return global }
