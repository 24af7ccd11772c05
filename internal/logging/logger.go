// Package logging configures the process-wide zerolog logger.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Logger is the process-wide logger. It defaults to an info-level console
// logger on stderr until Configure is called.
var Logger = New(os.Stderr, zerolog.InfoLevel, FormatConsole)

// Output formats accepted by New and Configure.
const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

// New builds a zerolog.Logger writing to w. Console format is colourless so
// it stays readable when stderr is captured by a supervisor.
func New(w io.Writer, level zerolog.Level, format string) zerolog.Logger {
	out := w
	if format != FormatJSON {
		out = zerolog.ConsoleWriter{
			Out:        w,
			TimeFormat: "15:04:05",
			NoColor:    true,
		}
	}
	return zerolog.New(out).
		Level(level).
		With().
		Timestamp().
		Logger()
}

// ParseLevel converts a config level string ("debug", "info", ...) into a
// zerolog.Level. An empty string means info.
func ParseLevel(s string) (zerolog.Level, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" {
		return zerolog.InfoLevel, nil
	}
	lvl, err := zerolog.ParseLevel(s)
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("parse log level %q: %w", s, err)
	}
	return lvl, nil
}

// Configure replaces Logger (and zerolog's global logger) with one built
// from the given level and format strings.
func Configure(w io.Writer, level, format string) error {
	lvl, err := ParseLevel(level)
	if err != nil {
		return err
	}
	Logger = New(w, lvl, format)
	log.Logger = Logger
	return nil
}

// Info starts an info-level event.
func Info() *zerolog.Event {
	return Logger.Info()
}

// Warn starts a warn-level event.
func Warn() *zerolog.Event {
	return Logger.Warn()
}

// Error starts an error-level event.
func Error() *zerolog.Event {
	return Logger.Error()
}

// Debug starts a debug-level event.
func Debug() *zerolog.Event {
	return Logger.Debug()
}
