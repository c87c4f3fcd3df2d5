// Package logging builds the zerolog loggers used across the program.
//
// The program always logs to stderr: stdout carries the MCP protocol.
package logging

import (
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// New returns a JSON logger writing to w at the named level. Unknown or
// empty level names fall back to info.
func New(w io.Writer, level string) zerolog.Logger {
	return zerolog.New(w).
		Level(ParseLevel(level)).
		With().
		Timestamp().
		Logger()
}

// Output formats accepted by NewFormat.
const (
	FormatJSON    = "json"
	FormatConsole = "console"
)

// NewConsole returns a human-readable, uncolored logger writing to w.
func NewConsole(w io.Writer, level string) zerolog.Logger {
	return New(zerolog.ConsoleWriter{Out: w, NoColor: true, TimeFormat: time.TimeOnly}, level)
}

// NewFormat picks New or NewConsole by format name. Anything other than
// FormatConsole gives JSON.
func NewFormat(w io.Writer, format, level string) zerolog.Logger {
	if strings.EqualFold(strings.TrimSpace(format), FormatConsole) {
		return NewConsole(w, level)
	}
	return New(w, level)
}

// ParseLevel maps a level name such as "debug" to a zerolog.Level.
func ParseLevel(level string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}

// Nop returns a logger that discards everything.
func Nop() zerolog.Logger {
	return zerolog.Nop()
}
