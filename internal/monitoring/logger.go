// Package monitoring configures process-wide logging for the relief tool.
package monitoring

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Logf is the package-level diagnostic logger used by code that only needs
// printf-style output (migrations, admin routes). It is a no-op until Setup
// or SetLogger is called.
var Logf func(format string, v ...interface{}) = func(string, ...interface{}) {}

// SetLogger replaces Logf. Passing nil installs a no-op logger.
func SetLogger(f func(format string, v ...interface{})) {
	if f == nil {
		Logf = func(string, ...interface{}) {}
		return
	}
	Logf = f
}

// Log formats accepted by Setup.
const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

// ParseLevel maps a level name to a zerolog level. Empty means info.
func ParseLevel(name string) (zerolog.Level, error) {
	if name == "" {
		return zerolog.InfoLevel, nil
	}
	lvl, err := zerolog.ParseLevel(strings.ToLower(name))
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("invalid log level %q: %w", name, err)
	}
	return lvl, nil
}

// Setup builds the root logger writing to w at level in the given format
// and routes Logf through it at debug level.
func Setup(w io.Writer, level zerolog.Level, format string) (zerolog.Logger, error) {
	var out io.Writer
	switch format {
	case "", FormatConsole:
		out = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen, NoColor: true}
	case FormatJSON:
		out = w
	default:
		return zerolog.Nop(), fmt.Errorf("invalid log format %q (expected %s or %s)", format, FormatConsole, FormatJSON)
	}
	l := zerolog.New(out).Level(level).With().Timestamp().Logger()
	SetLogger(func(format string, v ...interface{}) {
		l.Debug().Msgf(strings.TrimRight(format, "\n"), v...)
	})
	return l, nil
}

// VerbosityLevel resolves the -v/-q flags against a configured level.
// Verbose wins over quiet.
func VerbosityLevel(configured zerolog.Level, verbose, quiet bool) zerolog.Level {
	switch {
	case verbose:
		return zerolog.DebugLevel
	case quiet:
		return zerolog.ErrorLevel
	default:
		return configured
	}
}
