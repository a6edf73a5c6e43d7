package pipeline

import (
	"github.com/rs/zerolog"
)

var logger = zerolog.Nop()

// SetLogger configures the package logger.
func SetLogger(l zerolog.Logger) {
	logger = l.With().Str("component", "pipeline").Logger()
}

func opsf(format string, args ...interface{}) {
	logger.Warn().Msgf(format, args...)
}

func infof(format string, args ...interface{}) {
	logger.Info().Msgf(format, args...)
}

func diagf(format string, args ...interface{}) {
	logger.Debug().Msgf(format, args...)
}
