package renderer

import "github.com/rs/zerolog"

var logger = zerolog.Nop()

// SetLogger configures the package logger.
func SetLogger(l zerolog.Logger) {
	logger = l.With().Str("component", "renderer").Logger()
}

// opsf logs actionable warnings.
func opsf(format string, args ...interface{}) {
	logger.Warn().Msgf(format, args...)
}

// infof logs progress of slow external renders.
func infof(format string, args ...interface{}) {
	logger.Info().Msgf(format, args...)
}

func diagf(format string, args ...interface{}) {
	logger.Debug().Msgf(format, args...)
}
