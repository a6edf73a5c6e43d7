package heightfield

import (
	"github.com/rs/zerolog"
)

var logger = zerolog.Nop()

// SetLogger configures the package logger. Warnings go to opsf, stage
// diagnostics to diagf.
func SetLogger(l zerolog.Logger) {
	logger = l.With().Str("component", "heightfield").Logger()
}

// opsf logs actionable warnings.
func opsf(format string, args ...interface{}) {
	logger.Warn().Msgf(format, args...)
}

// diagf logs stage-level diagnostics.
func diagf(format string, args ...interface{}) {
	logger.Debug().Msgf(format, args...)
}
