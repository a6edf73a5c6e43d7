package mesh

import "github.com/rs/zerolog"

var logger = zerolog.Nop()

// SetLogger configures the package logger.
func SetLogger(l zerolog.Logger) {
	logger = l.With().Str("component", "mesh").Logger()
}

func diagf(format string, args ...interface{}) {
	logger.Debug().Msgf(format, args...)
}
