package logger

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Init initializes the global logger.
// Log output goes to stderr so stdout stays clean for notification output.
func Init(debug bool) {
	zerolog.TimeFieldFormat = time.RFC3339

	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: "2006-01-02 15:04:05",
	}

	log.Logger = zerolog.New(output).With().Timestamp().Logger()

	if debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

// Debug logs a debug message
func Debug(format string, v ...interface{}) {
	log.Debug().Msgf(format, v...)
}

// Info logs an info message
func Info(format string, v ...interface{}) {
	log.Info().Msgf(format, v...)
}

// Warn logs a warning message
func Warn(format string, v ...interface{}) {
	log.Warn().Msgf(format, v...)
}

// Error logs an error message
func Error(err error, format string, v ...interface{}) {
	log.Error().Err(err).Msgf(format, v...)
}

// Fatal logs a fatal message and exits
func Fatal(err error, format string, v ...interface{}) {
	log.Fatal().Err(err).Msgf(format, v...)
}

// With returns a sub-logger carrying a component field
func With(component string) zerolog.Logger {
	return log.With().Str("component", component).Logger()
}
