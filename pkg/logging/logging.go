package logging

import (
	"os"

	"github.com/rs/zerolog"
)

// New creates a structured JSON logger for long-running services
func New(component, level string) zerolog.Logger {
	return zerolog.New(os.Stderr).
		Level(parseLevel(level)).
		With().
		Timestamp().
		Str("component", component).
		Logger()
}

// NewConsole creates a human-readable logger for the CLIs. Logs go to
// stderr so report output on stdout stays parseable.
func NewConsole(component, level string) zerolog.Logger {
	w := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}
	return zerolog.New(w).
		Level(parseLevel(level)).
		With().
		Timestamp().
		Str("component", component).
		Logger()
}

func parseLevel(level string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}
