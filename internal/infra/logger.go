package infra

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// NewLogger builds the process logger. Everything goes to stderr so stdout
// stays reserved for the provisioning report. LOG_LEVEL overrides the
// environment default of debug in development and info elsewhere.
func NewLogger(cfg *Config) zerolog.Logger {
	return newLogger(os.Stderr, cfg.AppEnv, cfg.LogLevel)
}

func newLogger(w io.Writer, appEnv, levelName string) zerolog.Logger {
	level := zerolog.InfoLevel
	if appEnv == "development" {
		level = zerolog.DebugLevel
	}
	if parsed, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(levelName))); err == nil && levelName != "" {
		level = parsed
	}

	out := w
	switch appEnv {
	case "development", "cli":
		out = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}

	return zerolog.New(out).
		Level(level).
		With().
		Timestamp().
		Logger()
}

// DiscardLogger is the default for components constructed without a logger.
func DiscardLogger() *Logger {
	l := zerolog.Nop()
	return &l
}

// Logger aliases zerolog.Logger so packages can accept a logger without
// importing zerolog themselves.
type Logger = zerolog.Logger
