package logger

import (
	"log/slog"
	"strings"
)

// Config holds logger settings loaded from the environment.
type Config struct {
	// Level is one of debug, info, warn, error (case-insensitive).
	Level string `env:"LOG_LEVEL" envDefault:"info" validate:"oneof=debug info warn error DEBUG INFO WARN ERROR"`

	// Format selects the stdout encoding: json for production, text for local runs.
	Format string `env:"LOG_FORMAT" envDefault:"json" validate:"oneof=json text"`

	// Component is added to every record as "component".
	Component string `env:"LOG_COMPONENT" envDefault:"filevault"`

	Sentry SentryConfig
}

// SentryConfig holds Sentry integration configuration.
// Leave DSN empty to disable Sentry entirely.
type SentryConfig struct {
	DSN         string `env:"SENTRY_DSN"`
	Environment string `env:"SENTRY_ENVIRONMENT" envDefault:"production"`

	// EventLevel is the minimum level that creates a Sentry issue.
	// Records at warn and above are always attached as breadcrumbs/logs.
	EventLevel string `env:"SENTRY_EVENT_LEVEL" envDefault:"error" validate:"oneof=warn error"`
}

// ParseLevel converts a textual level into slog.Level.
// Unknown values fall back to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
