package logger

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/getsentry/sentry-go"
	sentryslog "github.com/getsentry/sentry-go/slog"
)

// New builds the process logger from cfg.
//
// Records are written to stdout in the configured format. When a Sentry DSN is
// present, records are also forwarded to Sentry: errors become issues, warnings
// are kept as searchable logs. If Sentry fails to initialize the logger degrades
// to stdout only and reports the failure once.
//
// Extractors run for every record and apply to both destinations.
func New(cfg Config, extractors ...ContextExtractor) *slog.Logger {
	return newLogger(os.Stdout, cfg, extractors...)
}

func newLogger(w io.Writer, cfg Config, extractors ...ContextExtractor) *slog.Logger {
	opts := &slog.HandlerOptions{Level: ParseLevel(cfg.Level)}

	var stdout slog.Handler
	if cfg.Format == "text" {
		stdout = slog.NewTextHandler(w, opts)
	} else {
		stdout = slog.NewJSONHandler(w, opts)
	}
	if cfg.Component != "" {
		stdout = stdout.WithAttrs([]slog.Attr{slog.String("component", cfg.Component)})
	}

	if cfg.Sentry.DSN == "" {
		return slog.New(NewLogHandlerDecorator(stdout, extractors...))
	}

	if err := sentry.Init(sentry.ClientOptions{
		Dsn:         cfg.Sentry.DSN,
		Environment: cfg.Sentry.Environment,
		EnableLogs:  true,
	}); err != nil {
		slog.New(stdout).Error("failed to initialize sentry", slog.String("error", err.Error()))
		return slog.New(NewLogHandlerDecorator(stdout, extractors...))
	}

	eventLevel := []slog.Level{slog.LevelError}
	if ParseLevel(cfg.Sentry.EventLevel) == slog.LevelWarn {
		eventLevel = []slog.Level{slog.LevelWarn, slog.LevelError}
	}

	sentryHandler := sentryslog.Option{
		EventLevel: eventLevel,
		LogLevel:   []slog.Level{slog.LevelWarn, slog.LevelError},
	}.NewSentryHandler(context.Background())

	return slog.New(NewLogHandlerDecorator(newMultiHandler(stdout, sentryHandler), extractors...))
}
