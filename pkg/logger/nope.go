package logger

import (
	"io"
	"log/slog"
)

// NewNope returns a logger that discards everything.
// Components fall back to it when no logger option is given.
func NewNope() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// NewWriter returns a text logger writing to w at debug level.
// Intended for tests and CLI subcommands that print to a terminal.
func NewWriter(w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
}
