// Package logger builds the slog logger used across filevault.
//
// Every component logs through a *slog.Logger handed to it via options. This
// package decides where those records go and what they carry:
//
//   - stdout in JSON (default) or text format, at the level from LOG_LEVEL
//   - Sentry, when SENTRY_DSN is set, through sentry-go's slog handler
//   - request-scoped attributes such as request_id and user_id, added by
//     [ContextExtractor] functions on every record
//
// # Usage
//
//	log := logger.New(cfg.Log,
//		middlewares.RequestIDExtractor(),
//		auth.UserIDExtractor(),
//	)
//	log.InfoContext(ctx, "file created", slog.String("file_id", rec.ID))
//	// {"level":"INFO","msg":"file created","component":"filevault","file_id":"...","request_id":"..."}
//
// Use [NewNope] wherever a logger is optional and none was provided.
package logger
