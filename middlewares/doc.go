// Package middlewares provides the HTTP middleware used by the filevault API.
//
// # Request ID
//
// RequestID assigns a unique ID to each request. An incoming X-Request-ID or
// X-Correlation-ID header is reused so upstream traces stay connected;
// otherwise a UUID is generated. Pair it with RequestIDExtractor so every log
// record carries request_id:
//
//	log := logger.New(cfg.Log, middlewares.RequestIDExtractor())
//	app := web.New(
//		web.WithLogger(log),
//		web.WithMiddleware(middlewares.RequestID()),
//	)
//
// # Recover
//
// Recover catches panics and returns them as *PanicError, so the app-wide
// ErrorHandler renders them like any other internal error.
//
// # Metrics
//
// Metrics records http_requests_total and http_request_duration_seconds,
// labelled by the chi route pattern rather than the raw path:
//
//	web.WithMiddleware(
//		middlewares.Metrics(middlewares.WithMetricsRegisterer(reg)),
//		middlewares.RequestID(),
//		middlewares.Recover(),
//	)
package middlewares
