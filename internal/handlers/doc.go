// Package handlers exposes the file service over HTTP.
//
// Every handler returns errors instead of writing them; ErrorHandler maps
// the domain sentinels of internal/files and internal/auth to status codes
// and renders the {"error": "<message>"} envelope.
//
//	app := web.New(
//		web.WithErrorHandler(handlers.ErrorHandler(log)),
//		web.WithNotFoundHandler(handlers.NotFound),
//		web.WithHandlers(
//			handlers.NewFiles(svc, authn),
//			handlers.NewSession(authn),
//			handlers.NewStatus(health.Checks{"db": db.Healthcheck(pool)}, stats),
//		),
//	)
package handlers
