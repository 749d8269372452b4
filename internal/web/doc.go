// Package web is a thin layer over chi that lets handlers return errors.
//
// Handlers and middlewares work on [Context], which wraps the request and a
// status-tracking [ResponseWriter]. Errors returned from either reach one
// app-wide [ErrorHandler], so rendering lives in a single place:
//
//	app := web.New(
//		web.WithLogger(log),
//		web.WithMiddleware(middlewares.RequestID(), middlewares.Recover()),
//		web.WithErrorHandler(handlers.ErrorHandler(log)),
//		web.WithHealthChecks(web.WithReadinessCheck("db", db.Healthcheck(pool))),
//		web.WithMount("/metrics", promhttp.Handler()),
//		web.WithHandlers(handlers.NewFiles(svc, authn)),
//	)
//
//	err := app.Run(":5000",
//		web.ShutdownHook(db.Shutdown(pool)),
//	)
//
// Run blocks until SIGINT or SIGTERM, stops accepting requests, waits for
// in-flight ones and then runs the shutdown hooks in order.
package web
