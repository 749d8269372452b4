package main

import (
	"context"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/dmitrymomot/filevault/internal/auth"
	"github.com/dmitrymomot/filevault/internal/files"
	"github.com/dmitrymomot/filevault/internal/handlers"
	"github.com/dmitrymomot/filevault/internal/repository"
	"github.com/dmitrymomot/filevault/internal/web"
	"github.com/dmitrymomot/filevault/internal/worker"
	"github.com/dmitrymomot/filevault/middlewares"
	"github.com/dmitrymomot/filevault/pkg/db"
	"github.com/dmitrymomot/filevault/pkg/health"
	"github.com/dmitrymomot/filevault/pkg/job"
	"github.com/dmitrymomot/filevault/pkg/storage"
)

func newServeCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API (and the workers when WORKER_EMBEDDED is set)",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := e.cfg

			c, err := openCore(ctx, e)
			if err != nil {
				return err
			}
			var release closers
			release.add("db", db.Shutdown(c.pool))
			failed := func(err error) error {
				release.close(context.WithoutCancel(ctx), e.log)
				return err
			}

			sess, err := openSessions(ctx, cfg)
			if err != nil {
				return failed(err)
			}
			release.add("redis", sess.shutdown())

			runOpts := []web.RunOption{
				web.Logger(e.log),
				web.WithContext(ctx),
				web.ShutdownTimeout(cfg.HTTP.ShutdownTimeout),
			}
			readiness := []web.HealthOption{
				web.WithReadinessCheck("db", db.Healthcheck(c.pool)),
				web.WithReadinessCheck("redis", sess.healthcheck()),
				web.WithReadinessCheck("storage", storage.Healthcheck(c.blobs)),
			}

			var enq worker.Enqueuer
			if cfg.Worker.Embedded {
				manager, err := job.NewManager(c.pool, c.workerOptions(e)...)
				if err != nil {
					return failed(err)
				}
				enq = manager
				runOpts = append(runOpts,
					web.StartupHook(manager.StartFunc()),
					web.ShutdownHook(manager.Shutdown()),
				)
				readiness = append(readiness, web.WithReadinessCheck("jobs", job.Healthcheck(manager)))
			} else {
				enqueuer, err := job.NewEnqueuer(c.pool, e.log)
				if err != nil {
					return failed(err)
				}
				enq = enqueuer
			}
			runOpts = append(runOpts,
				web.ShutdownHook(sess.shutdown()),
				web.ShutdownHook(db.Shutdown(c.pool)),
			)

			svc := files.NewService(c.repo, c.blobs,
				files.WithThumbnailQueue(worker.NewThumbnailQueue(enq, cfg.Worker)),
				files.WithWidths(cfg.Worker.Widths...),
				files.WithLogger(e.log),
				files.WithMetrics(c.metrics),
			)
			authn := auth.NewAuthenticator(sess.store, auth.WithTTL(cfg.Session.TTL), auth.WithLogger(e.log))
			header := auth.WithTokenHeader(cfg.Session.Header)

			app := web.New(
				web.WithLogger(e.log),
				web.WithMiddleware(
					middlewares.Metrics(middlewares.WithMetricsRegisterer(c.registry)),
					middlewares.RequestID(),
					middlewares.Recover(),
				),
				web.WithErrorHandler(handlers.ErrorHandler(e.log)),
				web.WithNotFoundHandler(handlers.NotFound),
				web.WithMethodNotAllowedHandler(handlers.MethodNotAllowed),
				web.WithHealthChecks(readiness...),
				web.WithMount(cfg.HTTP.MetricsPath, promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})),
				web.WithHandlers(
					handlers.NewFiles(svc, authn, header),
					handlers.NewSession(authn, header),
					handlers.NewStatus(health.Checks{
						"db":    db.Healthcheck(c.pool),
						"redis": sess.healthcheck(),
					}, repository.NewStatsReader(c.pool)),
				),
			)

			e.log.InfoContext(ctx, "starting api",
				slog.String("addr", cfg.HTTP.Addr),
				slog.String("storage", cfg.Storage.Backend),
				slog.String("sessions", cfg.Session.Store),
				slog.Bool("embedded_worker", cfg.Worker.Embedded),
			)
			return app.Run(cfg.HTTP.Addr, runOpts...)
		},
	}
}
