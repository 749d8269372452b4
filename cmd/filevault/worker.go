package main

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/filevault/pkg/db"
	"github.com/dmitrymomot/filevault/pkg/job"
)

func newWorkerCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "worker",
		Short: "Run only the background workers",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			c, err := openCore(ctx, e)
			if err != nil {
				return err
			}
			defer logClose(context.WithoutCancel(ctx), e.log, "db", db.Shutdown(c.pool))

			manager, err := job.NewManager(c.pool, c.workerOptions(e)...)
			if err != nil {
				return err
			}
			if err := manager.Start(ctx); err != nil {
				return err
			}
			e.log.InfoContext(ctx, "worker running",
				slog.String("queue", e.cfg.Worker.Queue),
				slog.Int("workers", e.cfg.Worker.Workers),
			)

			<-ctx.Done()

			stopCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), e.cfg.HTTP.ShutdownTimeout)
			defer cancel()
			return manager.Stop(stopCtx)
		},
	}
}
