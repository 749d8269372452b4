package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/filevault/internal/auth"
	"github.com/dmitrymomot/filevault/internal/config"
	"github.com/dmitrymomot/filevault/middlewares"
	"github.com/dmitrymomot/filevault/pkg/logger"
)

// env is filled before any subcommand runs.
type env struct {
	cfg *config.Config
	log *slog.Logger
}

func newRootCmd() *cobra.Command {
	e := &env{}

	cmd := &cobra.Command{
		Use:           "filevault",
		Short:         "Multi-tenant file storage with thumbnails",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			e.cfg = cfg
			e.log = logger.New(cfg.Log, middlewares.RequestIDExtractor(), auth.UserIDExtractor()).
				With(slog.String("cmd", cmd.Name()))
			return nil
		},
	}

	cmd.AddCommand(
		newServeCmd(e),
		newWorkerCmd(e),
		newMigrateCmd(e),
		newTokenCmd(e),
	)
	return cmd
}
