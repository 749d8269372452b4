package main

import (
	"github.com/spf13/cobra"

	"github.com/dmitrymomot/filevault/pkg/db"
)

func newMigrateCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			pool, err := db.Connect(ctx, e.cfg.DB)
			if err != nil {
				return err
			}
			defer pool.Close()

			return migrate(ctx, pool, e)
		},
	}
}
