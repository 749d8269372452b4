package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/filevault/internal/auth"
	"github.com/dmitrymomot/filevault/internal/config"
)

func newTokenCmd(e *env) *cobra.Command {
	var userID string

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a session token for a user",
		RunE: func(cmd *cobra.Command, args []string) error {
			if e.cfg.Session.Store == config.SessionStoreMemory {
				return errTokenNeedsRedis
			}

			ctx := cmd.Context()
			sess, err := openSessions(ctx, e.cfg)
			if err != nil {
				return err
			}
			defer logClose(context.WithoutCancel(ctx), e.log, "redis", sess.shutdown())

			token, err := auth.NewAuthenticator(sess.store, auth.WithTTL(e.cfg.Session.TTL)).Issue(ctx, userID)
			if err != nil {
				if errors.Is(err, auth.ErrEmptyUserID) {
					return fmt.Errorf("token: --user is required")
				}
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), token)
			return err
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "user id the session belongs to")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}
