package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create tables or indexes for the configured store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			_, db, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer db.Close(context.WithoutCancel(ctx))

			if err := db.Migrate(ctx); err != nil {
				return fmt.Errorf("migrate %s: %w", db.Driver, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✅ %s schema is up to date\n", db.Driver)
			return nil
		},
	}
}
