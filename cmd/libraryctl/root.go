package main

import (
	"context"
	"fmt"
	"os"

	"github.com/eldieng/Fawsayni-Tech/internal/config"
	"github.com/eldieng/Fawsayni-Tech/internal/store/backend"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "libraryctl",
		Short:         "Operator commands for the library API",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			_ = godotenv.Load()
		},
	}
	root.AddCommand(newMigrateCmd(), newCreateAdminCmd())
	return root
}

// openStore loads the configuration and opens the record store it names.
func openStore(ctx context.Context) (*config.Config, *backend.Backend, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("config: %w", err)
	}
	if cfg.Store.Driver == config.DriverMemory {
		fmt.Fprintln(os.Stderr, "warning: STORE_DRIVER=memory, changes are lost on exit")
	}
	db, err := backend.Open(ctx, cfg.Store)
	if err != nil {
		return nil, nil, fmt.Errorf("store: %w", err)
	}
	return cfg, db, nil
}
