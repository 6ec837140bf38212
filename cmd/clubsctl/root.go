package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/morocclubs/clubs-api/internal/config"
	"github.com/morocclubs/clubs-api/internal/database"
)

// openDB is replaced in tests.
var openDB = func(ctx context.Context, cfg *config.Config) (*gorm.DB, error) {
	return database.Open(ctx, cfg)
}

// NewRootCmd creates the root command for the clubs maintenance CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "clubsctl",
		Short:         "Maintenance tasks for the clubs API database",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	cmd.AddCommand(NewMigrateCmd())
	cmd.AddCommand(NewUserCmd())

	return cmd
}

// connect loads configuration from the environment and opens the database.
func connect(cmd *cobra.Command) (*config.Config, *gorm.DB, error) {
	cfg := config.Load()

	ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
	defer cancel()

	db, err := openDB(ctx, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to database: %w", err)
	}
	return cfg, db, nil
}

// NewMigrateCmd creates the migrate subcommand.
func NewMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, db, err := connect(cmd)
			if err != nil {
				return err
			}

			cmd.Println("Running migrations...")
			if err := database.Migrate(db); err != nil {
				return fmt.Errorf("run migrations: %w", err)
			}
			cmd.Println("Migrations completed successfully")
			return nil
		},
	}
}
