package main

import (
	"context"

	"github.com/Freeeeeet/edu_platform/internal/app"
	"github.com/spf13/cobra"
)

var (
	migrateCmd = &cobra.Command{
		Use:   "migrate",
		Short: "Manage database migrations",
	}
	migrateUpCmd = &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE:  withMigrator(func(ctx context.Context, mg *app.Migrator) error {
			return mg.Up(ctx)
		}),
	}
	migrateDownCmd = &cobra.Command{
		Use:   "down",
		Short: "Roll back the last migration",
		RunE:  withMigrator(func(ctx context.Context, mg *app.Migrator) error {
			return mg.Down(ctx)
		}),
	}
	migrateStatusCmd = &cobra.Command{
		Use:   "status",
		Short: "Print migration status",
		RunE:  withMigrator(func(ctx context.Context, mg *app.Migrator) error {
			return mg.Status(ctx)
		}),
	}
)

func withMigrator(fn func(ctx context.Context, mg *app.Migrator) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		rt, err := bootstrap(ctx)
		if err != nil {
			return err
		}
		defer rt.close()

		mg, err := app.NewMigrator(rt.pool, rt.cfg.MigrationsPath, rt.logger)
		if err != nil {
			return err
		}
		defer mg.Close()

		return fn(ctx, mg)
	}
}
