package main

import (
	"context"
	"fmt"

	"plant-store/internal/config"
	"plant-store/internal/database"
	"plant-store/internal/seed"
	"plant-store/internal/service"
	"plant-store/internal/storage"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	sweepDryRun bool
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage the Postgres schema",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply pending migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withPostgres(cmd, func(store *database.Store) error {
			db := database.SQLDB(store.Pool())
			defer db.Close()
			if err := database.RunMigrations(db, log); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Migrations applied")
			return nil
		})
	},
}

var migrateStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show migration status",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withPostgres(cmd, func(store *database.Store) error {
			db := database.SQLDB(store.Pool())
			defer db.Close()
			return database.GetMigrationStatus(db)
		})
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Replace all plants with the starter catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		store, err := openStore(ctx, cfg.Store.Driver == config.DriverPostgres)
		if err != nil {
			return err
		}
		defer store.Close(context.Background())

		n, err := seed.Run(ctx, store.Plants, log)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Inserted %d plants\n", n)
		return nil
	},
}

var sweepCmd = &cobra.Command{
	Use:   "sweep-uploads",
	Short: "Delete uploaded images no plant references",
	Long: `Removes files in the upload directory that no plant references and that
are older than UPLOAD_SWEEP_GRACE. Use --dry-run to only list them.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		// A memory store opened here is empty, so every upload would look orphaned.
		if cfg.Store.Driver == config.DriverMemory {
			return fmt.Errorf("sweep-uploads needs a persistent store (STORE_DRIVER=%s)", cfg.Store.Driver)
		}

		ctx := cmd.Context()
		store, err := openStore(ctx, false)
		if err != nil {
			return err
		}
		defer store.Close(context.Background())

		images := storage.NewLocalImageStore(cfg.Uploads.Dir, cfg.Uploads.PublicPath)
		sweeper := service.NewUploadSweeper(store.Plants, images, log)

		result, err := sweeper.Sweep(ctx, cfg.Uploads.SweepGrace, sweepDryRun)
		if err != nil {
			return err
		}

		verb := "Removed"
		if sweepDryRun {
			verb = "Would remove"
		}
		out := cmd.OutOrStdout()
		for _, name := range result.Removed {
			fmt.Fprintf(out, "%s %s\n", verb, name)
		}
		fmt.Fprintf(out, "Scanned %d, kept %d, %s %d\n", result.Scanned, result.Kept, verb, len(result.Removed))
		return nil
	},
}

func init() {
	sweepCmd.Flags().BoolVar(&sweepDryRun, "dry-run", false, "List orphaned uploads without deleting them")
}

func withPostgres(cmd *cobra.Command, fn func(store *database.Store) error) error {
	if cfg.Store.Driver != config.DriverPostgres {
		return fmt.Errorf("migrations apply to the postgres driver only (STORE_DRIVER=%s)", cfg.Store.Driver)
	}

	store, err := openStore(cmd.Context(), false)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(context.Background()); err != nil {
			log.Warn("Failed to close store", zap.Error(err))
		}
	}()

	return fn(store)
}
