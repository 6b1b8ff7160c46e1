package main

import (
	"context"
	"fmt"
	"time"

	"studyTrackerAPI/config"
	"studyTrackerAPI/internal/database"

	"github.com/spf13/cobra"
)

var migrateReset bool

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create tables and indexes",
		Long: `Create every application table and index that does not exist yet.

With --reset the application tables are truncated afterwards. This deletes
all users, tasks, plans and achievements.`,
		RunE: runMigrate,
	}

	cmd.Flags().BoolVar(&migrateReset, "reset", false, "truncate all application tables after migrating")
	return cmd
}

func runMigrate(cmd *cobra.Command, args []string) error {
	config.LoadEnv()
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	config.InitLogger(cfg.LogLevel)

	ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
	defer cancel()

	db, err := database.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.InitializeSchema(ctx); err != nil {
		return fmt.Errorf("failed to migrate: %w", err)
	}
	config.Logger.Info("Schema is up to date")

	if migrateReset {
		if err := db.ResetAppTables(ctx); err != nil {
			return fmt.Errorf("failed to reset tables: %w", err)
		}
		config.Logger.Warnf("Truncated %d application tables", len(database.AppTables()))
	}
	return nil
}
