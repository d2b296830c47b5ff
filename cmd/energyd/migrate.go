package main

import (
	"context"
	"fmt"
	"time"

	"github.com/septivank/energy-harmony/internal/config"
	"github.com/septivank/energy-harmony/internal/db"
	"github.com/spf13/cobra"
)

var migrateTimeout time.Duration

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the database tables and indexes",
	Long:  `Applies the embedded schema to DATABASE_URL. Safe to run repeatedly.`,
	RunE:  runMigrate,
}

func init() {
	migrateCmd.Flags().DurationVar(&migrateTimeout, "timeout", 30*time.Second, "Give up after this long")
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	dbCfg, err := config.LoadDatabase()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), migrateTimeout)
	defer cancel()

	pool, err := db.Open(ctx, dbCfg.URL)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := db.Migrate(ctx, pool); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Schema applied to %s\n", db.RedactURL(dbCfg.URL))
	return nil
}
