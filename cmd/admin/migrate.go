package main

import (
	"context"
	"fmt"
	"time"

	"github.com/flexprice/gstbill/internal/postgres"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending schema migrations",
	Example: `  gstbill-admin migrate
  gstbill-admin migrate --dry-run`,
	RunE: runMigrate,
}

func init() {
	migrateCmd.Flags().Bool("dry-run", false, "List the embedded migrations without applying them")
	migrateCmd.Flags().Duration("timeout", 2*time.Minute, "Overall migration timeout")
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	timeout, _ := cmd.Flags().GetDuration("timeout")

	if dryRun {
		migrations, err := postgres.Migrations()
		if err != nil {
			return err
		}
		for _, m := range migrations {
			fmt.Fprintf(cmd.OutOrStdout(), "-- %s\n%s\n", m.Version, m.SQL)
		}
		return nil
	}

	e, err := openDB()
	if err != nil {
		return err
	}
	defer e.close()

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	e.log.Infow("running database migrations", "host", e.cfg.Postgres.Host, "dbname", e.cfg.Postgres.DBName)
	applied, err := e.db.Migrate(ctx)
	if err != nil {
		return err
	}

	if len(applied) == 0 {
		e.log.Info("schema is up to date")
		return nil
	}
	e.log.Infow("migrations applied", "versions", applied)
	return nil
}
