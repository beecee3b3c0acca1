// cmd/portal/migrate.go
package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"interview-portal/internal/common/database"
)

func MigrateCmd(opts *rootOptions) *cobra.Command {
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply the PostgreSQL schema (jobs, applications, audit_log)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if dryRun {
				fmt.Fprint(cmd.OutOrStdout(), database.Schema())
				return nil
			}

			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			log, flush := opts.newLogger(cfg)
			defer flush()

			pg, err := database.NewPostgres(cfg.Database.Postgres)
			if err != nil {
				return err
			}
			defer pg.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			if err := retryWithBackoff(ctx, func() error { return pg.Ping(ctx) }, 5, time.Second, log, "PostgreSQL connection"); err != nil {
				return err
			}
			if err := database.Migrate(ctx, pg.DB); err != nil {
				return err
			}
			log.Info("Schema applied", map[string]interface{}{"database": cfg.Database.Postgres.Database})
			return nil
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the schema instead of applying it")
	return cmd
}
