package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/iliyamo/venue-directory/internal/database"
)

var upSteps, downSteps int

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage the database schema",
	Long: `Manage the database schema.

Subcommands:
  up      - Apply pending migrations
  down    - Roll back applied migrations
  status  - Show migration status`,
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply pending migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMigrate(cmd, func(m *database.Migrator) (int, error) { return m.Up(cmd.Context(), upSteps) }, "applied")
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back applied migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMigrate(cmd, func(m *database.Migrator) (int, error) { return m.Down(cmd.Context(), downSteps) }, "reverted")
	},
}

var migrateStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show migration status",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, logger, db, d, cleanup, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		defer cleanup()

		st, err := database.NewMigrator(db, d, logger).Status(cmd.Context())
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		_, _ = fmt.Fprintln(w, "VERSION\tNAME\tSTATUS\tAPPLIED AT")
		for _, s := range st {
			status, at := "pending", "-"
			if s.Applied {
				status = "applied"
				at = s.AppliedAt.Format(time.RFC3339)
			}
			_, _ = fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", s.Version, s.Name, status, at)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	migrateCmd.AddCommand(migrateUpCmd, migrateDownCmd, migrateStatusCmd)

	migrateUpCmd.Flags().IntVar(&upSteps, "steps", 0, "Number of migrations to apply (0 = all)")
	migrateDownCmd.Flags().IntVar(&downSteps, "steps", 1, "Number of migrations to roll back (0 = all)")
}

func runMigrate(cmd *cobra.Command, apply func(*database.Migrator) (int, error), verb string) error {
	_, logger, db, d, cleanup, err := bootstrap(cmd.Context())
	if err != nil {
		return err
	}
	defer cleanup()

	n, err := apply(database.NewMigrator(db, d, logger))
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%d migration(s) %s\n", n, verb)
	return nil
}
