package main

import (
	"errors"
	"fmt"

	"skincheck_server/config"
	"skincheck_server/infra/database"

	"github.com/spf13/cobra"
)

var migrateSteps int

var migrateCmd = &cobra.Command{
	Use:       "migrate [up|down]",
	Short:     "Apply or roll back the ingredient schema",
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"up", "down"},
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		if cfg.DatabaseURL == "" {
			return errors.New("DATABASE_URL is required")
		}
		initLogger(cfg, "skincheck-migrate")

		up := args[0] == "up"
		if err := database.Migrate(cfg.DatabaseURL, up, migrateSteps); err != nil {
			return err
		}

		version, dirty, err := database.MigrationVersion(cfg.DatabaseURL)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), styleSuccess.Render(fmt.Sprintf("schema at version %d", version)))
		if dirty {
			fmt.Fprintln(cmd.OutOrStdout(), styleDim.Render("warning: schema is marked dirty"))
		}
		return nil
	},
}

func init() {
	migrateCmd.Flags().IntVar(&migrateSteps, "steps", 0, "number of migrations to apply (0 = all)")
}
