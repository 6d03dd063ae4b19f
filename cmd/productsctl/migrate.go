package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"products-api/internal/database"
)

func newMigrateCmd(load configLoader) *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:       "migrate up|down|status",
		Short:     "Manage the SQLite schema",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"up", "down", "status"},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := load()
			if err != nil {
				return err
			}
			if dbPath == "" {
				dbPath = cfg.SQLite.Path
			}

			cm := database.NewConnectionManager(&database.ConnectionConfig{
				DatabasePath: dbPath,
				MaxOpenConns: 1,
				AutoMigrate:  false,
				Logger:       logger,
			})
			if err := cm.Connect(); err != nil {
				return err
			}
			defer cm.Close()

			mm := cm.GetMigrationManager()
			switch args[0] {
			case "up":
				return mm.Up()
			case "down":
				return mm.Down()
			default:
				status, err := mm.Status()
				if err != nil {
					return err
				}
				if !status.Applied {
					fmt.Fprintln(cmd.OutOrStdout(), "No migrations applied")
					return nil
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Version: %d, dirty: %t\n", status.Version, status.Dirty)
				return nil
			}
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "", "SQLite database path (defaults to SQLITE_PATH)")
	return cmd
}
