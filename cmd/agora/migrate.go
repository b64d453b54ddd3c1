package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"Agora/internal/db/migrations"
)

var migrateCmd = &cobra.Command{
	Use:       "migrate [up|down|status]",
	Short:     "Apply, roll back or inspect database migrations",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"up", "down", "status"},
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer db.Close()

		switch args[0] {
		case "up":
			return migrations.Up(db)
		case "down":
			return migrations.Down(db)
		case "status":
			return migrations.Status(db)
		default:
			return fmt.Errorf("unknown migrate command %q", args[0])
		}
	},
}
