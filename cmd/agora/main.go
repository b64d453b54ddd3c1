package main

import (
	"log"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"Agora/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "agora",
	Short: "Agora social media API, publication worker and migrations",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load()
		if err != nil {
			return err
		}
		cfg = loaded

		logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
		slog.SetDefault(logger)
		return nil
	},
	SilenceUsage: true,
}

func main() {
	rootCmd.AddCommand(serveCmd, workerCmd, migrateCmd)

	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error executing command: %v", err)
	}
}
