package main

import (
	"os"
	"time"

	"skincheck_server/config"
	"skincheck_server/pkg/logger"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

const (
	shutdownTimeout = 30 * time.Second // Maximum time to wait for graceful shutdown
)

var rootCmd = &cobra.Command{
	Use:   "skincheck",
	Short: "Skincheck - cosmetic ingredient analysis server",
	Long:  "Skincheck resolves cosmetic ingredient lists against a reference catalog and scores products for a skin type.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Load .env file if exists (for local development)
		if err := godotenv.Load(); err != nil {
			logger.Debug("No .env file found, using environment variables")
		}
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(serveCmd, checkCmd, migrateCmd, importCmd, tokenCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// initLogger configures the default logger from cfg.
func initLogger(cfg *config.Config, service string) {
	logger.Init(logger.Config{
		Level:   logger.ParseLevel(cfg.LogLevel),
		Service: service,
		Pretty:  cfg.IsDevelopment(),
	})
}
