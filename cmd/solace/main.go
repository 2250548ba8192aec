package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Global flags
	envFile        string
	logLevel       string
	storageBackend string

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "solace",
	Short: "Solace - supportive conversation backend",
	Long: `Solace classifies the mood of each message, replies through a configurable
language model, tracks mood history and suggests reading material.

Configuration comes from the environment, optionally loaded from a .env file.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := godotenv.Load(envFile); err != nil && cmd.Flags().Changed("env-file") {
			return fmt.Errorf("failed to load %s: %w", envFile, err)
		}
		if logLevel != "" {
			os.Setenv("LOG_LEVEL", logLevel)
		}
		if storageBackend != "" {
			os.Setenv("STORAGE_BACKEND", storageBackend)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file to load before reading the environment")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override LOG_LEVEL (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&storageBackend, "storage", "", "override STORAGE_BACKEND (memory, file, sqlite, redis)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(chatCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
