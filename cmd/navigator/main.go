// Package main provides the navigator command: the HTTP API server, the
// terminal chat and a set of catalog and session maintenance tools.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/jonathan/unemployment-navigator/internal/config"
	"github.com/jonathan/unemployment-navigator/internal/observability"
)

var (
	configPath string
	logLevel   string

	// cfg is loaded before every subcommand runs.
	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "navigator",
	Short: "Unemployment Navigator",
	Long:  "Unemployment Navigator interviews a person who has lost (or is about to lose) their job, classifies their unemployment-benefit situation and produces a personalized action plan.",
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		if logLevel != "" {
			loaded.LogLevel = logLevel
		}
		cfg = loaded
		observability.Init(cmd.ErrOrStderr(), cfg.LogLevel)
		return nil
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to a JSON or YAML config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
