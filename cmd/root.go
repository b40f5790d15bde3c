package cmd

import (
	"fmt"
	"log"
	"os"

	"github.com/axellelanca/shortlinks/internal/config"
	"github.com/spf13/cobra"
)

// Cfg is the global variable that will contain the loaded configuration
// It will be accessible to all Cobra commands throughout the application
var Cfg *config.Config

// RootCmd is the base command for the CLI application
// All other commands (create, resolve, run-server, stats, migrate) are added as subcommands
var RootCmd = &cobra.Command{
	Use:   "shortlinks",
	Short: "A URL shortener application",
	Long: `A URL shortener that creates short codes for long URLs, redirects visitors
while recording click analytics, and keeps every link in a single key-value slot.`,
}

// Execute is the main entry point for the Cobra application
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing command: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	// Subcommands register themselves from their own init() functions.
	cobra.OnInitialize(initConfig)
}

// initConfig loads the application configuration before any command runs.
func initConfig() {
	var err error
	Cfg, err = config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
}
