// Package cmd contains all the CLI commands for the application,
// built using the Cobra library.
package cmd

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "contribstats",
	Short: "A CLI tool to aggregate per-developer code contribution statistics.",
	Long: `contribstats queries the GitHub API for the commit history of a configured
set of developers across a configured set of repositories and branches,
and folds the per-file changes into per-developer, per-file-type
statistics over a configured time window.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	// Best effort: a missing .env just means the token comes from the
	// environment or the --token flag.
	_ = godotenv.Load()

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	// Add a persistent flag for verbose output, available to all commands.
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose/debug logging")
}
