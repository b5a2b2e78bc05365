// Package cmd contains all the CLI commands for the application,
// built using the Cobra library.
package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/contribstats/contribstats/internal/config"
	"github.com/contribstats/contribstats/internal/gateway"
	"github.com/contribstats/contribstats/internal/render"
	"github.com/contribstats/contribstats/internal/usecase"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Generates the per-developer contribution report",
	Long: `Probes the configured repositories, collects each developer's commits
across the configured branches inside the report window, and prints a
cloc-style table (or JSON with --json) of per-file-type statistics.`,
	Run: func(cmd *cobra.Command, args []string) {
		// Get the verbose flag from the root command to set up the logger.
		verbose, _ := cmd.InheritedFlags().GetBool("verbose")
		logger := logrus.New()
		logger.SetOutput(os.Stderr) // Keep stdout clean for the report itself.
		logger.SetLevel(logrus.WarnLevel)
		if verbose {
			logger.SetLevel(logrus.DebugLevel)
		}

		configPath, _ := cmd.Flags().GetString("config")
		asJSON, _ := cmd.Flags().GetBool("json")
		timeout, _ := cmd.Flags().GetDuration("timeout")

		token, _ := cmd.Flags().GetString("token")
		if token == "" {
			token = os.Getenv("GITHUB_TOKEN")
		}
		if token == "" {
			fmt.Fprintln(os.Stderr, "Error: no token. Set GITHUB_TOKEN or pass --token.")
			os.Exit(1)
		}

		cfg, err := config.Load(configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
			os.Exit(1)
		}

		developers, err := config.LoadLines(cfg.DevsFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load developer list: %v\n", err)
			os.Exit(1)
		}
		var repos []string
		if !cfg.UseOrgRepos {
			repos, err = config.LoadLines(cfg.ReposFile)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Failed to load repository list: %v\n", err)
				os.Exit(1)
			}
		}

		githubGateway, err := gateway.NewGitHubGateway(cfg.GitHubURL, token, logger)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create GitHub gateway: %v\n", err)
			os.Exit(1)
		}

		runner := usecase.NewRunner(githubGateway, usecase.Options{
			Developers:   developers,
			Repos:        repos,
			UseOrgRepos:  cfg.UseOrgRepos,
			Organization: cfg.Organization,
			Branches:     cfg.Branches,
			Window:       cfg.Window,
			PerRepo:      cfg.PerRepo,
			IgnoreNoExt:  cfg.IgnoreNoExt,
			DebugMode:    cfg.DebugMode,
			DebugDev:     cfg.DebugDev,
			DebugRepo:    cfg.DebugRepo,
		}, logger)

		// Ctrl-C (or the --timeout deadline) stops issuing new requests and
		// surfaces whatever partial report has been accumulated.
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}

		report, err := runner.Run(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to generate report: %v\n", err)
			os.Exit(1)
		}

		if asJSON {
			// Marshal the report into a pretty-printed JSON string.
			jsonData, err := json.MarshalIndent(report, "", "  ")
			if err != nil {
				fmt.Fprintf(os.Stderr, "Failed to marshal report to JSON: %v\n", err)
				os.Exit(1)
			}
			fmt.Println(string(jsonData))
		} else {
			render.Table(os.Stdout, report, cfg.PerRepo)
		}

		if len(report.Incomplete) > 0 {
			os.Exit(2) // Partial report: some pairs could not be collected.
		}
	},
}

func init() {
	rootCmd.AddCommand(reportCmd)
	reportCmd.Flags().StringP("config", "c", "config.properties", "Path to the properties file")
	reportCmd.Flags().StringP("token", "t", "", "GitHub personal access token (defaults to GITHUB_TOKEN)")
	reportCmd.Flags().Bool("json", false, "Emit the report as JSON instead of a table")
	reportCmd.Flags().Duration("timeout", 0, "Global deadline for the whole run (e.g. 10m); 0 means none")
}
