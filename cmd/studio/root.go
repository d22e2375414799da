package main

import (
	"os"

	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "studio",
	Short: "Multi-agent development studio",
	Long: `Studio turns a free-text project request into a validated,
ordered set of task assignments and dispatches them to specialist
agents: a backend coder, a frontend coder, and a tester.

Each agent generates its component with Claude (or a static template
when no API key is configured), the orchestrator tracks every task's
lifecycle, and the aggregated result is written to disk and optionally
published to GitHub and Netlify.`,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a config file (overrides discovery)")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(agentsCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}
