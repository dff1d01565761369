package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "strray",
	Short: "Complexity-scored task delegation engine",
	Long: `strray scores tasks for complexity, routes them to the best-suited
workers, and coordinates multi-worker sessions.

Core capabilities:
- Scores tasks on files, lines, dependencies, risk, and duration
- Routes single-agent, multi-agent, or orchestrator-led delegations
- Reconciles disagreeing worker outputs by policy
- Tracks per-session delegations, messages, and shared context
- Reaps stale sessions by TTL, idleness, and capacity`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(delegateCmd)
	rootCmd.AddCommand(workersCmd)
	rootCmd.AddCommand(sessionsCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(cleanupCmd)
	rootCmd.AddCommand(monitorCmd)
	rootCmd.AddCommand(versionCmd)
}
