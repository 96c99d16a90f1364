package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "casare",
	Short: "Task chain orchestration engine",
	Long: `Casare decomposes a natural-language engineering task into
dependent subtasks, schedules them into sequential and parallel phases,
executes them against a pluggable agent worker, and drives a bounded
fix/review loop that either converges to approval or escalates to a
human.

Core capabilities:
- Classifies tasks by type and complexity
- Decomposes work into dependency-ordered subtasks
- Fans out mutually-independent subtasks concurrently
- Reviews results and re-runs fix phases until approved
- Orders multiple chains by their cross-chain dependencies
- Estimates token cost and wall-clock duration against a budget`,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(chainsCmd)
	rootCmd.AddCommand(estimateCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}
