package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "creditgov",
	Short: "Creditgov - CI credit budget trajectory controller",
	Long: `Creditgov steers a CI fleet's consumption of promotional cloud credits.

Each control cycle it compares month-to-date spend against a straight-line
trajectory toward the safety target, feeds the deviation into a PID
regulator, and publishes the share of CI jobs to route to the credit
account. The regulator's integral history persists between cycles, so
correction pressure accumulates across process restarts.`,
	Version: Version,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "config.yaml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
