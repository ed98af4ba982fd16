package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration file",
	Long: `Load the configuration file, apply defaults and environment overrides,
and report every validation error found. Exits non-zero on any error.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		fmt.Printf("✓ Configuration valid: %s\n", cfgFile)
		fmt.Printf("  target credits: %.0f (pool %.0f, margin %.2f)\n",
			cfg.Budget.TotalCredits*(1-cfg.Budget.SafetyMargin),
			cfg.Budget.TotalCredits, cfg.Budget.SafetyMargin)
		fmt.Printf("  schedule: %s\n", cfg.Schedule.Cron)
		fmt.Printf("  state backend: %s\n", cfg.State.Backend)
		fmt.Printf("  routing sink: %s\n", cfg.Routing.Sink)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
