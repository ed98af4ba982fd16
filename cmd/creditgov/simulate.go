package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"polaris-ci/creditgov/pkg/cli"
	"polaris-ci/creditgov/pkg/telemetry/logging"
)

var simulateFlags struct {
	fleetDailyCost float64
	output         string
}

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Simulate a month of control cycles",
	Long: `Run the configured controller against a synthetic month of spend.

Each simulated day the fleet consumes credits in proportion to the routed
percentage, and the next cycle sees that spend. Useful for previewing how
a tuning change behaves before deploying it.

Examples:
  # Simulate with the configured tuning
  creditgov simulate

  # A fleet that would burn 40000 credits/day at 100% routing
  creditgov simulate --fleet-daily-cost 40000

  # Machine-readable output
  creditgov simulate --output json`,
	RunE: runSimulate,
}

func init() {
	rootCmd.AddCommand(simulateCmd)

	simulateCmd.Flags().Float64Var(&simulateFlags.fleetDailyCost, "fleet-daily-cost", 0,
		"credits/day the fleet would consume at 100% routing (default: 2x the daily target)")
	simulateCmd.Flags().StringVarP(&simulateFlags.output, "output", "o", "text",
		"output format (text, json)")
}

// simulatedDay is one day of the synthetic month.
type simulatedDay struct {
	Day        int     `json:"day"`
	Spend      float64 `json:"spend"`
	IdealSpend float64 `json:"ideal_spend"`
	Percentage float64 `json:"percentage"`
	Adjustment float64 `json:"adjustment"`
	OverBudget bool    `json:"over_budget"`
}

func runSimulate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return cli.NewCommandError("simulate", err)
	}

	// Simulation output goes to stdout; keep log noise out of it.
	logger, err := logging.Setup(logging.Config{Level: "error", Writer: os.Stderr})
	if err != nil {
		return cli.NewCommandError("simulate", err)
	}

	ctrl := buildController(cfg, logger)
	target := ctrl.Budget().TargetCredits()

	// A fixed 31-day month keeps simulations comparable between runs.
	start := time.Date(2025, time.January, 1, 12, 0, 0, 0, time.UTC)
	days := 31

	fleetDailyCost := simulateFlags.fleetDailyCost
	if fleetDailyCost <= 0 {
		fleetDailyCost = 2 * target / float64(days)
	}

	var (
		spend     float64
		yesterday float64
		results   []simulatedDay
	)

	for day := 0; day < days; day++ {
		at := start.AddDate(0, 0, day)
		rate := spend - yesterday

		decision := ctrl.Evaluate(spend, rate, cfg.Rollout.StaticPercentage, at)

		results = append(results, simulatedDay{
			Day:        day + 1,
			Spend:      spend,
			IdealSpend: decision.Trajectory.IdealSpend,
			Percentage: decision.Percentage,
			Adjustment: decision.Adjustment,
			OverBudget: decision.OverBudget,
		})

		yesterday = spend
		spend += decision.Percentage / 100 * fleetDailyCost
	}

	if simulateFlags.output == "json" {
		return cli.NewFormatter(cli.FormatJSON).FormatTo(os.Stdout, results)
	}

	fmt.Printf("target %.0f credits, fleet %.0f credits/day at 100%%\n\n", target, fleetDailyCost)
	fmt.Printf("%4s  %12s  %12s  %8s  %8s\n", "day", "spend", "ideal", "pct", "adjust")
	for _, r := range results {
		marker := ""
		if r.OverBudget {
			marker = "  OVER"
		}
		fmt.Printf("%4d  %12.0f  %12.0f  %8.2f  %8.2f%s\n",
			r.Day, r.Spend, r.IdealSpend, r.Percentage, r.Adjustment, marker)
	}
	fmt.Printf("\nfinal spend: %.0f of %.0f target (%.1f%%)\n",
		spend, target, spend/target*100)

	return nil
}
