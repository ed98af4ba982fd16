package main

import (
	"github.com/spf13/cobra"

	"polaris-ci/creditgov/pkg/cli"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one control cycle",
	Long: `Run a single control cycle: load the persisted regulator state, fetch
the billing figures and published baseline, decide the routing percentage,
apply it through the configured sink, and persist the regulator state.

Intended for cron-style invocation; use "creditgov daemon" for a
long-running process with its own scheduler.

Examples:
  # Run one cycle with the default config
  creditgov run

  # Run with a custom config
  creditgov run --config /etc/creditgov/config.yaml`,
	RunE: runOnce,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runOnce(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return cli.NewConfigError(cfgFile, err.Error())
	}

	logger, err := buildLogger(cfg)
	if err != nil {
		return cli.NewCommandError("run", err)
	}

	ctrl := buildController(cfg, logger)
	runner, store, err := buildRunner(cfg, ctrl, nil, logger)
	if err != nil {
		return cli.NewCommandError("run", err)
	}
	defer store.Close()

	ctx := cli.SetupSignalHandler()
	if err := runner.Run(ctx); err != nil {
		return cli.NewCommandError("run", err)
	}

	return nil
}
