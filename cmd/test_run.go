package main

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/ethereum/go-ethereum/log"
	"github.com/google/uuid"
	"github.com/urfave/cli/v2"

	opservice "github.com/ethereum-optimism/optimism/op-service"

	"github.com/KueenLau/presto/exitcodes"
	"github.com/KueenLau/presto/flags"
	"github.com/KueenLau/presto/harness"
	"github.com/KueenLau/presto/logging"
	"github.com/KueenLau/presto/registry"
	"github.com/KueenLau/presto/types"
)

// TestCommand defines the "test" command group for executing product tests
// outside of suite scheduling.
func TestCommand() *cli.Command {
	return &cli.Command{
		Name:  "test",
		Usage: "Run product tests outside of suite scheduling",
		Subcommands: []*cli.Command{
			testRunCommand(),
		},
	}
}

func testRunCommand() *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "Run the harness once against a named environment",
		Description: `Runs a single product-test run against a named environment without suite
scheduling or a shared time budget. The launcher prints one of these
invocations for every test run it schedules, so a failed run can be
reproduced in isolation with the exact same filters.

Examples:
  presto-launcher test run --environment multinode
  presto-launcher test run --environment singlenode --groups smoke,cli
  presto-launcher test run --environment multinode --harness-config tempto-hdp3.yaml --excluded-groups quarantine`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "environment",
				Usage:    "environment to run the tests against",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "harness-config",
				Usage: "harness config file to pass through to the harness",
			},
			&cli.StringSliceFlag{
				Name:  "groups",
				Usage: "test groups to run",
			},
			&cli.StringSliceFlag{
				Name:  "excluded-groups",
				Usage: "test groups to exclude",
			},
			&cli.StringSliceFlag{
				Name:  "tests",
				Usage: "individual tests to run",
			},
			&cli.StringSliceFlag{
				Name:  "excluded-tests",
				Usage: "individual tests to exclude",
			},
			&cli.StringSliceFlag{
				Name:    "test-artifact",
				Usage:   "test artifact to hand to the harness; repeat for multiple artifacts",
				EnvVars: opservice.PrefixEnvVar(flags.EnvVarPrefix, "TEST_ARTIFACT"),
			},
			&cli.StringFlag{
				Name:    "harness-bin",
				Value:   "presto-product-tests",
				Usage:   "path to the test harness binary",
				EnvVars: opservice.PrefixEnvVar(flags.EnvVarPrefix, "HARNESS_BIN"),
			},
			&cli.StringFlag{
				Name:    "reports-dir",
				Value:   "reports",
				Usage:   "directory the harness writes test reports into",
				EnvVars: opservice.PrefixEnvVar(flags.EnvVarPrefix, "REPORTS_DIR"),
			},
			&cli.StringFlag{
				Name:    "logs-dir",
				Usage:   "directory to export the harness log to; disabled when empty",
				EnvVars: opservice.PrefixEnvVar(flags.EnvVarPrefix, "LOGS_DIR"),
			},
			&cli.DurationFlag{
				Name:  "timeout",
				Value: 999 * 24 * time.Hour,
				Usage: "wall-clock limit for this run",
			},
		},
		Action: testRunAction,
	}
}

func testRunAction(c *cli.Context) error {
	environment := c.String("environment")

	spec := types.TestRunSpec{
		EnvironmentName: environment,
		Groups:          c.StringSlice("groups"),
		ExcludedGroups:  c.StringSlice("excluded-groups"),
		Tests:           c.StringSlice("tests"),
		ExcludedTests:   c.StringSlice("excluded-tests"),
	}
	envConfig := types.EnvironmentConfig{
		Name:              registry.DefaultConfigName,
		HarnessConfigFile: c.String("harness-config"),
	}

	var runLogs *logging.RunLogs
	if logsDir := c.String("logs-dir"); logsDir != "" {
		var err error
		runLogs, err = logging.NewRunLogs(logsDir)
		if err != nil {
			return fmt.Errorf("create run log store: %w", err)
		}
	}

	runner, err := harness.NewCommandRunner(log.Root(), c.String("harness-bin"), runLogs)
	if err != nil {
		return fmt.Errorf("create harness runner: %w", err)
	}

	runID := fmt.Sprintf("manual-%s", uuid.New().String())
	opts := types.RunOptions{
		RunID:           runID,
		EnvironmentName: environment,
		HarnessArgs:     spec.HarnessArguments(envConfig),
		TestArtifacts:   c.StringSlice("test-artifact"),
		ReportsDir:      filepath.Join(c.String("reports-dir"), runID),
		LogsDir:         c.String("logs-dir"),
		Timeout:         c.Duration("timeout"),
	}

	log.Info("Starting test run",
		"run", runID,
		"environment", environment,
		"timeout", opts.Timeout,
	)

	start := time.Now()
	code, err := runner.Run(c.Context, opts)
	duration := time.Since(start)
	if err != nil {
		return fmt.Errorf("test run failed: %w", err)
	}
	if code != 0 {
		log.Error("Test run failed",
			"run", runID,
			"exitCode", code,
			"duration", duration.Round(time.Millisecond),
		)
		return cli.Exit(fmt.Sprintf("tests exited with code %d", code), exitcodes.SoftwareFailure)
	}

	log.Info("Test run passed", "run", runID, "duration", duration.Round(time.Millisecond))
	return nil
}
