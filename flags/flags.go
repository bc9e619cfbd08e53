package flags

import (
	"fmt"

	"github.com/urfave/cli/v2"

	opservice "github.com/ethereum-optimism/optimism/op-service"
	oplog "github.com/ethereum-optimism/optimism/op-service/log"

	"github.com/KueenLau/presto/registry"
	"github.com/KueenLau/presto/runner"
)

const EnvVarPrefix = "LAUNCHER"

var (
	Suite = &cli.StringFlag{
		Name:     "suite",
		Value:    "",
		Required: true,
		EnvVars:  opservice.PrefixEnvVar(EnvVarPrefix, "SUITE"),
		Usage:    "Suite to execute (eg. 'suite-1')",
	}
	Registry = &cli.StringFlag{
		Name:    "registry",
		Value:   "suites.yaml",
		EnvVars: opservice.PrefixEnvVar(EnvVarPrefix, "REGISTRY"),
		Usage:   "Path to the suite definitions file (eg. 'suites.yaml')",
	}
	Config = &cli.StringFlag{
		Name:    "config",
		Value:   registry.DefaultConfigName,
		EnvVars: opservice.PrefixEnvVar(EnvVarPrefix, "CONFIG"),
		Usage:   "Environment config to apply to every test run of the suite",
	}
	TestArtifact = &cli.StringSliceFlag{
		Name:    "test-artifact",
		EnvVars: opservice.PrefixEnvVar(EnvVarPrefix, "TEST_ARTIFACT"),
		Usage:   "Test artifact to hand to the harness; repeat for multiple artifacts",
	}
	HarnessBin = &cli.StringFlag{
		Name:    "harness-bin",
		Value:   "presto-product-tests",
		EnvVars: opservice.PrefixEnvVar(EnvVarPrefix, "HARNESS_BIN"),
		Usage:   "Path to the test harness binary used to execute test runs",
	}
	LogsDir = &cli.StringFlag{
		Name:    "logs-dir",
		Value:   "",
		EnvVars: opservice.PrefixEnvVar(EnvVarPrefix, "LOGS_DIR"),
		Usage:   "Directory to export per-run harness logs to; disabled when empty",
	}
	ReportsDir = &cli.StringFlag{
		Name:    "reports-dir",
		Value:   "reports",
		EnvVars: opservice.PrefixEnvVar(EnvVarPrefix, "REPORTS_DIR"),
		Usage:   "Directory the harness writes test reports into, one subdirectory per run",
	}
	Timeout = &cli.DurationFlag{
		Name:    "timeout",
		Value:   runner.DefaultSuiteTimeout,
		EnvVars: opservice.PrefixEnvVar(EnvVarPrefix, "TIMEOUT"),
		Usage:   "Total wall-clock budget shared by all test runs of the suite",
	}
	RunInterval = &cli.DurationFlag{
		Name:    "run-interval",
		Value:   0,
		EnvVars: opservice.PrefixEnvVar(EnvVarPrefix, "RUN_INTERVAL"),
		Usage:   "Interval between suite executions (e.g. '1h', '30m'). Set to 0 or omit for run-once mode.",
	}
)

var requiredFlags = []cli.Flag{
	Suite,
}

var optionalFlags = []cli.Flag{
	Registry,
	Config,
	TestArtifact,
	HarnessBin,
	LogsDir,
	ReportsDir,
	Timeout,
	RunInterval,
}

var Flags []cli.Flag

func init() {
	optionalFlags = append(optionalFlags, oplog.CLIFlags(EnvVarPrefix)...)

	Flags = append(requiredFlags, optionalFlags...)
}

func CheckRequired(ctx *cli.Context) error {
	for _, f := range requiredFlags {
		if !ctx.IsSet(f.Names()[0]) {
			return fmt.Errorf("flag %s is required", f.Names()[0])
		}
	}
	return nil
}
