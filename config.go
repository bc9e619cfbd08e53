package launcher

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/KueenLau/presto/flags"
	"github.com/ethereum/go-ethereum/log"
)

// Config holds the application configuration
type Config struct {
	RegistryFile  string
	SuiteName     string
	ConfigName    string
	TestArtifacts []string
	HarnessBin    string
	LogsDir       string        // Directory to export per-run harness logs to; empty disables export
	ReportsDir    string        // Directory the harness writes reports into
	Timeout       time.Duration // Total wall-clock budget shared by all runs of the suite
	RunInterval   time.Duration // Interval between suite executions
	RunOnce       bool          // Indicates if the service should exit after one suite execution
	Log           log.Logger
}

// NewConfig creates a new Config from cli context
func NewConfig(ctx *cli.Context, log log.Logger, registryFile string, suite string) (*Config, error) {
	// Parse flags
	if err := flags.CheckRequired(ctx); err != nil {
		return nil, fmt.Errorf("missing required flags: %w", err)
	}
	if registryFile == "" {
		return nil, errors.New("registry file is required")
	}
	if suite == "" {
		return nil, errors.New("suite is required")
	}

	timeout := ctx.Duration(flags.Timeout.Name)
	if timeout <= 0 {
		return nil, fmt.Errorf("invalid timeout: %s", timeout)
	}

	runInterval := ctx.Duration(flags.RunInterval.Name)
	runOnce := runInterval == 0

	// Resolve the absolute paths
	absRegistryFile, err := filepath.Abs(registryFile)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve absolute path for registry file '%s': %w", registryFile, err)
	}

	logsDir := ctx.String(flags.LogsDir.Name)
	if logsDir != "" {
		logsDir, err = filepath.Abs(logsDir)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve absolute path for logs directory '%s': %w", logsDir, err)
		}
	}

	reportsDir := ctx.String(flags.ReportsDir.Name)
	if reportsDir == "" {
		reportsDir = "reports"
	}
	reportsDir, err = filepath.Abs(reportsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve absolute path for reports directory '%s': %w", reportsDir, err)
	}

	return &Config{
		RegistryFile:  absRegistryFile,
		SuiteName:     suite,
		ConfigName:    ctx.String(flags.Config.Name),
		TestArtifacts: ctx.StringSlice(flags.TestArtifact.Name),
		HarnessBin:    ctx.String(flags.HarnessBin.Name),
		LogsDir:       logsDir,
		ReportsDir:    reportsDir,
		Timeout:       timeout,
		RunInterval:   runInterval,
		RunOnce:       runOnce,
		Log:           log,
	}, nil
}
