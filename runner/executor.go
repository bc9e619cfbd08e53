package runner

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/log"
	"github.com/kballard/go-shellquote"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/KueenLau/presto/harness"
	"github.com/KueenLau/presto/metrics"
	"github.com/KueenLau/presto/types"
)

// ErrBudgetExhausted marks test runs that were never attempted because the
// suite budget ran out before their turn.
var ErrBudgetExhausted = errors.New("test execution not attempted because suite total running time limit was exhausted")

// RunExecutor performs a single test run of a suite through the harness and
// classifies its outcome.
type RunExecutor struct {
	log         log.Logger
	harness     harness.Runner
	launcherBin string
	harnessBin  string
	artifacts   []string
	reportsDir  string
	logsDir     string
	tracer      trace.Tracer
}

// ExecutorConfig configures a RunExecutor.
type ExecutorConfig struct {
	Log           log.Logger
	Harness       harness.Runner
	LauncherBin   string
	HarnessBin    string
	TestArtifacts []string
	ReportsDir    string
	LogsDir       string
}

// NewRunExecutor creates a new RunExecutor.
func NewRunExecutor(cfg ExecutorConfig) (*RunExecutor, error) {
	if cfg.Harness == nil {
		return nil, fmt.Errorf("harness runner is required")
	}
	if cfg.Log == nil {
		cfg.Log = log.New()
	}
	if cfg.LauncherBin == "" {
		cfg.LauncherBin = "presto-launcher"
	}
	if cfg.HarnessBin == "" {
		cfg.HarnessBin = "presto-product-tests"
	}
	if cfg.ReportsDir == "" {
		cfg.ReportsDir = "reports"
	}
	return &RunExecutor{
		log:         cfg.Log,
		harness:     cfg.Harness,
		launcherBin: cfg.LauncherBin,
		harnessBin:  cfg.HarnessBin,
		artifacts:   cfg.TestArtifacts,
		reportsDir:  cfg.ReportsDir,
		logsDir:     cfg.LogsDir,
		tracer:      otel.Tracer("run executor"),
	}, nil
}

// Execute performs run number index of the given suite with the budget that
// remains for the suite as a whole. Zero remaining budget short-circuits to
// a synthetic failure without invoking the harness. Execute always returns a
// result; errors are recorded on it rather than returned.
func (e *RunExecutor) Execute(ctx context.Context, suite string, index int, spec types.TestRunSpec, envConfig types.EnvironmentConfig, remaining time.Duration) types.RunResult {
	runID := suiteRunID(suite, spec.EnvironmentName, envConfig.Name, index)
	ctx, span := e.tracer.Start(ctx, fmt.Sprintf("test run %s", runID))
	defer span.End()

	result := types.RunResult{
		Index:  index,
		RunID:  runID,
		Spec:   spec,
		Config: envConfig,
	}

	if remaining == 0 {
		e.log.Error("Test execution not attempted because suite total running time limit was exhausted", "run", runID)
		result.Err = ErrBudgetExhausted
		metrics.RecordTestRun(suite, spec.EnvironmentName, envConfig.Name, result.Status())
		return result
	}

	opts := types.RunOptions{
		RunID:           runID,
		EnvironmentName: spec.EnvironmentName,
		HarnessArgs:     spec.HarnessArguments(envConfig),
		TestArtifacts:   e.artifacts,
		ReportsDir:      filepath.Join(e.reportsDir, runID),
		LogsDir:         e.logsDir,
		Timeout:         remaining,
	}

	e.log.Info("Starting test run",
		"run", runID,
		"environment", spec.EnvironmentName,
		"config", envConfig.Name,
		"remainingTimeout", remaining)
	e.log.Info(fmt.Sprintf("Execute this test run using:\n%s", e.reproCommand(spec, envConfig, opts)))

	start := time.Now()
	code, err := e.harness.Run(ctx, opts)
	result.Duration = time.Since(start)

	switch {
	case err != nil:
		result.Err = fmt.Errorf("test run failed: %w", err)
		metrics.RecordErrorDetails("test run failed", err)
	case code != 0:
		result.Err = fmt.Errorf("tests exited with code %d", code)
	}

	metrics.RecordTestRun(suite, spec.EnvironmentName, envConfig.Name, result.Status())
	return result
}

// reproCommand renders the launcher invocation that reproduces this exact
// test run outside of suite scheduling, with all filters and run options
// resolved.
func (e *RunExecutor) reproCommand(spec types.TestRunSpec, envConfig types.EnvironmentConfig, opts types.RunOptions) string {
	args := []string{"test", "run", "--environment", spec.EnvironmentName}
	if envConfig.HarnessConfigFile != "" {
		args = append(args, "--harness-config", envConfig.HarnessConfigFile)
	}
	if len(spec.Groups) > 0 {
		args = append(args, "--groups", strings.Join(spec.Groups, ","))
	}
	if merged := spec.MergedExcludedGroups(envConfig); len(merged) > 0 {
		args = append(args, "--excluded-groups", strings.Join(merged, ","))
	}
	if len(spec.Tests) > 0 {
		args = append(args, "--tests", strings.Join(spec.Tests, ","))
	}
	if merged := spec.MergedExcludedTests(envConfig); len(merged) > 0 {
		args = append(args, "--excluded-tests", strings.Join(merged, ","))
	}
	for _, artifact := range opts.TestArtifacts {
		args = append(args, "--test-artifact", artifact)
	}
	args = append(args, "--harness-bin", e.harnessBin)
	// The command derives its own per-run reports subdirectory, so the
	// repro carries the base directory rather than opts.ReportsDir.
	args = append(args, "--reports-dir", e.reportsDir)
	if e.logsDir != "" {
		args = append(args, "--logs-dir", e.logsDir)
	}
	args = append(args, "--timeout", opts.Timeout.String())
	return fmt.Sprintf("%s %s", e.launcherBin, shellquote.Join(args...))
}

// suiteRunID composes the identifier of one test run within a suite
// execution. Indexes are one-based and zero-padded so runs sort in
// scheduling order.
func suiteRunID(suite, environment, config string, index int) string {
	return fmt.Sprintf("%s-%s-%s-%02d", suite, environment, config, index)
}
