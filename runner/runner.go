package runner

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/KueenLau/presto/harness"
	"github.com/KueenLau/presto/types"
)

// Config configures a SuiteRunner.
type Config struct {
	Log           log.Logger
	Harness       harness.Runner
	LauncherBin   string
	HarnessBin    string
	TestArtifacts []string
	ReportsDir    string
	LogsDir       string
}

// SuiteRunner executes the test runs of a suite strictly in declaration
// order under one shared wall-clock budget. Later runs see only what the
// earlier runs left of the budget; a run that finds nothing left is recorded
// as a failure without ever invoking the harness.
type SuiteRunner struct {
	log      log.Logger
	executor *RunExecutor
	tracer   trace.Tracer

	// onSuspectedHang replaces the watchdog's default goroutine dump when
	// set. Left nil outside of tests.
	onSuspectedHang func()
}

// NewSuiteRunner creates a new SuiteRunner.
func NewSuiteRunner(cfg Config) (*SuiteRunner, error) {
	if cfg.Harness == nil {
		return nil, fmt.Errorf("harness runner is required")
	}
	if cfg.Log == nil {
		cfg.Log = log.New()
		cfg.Log.Error("No logger provided, using default")
	}

	executor, err := NewRunExecutor(ExecutorConfig{
		Log:           cfg.Log,
		Harness:       cfg.Harness,
		LauncherBin:   cfg.LauncherBin,
		HarnessBin:    cfg.HarnessBin,
		TestArtifacts: cfg.TestArtifacts,
		ReportsDir:    cfg.ReportsDir,
		LogsDir:       cfg.LogsDir,
	})
	if err != nil {
		return nil, err
	}

	return &SuiteRunner{
		log:      cfg.Log,
		executor: executor,
		tracer:   otel.Tracer("suite runner"),
	}, nil
}

// Run executes every test run of the suite in order and returns one result
// per spec, in the same order. The returned error is non-nil only when the
// suite cannot start at all, e.g. a budget too small to schedule the hang
// watchdog; in that case no run is attempted.
func (r *SuiteRunner) Run(ctx context.Context, suiteName string, specs []types.TestRunSpec, envConfig types.EnvironmentConfig, totalBudget time.Duration) ([]types.RunResult, error) {
	ctx, span := r.tracer.Start(ctx, fmt.Sprintf("suite %s", suiteName))
	defer span.End()

	deadline := NewDeadlineTracker(totalBudget)

	watchdog := NewHangWatchdog(r.log)
	if err := watchdog.Arm(totalBudget, SafetyMargin, r.onSuspectedHang); err != nil {
		return nil, err
	}
	defer watchdog.Disarm()

	r.logPlan(suiteName, specs, envConfig, totalBudget)

	return r.runAll(ctx, suiteName, specs, envConfig, deadline), nil
}

// runAll performs the scheduling loop. Each run is handed whatever the
// deadline tracker reports at its start, so the budget seen by consecutive
// runs never increases.
func (r *SuiteRunner) runAll(ctx context.Context, suiteName string, specs []types.TestRunSpec, envConfig types.EnvironmentConfig, deadline *DeadlineTracker) []types.RunResult {
	results := make([]types.RunResult, 0, len(specs))
	for i, spec := range specs {
		results = append(results, r.executor.Execute(ctx, suiteName, i+1, spec, envConfig, deadline.Remaining()))
	}
	return results
}

// logPlan logs the fully resolved suite before anything runs, one line per
// scheduled test run.
func (r *SuiteRunner) logPlan(suiteName string, specs []types.TestRunSpec, envConfig types.EnvironmentConfig, totalBudget time.Duration) {
	r.log.Info("Starting suite",
		"suite", suiteName,
		"config", envConfig.Name,
		"testRuns", len(specs),
		"timeout", totalBudget)
	for i, spec := range specs {
		r.log.Info(fmt.Sprintf("#%02d %s", i+1, spec.EnvironmentName),
			"groups", strings.Join(spec.Groups, ","),
			"excludedGroups", strings.Join(spec.MergedExcludedGroups(envConfig), ","),
			"tests", strings.Join(spec.Tests, ","),
			"excludedTests", strings.Join(spec.MergedExcludedTests(envConfig), ","))
	}
}
