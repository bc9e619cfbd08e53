package launcher

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ethereum-optimism/optimism/op-service/cliapp"

	"github.com/KueenLau/presto/exitcodes"
	"github.com/KueenLau/presto/harness"
	"github.com/KueenLau/presto/logging"
	"github.com/KueenLau/presto/registry"
	"github.com/KueenLau/presto/reporting"
	"github.com/KueenLau/presto/runner"
	"github.com/KueenLau/presto/types"
)

// launcher implements the cliapp.Lifecycle interface.
var _ cliapp.Lifecycle = &launcher{}

// launcher executes a test suite, once or periodically, and reports the outcomes.
type launcher struct {
	ctx       context.Context
	config    *Config
	version   string
	registry  *registry.Registry
	executor  SuiteExecutor
	formatter ResultFormatter
	reporter  MetricsReporter
	scheduler SuiteScheduler
	sinks     []reporting.Sink
	result    *runner.SuiteResult

	shutdownCallback func(error) // Callback to signal application shutdown
}

func New(ctx context.Context, config *Config, version string, shutdownCallback func(error)) (*launcher, error) {
	if config == nil {
		return nil, errors.New("config is required")
	}

	config.Log.Debug("Creating launcher with config",
		"registry", config.RegistryFile,
		"suite", config.SuiteName,
		"config", config.ConfigName,
		"runInterval", config.RunInterval,
		"runOnce", config.RunOnce,
		"timeout", config.Timeout)

	reg, err := registry.NewRegistry(registry.Config{
		Log:          config.Log,
		RegistryFile: config.RegistryFile,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create registry: %w", err)
	}

	// Resolve the suite and environment config up front so bad names fail
	// before anything runs.
	suite, err := reg.GetSuite(config.SuiteName)
	if err != nil {
		return nil, err
	}
	envConfig, err := reg.GetEnvironmentConfig(config.ConfigName)
	if err != nil {
		return nil, err
	}

	var runLogs *logging.RunLogs
	if config.LogsDir != "" {
		runLogs, err = logging.NewRunLogs(config.LogsDir)
		if err != nil {
			return nil, fmt.Errorf("failed to create run log store: %w", err)
		}
	}

	harnessRunner, err := harness.NewCommandRunner(config.Log, config.HarnessBin, runLogs)
	if err != nil {
		return nil, fmt.Errorf("failed to create harness runner: %w", err)
	}

	suiteRunner, err := runner.NewSuiteRunner(runner.Config{
		Log:           config.Log,
		Harness:       harnessRunner,
		LauncherBin:   launcherBinName(),
		HarnessBin:    config.HarnessBin,
		TestArtifacts: config.TestArtifacts,
		ReportsDir:    config.ReportsDir,
		LogsDir:       config.LogsDir,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create suite runner: %w", err)
	}
	config.Log.Info("launcher.New: created registry and suite runner",
		"suite", suite.Name, "testRuns", len(suite.TestRuns))

	// Summary files land next to the per-run reports the harness writes
	var sinks []reporting.Sink
	if config.ReportsDir != "" {
		sinks = append(sinks, reporting.NewTextSummarySink(config.ReportsDir))
		htmlSink, err := reporting.NewHTMLSummarySink(config.ReportsDir)
		if err != nil {
			return nil, fmt.Errorf("failed to create HTML summary sink: %w", err)
		}
		sinks = append(sinks, htmlSink)
	}

	return &launcher{
		ctx:              ctx,
		config:           config,
		version:          version,
		registry:         reg,
		executor:         NewDefaultSuiteExecutor(suiteRunner, config.Log, suite, envConfig, config.Timeout),
		formatter:        NewConsoleResultFormatter(config.Log),
		reporter:         NewDefaultMetricsReporter(),
		scheduler:        NewSuiteScheduler(config.SuiteName, config.RunInterval, config.RunOnce, config.Log),
		sinks:            sinks,
		shutdownCallback: shutdownCallback,
	}, nil
}

// Start executes the configured suite, once or periodically at the configured
// interval. Start implements the cliapp.Lifecycle interface.
func (l *launcher) Start(ctx context.Context) error {
	// Set up panic recovery so runtime panics exit with the software failure code
	defer func() {
		if r := recover(); r != nil {
			l.config.Log.Error("Runtime error occurred", "error", r)
			os.Exit(exitcodes.SoftwareFailure)
		}
	}()

	l.ctx = ctx
	l.scheduler.RegisterCallback(l.runSuite)

	if l.config.RunOnce {
		l.config.Log.Info("Starting presto-launcher in run-once mode", "suite", l.config.SuiteName)
	} else {
		l.config.Log.Info("Starting presto-launcher in continuous mode",
			"suite", l.config.SuiteName, "interval", l.config.RunInterval)
	}

	if err := l.scheduler.Start(ctx); err != nil {
		l.config.Log.Error("Runtime error executing suite", "error", err)
		return err
	}

	if l.config.RunOnce {
		l.config.Log.Info("Suite completed, exiting (run-once mode)")

		// Check if any test runs failed and return the matching error class
		if l.result != nil && l.result.Status == types.RunStatusFail {
			l.config.Log.Warn("Run-once suite execution completed with failures")
			return NewTestFailureError(l.result.Suite, l.result.Passed, l.result.Failed)
		}

		// Only need to call this when we're in run-once mode and the suite passed
		go func() {
			l.shutdownCallback(nil)
		}()
		return nil // Success (exit code 0)
	}

	l.config.Log.Debug("presto-launcher started successfully")
	return nil
}

// runSuite executes the suite once and processes the results
func (l *launcher) runSuite() error {
	result, err := l.executor.ExecuteSuite(l.ctx)
	if err != nil {
		// This is a launcher error (not a test failure)
		l.config.Log.Error("Runtime error executing suite", "error", err)
		return NewRuntimeError(err)
	}
	l.result = result

	if err := l.formatter.FormatResults(result); err != nil {
		l.config.Log.Warn("Failed to format results", "error", err)
	}
	result.LogSummary(l.config.Log)
	l.reporter.ReportResults(result)
	for _, sink := range l.sinks {
		if err := sink.Write(result); err != nil {
			l.config.Log.Warn("Failed to write suite summary", "error", err)
		}
	}
	return nil
}

// Stop stops the launcher service.
// Stop implements the cliapp.Lifecycle interface.
func (l *launcher) Stop(ctx context.Context) error {
	l.config.Log.Info("Stopping presto-launcher")

	if err := l.scheduler.Stop(); err != nil {
		return err
	}

	l.config.Log.Info("presto-launcher stopped successfully")
	return nil
}

// Stopped returns true if the launcher service is stopped.
// Stopped implements the cliapp.Lifecycle interface.
func (l *launcher) Stopped() bool {
	return l.scheduler.Stopped()
}

// WaitForShutdown blocks until all goroutines have terminated.
// This is useful in tests to ensure complete cleanup before moving to the next test.
func (l *launcher) WaitForShutdown(ctx context.Context) error {
	return l.scheduler.WaitForShutdown(ctx)
}

// launcherBinName is the binary name shown in reproduction command lines.
func launcherBinName() string {
	if len(os.Args) > 0 && os.Args[0] != "" {
		return filepath.Base(os.Args[0])
	}
	return "presto-launcher"
}
