package launcher

import (
	"context"
	"time"

	"github.com/ethereum/go-ethereum/log"

	"github.com/KueenLau/presto/runner"
	"github.com/KueenLau/presto/types"
)

// SuiteExecutor is responsible for executing the configured suite once.
type SuiteExecutor interface {
	ExecuteSuite(ctx context.Context) (*runner.SuiteResult, error)
}

// DefaultSuiteExecutor implements the SuiteExecutor interface.
type DefaultSuiteExecutor struct {
	runner    *runner.SuiteRunner
	logger    log.Logger
	suite     types.Suite
	envConfig types.EnvironmentConfig
	timeout   time.Duration
}

// NewDefaultSuiteExecutor creates a new DefaultSuiteExecutor.
func NewDefaultSuiteExecutor(r *runner.SuiteRunner, logger log.Logger, suite types.Suite, envConfig types.EnvironmentConfig, timeout time.Duration) *DefaultSuiteExecutor {
	return &DefaultSuiteExecutor{
		runner:    r,
		logger:    logger,
		suite:     suite,
		envConfig: envConfig,
		timeout:   timeout,
	}
}

// ExecuteSuite executes every test run of the suite and aggregates the outcome.
func (e *DefaultSuiteExecutor) ExecuteSuite(ctx context.Context) (*runner.SuiteResult, error) {
	e.logger.Info("Executing suite...", "suite", e.suite.Name, "config", e.envConfig.Name)
	start := time.Now()
	results, err := e.runner.Run(ctx, e.suite.Name, e.suite.TestRuns, e.envConfig, e.timeout)
	if err != nil {
		e.logger.Error("Error executing suite", "error", err)
		return nil, err
	}
	result := runner.NewSuiteResult(e.suite.Name, e.envConfig.Name, results, time.Since(start))
	e.logger.Info("Suite execution completed", "run_id", result.RunID, "status", result.Status)
	return result, nil
}
