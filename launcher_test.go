package launcher

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/KueenLau/presto/runner"
	"github.com/KueenLau/presto/types"
)

// trackedMockExecutor is a mock executor that counts executions and provides synchronization
type trackedMockExecutor struct {
	mock.Mock
	execCount atomic.Int32  // Count of ExecuteSuite executions
	execCh    chan struct{} // Channel for signaling on each execution
}

// newTrackedMockExecutor creates a new executor with execution tracking
func newTrackedMockExecutor() *trackedMockExecutor {
	return &trackedMockExecutor{
		execCh: make(chan struct{}, 100), // Buffer to prevent blocking
	}
}

// ExecuteSuite implements the SuiteExecutor interface
func (m *trackedMockExecutor) ExecuteSuite(ctx context.Context) (*runner.SuiteResult, error) {
	m.execCount.Add(1)
	args := m.Called()

	// Signal that an execution has happened
	select {
	case m.execCh <- struct{}{}:
	default:
		// Non-blocking send, just in case no one is listening
	}

	if result := args.Get(0); result != nil {
		return result.(*runner.SuiteResult), args.Error(1)
	}
	return nil, args.Error(1)
}

// waitForExecutions waits for a specific number of executions with timeout
func (m *trackedMockExecutor) waitForExecutions(ctx context.Context, count int32) bool {
	// Create a timeout context
	timeoutCtx, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
	defer cancel()

	// Use a ticker to periodically check the execution count
	ticker := time.NewTicker(10 * time.Millisecond)
	defer ticker.Stop()

	for {
		// Check if we've reached the desired count
		if m.execCount.Load() >= count {
			return true
		}

		// Wait for either a new execution, ticker, or timeout
		select {
		case <-m.execCh:
			// An execution signal received, immediately recheck the count
			continue
		case <-ticker.C:
			// Periodic check, loop back to check the count again
			continue
		case <-timeoutCtx.Done():
			// Timeout expired
			return false
		}
	}
}

// passingSuiteResult builds a result with every run passing.
func passingSuiteResult() *runner.SuiteResult {
	return runner.NewSuiteResult("ci", "config-default", []types.RunResult{
		{Index: 1, RunID: "ci-singlenode-config-default-01", Duration: 10 * time.Millisecond},
	}, 10*time.Millisecond)
}

// failingSuiteResult builds a result with one passing and one failing run.
func failingSuiteResult() *runner.SuiteResult {
	return runner.NewSuiteResult("ci", "config-default", []types.RunResult{
		{Index: 1, RunID: "ci-singlenode-config-default-01", Duration: 10 * time.Millisecond},
		{Index: 2, RunID: "ci-multinode-config-default-02", Duration: 10 * time.Millisecond,
			Err: errors.New("tests exited with code 1")},
	}, 20*time.Millisecond)
}

// setupTest creates a launcher service backed by a tracked mock executor
func setupTest(t *testing.T, runOnce bool) (*trackedMockExecutor, *launcher, context.Context, context.CancelFunc) {
	t.Helper()

	// Create a clean context for each test with a generous timeout to prevent hangs
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)

	mockExecutor := newTrackedMockExecutor()
	logger := log.New()

	interval := 25 * time.Millisecond // Short interval for testing
	service := &launcher{
		ctx: ctx,
		config: &Config{
			Log:         logger,
			SuiteName:   "ci",
			RunInterval: interval,
			RunOnce:     runOnce,
		},
		executor:  mockExecutor,
		formatter: NewConsoleResultFormatter(logger),
		reporter:  NewDefaultMetricsReporter(),
		scheduler: NewSuiteScheduler("ci", interval, runOnce, logger),
		// Add a no-op shutdown callback for tests
		shutdownCallback: func(error) {},
	}

	return mockExecutor, service, ctx, cancel
}

// teardownTest ensures the service is fully stopped before test completion
func teardownTest(t *testing.T, service *launcher, cancel context.CancelFunc) {
	t.Helper()

	// Cancel context first to stop background activities
	cancel()

	// Then properly stop the service
	if !service.Stopped() {
		err := service.Stop(context.Background())
		assert.NoError(t, err, "Service should stop cleanly during teardown")
	}

	// Ensure all goroutines have terminated
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	err := service.WaitForShutdown(ctx)
	if err != nil {
		t.Logf("Warning: Service did not shut down cleanly in teardown: %v", err)
	}
}

// TestLauncher_Start_ExecutesSuiteImmediately tests that the suite runs immediately on start
func TestLauncher_Start_ExecutesSuiteImmediately(t *testing.T) {
	mockExecutor, service, ctx, cancel := setupTest(t, false)
	defer teardownTest(t, service, cancel)

	mockExecutor.On("ExecuteSuite").Return(passingSuiteResult(), nil)

	err := service.Start(ctx)
	require.NoError(t, err)

	// Wait for first execution to complete
	execCompleted := mockExecutor.waitForExecutions(ctx, 1)
	require.True(t, execCompleted, "First execution should have completed")

	mockExecutor.AssertNumberOfCalls(t, "ExecuteSuite", 1)
}

// TestLauncher_Start_ExecutesSuitePeriodically tests that the suite runs periodically
func TestLauncher_Start_ExecutesSuitePeriodically(t *testing.T) {
	mockExecutor, service, ctx, cancel := setupTest(t, false)
	defer teardownTest(t, service, cancel)

	mockExecutor.On("ExecuteSuite").Return(passingSuiteResult(), nil)

	err := service.Start(ctx)
	require.NoError(t, err)

	// Wait for multiple executions (at least 3)
	execCompleted := mockExecutor.waitForExecutions(ctx, 3)
	require.True(t, execCompleted, "Multiple executions should have completed")

	callCount := mockExecutor.execCount.Load()
	assert.GreaterOrEqual(t, callCount, int32(3), "Executor should be called at least 3 times")
}

// TestLauncher_Context_Cancellation tests that the service properly handles
// context cancellation
func TestLauncher_Context_Cancellation(t *testing.T) {
	mockExecutor, service, ctx, cancel := setupTest(t, false)
	defer teardownTest(t, service, cancel)

	mockExecutor.On("ExecuteSuite").Return(passingSuiteResult(), nil)

	err := service.Start(ctx)
	require.NoError(t, err)

	// Wait for first execution to complete
	execCompleted := mockExecutor.waitForExecutions(ctx, 1)
	require.True(t, execCompleted, "First execution should have completed")

	// Cancel the context
	cancel()

	// Wait a moment for the cancellation to propagate
	time.Sleep(50 * time.Millisecond)

	// Verify service is stopped
	assert.True(t, service.Stopped(), "Service should be stopped after context cancellation")

	// Wait more time to ensure no more suite executions happen after stopping
	execCountAfterCancel := mockExecutor.execCount.Load()
	time.Sleep(3 * service.config.RunInterval)

	assert.Equal(t, execCountAfterCancel, mockExecutor.execCount.Load(),
		"No additional suite executions should occur after context cancellation")
}

// TestLauncher_RunOnceMode tests that a passing suite triggers shutdown in run-once mode
func TestLauncher_RunOnceMode(t *testing.T) {
	mockExecutor, service, ctx, cancel := setupTest(t, true)
	defer cancel()

	shutdownCh := make(chan error, 1)
	service.shutdownCallback = func(err error) { shutdownCh <- err }

	mockExecutor.On("ExecuteSuite").Return(passingSuiteResult(), nil).Once()

	err := service.Start(ctx)
	require.NoError(t, err)

	// The shutdown callback fires once the suite passed
	select {
	case err := <-shutdownCh:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Shutdown callback was not invoked in run-once mode")
	}

	// Verify the executor was called exactly once and doesn't continue running
	time.Sleep(3 * service.config.RunInterval)
	mockExecutor.AssertNumberOfCalls(t, "ExecuteSuite", 1)
}

// TestLauncher_RunOnceMode_Failures tests the error returned when runs fail in run-once mode
func TestLauncher_RunOnceMode_Failures(t *testing.T) {
	mockExecutor, service, ctx, cancel := setupTest(t, true)
	defer cancel()

	mockExecutor.On("ExecuteSuite").Return(failingSuiteResult(), nil).Once()

	err := service.Start(ctx)
	require.Error(t, err)
	assert.True(t, IsTestFailureError(err), "failing runs must surface as a test failure error")
	assert.Contains(t, err.Error(), "1 passed, 1 failed")
}

// TestLauncher_RunOnceMode_RuntimeError tests the error returned when the suite cannot run
func TestLauncher_RunOnceMode_RuntimeError(t *testing.T) {
	mockExecutor, service, ctx, cancel := setupTest(t, true)
	defer cancel()

	mockExecutor.On("ExecuteSuite").Return(nil, errors.New("harness binary missing")).Once()

	err := service.Start(ctx)
	require.Error(t, err)
	assert.True(t, IsRuntimeError(err), "launcher errors must surface as runtime errors")
	assert.Contains(t, err.Error(), "harness binary missing")
}

func TestNew_RequiresConfig(t *testing.T) {
	_, err := New(context.Background(), nil, "v1.0.0", func(error) {})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config is required")
}

func TestNew_ResolvesSuiteAndConfig(t *testing.T) {
	dir := t.TempDir()
	registryFile := filepath.Join(dir, "suites.yaml")
	definitions := []byte(`
suites:
  ci:
    test_runs:
      - environment: singlenode
        groups:
          - smoke
`)
	require.NoError(t, os.WriteFile(registryFile, definitions, 0644))

	cfg := &Config{
		RegistryFile: registryFile,
		SuiteName:    "ci",
		ConfigName:   "config-default",
		HarnessBin:   "presto-product-tests",
		ReportsDir:   filepath.Join(dir, "reports"),
		Timeout:      time.Hour,
		RunOnce:      true,
		Log:          log.New(),
	}

	service, err := New(context.Background(), cfg, "v1.0.0", func(error) {})
	require.NoError(t, err)
	require.NotNil(t, service)

	// Unknown suites fail before anything runs
	cfg.SuiteName = "nightly"
	_, err = New(context.Background(), cfg, "v1.0.0", func(error) {})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no such suite")
}
