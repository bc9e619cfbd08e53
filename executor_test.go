package launcher

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/log"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KueenLau/presto/runner"
	"github.com/KueenLau/presto/types"
)

// stubHarness reports a fixed exit code for every run.
type stubHarness struct {
	code  int
	calls atomic.Int32
}

func (h *stubHarness) Run(ctx context.Context, opts types.RunOptions) (int, error) {
	h.calls.Add(1)
	return h.code, nil
}

func newSuiteExecutor(t *testing.T, h *stubHarness, timeout time.Duration) *DefaultSuiteExecutor {
	t.Helper()

	suiteRunner, err := runner.NewSuiteRunner(runner.Config{
		Log:        log.New(),
		Harness:    h,
		ReportsDir: t.TempDir(),
	})
	require.NoError(t, err)

	suite := types.Suite{
		Name: "ci",
		TestRuns: []types.TestRunSpec{
			{EnvironmentName: "singlenode", Groups: []string{"smoke"}},
			{EnvironmentName: "multinode"},
		},
	}
	envConfig := types.EnvironmentConfig{Name: "config-default"}

	return NewDefaultSuiteExecutor(suiteRunner, log.New(), suite, envConfig, timeout)
}

func TestDefaultSuiteExecutor_ExecuteSuite(t *testing.T) {
	h := &stubHarness{}
	executor := newSuiteExecutor(t, h, time.Hour)

	result, err := executor.ExecuteSuite(context.Background())
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.Equal(t, "ci", result.Suite)
	assert.Equal(t, "config-default", result.Config)
	assert.Len(t, result.Results, 2)
	assert.Equal(t, 2, result.Passed)
	assert.Zero(t, result.Failed)
	assert.Equal(t, types.RunStatusPass, result.Status)
	assert.Equal(t, int32(2), h.calls.Load())

	_, err = uuid.Parse(result.RunID)
	assert.NoError(t, err)
}

func TestDefaultSuiteExecutor_CountsFailures(t *testing.T) {
	h := &stubHarness{code: 2}
	executor := newSuiteExecutor(t, h, time.Hour)

	result, err := executor.ExecuteSuite(context.Background())
	require.NoError(t, err)

	assert.Equal(t, types.RunStatusFail, result.Status)
	assert.Zero(t, result.Passed)
	assert.Equal(t, 2, result.Failed)
	for _, run := range result.Results {
		assert.Contains(t, run.Err.Error(), "exited with code 2")
	}
}

func TestDefaultSuiteExecutor_PropagatesRunnerError(t *testing.T) {
	h := &stubHarness{}

	// A timeout below the safety margin cannot start a suite at all.
	executor := newSuiteExecutor(t, h, time.Second)

	result, err := executor.ExecuteSuite(context.Background())
	require.Error(t, err)
	assert.Nil(t, result)
	assert.Contains(t, err.Error(), "unsupported small suite timeout")
	assert.Zero(t, h.calls.Load())
}
