package types

import (
	"fmt"
	"time"
)

// RunStatus represents the outcome classification of a single test run
type RunStatus string

const (
	RunStatusPass RunStatus = "pass"
	RunStatusFail RunStatus = "fail"
)

// String implements the Stringer interface for RunStatus
func (s RunStatus) String() string {
	return string(s)
}

// RunOptions are the options handed to the harness collaborator for one
// test run. Timeout is the run's own ceiling and never exceeds the suite's
// remaining budget at the time the run starts.
type RunOptions struct {
	RunID           string
	EnvironmentName string
	HarnessArgs     []string
	TestArtifacts   []string
	ReportsDir      string
	LogsDir         string // empty disables per-run log export
	Timeout         time.Duration
}

// RunResult captures the outcome of a single test run within a suite.
// Exactly one is produced per spec entry, in suite order, and it is
// immutable after creation.
type RunResult struct {
	Index    int // 1-based position within the suite
	RunID    string
	Spec     TestRunSpec
	Config   EnvironmentConfig
	Duration time.Duration
	Err      error // nil means the run passed
}

// Passed reports whether the run completed without a failure cause.
func (r RunResult) Passed() bool {
	return r.Err == nil
}

// Status returns the result's status classification.
func (r RunResult) Status() RunStatus {
	if r.Err == nil {
		return RunStatusPass
	}
	return RunStatusFail
}

// String returns a one-line description of the result for log output.
func (r RunResult) String() string {
	if r.Err == nil {
		return fmt.Sprintf("#%02d %s: %s [took %s]", r.Index, r.RunID, RunStatusPass, r.Duration.Round(time.Millisecond))
	}
	return fmt.Sprintf("#%02d %s: %s [took %s]: %v", r.Index, r.RunID, RunStatusFail, r.Duration.Round(time.Millisecond), r.Err)
}
