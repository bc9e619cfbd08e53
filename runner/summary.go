package runner

import (
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/log"
	"github.com/google/uuid"

	"github.com/KueenLau/presto/types"
)

// SuiteResult is the aggregate outcome of one suite execution. RunID
// identifies the launcher session, not any individual test run.
type SuiteResult struct {
	RunID    string
	Suite    string
	Config   string
	Results  []types.RunResult
	Duration time.Duration
	Passed   int
	Failed   int
	Status   types.RunStatus
}

// NewSuiteResult reduces the per-run results of a suite to its overall
// verdict. The suite passes exactly when no run failed; an empty suite
// passes.
func NewSuiteResult(suite, config string, results []types.RunResult, duration time.Duration) *SuiteResult {
	res := &SuiteResult{
		RunID:    uuid.New().String(),
		Suite:    suite,
		Config:   config,
		Results:  results,
		Duration: duration,
	}
	for _, r := range results {
		if r.Passed() {
			res.Passed++
		} else {
			res.Failed++
		}
	}
	res.Status = types.RunStatusPass
	if res.Failed > 0 {
		res.Status = types.RunStatusFail
	}
	return res
}

// Successes returns the passing results in scheduling order.
func (s *SuiteResult) Successes() []types.RunResult {
	var successes []types.RunResult
	for _, r := range s.Results {
		if r.Passed() {
			successes = append(successes, r)
		}
	}
	return successes
}

// Failures returns the failing results in scheduling order.
func (s *SuiteResult) Failures() []types.RunResult {
	var failures []types.RunResult
	for _, r := range s.Results {
		if !r.Passed() {
			failures = append(failures, r)
		}
	}
	return failures
}

// LogSummary logs the suite verdict followed by one line per run, all
// successes first and all failures last, each group in scheduling order.
// Failure causes are logged at error severity.
func (s *SuiteResult) LogSummary(logger log.Logger) {
	if s.Status == types.RunStatusPass {
		logger.Info(fmt.Sprintf("Suite %s succeeded in %s", s.Suite, s.Duration.Round(time.Millisecond)),
			"passed", s.Passed)
	} else {
		logger.Error(fmt.Sprintf("Suite %s failed in %s (%d passed, %d failed)",
			s.Suite, s.Duration.Round(time.Millisecond), s.Passed, s.Failed))
	}
	for _, r := range s.Successes() {
		logger.Info(fmt.Sprintf("PASSED %s [took %s]", r.RunID, r.Duration.Round(time.Millisecond)))
	}
	for _, r := range s.Failures() {
		logger.Error(fmt.Sprintf("FAILED %s [took %s]", r.RunID, r.Duration.Round(time.Millisecond)),
			"err", r.Err)
	}
}
