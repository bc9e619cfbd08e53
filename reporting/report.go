// Package reporting writes suite execution summaries as files under the
// reports directory, one directory per launcher session, alongside the
// per-run reports the harness produces.
package reporting

import (
	"strings"
	"time"

	"github.com/KueenLau/presto/runner"
	"github.com/KueenLau/presto/types"
)

// Sink persists one suite execution summary.
type Sink interface {
	Write(result *runner.SuiteResult) error
}

// SuiteReport is the view of a suite execution rendered by the sinks.
type SuiteReport struct {
	RunID     string
	Suite     string
	Config    string
	Status    types.RunStatus
	Duration  time.Duration
	Passed    int
	Failed    int
	Total     int
	Generated time.Time
	Rows      []RunRow
}

// RunRow is one test run of the suite, in scheduling order.
type RunRow struct {
	Index       int
	RunID       string
	Environment string
	Groups      []string
	Duration    time.Duration
	Status      types.RunStatus
	Error       string
}

// NewSuiteReport builds the report view from a suite result, preserving
// scheduling order.
func NewSuiteReport(result *runner.SuiteResult) *SuiteReport {
	report := &SuiteReport{
		RunID:     result.RunID,
		Suite:     result.Suite,
		Config:    result.Config,
		Status:    result.Status,
		Duration:  result.Duration,
		Passed:    result.Passed,
		Failed:    result.Failed,
		Total:     len(result.Results),
		Generated: time.Now(),
		Rows:      make([]RunRow, 0, len(result.Results)),
	}
	for _, r := range result.Results {
		row := RunRow{
			Index:       r.Index,
			RunID:       r.RunID,
			Environment: r.Spec.EnvironmentName,
			Groups:      r.Spec.Groups,
			Duration:    r.Duration,
			Status:      r.Status(),
		}
		if r.Err != nil {
			row.Error = r.Err.Error()
		}
		report.Rows = append(report.Rows, row)
	}
	return report
}

// summaryDirName is the directory holding one session's summary files.
func summaryDirName(runID string) string {
	return "testrun-" + runID
}

// sanitizeLine flattens a potentially multi-line error message into one line.
func sanitizeLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
