package launcher

import (
	"github.com/KueenLau/presto/metrics"
	"github.com/KueenLau/presto/runner"
)

// MetricsReporter is responsible for reporting metrics from suite results.
type MetricsReporter interface {
	ReportResults(result *runner.SuiteResult)
}

// DefaultMetricsReporter implements the MetricsReporter interface.
type DefaultMetricsReporter struct{}

// NewDefaultMetricsReporter creates a new DefaultMetricsReporter.
func NewDefaultMetricsReporter() *DefaultMetricsReporter {
	return &DefaultMetricsReporter{}
}

// ReportResults reports the suite results to metrics systems.
func (r *DefaultMetricsReporter) ReportResults(result *runner.SuiteResult) {
	metrics.RecordSuite(
		result.Suite,
		result.RunID,
		string(result.Status),
		len(result.Results),
		result.Passed,
		result.Failed,
		result.Duration,
	)
}
