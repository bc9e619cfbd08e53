package metrics

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/KueenLau/presto/types"
)

const (
	MetricsNamespace = "launcher"
)

var (
	Debug                bool = true
	validStatuses             = []types.RunStatus{types.RunStatusPass, types.RunStatusFail}
	nonAlphanumericRegex      = regexp.MustCompile(`[^a-zA-Z ]+`)

	errorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Name:      "errors_total",
		Help:      "Count of errors",
	}, []string{
		"error",
	})

	testRunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Name:      "test_runs_total",
		Help:      "Count of executed test runs",
	}, []string{
		"suite",
		"environment",
		"config",
		"status",
	})

	suiteResults = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: MetricsNamespace,
		Name:      "suite_results",
		Help:      "Result of the latest suite execution",
	}, []string{
		"suite",
		"run_id",
		"result",
	})

	suiteTestRunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Name:      "suite_test_runs_total",
		Help:      "Total number of test runs scheduled across suite executions",
	}, []string{
		"suite",
		"run_id",
	})

	suiteTestRunsPassed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Name:      "suite_test_runs_passed",
		Help:      "Number of passed test runs",
	}, []string{
		"suite",
		"run_id",
	})

	suiteTestRunsFailed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Name:      "suite_test_runs_failed",
		Help:      "Number of failed test runs",
	}, []string{
		"suite",
		"run_id",
	})

	suiteDuration = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: MetricsNamespace,
		Name:      "suite_duration",
		Help:      "Wall-clock duration of the latest suite execution in seconds",
	}, []string{
		"suite",
		"run_id",
	})
)

// errToLabel tries to make the error string a more valid Prometheus label
func errToLabel(err error) string {
	if err == nil {
		return "nil"
	}
	errClean := nonAlphanumericRegex.ReplaceAllString(err.Error(), "")
	errClean = strings.ReplaceAll(errClean, " ", "_")
	errClean = strings.ReplaceAll(errClean, "__", "_")
	return errClean
}

func RecordError(error string) {
	if Debug {
		log.Debug("metric inc",
			"m", "errors_total",
			"error", error,
		)
	}
	errorsTotal.WithLabelValues(error).Inc()
}

// RecordErrorDetails concats the error message to the label
// and also tries to clean the label to be a valid Prometheus label
func RecordErrorDetails(label string, err error) {
	if err == nil {
		return
	}
	label = fmt.Sprintf("%s.%s", label, errToLabel(err))
	RecordError(label)
}

// RecordTestRun counts one scheduled test run with its outcome
func RecordTestRun(suite string, environment string, config string, status types.RunStatus) {
	if !isValidStatus(status) {
		log.Error("RecordTestRun - invalid status", "status", status)
		return
	}
	if Debug {
		log.Debug("metric inc",
			"m", "test_runs_total",
			"suite", suite,
			"environment", environment,
			"config", config,
			"status", status)
	}
	testRunsTotal.WithLabelValues(suite, environment, config, string(status)).Inc()
}

// RecordSuite records the aggregate outcome of one suite execution
func RecordSuite(
	suite string,
	runID string,
	result string,
	total int,
	passed int,
	failed int,
	duration time.Duration,
) {
	suiteResults.WithLabelValues(suite, runID, result).Set(1)
	suiteTestRunsTotal.WithLabelValues(suite, runID).Add(float64(total))
	suiteTestRunsPassed.WithLabelValues(suite, runID).Add(float64(passed))
	suiteTestRunsFailed.WithLabelValues(suite, runID).Add(float64(failed))
	suiteDuration.WithLabelValues(suite, runID).Set(duration.Seconds())
}

func isValidStatus(status types.RunStatus) bool {
	return slices.Contains(validStatuses, status)
}
