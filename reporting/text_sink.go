package reporting

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/KueenLau/presto/runner"
	"github.com/KueenLau/presto/types"
)

// TextSummarySink writes a plain-text suite summary file.
type TextSummarySink struct {
	baseDir string
}

// NewTextSummarySink creates a text summary sink rooted at baseDir.
func NewTextSummarySink(baseDir string) *TextSummarySink {
	return &TextSummarySink{baseDir: baseDir}
}

// Write generates summary.log for the suite execution. The file lists all
// passing runs first and all failing runs last, each group in scheduling
// order, matching the log summary.
func (s *TextSummarySink) Write(result *runner.SuiteResult) error {
	outputDir := filepath.Join(s.baseDir, summaryDirName(result.RunID))
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory %s: %w", outputDir, err)
	}

	summaryFile := filepath.Join(outputDir, "summary.log")
	if err := os.WriteFile(summaryFile, []byte(formatTextSummary(result)), 0644); err != nil {
		return fmt.Errorf("failed to write summary file: %w", err)
	}
	return nil
}

func formatTextSummary(result *runner.SuiteResult) string {
	var b strings.Builder

	verdict := "SUCCEEDED"
	if result.Status == types.RunStatusFail {
		verdict = "FAILED"
	}
	fmt.Fprintf(&b, "Suite %s (config %s) %s in %s\n",
		result.Suite, result.Config, verdict, result.Duration.Round(time.Millisecond))
	fmt.Fprintf(&b, "Session %s: %d runs, %d passed, %d failed\n\n",
		result.RunID, len(result.Results), result.Passed, result.Failed)

	for _, r := range result.Successes() {
		fmt.Fprintf(&b, "PASSED %s [took %s]\n", r.RunID, r.Duration.Round(time.Millisecond))
	}
	for _, r := range result.Failures() {
		fmt.Fprintf(&b, "FAILED %s [took %s]: %s\n",
			r.RunID, r.Duration.Round(time.Millisecond), sanitizeLine(r.Err.Error()))
	}

	return b.String()
}
