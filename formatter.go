package launcher

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/log"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/KueenLau/presto/runner"
	"github.com/KueenLau/presto/types"
)

// ResultFormatter is responsible for formatting and displaying suite results.
type ResultFormatter interface {
	FormatResults(result *runner.SuiteResult) error
}

// ConsoleResultFormatter implements the ResultFormatter interface.
type ConsoleResultFormatter struct {
	logger log.Logger
}

// NewConsoleResultFormatter creates a new ConsoleResultFormatter.
func NewConsoleResultFormatter(logger log.Logger) *ConsoleResultFormatter {
	return &ConsoleResultFormatter{
		logger: logger,
	}
}

// FormatResults formats and displays the suite results.
func (f *ConsoleResultFormatter) FormatResults(result *runner.SuiteResult) error {
	f.logger.Info("Printing results...")
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetTitle(fmt.Sprintf("Suite %s Results (%s)", result.Suite, formatDuration(result.Duration)))

	// Configure columns
	t.AppendHeader(table.Row{
		"#", "Environment", "Config", "Groups", "Duration", "Passed", "Failed", "Status", "Error",
	})

	// Set column configurations for better readability
	t.SetColumnConfigs([]table.ColumnConfig{
		{Name: "Groups", WidthMax: 40, WidthMaxEnforcer: text.WrapSoft},
		{Name: "Duration", Align: text.AlignRight},
		{Name: "Passed", Align: text.AlignRight},
		{Name: "Failed", Align: text.AlignRight},
		{Name: "Error", WidthMax: 80, WidthMaxEnforcer: text.WrapSoft},
	})

	// One row per test run, in scheduling order
	for _, run := range result.Results {
		t.AppendRow(table.Row{
			fmt.Sprintf("#%02d", run.Index),
			run.Spec.EnvironmentName,
			run.Config.Name,
			strings.Join(run.Spec.Groups, ","),
			formatDuration(run.Duration),
			boolToInt(run.Passed()),
			boolToInt(!run.Passed()),
			getResultString(run.Status()),
			extractKeyErrorMessage(run.Err),
		})
	}

	// Update the table style setting based on result status
	if result.Status == types.RunStatusPass {
		t.SetStyle(table.StyleColoredBlackOnGreenWhite)
	} else {
		t.SetStyle(table.StyleColoredBlackOnRedWhite)
	}

	// Add summary footer
	t.AppendFooter(table.Row{
		"TOTAL",
		"",
		"",
		"",
		formatDuration(result.Duration),
		result.Passed,
		result.Failed,
		getResultString(result.Status),
		"",
	})

	t.Render()

	return nil
}

// extractKeyErrorMessage extracts the most pertinent part of the error message for display
func extractKeyErrorMessage(err error) string {
	if err == nil {
		return ""
	}

	// The budget exhaustion message is long; the short form reads better in
	// a table cell.
	if errors.Is(err, runner.ErrBudgetExhausted) {
		return "not attempted: suite budget exhausted"
	}

	errStr := err.Error()

	// Limit to the first line or 80 chars
	if idx := strings.Index(errStr, "\n"); idx != -1 {
		return errStr[:idx]
	}
	if len(errStr) > 80 {
		return errStr[:70] + "..."
	}

	return errStr
}

// Helper function to convert bool to int
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// getResultString returns a colored string representing the run result
func getResultString(status types.RunStatus) string {
	if status == types.RunStatusPass {
		return "✓ pass"
	}
	return "✗ fail"
}

// Helper function to format duration to seconds with 1 decimal place
func formatDuration(d time.Duration) string {
	return fmt.Sprintf("%.1fs", d.Seconds())
}
