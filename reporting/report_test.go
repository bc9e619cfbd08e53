package reporting

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KueenLau/presto/runner"
	"github.com/KueenLau/presto/types"
)

func sampleSuiteResult(t *testing.T) *runner.SuiteResult {
	t.Helper()

	results := []types.RunResult{
		{
			Index:    1,
			RunID:    "ci-singlenode-config-default-01",
			Spec:     types.TestRunSpec{EnvironmentName: "singlenode", Groups: []string{"smoke", "cli"}},
			Duration: 90 * time.Second,
		},
		{
			Index:    2,
			RunID:    "ci-multinode-config-default-02",
			Spec:     types.TestRunSpec{EnvironmentName: "multinode"},
			Duration: 45 * time.Second,
			Err:      errors.New("tests exited with code 1"),
		},
		{
			Index: 3,
			RunID: "ci-multinode-config-default-03",
			Spec:  types.TestRunSpec{EnvironmentName: "multinode"},
			Err:   runner.ErrBudgetExhausted,
		},
	}
	return runner.NewSuiteResult("ci", "config-default", results, 135*time.Second)
}

func TestNewSuiteReport(t *testing.T) {
	result := sampleSuiteResult(t)
	report := NewSuiteReport(result)

	assert.Equal(t, "ci", report.Suite)
	assert.Equal(t, "config-default", report.Config)
	assert.Equal(t, types.RunStatusFail, report.Status)
	assert.Equal(t, 3, report.Total)
	assert.Equal(t, 1, report.Passed)
	assert.Equal(t, 2, report.Failed)
	require.Len(t, report.Rows, 3)

	// Rows stay in scheduling order
	assert.Equal(t, 1, report.Rows[0].Index)
	assert.Equal(t, "singlenode", report.Rows[0].Environment)
	assert.Equal(t, []string{"smoke", "cli"}, report.Rows[0].Groups)
	assert.Equal(t, types.RunStatusPass, report.Rows[0].Status)
	assert.Empty(t, report.Rows[0].Error)

	assert.Equal(t, 2, report.Rows[1].Index)
	assert.Equal(t, types.RunStatusFail, report.Rows[1].Status)
	assert.Equal(t, "tests exited with code 1", report.Rows[1].Error)

	assert.Contains(t, report.Rows[2].Error, "not attempted")
}

func TestTextSummarySink_Write(t *testing.T) {
	dir := t.TempDir()
	result := sampleSuiteResult(t)

	sink := NewTextSummarySink(dir)
	require.NoError(t, sink.Write(result))

	content, err := os.ReadFile(filepath.Join(dir, "testrun-"+result.RunID, "summary.log"))
	require.NoError(t, err)
	text := string(content)

	assert.Contains(t, text, "Suite ci (config config-default) FAILED in 2m15s")
	assert.Contains(t, text, "3 runs, 1 passed, 2 failed")
	assert.Contains(t, text, "PASSED ci-singlenode-config-default-01")
	assert.Contains(t, text, "FAILED ci-multinode-config-default-02")
	assert.Contains(t, text, "tests exited with code 1")

	// Passing runs come before failing runs
	assert.Less(t,
		strings.Index(text, "PASSED ci-singlenode-config-default-01"),
		strings.Index(text, "FAILED ci-multinode-config-default-02"))
}

func TestTextSummarySink_Write_PassingSuite(t *testing.T) {
	dir := t.TempDir()
	result := runner.NewSuiteResult("ci", "config-default", []types.RunResult{
		{Index: 1, RunID: "ci-singlenode-config-default-01", Duration: time.Second},
	}, time.Second)

	sink := NewTextSummarySink(dir)
	require.NoError(t, sink.Write(result))

	content, err := os.ReadFile(filepath.Join(dir, "testrun-"+result.RunID, "summary.log"))
	require.NoError(t, err)

	assert.Contains(t, string(content), "SUCCEEDED")
	assert.NotContains(t, string(content), "FAILED")
}

func TestHTMLSummarySink_Write(t *testing.T) {
	dir := t.TempDir()
	result := sampleSuiteResult(t)

	sink, err := NewHTMLSummarySink(dir)
	require.NoError(t, err)
	require.NoError(t, sink.Write(result))

	content, err := os.ReadFile(filepath.Join(dir, "testrun-"+result.RunID, "summary.html"))
	require.NoError(t, err)
	html := string(content)

	assert.Contains(t, html, "Suite ci")
	assert.Contains(t, html, "config-default")
	assert.Contains(t, html, "singlenode")
	assert.Contains(t, html, "multinode")
	assert.Contains(t, html, `class="fail"`)
	assert.Contains(t, html, "tests exited with code 1")
	assert.Contains(t, html, "smoke,cli")
}

func TestSanitizeLine(t *testing.T) {
	assert.Equal(t, "a b c", sanitizeLine("a\nb\t c"))
	assert.Equal(t, "", sanitizeLine(""))
}
