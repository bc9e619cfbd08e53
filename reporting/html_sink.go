package reporting

import (
	_ "embed"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strings"

	"github.com/KueenLau/presto/runner"
	"github.com/KueenLau/presto/templates"
)

//go:embed templates/summary.html.tmpl
var summaryTemplate string

// HTMLSummarySink writes an HTML suite summary file.
type HTMLSummarySink struct {
	baseDir string
	tmpl    *template.Template
}

// NewHTMLSummarySink creates an HTML summary sink rooted at baseDir.
func NewHTMLSummarySink(baseDir string) (*HTMLSummarySink, error) {
	tmpl, err := template.New("suite-summary").
		Funcs(templates.GetTemplateFunc()).
		Parse(summaryTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse summary template: %w", err)
	}

	return &HTMLSummarySink{
		baseDir: baseDir,
		tmpl:    tmpl,
	}, nil
}

// Write generates summary.html for the suite execution, with one table row
// per test run in scheduling order.
func (s *HTMLSummarySink) Write(result *runner.SuiteResult) error {
	outputDir := filepath.Join(s.baseDir, summaryDirName(result.RunID))
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory %s: %w", outputDir, err)
	}

	var b strings.Builder
	if err := s.tmpl.Execute(&b, NewSuiteReport(result)); err != nil {
		return fmt.Errorf("failed to render HTML summary: %w", err)
	}

	htmlFile := filepath.Join(outputDir, "summary.html")
	if err := os.WriteFile(htmlFile, []byte(b.String()), 0644); err != nil {
		return fmt.Errorf("failed to write HTML file: %w", err)
	}
	return nil
}
