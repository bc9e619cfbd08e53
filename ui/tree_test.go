package ui

import (
	"strings"
	"testing"

	"github.com/KueenLau/presto/types"
)

func TestTreeConstants(t *testing.T) {
	tests := []struct {
		name     string
		constant string
		expected string
	}{
		{"TreeBranch", TreeBranch, "├── "},
		{"TreeLastBranch", TreeLastBranch, "└── "},
		{"TreeContinue", TreeContinue, "│   "},
		{"TreeIndent", TreeIndent, "    "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.constant != tt.expected {
				t.Errorf("Constant %s = %q, want %q", tt.name, tt.constant, tt.expected)
			}
		})
	}
}

func TestRenderSuite(t *testing.T) {
	suite := types.Suite{
		Name: "ci",
		TestRuns: []types.TestRunSpec{
			{
				EnvironmentName: "singlenode",
				Groups:          []string{"smoke", "cli"},
				ExcludedGroups:  []string{"quarantine"},
			},
			{
				EnvironmentName: "multinode",
				Tests:           []string{"TestSimpleQuery"},
			},
		},
	}
	cfg := types.EnvironmentConfig{Name: "config-default"}

	got := RenderSuite(suite, cfg)
	want := strings.Join([]string{
		"ci",
		"├── #01 singlenode",
		"│   ├── groups: smoke,cli",
		"│   └── excluded-groups: quarantine",
		"└── #02 multinode",
		"    └── tests: TestSimpleQuery",
		"",
	}, "\n")

	if got != want {
		t.Errorf("RenderSuite() =\n%s\nwant:\n%s", got, want)
	}
}

func TestRenderSuite_MergesConfigExclusions(t *testing.T) {
	suite := types.Suite{
		Name: "nightly",
		TestRuns: []types.TestRunSpec{
			{EnvironmentName: "multinode", ExcludedGroups: []string{"quarantine"}},
		},
	}
	cfg := types.EnvironmentConfig{
		Name:           "hdp3",
		ExcludedGroups: []string{"iceberg"},
		ExcludedTests:  []string{"TestFlaky"},
	}

	got := RenderSuite(suite, cfg)
	want := strings.Join([]string{
		"nightly",
		"└── #01 multinode",
		"    ├── excluded-groups: quarantine,iceberg",
		"    └── excluded-tests: TestFlaky",
		"",
	}, "\n")

	if got != want {
		t.Errorf("RenderSuite() =\n%s\nwant:\n%s", got, want)
	}
}

func TestRenderSuite_RunWithoutFilters(t *testing.T) {
	suite := types.Suite{
		Name: "ci",
		TestRuns: []types.TestRunSpec{
			{EnvironmentName: "singlenode"},
		},
	}

	got := RenderSuite(suite, types.EnvironmentConfig{Name: "config-default"})
	want := "ci\n└── #01 singlenode\n"

	if got != want {
		t.Errorf("RenderSuite() = %q, want %q", got, want)
	}
}
