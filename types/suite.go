// Package types contains shared types used across the launcher.
package types

import "strings"

// Suite represents an ordered collection of test runs executed together
// under a single shared time budget.
type Suite struct {
	Name     string        `yaml:"-"`
	TestRuns []TestRunSpec `yaml:"test_runs"`
}

// TestRunSpec describes one harness execution against a named environment,
// with group and test inclusion/exclusion filters. Specs are immutable once
// loaded from the registry.
type TestRunSpec struct {
	EnvironmentName string   `yaml:"environment"`
	Groups          []string `yaml:"groups,omitempty"`
	ExcludedGroups  []string `yaml:"excluded_groups,omitempty"`
	Tests           []string `yaml:"tests,omitempty"`
	ExcludedTests   []string `yaml:"excluded_tests,omitempty"`
}

// HarnessArguments renders the spec's filters as harness command-line
// arguments, merging in the exclusions carried by the environment config.
func (s TestRunSpec) HarnessArguments(cfg EnvironmentConfig) []string {
	var args []string
	if cfg.HarnessConfigFile != "" {
		args = append(args, "--config", cfg.HarnessConfigFile)
	}
	if len(s.Groups) > 0 {
		args = append(args, "--groups", strings.Join(s.Groups, ","))
	}
	if excluded := s.MergedExcludedGroups(cfg); len(excluded) > 0 {
		args = append(args, "--excluded-groups", strings.Join(excluded, ","))
	}
	if len(s.Tests) > 0 {
		args = append(args, "--tests", strings.Join(s.Tests, ","))
	}
	if excluded := s.MergedExcludedTests(cfg); len(excluded) > 0 {
		args = append(args, "--excluded-tests", strings.Join(excluded, ","))
	}
	return args
}

// MergedExcludedGroups returns the spec's excluded groups combined with the
// exclusions the environment config imposes on every run.
func (s TestRunSpec) MergedExcludedGroups(cfg EnvironmentConfig) []string {
	return mergeFilters(s.ExcludedGroups, cfg.ExcludedGroups)
}

// MergedExcludedTests returns the spec's excluded tests combined with the
// exclusions the environment config imposes on every run.
func (s TestRunSpec) MergedExcludedTests(cfg EnvironmentConfig) []string {
	return mergeFilters(s.ExcludedTests, cfg.ExcludedTests)
}

// mergeFilters concatenates the spec's own filters with the environment
// config's, preserving order and dropping duplicates.
func mergeFilters(own, fromConfig []string) []string {
	seen := make(map[string]bool, len(own)+len(fromConfig))
	merged := make([]string, 0, len(own)+len(fromConfig))
	for _, f := range append(append([]string{}, own...), fromConfig...) {
		if f == "" || seen[f] {
			continue
		}
		seen[f] = true
		merged = append(merged, f)
	}
	return merged
}
