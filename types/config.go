package types

// EnvironmentConfig is a named variant controlling how the execution
// environment is provisioned. The name participates in reporting and in
// generated run identifiers; the exclusions apply on top of every test run's
// own filters.
type EnvironmentConfig struct {
	Name              string   `yaml:"-"`
	ExcludedGroups    []string `yaml:"excluded_groups,omitempty"`
	ExcludedTests     []string `yaml:"excluded_tests,omitempty"`
	HarnessConfigFile string   `yaml:"harness_config,omitempty"`
}
