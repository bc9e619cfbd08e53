// Package registry loads the catalog of product-test suites and environment
// configs from a YAML definitions file.
package registry

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/log"
	"gopkg.in/yaml.v3"

	"github.com/KueenLau/presto/types"
)

// DefaultConfigName is the environment config assumed when none is selected.
// It always resolves, even when the definitions file does not mention it.
const DefaultConfigName = "config-default"

// Registry manages suite and environment config definitions
type Registry struct {
	config  Config
	suites  map[string]types.Suite
	configs map[string]types.EnvironmentConfig
	mu      sync.RWMutex
}

// Config contains registry configuration
type Config struct {
	Log          log.Logger
	RegistryFile string
}

// NewRegistry creates a new registry instance from the definitions file
func NewRegistry(cfg Config) (*Registry, error) {
	if cfg.RegistryFile == "" {
		return nil, fmt.Errorf("registry file is required")
	}
	if cfg.Log == nil {
		cfg.Log = log.New()
	}

	r := &Registry{
		config: cfg,
	}

	if err := r.loadDefinitions(cfg.RegistryFile); err != nil {
		return nil, fmt.Errorf("failed to load registry: %w", err)
	}

	cfg.Log.Debug("Registry loaded", "suites", len(r.suites), "configs", len(r.configs))

	return r, nil
}

// definitionsFile is the on-disk YAML shape of the registry
type definitionsFile struct {
	Suites  map[string]types.Suite             `yaml:"suites"`
	Configs map[string]types.EnvironmentConfig `yaml:"configs"`
}

// loadDefinitions reads and validates the definitions file
func (r *Registry) loadDefinitions(path string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	defs, err := loadDefinitions(path)
	if err != nil {
		return err
	}

	if err := validateDefinitions(defs); err != nil {
		return err
	}

	r.suites = make(map[string]types.Suite, len(defs.Suites))
	for name, suite := range defs.Suites {
		suite.Name = name
		r.suites[name] = suite
	}

	r.configs = make(map[string]types.EnvironmentConfig, len(defs.Configs)+1)
	for name, config := range defs.Configs {
		config.Name = name
		r.configs[name] = config
	}
	if _, ok := r.configs[DefaultConfigName]; !ok {
		r.configs[DefaultConfigName] = types.EnvironmentConfig{Name: DefaultConfigName}
	}

	return nil
}

// loadDefinitions parses the definitions file
func loadDefinitions(path string) (*definitionsFile, error) {
	log.Debug("Reading registry definitions file", "path", path)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading definitions file: %w", err)
	}

	var defs definitionsFile
	if err := yaml.Unmarshal(data, &defs); err != nil {
		return nil, fmt.Errorf("parsing definitions file: %w", err)
	}

	return &defs, nil
}

// validateDefinitions checks structural requirements before the definitions
// are accepted
func validateDefinitions(defs *definitionsFile) error {
	if len(defs.Suites) == 0 {
		return fmt.Errorf("registry defines no suites")
	}

	for name, suite := range defs.Suites {
		if len(suite.TestRuns) == 0 {
			return fmt.Errorf("suite %q has no test runs", name)
		}
		for i, run := range suite.TestRuns {
			if run.EnvironmentName == "" {
				return fmt.Errorf("suite %q test run %d is missing an environment", name, i+1)
			}
		}
	}

	return nil
}

// GetSuite returns the named suite or an error listing the available names
func (r *Registry) GetSuite(name string) (types.Suite, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	suite, ok := r.suites[name]
	if !ok {
		return types.Suite{}, fmt.Errorf("no such suite %q; available suites: %s", name, strings.Join(sortedNames(r.suites), ", "))
	}
	return suite, nil
}

// GetEnvironmentConfig returns the named environment config or an error
// listing the available names
func (r *Registry) GetEnvironmentConfig(name string) (types.EnvironmentConfig, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	config, ok := r.configs[name]
	if !ok {
		return types.EnvironmentConfig{}, fmt.Errorf("no such environment config %q; available configs: %s", name, strings.Join(sortedNames(r.configs), ", "))
	}
	return config, nil
}

// SuiteNames returns all suite names in sorted order
func (r *Registry) SuiteNames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return sortedNames(r.suites)
}

// ConfigNames returns all environment config names in sorted order
func (r *Registry) ConfigNames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return sortedNames(r.configs)
}

// GetConfig returns the registry configuration
func (r *Registry) GetConfig() Config {
	return r.config
}

func sortedNames[V any](m map[string]V) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
