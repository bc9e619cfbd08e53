// Package ui renders registry contents as trees for terminal display.
package ui

import (
	"fmt"
	"strings"

	"github.com/KueenLau/presto/types"
)

// Tree hierarchy symbols using box drawing characters
const (
	TreeBranch     = "├── " // Branch connector (tee right + horizontal line + space)
	TreeLastBranch = "└── " // Last branch connector (bottom left corner + horizontal line + space)
	TreeContinue   = "│   " // Vertical line + 3 spaces (parent has more siblings)
	TreeIndent     = "    " // 4 spaces (parent was last, no vertical line needed)
)

// RenderSuite returns the suite as a tree: the suite name at the root, one
// branch per test run in scheduling order, and that run's resolved filters
// as leaves. Filters already merge the exclusions the environment config
// imposes on every run.
func RenderSuite(suite types.Suite, cfg types.EnvironmentConfig) string {
	var b strings.Builder
	b.WriteString(suite.Name + "\n")

	for i, spec := range suite.TestRuns {
		branch, childPrefix := TreeBranch, TreeContinue
		if i == len(suite.TestRuns)-1 {
			branch, childPrefix = TreeLastBranch, TreeIndent
		}
		fmt.Fprintf(&b, "%s#%02d %s\n", branch, i+1, spec.EnvironmentName)

		leaves := filterLeaves(spec, cfg)
		for j, leaf := range leaves {
			leafBranch := TreeBranch
			if j == len(leaves)-1 {
				leafBranch = TreeLastBranch
			}
			b.WriteString(childPrefix + leafBranch + leaf + "\n")
		}
	}

	return b.String()
}

// filterLeaves lists a run's non-empty filters, one leaf line each.
func filterLeaves(spec types.TestRunSpec, cfg types.EnvironmentConfig) []string {
	var leaves []string
	if len(spec.Groups) > 0 {
		leaves = append(leaves, "groups: "+strings.Join(spec.Groups, ","))
	}
	if merged := spec.MergedExcludedGroups(cfg); len(merged) > 0 {
		leaves = append(leaves, "excluded-groups: "+strings.Join(merged, ","))
	}
	if len(spec.Tests) > 0 {
		leaves = append(leaves, "tests: "+strings.Join(spec.Tests, ","))
	}
	if merged := spec.MergedExcludedTests(cfg); len(merged) > 0 {
		leaves = append(leaves, "excluded-tests: "+strings.Join(merged, ","))
	}
	return leaves
}
