// Package runner executes test suites against a single shared wall-clock budget.
//
// The main components are:
//   - SuiteRunner: Drives the test runs of a suite strictly in declaration order
//   - DeadlineTracker: Measures how much of the suite budget remains
//   - HangWatchdog: Reports a suspected hang shortly before the budget expires
//   - RunExecutor: Executes one test run via the harness and classifies its outcome
//   - SuiteResult: Aggregates per-run outcomes into the overall suite verdict
//
// These components work together so that every scheduled run produces exactly
// one result, even when the budget is exhausted partway through the suite.
package runner
