package launcher

import (
	"errors"
	"fmt"
)

// RuntimeError represents an operational error such as an invalid timeout
// configuration or an unresolvable suite or config name. It is fatal: the
// suite never starts.
type RuntimeError struct {
	Err error
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("runtime error: %v", e.Err)
}

// Unwrap implements the errors.Unwrap interface
func (e *RuntimeError) Unwrap() error {
	return e.Err
}

// NewRuntimeError creates a new RuntimeError
func NewRuntimeError(err error) *RuntimeError {
	return &RuntimeError{Err: err}
}

// IsRuntimeError checks if the error is or wraps a RuntimeError
func IsRuntimeError(err error) bool {
	var runtimeErr *RuntimeError
	return err != nil && errors.As(err, &runtimeErr)
}

// TestFailureError represents a suite that completed with failed test runs.
// It carries the tallies so callers can report them without re-parsing the
// message.
type TestFailureError struct {
	Suite  string
	Passed int
	Failed int
}

func (e *TestFailureError) Error() string {
	return fmt.Sprintf("test failure: suite %s failed (%d passed, %d failed)", e.Suite, e.Passed, e.Failed)
}

// NewTestFailureError creates a new TestFailureError from the suite tallies.
func NewTestFailureError(suite string, passed, failed int) *TestFailureError {
	return &TestFailureError{Suite: suite, Passed: passed, Failed: failed}
}

// IsTestFailureError checks if the error is or wraps a TestFailureError
func IsTestFailureError(err error) bool {
	var testErr *TestFailureError
	return err != nil && errors.As(err, &testErr)
}
