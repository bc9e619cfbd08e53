// Package exitcodes defines the standard exit codes used by the launcher.
package exitcodes

// Exit code constants used by the launcher
// These constants define the exit codes that the application uses to indicate
// various states when it exits:
//
// * Success (0): Used when every test run in the suite passes
// * SoftwareFailure (1): Used when any run fails, when the timeout
//   configuration is invalid, or when suite resolution fails
//
// Both failure classes share one fixed code; logs carry the distinction.
const (
	Success         = 0 // All test runs pass
	SoftwareFailure = 1 // Failed runs, invalid configuration, resolution errors
)
