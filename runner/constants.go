package runner

import "time"

const (
	// SafetyMargin is the lead time before the suite deadline at which the
	// hang watchdog fires. Budgets that do not exceed it are rejected.
	SafetyMargin = 10 * time.Second

	// DefaultSuiteTimeout is the suite budget used when none is configured.
	// It is long enough to be effectively unbounded.
	DefaultSuiteTimeout = 999 * 24 * time.Hour

	// stackBufStartSize is the initial buffer size for goroutine dumps.
	stackBufStartSize = 1 << 20
)
