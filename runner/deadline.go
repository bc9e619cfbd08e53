package runner

import "time"

// DeadlineTracker measures one suite execution against its total wall-clock
// budget. The start instant is captured once at construction and carries Go's
// monotonic clock reading, so wall-clock adjustments cannot skew the
// arithmetic. A tracker is immutable after construction and safe for
// concurrent use.
type DeadlineTracker struct {
	start  time.Time
	budget time.Duration
}

// NewDeadlineTracker starts tracking the given budget from now.
func NewDeadlineTracker(budget time.Duration) *DeadlineTracker {
	return &DeadlineTracker{
		start:  time.Now(),
		budget: budget,
	}
}

// Remaining returns the unspent portion of the budget. Once the budget is
// exhausted it returns zero, never a negative duration.
func (d *DeadlineTracker) Remaining() time.Duration {
	remaining := d.budget - time.Since(d.start)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Elapsed returns the wall-clock time spent since tracking started.
func (d *DeadlineTracker) Elapsed() time.Duration {
	return time.Since(d.start)
}

// Budget returns the total budget the tracker was constructed with.
func (d *DeadlineTracker) Budget() time.Duration {
	return d.budget
}
