package runner

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeadlineTracker_RemainingDecreases(t *testing.T) {
	tracker := NewDeadlineTracker(time.Hour)

	first := tracker.Remaining()
	require.Positive(t, first)
	require.LessOrEqual(t, first, time.Hour)

	time.Sleep(20 * time.Millisecond)

	second := tracker.Remaining()
	assert.Less(t, second, first)
	assert.Positive(t, second)
}

func TestDeadlineTracker_RemainingNeverNegative(t *testing.T) {
	tracker := NewDeadlineTracker(10 * time.Millisecond)

	time.Sleep(30 * time.Millisecond)

	assert.Equal(t, time.Duration(0), tracker.Remaining())

	// Still zero well past exhaustion.
	time.Sleep(10 * time.Millisecond)
	assert.Equal(t, time.Duration(0), tracker.Remaining())
}

func TestDeadlineTracker_RemainingNeverIncreases(t *testing.T) {
	tracker := NewDeadlineTracker(500 * time.Millisecond)

	previous := tracker.Remaining()
	for i := 0; i < 10; i++ {
		time.Sleep(time.Millisecond)
		current := tracker.Remaining()
		require.LessOrEqual(t, current, previous)
		previous = current
	}
}

func TestDeadlineTracker_Elapsed(t *testing.T) {
	tracker := NewDeadlineTracker(time.Hour)

	time.Sleep(20 * time.Millisecond)

	assert.GreaterOrEqual(t, tracker.Elapsed(), 20*time.Millisecond)
	assert.Equal(t, time.Hour, tracker.Budget())
}
