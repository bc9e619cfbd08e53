package runner

import (
	"fmt"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/ethereum/go-ethereum/log"
)

// HangWatchdog raises a diagnostic when a suite is still running shortly
// before its budget expires. It fires at most once, from a background timer,
// and completion of the suite disarms it. Firing never interrupts the suite;
// a run is allowed to use the entire remaining budget.
type HangWatchdog struct {
	log      log.Logger
	timer    *time.Timer
	finished atomic.Bool
}

// NewHangWatchdog returns an unarmed watchdog logging through the given
// logger.
func NewHangWatchdog(logger log.Logger) *HangWatchdog {
	if logger == nil {
		logger = log.New()
	}
	return &HangWatchdog{log: logger}
}

// Arm schedules onFire to run once, budget minus margin from now, unless the
// suite finishes first. A nil onFire logs a suspected hang with a full
// goroutine dump. Arming fails if the budget does not exceed the margin, or
// if the watchdog is already armed.
func (w *HangWatchdog) Arm(budget, margin time.Duration, onFire func()) error {
	if budget <= margin {
		return fmt.Errorf("unsupported small suite timeout %s: must exceed the safety margin of %s", budget, margin)
	}
	if w.timer != nil {
		return fmt.Errorf("watchdog is already armed")
	}
	if onFire == nil {
		onFire = w.reportSuspectedHang
	}

	w.timer = time.AfterFunc(budget-margin, func() {
		if w.finished.Load() {
			return
		}
		onFire()
	})
	return nil
}

// Disarm records that the suite finished and cancels the pending timer. It
// is safe to call on every exit path, including after the timer has already
// fired. The finished flag is set before the timer is stopped so an
// in-flight fire observes it.
func (w *HangWatchdog) Disarm() {
	w.finished.Store(true)
	if w.timer != nil {
		w.timer.Stop()
	}
}

func (w *HangWatchdog) reportSuspectedHang() {
	w.log.Warn("Suite execution is not finished yet, a deadlock or hang is suspected. Goroutine dump follows.")
	w.log.Warn(string(goroutineDump()))
}

// goroutineDump captures the stacks of all goroutines, growing the buffer
// until the full dump fits.
func goroutineDump() []byte {
	buf := make([]byte, stackBufStartSize)
	for {
		n := runtime.Stack(buf, true)
		if n < len(buf) {
			return buf[:n]
		}
		buf = make([]byte, len(buf)*2)
	}
}
