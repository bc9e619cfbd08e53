package launcher

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ethereum/go-ethereum/log"
)

// SuiteRunFunc executes the configured suite once. A non-nil error means the
// launcher could not run the suite at all; failed test runs are reported in
// the suite result, not here.
type SuiteRunFunc func() error

// SuiteScheduler decides when the configured suite executes.
type SuiteScheduler interface {
	Start(ctx context.Context) error
	Stop() error
	RegisterCallback(SuiteRunFunc)
	WaitForShutdown(ctx context.Context) error
	Stopped() bool
}

// DefaultSuiteScheduler implements the SuiteScheduler interface. In run-once
// mode the suite runs exactly once, synchronously; in continuous mode it runs
// immediately and then on every interval tick until stopped.
type DefaultSuiteScheduler struct {
	suite    string
	interval time.Duration
	runOnce  bool
	logger   log.Logger
	runSuite SuiteRunFunc

	running atomic.Bool
	done    chan struct{}
	wg      sync.WaitGroup
}

// NewSuiteScheduler creates a scheduler for the named suite.
func NewSuiteScheduler(suite string, interval time.Duration, runOnce bool, logger log.Logger) *DefaultSuiteScheduler {
	return &DefaultSuiteScheduler{
		suite:    suite,
		interval: interval,
		runOnce:  runOnce,
		logger:   logger,
		done:     make(chan struct{}),
	}
}

// RegisterCallback registers the function that executes the suite.
func (s *DefaultSuiteScheduler) RegisterCallback(run SuiteRunFunc) {
	s.runSuite = run
}

// Start executes the suite immediately. In continuous mode it also spawns
// the loop that re-executes it on the configured interval; only the
// immediate execution reports its error here, later ones are logged by the
// loop.
func (s *DefaultSuiteScheduler) Start(ctx context.Context) error {
	if s.runSuite == nil {
		return errors.New("callback must be registered before starting scheduler")
	}

	s.done = make(chan struct{})
	s.running.Store(true)

	if s.runOnce {
		s.logger.Info("Scheduling a single suite execution", "suite", s.suite)
		return s.runSuite()
	}

	s.logger.Info("Scheduling periodic suite executions", "suite", s.suite, "interval", s.interval)
	if err := s.runSuite(); err != nil {
		return err
	}

	s.wg.Add(1)
	go s.runLoop(ctx)

	return nil
}

// runLoop re-executes the suite on every tick until the scheduler stops. A
// failing execution is logged and the schedule keeps going.
func (s *DefaultSuiteScheduler) runLoop(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if !s.running.Load() {
				s.logger.Debug("Scheduler stopped, ending periodic suite execution", "suite", s.suite)
				return
			}
			s.logger.Info("Running periodic suite execution", "suite", s.suite, "interval", s.interval)
			if err := s.runSuite(); err != nil {
				s.logger.Error("Error executing suite", "suite", s.suite, "error", err)
			}

		case <-s.done:
			s.logger.Debug("Done signal received, ending periodic suite execution", "suite", s.suite)
			return

		case <-ctx.Done():
			s.logger.Debug("Context canceled, ending periodic suite execution", "suite", s.suite)
			s.running.Store(false)
			return
		}
	}
}

// Stop stops the scheduler. It is safe to call more than once; an execution
// already in flight is not interrupted.
func (s *DefaultSuiteScheduler) Stop() error {
	if !s.running.Load() {
		s.logger.Debug("Scheduler already stopped, nothing to do")
		return nil
	}

	// Flip running before closing done so a tick racing the close cannot
	// start another execution.
	s.running.Store(false)
	close(s.done)

	return nil
}

// Stopped returns true if the scheduler is stopped.
func (s *DefaultSuiteScheduler) Stopped() bool {
	return !s.running.Load()
}

// WaitForShutdown blocks until the periodic execution loop has exited or the
// context expires. In run-once mode there is no loop and it returns
// immediately.
func (s *DefaultSuiteScheduler) WaitForShutdown(ctx context.Context) error {
	finished := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(finished)
	}()

	select {
	case <-finished:
		return nil
	case <-ctx.Done():
		s.logger.Warn("Timed out waiting for scheduler shutdown", "suite", s.suite, "error", ctx.Err())
		return ctx.Err()
	}
}
