// Package harness launches the external product-test harness process for a
// single test run and reports its completion code.
package harness

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/exec"
	"time"

	"github.com/ethereum/go-ethereum/log"

	"github.com/KueenLau/presto/logging"
	"github.com/KueenLau/presto/types"
)

// killGracePeriod is added on top of the run timeout so the harness gets a
// chance to exit on its own before the context kills it.
const killGracePeriod = 200 * time.Millisecond

// Runner executes one test run and returns the harness completion code
// (0 = all tests passed, >0 = some failed). A non-nil error means the run
// could not be executed at all or was cut off by infrastructure, not that
// tests failed.
type Runner interface {
	Run(ctx context.Context, opts types.RunOptions) (int, error)
}

// CommandRunner runs the harness as a child process. It enforces the run's
// timeout on the process it controls.
type CommandRunner struct {
	log     log.Logger
	bin     string
	runLogs *logging.RunLogs // nil disables per-run log export
}

// NewCommandRunner creates a runner for the given harness binary
func NewCommandRunner(logger log.Logger, bin string, runLogs *logging.RunLogs) (*CommandRunner, error) {
	if bin == "" {
		return nil, fmt.Errorf("harness binary is required")
	}
	if logger == nil {
		logger = log.New()
	}

	return &CommandRunner{
		log:     logger,
		bin:     bin,
		runLogs: runLogs,
	}, nil
}

// Run launches the harness with arguments derived from the run options and
// waits for it to finish or hit the run's timeout.
func (r *CommandRunner) Run(ctx context.Context, opts types.RunOptions) (int, error) {
	if opts.Timeout <= 0 {
		return 0, fmt.Errorf("run timeout must be positive, got %s", opts.Timeout)
	}
	if opts.ReportsDir != "" {
		if err := os.MkdirAll(opts.ReportsDir, 0755); err != nil {
			return 0, fmt.Errorf("failed to create reports directory: %w", err)
		}
	}

	runCtx, cancel := context.WithTimeout(ctx, opts.Timeout+killGracePeriod)
	defer cancel()

	cmd := exec.CommandContext(runCtx, r.bin, buildArgs(opts)...)

	stdout := io.Writer(os.Stdout)
	stderr := io.Writer(os.Stderr)
	if r.runLogs != nil {
		w, err := r.runLogs.ForRun(opts.RunID)
		if err != nil {
			return 0, fmt.Errorf("failed to open run log: %w", err)
		}
		defer func() {
			if cerr := w.Close(); cerr != nil {
				r.log.Warn("Failed to close run log", "run", opts.RunID, "err", cerr)
			}
		}()
		stdout = io.MultiWriter(os.Stdout, w)
		stderr = io.MultiWriter(os.Stderr, w)
	}
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	r.log.Debug("Launching harness",
		"run", opts.RunID,
		"command", cmd.String(),
		"timeout", opts.Timeout)

	err := cmd.Run()
	if err == nil {
		return 0, nil
	}

	// The deadline kill surfaces as a signal ExitError; check the context
	// first so a timed-out run is reported as such.
	if runCtx.Err() == context.DeadlineExceeded {
		return 0, fmt.Errorf("test run timed out after %s: %w", opts.Timeout, context.DeadlineExceeded)
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), nil
	}

	if isStartFailure(err) {
		return 0, fmt.Errorf("failed to start harness %q: %w", r.bin, err)
	}

	return 0, fmt.Errorf("harness execution failed: %w", err)
}

// buildArgs renders the run options as harness command-line arguments
func buildArgs(opts types.RunOptions) []string {
	args := []string{"run", "--environment", opts.EnvironmentName}
	if opts.ReportsDir != "" {
		args = append(args, "--reports-dir", opts.ReportsDir)
	}
	if opts.LogsDir != "" {
		args = append(args, "--logs-dir", opts.LogsDir)
	}
	for _, artifact := range opts.TestArtifacts {
		args = append(args, "--artifact", artifact)
	}
	return append(args, opts.HarnessArgs...)
}

// isStartFailure distinguishes "could not spawn the process" from "the
// process ran and exited"
func isStartFailure(err error) bool {
	var execErr *exec.Error
	if errors.As(err, &execErr) {
		return true
	}
	var pathErr *fs.PathError
	return errors.As(err, &pathErr)
}
