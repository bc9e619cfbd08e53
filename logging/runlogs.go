// Package logging handles export of harness output to per-run log files.
package logging

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/acarl005/stripansi"
)

const (
	RunDirectoryPrefix = "testrun-" // Standardized prefix for run directories
	HarnessLogFilename = "harness.log"

	// writeQueueDepth bounds how much captured output may pile up before
	// Write blocks.
	writeQueueDepth = 100
)

// AsyncFile is an io.WriteCloser that hands writes to a background goroutine
// so output capture never stalls the run being captured.
type AsyncFile struct {
	dst     *os.File
	pending chan []byte
	wg      sync.WaitGroup

	mu       sync.Mutex
	stopped  bool
	writeErr error
}

// NewAsyncFile creates the file and starts the background writer.
func NewAsyncFile(path string) (*AsyncFile, error) {
	dst, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create file %s: %w", path, err)
	}

	af := &AsyncFile{
		dst:     dst,
		pending: make(chan []byte, writeQueueDepth),
	}
	af.wg.Add(1)
	go af.drain()

	return af, nil
}

// Write queues data to be written asynchronously. The slice is copied, so
// callers may reuse their buffer immediately.
func (af *AsyncFile) Write(p []byte) (int, error) {
	af.mu.Lock()
	defer af.mu.Unlock()

	if af.stopped {
		return 0, fmt.Errorf("async file is closed")
	}

	buf := make([]byte, len(p))
	copy(buf, p)
	af.pending <- buf
	return len(p), nil
}

// drain writes queued data until the channel closes, keeping the first error
// for Close to report.
func (af *AsyncFile) drain() {
	defer af.wg.Done()

	for data := range af.pending {
		if _, err := af.dst.Write(data); err != nil && af.writeErr == nil {
			af.writeErr = err
		}
	}
}

// Close stops the writer, flushes pending data and closes the file. It
// reports the first write error the background goroutine ran into.
func (af *AsyncFile) Close() error {
	af.mu.Lock()
	if !af.stopped {
		af.stopped = true
		close(af.pending)
	}
	af.mu.Unlock()

	af.wg.Wait()
	return errors.Join(af.writeErr, af.dst.Close())
}

// RunLogs places per-run harness logs under a base directory
type RunLogs struct {
	baseDir string
}

// NewRunLogs creates the base directory if needed
func NewRunLogs(baseDir string) (*RunLogs, error) {
	if baseDir == "" {
		return nil, fmt.Errorf("logs base directory is required")
	}
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create logs directory %s: %w", baseDir, err)
	}
	return &RunLogs{baseDir: baseDir}, nil
}

// BaseDir returns the base directory run logs are placed under
func (l *RunLogs) BaseDir() string {
	return l.baseDir
}

// DirForRun returns the directory a run's exported logs live in
func (l *RunLogs) DirForRun(runID string) string {
	return filepath.Join(l.baseDir, RunDirectoryPrefix+runID)
}

// ForRun creates the run's log directory and opens an asynchronous writer
// for its harness output. ANSI escape sequences are stripped so the exported
// files stay readable in plain viewers.
func (l *RunLogs) ForRun(runID string) (io.WriteCloser, error) {
	dir := l.DirForRun(runID)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create run log directory %s: %w", dir, err)
	}

	af, err := NewAsyncFile(filepath.Join(dir, HarnessLogFilename))
	if err != nil {
		return nil, err
	}
	return &cleanWriter{dst: af}, nil
}

// cleanWriter strips ANSI escape sequences before forwarding to the file
type cleanWriter struct {
	dst *AsyncFile
}

func (w *cleanWriter) Write(p []byte) (int, error) {
	if _, err := w.dst.Write([]byte(stripansi.Strip(string(p)))); err != nil {
		return 0, err
	}
	// Report the original length; stripping shortens what lands on disk.
	return len(p), nil
}

func (w *cleanWriter) Close() error {
	return w.dst.Close()
}
