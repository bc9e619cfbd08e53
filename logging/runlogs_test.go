package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunLogs_ForRun(t *testing.T) {
	baseDir := t.TempDir()
	logs, err := NewRunLogs(baseDir)
	require.NoError(t, err)

	const runID = "ci-singlenode-config-default-01"

	w, err := logs.ForRun(runID)
	require.NoError(t, err)

	_, err = w.Write([]byte("Running group smoke\n"))
	require.NoError(t, err)
	_, err = w.Write([]byte("\x1b[32mPASSED\x1b[0m TestSelect\n"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	dir := logs.DirForRun(runID)
	assert.Equal(t, filepath.Join(baseDir, RunDirectoryPrefix+runID), dir)

	data, err := os.ReadFile(filepath.Join(dir, HarnessLogFilename))
	require.NoError(t, err)
	assert.Equal(t, "Running group smoke\nPASSED TestSelect\n", string(data),
		"ANSI escape sequences should be stripped from exported logs")
}

func TestRunLogs_RequiresBaseDir(t *testing.T) {
	_, err := NewRunLogs("")
	require.Error(t, err)
	require.Contains(t, err.Error(), "base directory is required")
}

func TestAsyncFile_WriteAfterClose(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.log")
	af, err := NewAsyncFile(path)
	require.NoError(t, err)

	n, err := af.Write([]byte("before close\n"))
	require.NoError(t, err)
	assert.Equal(t, len("before close\n"), n)

	require.NoError(t, af.Close())

	_, err = af.Write([]byte("after close\n"))
	require.Error(t, err)

	// Close drains the queue, so the first write is on disk.
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "before close\n", string(data))
}

func TestAsyncFile_CloseReportsWriteError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.log")
	af, err := NewAsyncFile(path)
	require.NoError(t, err)

	// Sever the descriptor behind the writer's back so the queued write fails.
	require.NoError(t, af.dst.Close())

	_, err = af.Write([]byte("lost line\n"))
	require.NoError(t, err, "queueing succeeds even when the file is broken")

	err = af.Close()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "file already closed")
}

func TestAsyncFile_ConcurrentWrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.log")
	af, err := NewAsyncFile(path)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := af.Write([]byte(fmt.Sprintf("line %d\n", i)))
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()
	require.NoError(t, af.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Len(t, data, len("line 0\n")*10)
}
