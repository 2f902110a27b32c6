package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rheetham/Student-Record-Management-System/internal/infrastructure/logger"
)

func TestFileWatcher_Run(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "students.csv")

	fw, err := NewFileWatcher(path, logger.NewNop())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	changed := make(chan struct{}, 16)
	done := make(chan error, 1)
	go func() {
		done <- fw.Run(ctx, func(context.Context) error {
			changed <- struct{}{}
			return nil
		})
	}()

	// unrelated files in the same directory are ignored
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.txt"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(path, []byte("1,Alice,20\n"), 0o644))

	select {
	case <-changed:
	case <-time.After(5 * time.Second):
		t.Fatal("no change notification for records file")
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestNewFileWatcher_MissingDirectory(t *testing.T) {
	_, err := NewFileWatcher(filepath.Join(t.TempDir(), "missing", "students.csv"), logger.NewNop())
	assert.Error(t, err)
}
