package cli

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/rheetham/Student-Record-Management-System/internal/infrastructure/logger"
)

// FileWatcher reports changes made to the records file by other processes.
// The parent directory is watched so that atomic replacements (write to a
// temp file then rename) are seen as well.
type FileWatcher struct {
	path    string
	watcher *fsnotify.Watcher
	logger  *logger.Logger
}

// NewFileWatcher starts watching the directory holding path
func NewFileWatcher(path string, logger *logger.Logger) (*FileWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", path, err)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}

	return &FileWatcher{
		path:    abs,
		watcher: w,
		logger:  logger.WithComponent("watcher"),
	}, nil
}

// Run calls onChange after every create, write, rename or removal of the
// watched file until ctx is done. Errors from onChange are logged and do not
// stop the loop.
func (fw *FileWatcher) Run(ctx context.Context, onChange func(ctx context.Context) error) error {
	defer func() { _ = fw.watcher.Close() }()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-fw.watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != fw.path {
				continue
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) &&
				!event.Has(fsnotify.Rename) && !event.Has(fsnotify.Remove) {
				continue
			}
			fw.logger.Debugw("Records file changed", "event", event.Op.String())
			if err := onChange(ctx); err != nil {
				fw.logger.WithError(err).Warn("Failed to reload records")
			}
		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return nil
			}
			fw.logger.WithError(err).Warn("Error watching records file")
		}
	}
}
