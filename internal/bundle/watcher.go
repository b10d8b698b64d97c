package bundle

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Debounce window between a file event and the sync it triggers, so a
// burst of editor writes causes a single reload.
const debounceDelay = 500 * time.Millisecond

// Watcher triggers a callback whenever the external reference file changes.
type Watcher struct {
	watcher *fsnotify.Watcher
	logger  *zap.Logger
	stopCh  chan struct{}
}

// Watch starts watching path and invokes onChange (debounced) after every
// write to it. The watch is placed on the parent directory because editors
// typically replace the file on save.
func Watch(path string, onChange func(), logger *zap.Logger) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create file watcher: %w", err)
	}

	dir := filepath.Dir(path)
	if err := fsWatcher.Add(dir); err != nil {
		fsWatcher.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}

	w := &Watcher{
		watcher: fsWatcher,
		logger:  logger,
		stopCh:  make(chan struct{}),
	}
	go w.watchLoop(filepath.Clean(path), onChange)

	logger.Info("Watching reference file", zap.String("path", path))
	return w, nil
}

func (w *Watcher) watchLoop(path string, onChange func()) {
	var debounceTimer *time.Timer

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}

			w.logger.Info("Reference file changed",
				zap.String("file", event.Name),
				zap.String("operation", event.Op.String()),
			)

			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(debounceDelay, onChange)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("File watcher error", zap.Error(err))

		case <-w.stopCh:
			return
		}
	}
}

// Stop stops the watcher.
func (w *Watcher) Stop() {
	if w.watcher != nil {
		close(w.stopCh)
		w.watcher.Close()
	}
}
