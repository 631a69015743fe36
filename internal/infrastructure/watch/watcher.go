package watch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/fsnotify/fsnotify"
)

// InboxWatcher reports files created or rewritten in a single directory once they
// stop changing. Subdirectories are not followed.
type InboxWatcher struct {
	dir      string
	watcher  *fsnotify.Watcher
	debounce time.Duration
	filter   *IgnoreFilter
	onDrop   func(path string)
	logger   *slog.Logger
}

// NewInboxWatcher watches dir. A zero debounce uses 300ms; a nil filter uses the defaults.
func NewInboxWatcher(dir string, debounce time.Duration, filter *IgnoreFilter, onDrop func(string), logger *slog.Logger) (*InboxWatcher, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("inbox %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("inbox %s is not a directory", dir)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}
	if err := w.Add(dir); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}

	if debounce == 0 {
		debounce = 300 * time.Millisecond
	}
	if filter == nil {
		filter = NewIgnoreFilter()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &InboxWatcher{
		dir:      dir,
		watcher:  w,
		debounce: debounce,
		filter:   filter,
		onDrop:   onDrop,
		logger:   logger.With("component", "inbox", "dir", dir),
	}, nil
}

// Dir returns the watched directory.
func (w *InboxWatcher) Dir() string {
	return w.dir
}

// Close stops watching. Run also closes the watcher when it returns.
func (w *InboxWatcher) Close() error {
	return w.watcher.Close()
}

// Run starts the event loop. It blocks until the context is cancelled.
func (w *InboxWatcher) Run(ctx context.Context) error {
	defer w.watcher.Close()

	debouncer := NewDebouncer(w.debounce, w.deliver)
	defer debouncer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Write) {
				continue
			}
			if w.filter.Ignored(event.Name) {
				w.logger.Debug("ignored inbox entry", "path", event.Name)
				continue
			}
			debouncer.Trigger(event.Name)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("inbox watcher error", "error", err)
		}
	}
}

// deliver hands a settled path to onDrop if it is still a regular file.
func (w *InboxWatcher) deliver(path string) {
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return
	}
	w.logger.Info("inbox file ready", "path", path)
	if w.onDrop != nil {
		w.onDrop(path)
	}
}
