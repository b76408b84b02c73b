package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"japa/internal/logging"

	"github.com/fsnotify/fsnotify"
)

// Watcher reports changes to a store file. It watches the parent directory so
// files replaced by rename and SQLite -wal/-shm siblings are seen too.
type Watcher struct {
	mu      sync.Mutex
	watcher *fsnotify.Watcher
	dir     string
	prefix  string
	pending *burst
	changes chan struct{}
	stopCh  chan struct{}
	doneCh  chan struct{}
	running bool
}

// New prepares a watcher for path. Events are coalesced over debounce.
func New(path string, debounce time.Duration) (*Watcher, error) {
	if path == "" {
		return nil, fmt.Errorf("watch path required")
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	w := &Watcher{
		watcher: fw,
		dir:     filepath.Dir(path),
		prefix:  filepath.Base(path),
		changes: make(chan struct{}, 1),
		stopCh:  make(chan struct{}),
		doneCh:  make(chan struct{}),
	}
	w.pending = newBurst(debounce, w.signal)
	return w, nil
}

// Changes delivers one value per burst of writes.
func (w *Watcher) Changes() <-chan struct{} {
	return w.changes
}

// Start begins watching. It returns immediately.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		return nil
	}
	if err := w.watcher.Add(w.dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", w.dir, err)
	}
	w.running = true
	logging.WatchDebug("watching %s for %s*", w.dir, w.prefix)

	go w.run(ctx)
	return nil
}

// Stop ends watching and waits for the event loop to exit.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		w.watcher.Close()
		return
	}
	w.running = false
	w.mu.Unlock()

	close(w.stopCh)
	<-w.doneCh
	w.pending.stop()

	if err := w.watcher.Close(); err != nil {
		logging.Get(logging.CategoryWatch).Error("error closing watcher: %v", err)
	}
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handle(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logging.Get(logging.CategoryWatch).Warn("watcher error: %v", err)
		}
	}
}

func (w *Watcher) handle(event fsnotify.Event) {
	if !strings.HasPrefix(filepath.Base(event.Name), w.prefix) {
		return
	}
	if !event.Op.Has(fsnotify.Write) && !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Rename) {
		return
	}
	logging.WatchDebug("%s %s", event.Op, event.Name)

	w.pending.touch()
}

// signal never blocks; an undrained signal already covers this burst.
func (w *Watcher) signal() {
	select {
	case w.changes <- struct{}{}:
	default:
	}
}
