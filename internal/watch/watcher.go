// Package watch reports changes to the directory shown by the browser and to
// the bound target document so the listing and occurrence counts stay
// current.
package watch

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"mediabrowse/internal/log"

	"github.com/fsnotify/fsnotify"
)

// Change is a filesystem event under a watched path.
type Change struct {
	Path      string
	Op        fsnotify.Op
	Timestamp time.Time
}

// Watcher follows a small set of paths that is replaced as a whole each time
// the browser changes directory.
type Watcher struct {
	// Paths being watched
	watched []string

	// Files whose changes are never reported
	ignored map[string]bool

	// Channel delivering changes
	changes chan Change

	// Channel to signal stop, and the loop's exit
	stopChan chan struct{}
	done     chan struct{}

	fsWatcher *fsnotify.Watcher
	logger    *log.Logger

	mutex   sync.RWMutex
	running bool
}

// New creates a watcher. It watches nothing until Watch is called.
func New(logger *log.Logger) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	if logger == nil {
		logger = log.Default()
	}

	return &Watcher{
		changes:   make(chan Change, 16),
		stopChan:  make(chan struct{}),
		fsWatcher: fsWatcher,
		logger:    logger,
	}, nil
}

// Watch replaces the watched paths. Empty paths are ignored. Paths that
// cannot be watched are logged and skipped; the first such error is
// returned after the others have been added.
func (w *Watcher) Watch(paths ...string) error {
	w.mutex.Lock()
	defer w.mutex.Unlock()

	for _, p := range w.watched {
		_ = w.fsWatcher.Remove(p)
	}
	w.watched = w.watched[:0]

	var firstErr error
	seen := make(map[string]bool)
	for _, p := range paths {
		if p == "" {
			continue
		}
		p = filepath.Clean(p)
		if seen[p] {
			continue
		}
		seen[p] = true
		if err := w.fsWatcher.Add(p); err != nil {
			w.logger.With(log.F("path", p)).Warnf("cannot watch: %v", err)
			if firstErr == nil {
				firstErr = fmt.Errorf("failed to watch %s: %w", p, err)
			}
			continue
		}
		w.watched = append(w.watched, p)
	}
	w.logger.With(log.F("paths", w.watched)).Debug("watching")
	return firstErr
}

// Ignore drops future changes to the given files, such as the diagnostic log
// when it lives in a watched directory.
func (w *Watcher) Ignore(paths ...string) {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	if w.ignored == nil {
		w.ignored = make(map[string]bool)
	}
	for _, p := range paths {
		if p == "" {
			continue
		}
		if abs, err := filepath.Abs(p); err == nil {
			p = abs
		}
		w.ignored[filepath.Clean(p)] = true
	}
}

func (w *Watcher) isIgnored(path string) bool {
	w.mutex.RLock()
	defer w.mutex.RUnlock()
	return w.ignored[filepath.Clean(path)]
}

// Changes returns the channel delivering changes. It is closed by Stop.
func (w *Watcher) Changes() <-chan Change {
	return w.changes
}

// Start begins forwarding events.
func (w *Watcher) Start() error {
	w.mutex.Lock()
	if w.running {
		w.mutex.Unlock()
		return fmt.Errorf("watcher already running")
	}
	w.running = true
	stop := w.stopChan
	done := make(chan struct{})
	w.done = done
	w.mutex.Unlock()

	go w.loop(stop, done)
	return nil
}

func (w *Watcher) loop(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			// Chmod alone does not change what the browser shows
			if event.Op == fsnotify.Chmod || w.isIgnored(event.Name) {
				continue
			}
			change := Change{Path: event.Name, Op: event.Op, Timestamp: time.Now()}

			// Never block the event loop on a slow consumer
			select {
			case w.changes <- change:
			case <-stop:
				return
			default:
				w.logger.With(log.F("path", event.Name)).Debug("change channel full, dropped event")
			}

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			w.logger.With(log.F("error", err)).Error("fsnotify watcher error")

		case <-stop:
			return
		}
	}
}

// Stop halts the watcher and closes the change channel.
func (w *Watcher) Stop() {
	w.mutex.Lock()
	defer w.mutex.Unlock()

	if !w.running {
		return
	}
	close(w.stopChan)
	if err := w.fsWatcher.Close(); err != nil {
		w.logger.With(log.F("error", err)).Error("Error closing fsnotify watcher")
	}
	<-w.done
	w.running = false
	close(w.changes)
}

// IsRunning returns whether the watcher is active.
func (w *Watcher) IsRunning() bool {
	w.mutex.RLock()
	defer w.mutex.RUnlock()
	return w.running
}

// Watched returns the paths currently watched.
func (w *Watcher) Watched() []string {
	w.mutex.RLock()
	defer w.mutex.RUnlock()
	out := make([]string, len(w.watched))
	copy(out, w.watched)
	return out
}
