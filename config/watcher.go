package config

import (
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/teranos/schemats/errors"
	"github.com/teranos/schemats/logger"
)

// Watcher watches descriptor and config files and calls back once a burst of
// changes has settled.
type Watcher struct {
	tracked        map[string]bool
	dirs           map[string]bool
	watcher        *fsnotify.Watcher
	callbacks      []ChangeCallback
	mu             sync.Mutex
	pending        map[string]bool
	debounceTimer  *time.Timer
	debouncePeriod time.Duration
	started        bool
	done           chan struct{}
}

// ChangeCallback receives the sorted set of files changed since the last call
type ChangeCallback func(changed []string) error

// NewWatcher creates a watcher for paths. Parent directories are watched
// rather than the files themselves, so editors that replace a file on save
// keep triggering events.
func NewWatcher(paths []string, debounce time.Duration) (*Watcher, error) {
	if len(paths) == 0 {
		return nil, errors.New("nothing to watch")
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create fsnotify watcher")
	}

	w := &Watcher{
		tracked:        make(map[string]bool, len(paths)),
		dirs:           make(map[string]bool),
		watcher:        fsw,
		pending:        make(map[string]bool),
		debouncePeriod: debounce,
		done:           make(chan struct{}),
	}

	if err := w.Add(paths...); err != nil {
		fsw.Close()
		return nil, err
	}
	return w, nil
}

// Add tracks more files. Paths already tracked are ignored.
func (w *Watcher) Add(paths ...string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return errors.Wrapf(err, "failed to resolve %s", p)
		}
		if w.tracked[abs] {
			continue
		}
		dir := filepath.Dir(abs)
		if !w.dirs[dir] {
			if err := w.watcher.Add(dir); err != nil {
				return errors.Wrapf(err, "failed to watch directory %s", dir)
			}
			w.dirs[dir] = true
		}
		w.tracked[abs] = true
	}
	return nil
}

// OnChange registers a callback to be called after changes settle
func (w *Watcher) OnChange(callback ChangeCallback) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.callbacks = append(w.callbacks, callback)
}

// Start begins watching for file changes
func (w *Watcher) Start() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.started {
		return
	}
	w.started = true
	go w.watchLoop()
}

// Stop stops watching and cancels any pending callback
func (w *Watcher) Stop() error {
	w.mu.Lock()
	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}
	started := w.started
	w.mu.Unlock()

	err := w.watcher.Close()
	if started {
		<-w.done
	}
	return err
}

func (w *Watcher) watchLoop() {
	defer close(w.done)
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if !w.isTracked(event.Name) {
				continue
			}

			logger.Debugw("Watcher detected change",
				"file", event.Name,
				"op", event.Op.String())
			w.schedule(event.Name)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logger.Warnw("Watcher error",
				"error", err)
		}
	}
}

func (w *Watcher) isTracked(name string) bool {
	abs, err := filepath.Abs(name)
	if err != nil {
		return false
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.tracked[abs]
}

// schedule debounces rapid file changes
func (w *Watcher) schedule(name string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	abs, _ := filepath.Abs(name)
	w.pending[abs] = true

	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}
	w.debounceTimer = time.AfterFunc(w.debouncePeriod, w.fire)
}

// fire drains the pending set and runs all callbacks
func (w *Watcher) fire() {
	w.mu.Lock()
	changed := make([]string, 0, len(w.pending))
	for name := range w.pending {
		changed = append(changed, name)
	}
	w.pending = make(map[string]bool)
	callbacks := make([]ChangeCallback, len(w.callbacks))
	copy(callbacks, w.callbacks)
	w.mu.Unlock()

	if len(changed) == 0 {
		return
	}
	sort.Strings(changed)

	for _, callback := range callbacks {
		if err := callback(changed); err != nil {
			logger.Warnw("Watch callback error",
				"files", changed,
				"error", err)
		}
	}
}
