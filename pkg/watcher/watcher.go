package watcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher calls a function after a watched file settles following a change.
//
// The parent directory is watched rather than the file itself so that
// editors replacing the file through a rename keep being observed.
type Watcher struct {
	path      string
	name      string
	debouncer *Debouncer
	fsw       *fsnotify.Watcher
	logger    *log.Logger
}

// Option configures a Watcher
type Option func(*Watcher)

// WithLogger routes watcher diagnostics to l
func WithLogger(l *log.Logger) Option {
	return func(w *Watcher) {
		if l != nil {
			w.logger = l
		}
	}
}

// New starts watching path. onChange runs on a timer goroutine, never
// concurrently with itself.
func New(path string, duration time.Duration, onChange func(), opts ...Option) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", path, err)
	}
	if _, err := os.Stat(abs); err != nil {
		return nil, fmt.Errorf("cannot watch %s: %w", path, err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating file watcher: %w", err)
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watching %s: %w", filepath.Dir(abs), err)
	}

	w := &Watcher{
		path:   abs,
		name:   filepath.Base(abs),
		fsw:    fsw,
		logger: log.New(io.Discard, "", 0),
	}
	for _, opt := range opts {
		opt(w)
	}

	var mu sync.Mutex
	w.debouncer = NewDebouncer(duration, func() {
		mu.Lock()
		defer mu.Unlock()
		onChange()
	})
	return w, nil
}

// Path returns the absolute path being watched
func (w *Watcher) Path() string {
	return w.path
}

// Run delivers events until ctx is cancelled or the watcher is closed.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.debouncer.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if w.relevant(ev) {
				w.logger.Printf("config watcher: %s %s", ev.Op, ev.Name)
				w.debouncer.Trigger()
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			if errors.Is(err, fsnotify.ErrEventOverflow) {
				// Events were lost; assume the file changed.
				w.debouncer.Trigger()
				continue
			}
			w.logger.Printf("Warning: config watcher error: %v", err)
		}
	}
}

// relevant filters directory events down to the watched file
func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if filepath.Base(ev.Name) != w.name {
		return false
	}
	return ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename)
}

// Close stops watching and drops any pending callback.
func (w *Watcher) Close() error {
	w.debouncer.Stop()
	return w.fsw.Close()
}
