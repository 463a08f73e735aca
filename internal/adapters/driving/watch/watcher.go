// Package watch notifies callers when a document file changes on disk.
// It watches the file's directory so that editors which save by replacing
// the file are still seen.
package watch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/docqa/internal/logger"
)

// DefaultDebounce coalesces bursts of events from a single save.
const DefaultDebounce = 300 * time.Millisecond

// ErrClosed is returned by Watch after Close.
var ErrClosed = errors.New("watcher closed")

// ChangeType classifies a document change.
type ChangeType int

const (
	// ChangeUpdated means the document was written or recreated.
	ChangeUpdated ChangeType = iota + 1

	// ChangeRemoved means the document was deleted or renamed away.
	ChangeRemoved
)

// String returns the change type name.
func (t ChangeType) String() string {
	switch t {
	case ChangeUpdated:
		return "updated"
	case ChangeRemoved:
		return "removed"
	default:
		return "unknown"
	}
}

// Change is a debounced change to the watched document.
type Change struct {
	Path string
	Type ChangeType
}

// Watcher watches a single document.
type Watcher struct {
	path     string
	debounce time.Duration

	mu      sync.Mutex
	watcher *fsnotify.Watcher
	closed  bool
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the quiet period before a change is reported.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d >= 0 {
			w.debounce = d
		}
	}
}

// New creates a watcher for the document at path.
func New(path string, opts ...Option) *Watcher {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	w := &Watcher{
		path:     path,
		debounce: DefaultDebounce,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Path returns the absolute path of the watched document.
func (w *Watcher) Path() string {
	return w.path
}

// Watch starts watching and returns a channel of changes.
// The channel is closed when ctx is cancelled or the watcher is closed.
func (w *Watcher) Watch(ctx context.Context) (<-chan Change, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil, ErrClosed
	}

	if _, err := os.Stat(w.path); err != nil {
		return nil, fmt.Errorf("document path error: %w", err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	if err := fsw.Add(filepath.Dir(w.path)); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watching %s: %w", filepath.Dir(w.path), err)
	}
	w.watcher = fsw

	changes := make(chan Change)
	go w.loop(ctx, fsw, changes)
	return changes, nil
}

func (w *Watcher) loop(ctx context.Context, fsw *fsnotify.Watcher, changes chan<- Change) {
	defer close(changes)

	var (
		pending *Change
		timer   *time.Timer
		fire    <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case ev, ok := <-fsw.Events:
			if !ok {
				return
			}
			change := w.handleEvent(ev)
			if change == nil {
				continue
			}
			pending = change
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			logger.Warn("watch %s: %v", w.path, err)

		case <-fire:
			fire = nil
			if pending == nil {
				continue
			}
			select {
			case changes <- *pending:
			case <-ctx.Done():
				return
			}
			pending = nil
		}
	}
}

// handleEvent maps a raw event to a change of the watched document, or nil.
func (w *Watcher) handleEvent(ev fsnotify.Event) *Change {
	if filepath.Clean(ev.Name) != w.path {
		return nil
	}
	switch {
	case ev.Has(fsnotify.Create), ev.Has(fsnotify.Write):
		return &Change{Path: w.path, Type: ChangeUpdated}
	case ev.Has(fsnotify.Remove), ev.Has(fsnotify.Rename):
		return &Change{Path: w.path, Type: ChangeRemoved}
	default:
		return nil
	}
}

// Close stops watching. It is safe to call more than once.
func (w *Watcher) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil
	}
	w.closed = true
	if w.watcher != nil {
		return w.watcher.Close()
	}
	return nil
}
