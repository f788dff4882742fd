// Package watcher reports changes to a set of files.
//
// Each file's directory is watched with fsnotify so that editors which save
// by renaming a temporary file are still seen. Bursts of events for a file
// are coalesced: one Event is delivered per file once it has been quiet for
// the debounce delay.
package watcher

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Errors returned by Watcher.
var (
	ErrWatcherClosed   = errors.New("watcher is closed")
	ErrAlreadyWatching = errors.New("file is already being watched")
)

// DefaultDebounce is the quiet period before an event is delivered.
const DefaultDebounce = 100 * time.Millisecond

// Op is a set of file operations.
type Op uint8

// Operations.
const (
	OpCreate Op = 1 << iota
	OpWrite
	OpRemove
	OpRename
)

// Has reports whether op includes o.
func (op Op) Has(o Op) bool {
	return op&o == o
}

// String lists the operations joined by "|".
func (op Op) String() string {
	var names []string
	for _, n := range []struct {
		op   Op
		name string
	}{{OpCreate, "CREATE"}, {OpWrite, "WRITE"}, {OpRemove, "REMOVE"}, {OpRename, "RENAME"}} {
		if op.Has(n.op) {
			names = append(names, n.name)
		}
	}
	if len(names) == 0 {
		return "NONE"
	}
	return strings.Join(names, "|")
}

// Event reports changes to one watched file.
type Event struct {
	// Path is the absolute path of the file.
	Path string
	// Op combines every operation seen during the burst.
	Op Op
	// Time is when the event was delivered.
	Time time.Time
}

// Watcher watches files for changes.
type Watcher struct {
	mu     sync.Mutex
	fsw    *fsnotify.Watcher
	files  map[string]bool
	dirs   map[string]int
	closed bool

	debounce time.Duration
	logger   *zap.Logger

	events  chan Event
	errors  chan error
	closeCh chan struct{}
	wg      sync.WaitGroup
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the quiet period. Zero delivers events immediately.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d >= 0 {
			w.debounce = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(w *Watcher) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// New starts a watcher with no files.
func New(opts ...Option) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	w := &Watcher{
		fsw:      fsw,
		files:    make(map[string]bool),
		dirs:     make(map[string]int),
		debounce: DefaultDebounce,
		logger:   zap.NewNop(),
		events:   make(chan Event, 16),
		errors:   make(chan error, 16),
		closeCh:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.wg.Add(1)
	go w.loop()
	return w, nil
}

// Add starts watching the file at path, which must exist.
func (w *Watcher) Add(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if _, err := os.Stat(abs); err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return ErrWatcherClosed
	}
	if w.files[abs] {
		return ErrAlreadyWatching
	}
	dir := filepath.Dir(abs)
	if w.dirs[dir] == 0 {
		if err := w.fsw.Add(dir); err != nil {
			return fmt.Errorf("watching %s: %w", dir, err)
		}
	}
	w.dirs[dir]++
	w.files[abs] = true
	return nil
}

// Files returns the watched files in sorted order.
func (w *Watcher) Files() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	files := make([]string, 0, len(w.files))
	for f := range w.files {
		files = append(files, f)
	}
	slices.Sort(files)
	return files
}

// Events delivers debounced file events.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Errors delivers errors from the underlying watcher.
func (w *Watcher) Errors() <-chan error {
	return w.errors
}

// Close stops the watcher and closes both channels.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	close(w.closeCh)
	w.mu.Unlock()

	w.wg.Wait()
	close(w.events)
	close(w.errors)
	return w.fsw.Close()
}

func (w *Watcher) watching(path string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.files[path]
}

func (w *Watcher) loop() {
	defer w.wg.Done()

	pending := make(map[string]Op)
	timer := time.NewTimer(time.Hour)
	timer.Stop()

	for {
		select {
		case <-w.closeCh:
			timer.Stop()
			return

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			path := filepath.Clean(ev.Name)
			op := convertOp(ev.Op)
			if op == 0 || !w.watching(path) {
				continue
			}
			w.logger.Debug("file event", zap.String("path", path), zap.Stringer("op", op))
			pending[path] |= op
			if w.debounce == 0 {
				w.flush(pending)
				continue
			}
			timer.Reset(w.debounce)

		case <-timer.C:
			w.flush(pending)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watch error", zap.Error(err))
			select {
			case w.errors <- err:
			default:
			}
		}
	}
}

// flush delivers one event per pending file, in path order.
func (w *Watcher) flush(pending map[string]Op) {
	paths := make([]string, 0, len(pending))
	for p := range pending {
		paths = append(paths, p)
	}
	slices.Sort(paths)
	now := time.Now()
	for _, p := range paths {
		select {
		case w.events <- Event{Path: p, Op: pending[p], Time: now}:
		case <-w.closeCh:
			return
		}
		delete(pending, p)
	}
}

func convertOp(fsOp fsnotify.Op) Op {
	var op Op
	if fsOp.Has(fsnotify.Create) {
		op |= OpCreate
	}
	if fsOp.Has(fsnotify.Write) {
		op |= OpWrite
	}
	if fsOp.Has(fsnotify.Remove) {
		op |= OpRemove
	}
	if fsOp.Has(fsnotify.Rename) {
		op |= OpRename
	}
	return op
}
