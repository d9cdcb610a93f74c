package server

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce collapses bursts of filesystem events into one change.
const DefaultDebounce = 300 * time.Millisecond

// Watcher reports changes under a set of directories, debounced.
type Watcher struct {
	fs       *fsnotify.Watcher
	delay    time.Duration
	ignore   []string
	onChange func()
	logger   *slog.Logger

	mu    sync.Mutex
	timer *time.Timer
}

// WatcherOptions configures NewWatcher.
type WatcherOptions struct {
	Roots    []string
	Delay    time.Duration
	Ignore   []string // base names that never count as a change
	OnChange func()
	Logger   *slog.Logger
}

// NewWatcher watches every directory under opts.Roots, skipping hidden ones.
func NewWatcher(opts WatcherOptions) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("fsnotify: %w", err)
	}
	w := &Watcher{
		fs:       fw,
		delay:    opts.Delay,
		ignore:   opts.Ignore,
		onChange: opts.OnChange,
		logger:   opts.Logger,
	}
	if w.onChange == nil {
		w.onChange = func() {}
	}
	if w.delay <= 0 {
		w.delay = DefaultDebounce
	}
	if w.logger == nil {
		w.logger = slog.Default()
	}
	for _, root := range opts.Roots {
		if err := w.addDirsRecursive(root); err != nil {
			fw.Close()
			return nil, err
		}
	}
	return w, nil
}

// Run processes events until ctx is done or the watcher is closed.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.stopTimer()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			w.handleEvent(ev)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watcher error", "error", err)
		}
	}
}

// Close stops watching.
func (w *Watcher) Close() error {
	return w.fs.Close()
}

func (w *Watcher) handleEvent(ev fsnotify.Event) {
	if w.shouldIgnore(ev.Name) {
		return
	}
	if ev.Has(fsnotify.Create) {
		if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
			_ = w.addDirsRecursive(ev.Name)
		}
	}
	w.logger.Debug("file change detected", "path", ev.Name, "op", ev.Op.String())
	w.trigger()
}

func (w *Watcher) trigger() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.delay, w.onChange)
}

func (w *Watcher) stopTimer() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
}

func (w *Watcher) addDirsRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		if err := w.fs.Add(path); err != nil {
			w.logger.Warn("watch add failed", "dir", path, "error", err)
		}
		return nil
	})
}

// shouldIgnore returns true for hidden files, editor temp files and the
// configured names.
func (w *Watcher) shouldIgnore(path string) bool {
	base := filepath.Base(path)
	if slices.Contains(w.ignore, base) {
		return true
	}
	if strings.HasPrefix(base, ".") {
		return true
	}
	return strings.HasSuffix(base, "~") ||
		strings.HasSuffix(base, ".swp") ||
		strings.HasSuffix(base, ".swx") ||
		strings.HasPrefix(base, "#") && strings.HasSuffix(base, "#")
}
