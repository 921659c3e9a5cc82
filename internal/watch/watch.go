// Package watch reruns generation when Go sources change.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"arity-generator/internal/logger"
)

// DefaultDebounce groups bursts of events, such as an editor saving several
// files, into one run.
const DefaultDebounce = 200 * time.Millisecond

// Func is called once per settled burst of changes.
type Func func(ctx context.Context) error

// Watcher watches package directories for .go changes.
type Watcher struct {
	dirs     []string
	ignore   map[string]bool
	debounce time.Duration
	log      *logger.Logger
	onChange Func
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the quiet period before onChange runs.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		w.debounce = d
	}
}

// WithIgnore skips events for the given files, typically the generated output.
func WithIgnore(paths ...string) Option {
	return func(w *Watcher) {
		for _, p := range paths {
			if abs, err := filepath.Abs(p); err == nil {
				w.ignore[abs] = true
			}
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *logger.Logger) Option {
	return func(w *Watcher) {
		w.log = l
	}
}

// New creates a Watcher over dirs.
func New(dirs []string, onChange Func, opts ...Option) *Watcher {
	w := &Watcher{
		dirs:     dirs,
		ignore:   make(map[string]bool),
		debounce: DefaultDebounce,
		log:      logger.NewNop(),
		onChange: onChange,
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Run blocks until ctx is done. Errors from onChange are logged and do not
// stop the loop.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}

	defer func() {
		_ = fw.Close()
	}()

	for _, dir := range w.dirs {
		if err := fw.Add(dir); err != nil {
			return fmt.Errorf("watching %s: %w", dir, err)
		}
	}

	w.log.Infow("watching", "dirs", len(w.dirs))

	timer := time.NewTimer(w.debounce)
	timer.Stop()

	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}

			if !w.relevant(ev) {
				continue
			}

			w.log.Debugw("change", "file", ev.Name, "op", ev.Op.String())
			timer.Reset(w.debounce)
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}

			w.log.Warnw("watch error", "error", err)
		case <-timer.C:
			if err := w.onChange(ctx); err != nil {
				w.log.Errorw("regeneration failed", "error", err)
			}
		}
	}
}

func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if !strings.HasSuffix(ev.Name, ".go") || strings.HasSuffix(ev.Name, "_test.go") {
		return false
	}

	if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}

	abs, err := filepath.Abs(ev.Name)
	if err != nil {
		return true
	}

	return !w.ignore[abs]
}
