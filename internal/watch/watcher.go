// Package watch re-renders examples whenever the examples directory changes.
package watch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/sidebyside/internal/examples"
	"git.home.luguber.info/inful/sidebyside/internal/logfields"
)

// DefaultDebounce collapses bursts of editor writes into one run.
const DefaultDebounce = 300 * time.Millisecond

// RunFunc performs one full rendering run.
type RunFunc func(ctx context.Context) error

// Watcher runs RunFunc once at start and again after every settled burst of
// changes to matching files. Runs never overlap: events are handled on the
// same goroutine that runs the pipeline.
type Watcher struct {
	dir      string
	ext      string
	run      RunFunc
	debounce time.Duration
}

// New creates a watcher for files ending in ext directly inside dir.
func New(dir, ext string, run RunFunc) *Watcher {
	return &Watcher{dir: dir, ext: ext, run: run, debounce: DefaultDebounce}
}

// WithDebounce sets the quiet period required before a re-run.
func (w *Watcher) WithDebounce(d time.Duration) *Watcher {
	if d > 0 {
		w.debounce = d
	}
	return w
}

// relevant reports whether ev should trigger a re-run.
func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if !strings.HasSuffix(filepath.Base(ev.Name), w.ext) {
		return false
	}
	return ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename)
}

// Run blocks until ctx is done. Failed runs are logged and watching continues.
// A missing directory is reported as examples.ErrDirectoryNotFound.
func (w *Watcher) Run(ctx context.Context) error {
	if _, err := os.Stat(w.dir); errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %s", examples.ErrDirectoryNotFound, w.dir)
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer func() {
		if cerr := fsw.Close(); cerr != nil {
			slog.Error("Error closing file watcher", logfields.Error(cerr))
		}
	}()
	if err := fsw.Add(w.dir); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", examples.ErrDirectoryNotFound, w.dir)
		}
		return fmt.Errorf("failed to watch %s: %w", w.dir, err)
	}
	slog.Info("Watching examples", logfields.Path(w.dir))

	w.runOnce(ctx)

	var timer *time.Timer
	var fire <-chan time.Time
	stopTimer := func() {
		if timer != nil {
			timer.Stop()
		}
	}

	for {
		select {
		case <-ctx.Done():
			stopTimer()
			return nil
		case ev, ok := <-fsw.Events:
			if !ok {
				stopTimer()
				return nil
			}
			if !w.relevant(ev) {
				continue
			}
			slog.Debug("Example changed", logfields.File(ev.Name), slog.String("op", ev.Op.String()))
			stopTimer()
			timer = time.NewTimer(w.debounce)
			fire = timer.C
		case <-fire:
			fire = nil
			w.runOnce(ctx)
		case werr, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			slog.Error("Watcher error", logfields.Error(werr))
		}
	}
}

func (w *Watcher) runOnce(ctx context.Context) {
	if err := w.run(ctx); err != nil && ctx.Err() == nil {
		slog.Error("Render run failed, waiting for changes", logfields.Error(err))
	}
}
