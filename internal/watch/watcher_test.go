package watch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/sidebyside/internal/examples"
)

func waitRun(t *testing.T, runs <-chan struct{}) {
	t.Helper()
	select {
	case <-runs:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for run")
	}
}

func TestWatcher_RerunsOnChange(t *testing.T) {
	dir := t.TempDir()
	runs := make(chan struct{}, 8)
	w := New(dir, ".mjs", func(context.Context) error {
		runs <- struct{}{}
		return errors.New("failures keep the watcher alive")
	}).WithDebounce(50 * time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	waitRun(t, runs) // initial run

	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.mjs"), []byte("let a;"), 0o600))
	waitRun(t, runs)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestWatcher_MissingDirectory(t *testing.T) {
	ran := false
	w := New(filepath.Join(t.TempDir(), "absent"), ".mjs", func(context.Context) error {
		ran = true
		return nil
	})
	err := w.Run(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, examples.ErrDirectoryNotFound)
	assert.False(t, ran, "no run starts without a directory to watch")
}

func TestWatcher_Relevant(t *testing.T) {
	w := New("/x", ".mjs", nil)
	assert.True(t, w.relevant(fsnotify.Event{Name: "/x/a.mjs", Op: fsnotify.Write}))
	assert.True(t, w.relevant(fsnotify.Event{Name: "/x/a.mjs", Op: fsnotify.Remove}))
	assert.False(t, w.relevant(fsnotify.Event{Name: "/x/a.mjs", Op: fsnotify.Chmod}))
	assert.False(t, w.relevant(fsnotify.Event{Name: "/x/.a.mjs.swp", Op: fsnotify.Write}))
}
