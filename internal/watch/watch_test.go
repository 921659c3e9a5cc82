package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestWatcher_RunsOnGoChange(t *testing.T) {
	dir := t.TempDir()
	generated := filepath.Join(dir, "arity_gen.go")

	var runs atomic.Int32
	fired := make(chan struct{}, 4)

	w := New([]string{dir}, func(context.Context) error {
		runs.Add(1)
		fired <- struct{}{}

		return nil
	}, WithDebounce(20*time.Millisecond), WithIgnore(generated))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)

	go func() {
		done <- w.Run(ctx)
	}()

	// Give the watcher time to register the directory.
	time.Sleep(50 * time.Millisecond)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(generated, []byte("package arity\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "types.go"), []byte("package x\n"), 0o644))

	select {
	case <-fired:
	case <-time.After(5 * time.Second):
		t.Fatal("onChange was not called")
	}

	cancel()
	require.NoError(t, <-done)
	assert.GreaterOrEqual(t, runs.Load(), int32(1))
}

func TestWatcher_MissingDir(t *testing.T) {
	w := New([]string{filepath.Join(t.TempDir(), "missing")}, func(context.Context) error { return nil })

	err := w.Run(context.Background())
	require.Error(t, err)
}

func TestWatcher_Relevant(t *testing.T) {
	dir := t.TempDir()
	w := New(nil, nil, WithIgnore(filepath.Join(dir, "arity_gen.go")))

	tests := []struct {
		name string
		ev   fsnotify.Event
		want bool
	}{
		{"write go", fsnotify.Event{Name: filepath.Join(dir, "a.go"), Op: fsnotify.Write}, true},
		{"create go", fsnotify.Event{Name: filepath.Join(dir, "a.go"), Op: fsnotify.Create}, true},
		{"remove go", fsnotify.Event{Name: filepath.Join(dir, "a.go"), Op: fsnotify.Remove}, true},
		{"chmod go", fsnotify.Event{Name: filepath.Join(dir, "a.go"), Op: fsnotify.Chmod}, false},
		{"test file", fsnotify.Event{Name: filepath.Join(dir, "a_test.go"), Op: fsnotify.Write}, false},
		{"other ext", fsnotify.Event{Name: filepath.Join(dir, "a.yaml"), Op: fsnotify.Write}, false},
		{"generated", fsnotify.Event{Name: filepath.Join(dir, "arity_gen.go"), Op: fsnotify.Write}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, w.relevant(tt.ev))
		})
	}
}
