package watcher

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

	"github.com/bnema/ico256/internal/logging"
)

func testContext() context.Context {
	return logging.WithContext(context.Background(), logging.NewFromConfigValues("debug", "console"))
}

func TestRelevant(t *testing.T) {
	tests := []struct {
		name  string
		event fsnotify.Event
		want  bool
	}{
		{"png create", fsnotify.Event{Name: "/in/logo.png", Op: fsnotify.Create}, true},
		{"jpeg write", fsnotify.Event{Name: "/in/photo.JPG", Op: fsnotify.Write}, true},
		{"svg", fsnotify.Event{Name: "/in/mark.svg", Op: fsnotify.Create}, true},
		{"webp", fsnotify.Event{Name: "/in/a.webp", Op: fsnotify.Write}, true},
		{"remove", fsnotify.Event{Name: "/in/logo.png", Op: fsnotify.Remove}, false},
		{"chmod", fsnotify.Event{Name: "/in/logo.png", Op: fsnotify.Chmod}, false},
		{"hidden", fsnotify.Event{Name: "/in/.logo.png", Op: fsnotify.Create}, false},
		{"temp", fsnotify.Event{Name: "/in/logo.png.tmp", Op: fsnotify.Create}, false},
		{"text", fsnotify.Event{Name: "/in/notes.txt", Op: fsnotify.Create}, false},
		{"gif", fsnotify.Event{Name: "/in/anim.gif", Op: fsnotify.Create}, false},
		{"no extension", fsnotify.Event{Name: "/in/logo", Op: fsnotify.Create}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Relevant(tt.event))
		})
	}
}

func TestNew_Errors(t *testing.T) {
	dir := t.TempDir()
	noop := func(context.Context, string) error { return nil }

	_, err := New(dir, 0, nil)
	assert.Error(t, err)

	_, err = New(filepath.Join(dir, "missing"), 0, noop)
	assert.Error(t, err)

	file := filepath.Join(dir, "file.png")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o600))
	_, err = New(file, 0, noop)
	assert.Error(t, err)
}

func TestNew_DefaultDebounce(t *testing.T) {
	w, err := New(t.TempDir(), 0, func(context.Context, string) error { return nil })
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Close() })

	assert.Equal(t, DefaultDebounce, w.debounce)
}

func startWatcher(t *testing.T, dir string, handler Handler) {
	t.Helper()

	w, err := New(dir, 50*time.Millisecond, handler)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(testContext())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	t.Cleanup(func() {
		cancel()
		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(2 * time.Second):
			t.Error("watcher did not stop")
		}
	})
}

func TestWatcher_DebouncesAndFilters(t *testing.T) {
	dir := t.TempDir()
	handled := make(chan string, 10)

	startWatcher(t, dir, func(_ context.Context, path string) error {
		handled <- path
		return nil
	})

	target := filepath.Join(dir, "logo.png")
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".hidden.png"), []byte("x"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o600))
	require.NoError(t, os.WriteFile(target, []byte("part"), 0o600))
	require.NoError(t, os.WriteFile(target, []byte("complete"), 0o600))

	select {
	case got := <-handled:
		assert.Equal(t, target, got)
	case <-time.After(3 * time.Second):
		t.Fatal("file was never handled")
	}

	select {
	case got := <-handled:
		t.Fatalf("unexpected second handling of %s", got)
	case <-time.After(300 * time.Millisecond):
	}
}

func TestWatcher_HandlerErrorsAreNotFatal(t *testing.T) {
	dir := t.TempDir()
	handled := make(chan string, 10)

	startWatcher(t, dir, func(_ context.Context, path string) error {
		handled <- filepath.Base(path)
		return errors.New("decode failed")
	})

	for _, name := range []string{"a.png", "b.png"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o600))

		select {
		case got := <-handled:
			assert.Equal(t, name, got)
		case <-time.After(3 * time.Second):
			t.Fatalf("%s was never handled", name)
		}
	}
}

func TestWatcher_SkipsVanishedFiles(t *testing.T) {
	dir := t.TempDir()
	handled := make(chan string, 10)

	startWatcher(t, dir, func(_ context.Context, path string) error {
		handled <- path
		return nil
	})

	path := filepath.Join(dir, "gone.png")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o600))
	require.NoError(t, os.Remove(path))

	select {
	case got := <-handled:
		t.Fatalf("unexpected handling of %s", got)
	case <-time.After(300 * time.Millisecond):
	}
}
