package watch_test

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"sync/atomic"
	"testing"
	"time"

	"github.com/onelson/omn/internal/watch"
	"github.com/rs/zerolog"
)

func TestDirs(t *testing.T) {
	root := t.TempDir()
	for _, d := range []string{"pkg", "pkg/sub", ".git", "_examples", "pkg/testdata"} {
		if err := os.MkdirAll(filepath.Join(root, d), 0o755); err != nil {
			t.Fatal(err)
		}
	}

	dirs, err := watch.Dirs(root)
	if err != nil {
		t.Fatal(err)
	}

	for _, want := range []string{root, filepath.Join(root, "pkg"), filepath.Join(root, "pkg", "sub")} {
		if !slices.Contains(dirs, want) {
			t.Errorf("expected %s in watched dirs %v", want, dirs)
		}
	}
	for _, unwanted := range []string{filepath.Join(root, ".git"), filepath.Join(root, "_examples"), filepath.Join(root, "pkg", "testdata")} {
		if slices.Contains(dirs, unwanted) {
			t.Errorf("dir %s should have been skipped", unwanted)
		}
	}
}

// Checks that the watcher fires once up front and again after a relevant file
// change, but not for files the toolchain does not care about.
func TestWatch(t *testing.T) {
	root := t.TempDir()
	quiet := zerolog.Nop()

	var fired atomic.Int64
	ctx, cancel := context.WithCancel(t.Context())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- watch.Watch(ctx, []string{root}, 20*time.Millisecond, func() error {
			fired.Add(1)
			return nil
		}, &quiet)
	}()

	// the initial run
	waitFor(t, func() bool { return fired.Load() == 1 })

	// a relevant change fires the action again
	if err := os.WriteFile(filepath.Join(root, "main.go"), []byte("package main\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	waitFor(t, func() bool { return fired.Load() == 2 })

	// an irrelevant file does not
	if err := os.WriteFile(filepath.Join(root, "notes.txt"), []byte("scratch\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	time.Sleep(100 * time.Millisecond)
	if n := fired.Load(); n != 2 {
		t.Errorf("irrelevant file change fired the action (count %d)", n)
	}

	// neither does a chmod with no accompanying write, even on a watched .go file
	if err := os.Chmod(filepath.Join(root, "main.go"), 0o600); err != nil {
		t.Fatal(err)
	}
	time.Sleep(100 * time.Millisecond)
	if n := fired.Load(); n != 2 {
		t.Errorf("chmod-only event fired the action (count %d)", n)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatal(err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("watch did not shut down after cancellation")
	}
}

// Checks that a burst of writes within the debounce window coalesces into a single action run.
func TestWatchDebounce(t *testing.T) {
	root := t.TempDir()
	quiet := zerolog.Nop()

	var fired atomic.Int64
	ctx, cancel := context.WithCancel(t.Context())
	defer cancel()

	go watch.Watch(ctx, []string{root}, 150*time.Millisecond, func() error {
		fired.Add(1)
		return nil
	}, &quiet)

	waitFor(t, func() bool { return fired.Load() == 1 })

	// several rapid writes, well inside one debounce window
	for range 5 {
		name := filepath.Join(root, "burst.go")
		if err := os.WriteFile(name, []byte("package burst\n"), 0o644); err != nil {
			t.Fatal(err)
		}
		time.Sleep(10 * time.Millisecond)
	}

	waitFor(t, func() bool { return fired.Load() == 2 })
	time.Sleep(300 * time.Millisecond)
	if n := fired.Load(); n != 2 {
		t.Errorf("burst of writes fired the action %d times, wanted 2 (initial + one coalesced)", n)
	}
}

// waitFor polls cond until it holds or the deadline passes.
func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}
