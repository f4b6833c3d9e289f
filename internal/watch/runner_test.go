package watch_test

import (
	"testing"
	"time"

	"github.com/onelson/omn/internal/watch"
	"github.com/rs/zerolog"
)

func TestRunner(t *testing.T) {
	quiet := zerolog.Nop()

	t.Run("start and stop", func(t *testing.T) {
		r := watch.NewRunner(&quiet)
		if r.Running() {
			t.Fatal("fresh runner claims to be running")
		}

		if err := r.Restart(t.Context(), "sleep", "60"); err != nil {
			t.Fatal(err)
		}
		if !r.Running() {
			t.Fatal("runner is not running after a successful start")
		}

		r.Stop()
		if r.Running() {
			t.Fatal("runner still running after Stop")
		}
		r.Stop() // second stop must be a no-op
	})

	// each restart must reap the old process before starting the new one
	t.Run("restart replaces the previous process", func(t *testing.T) {
		r := watch.NewRunner(&quiet)
		defer r.Stop()

		for range 3 {
			if err := r.Restart(t.Context(), "sleep", "60"); err != nil {
				t.Fatal(err)
			}
		}
		if !r.Running() {
			t.Fatal("runner is not running after restarts")
		}
	})

	t.Run("failed start surfaces the error", func(t *testing.T) {
		r := watch.NewRunner(&quiet)
		if err := r.Restart(t.Context(), "no-such-binary-omn-test"); err == nil {
			t.Fatal("expected an error starting a nonexistent binary")
		}
		if r.Running() {
			t.Fatal("runner claims to be running after a failed start")
		}
	})

	// a process that exits on its own is reaped without a Stop
	t.Run("self-exiting process is reaped", func(t *testing.T) {
		r := watch.NewRunner(&quiet)
		defer r.Stop()

		if err := r.Restart(t.Context(), "true"); err != nil {
			t.Fatal(err)
		}
		deadline := time.Now().Add(3 * time.Second)
		for r.Running() && time.Now().Before(deadline) {
			time.Sleep(10 * time.Millisecond)
		}
		if r.Running() {
			t.Fatal("short-lived process was never reaped")
		}
	})
}
