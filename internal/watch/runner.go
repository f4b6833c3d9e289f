package watch

/*
Runner manages the long-lived process behind the watch workflow's `run`
action: each restart reaps the previous instance before starting the next, and
a process that dies on its own gets its exit error logged rather than dropped.
*/

import (
	"context"
	"os"
	"os/exec"

	"github.com/rs/zerolog"
)

// A Runner owns at most one running process at a time.
// Not safe for concurrent use; the watch loop is its only caller.
type Runner struct {
	log    *zerolog.Logger
	cancel context.CancelFunc
	done   chan struct{} // closed once the current process has been reaped
}

// NewRunner returns a Runner with nothing running.
func NewRunner(log *zerolog.Logger) *Runner {
	return &Runner{log: log}
}

// Restart stops and reaps the current process (if any), then starts the named
// command. The new process inherits our stdout/stderr and is killed when ctx
// is cancelled.
func (r *Runner) Restart(ctx context.Context, name string, args ...string) error {
	r.Stop()

	runCtx, cancel := context.WithCancel(ctx)
	cmd := exec.CommandContext(runCtx, name, args...)
	cmd.Stdout, cmd.Stderr = os.Stdout, os.Stderr
	if err := cmd.Start(); err != nil {
		cancel()
		return err
	}
	r.log.Debug().Int("pid", cmd.Process.Pid).Str("command", name).Msg("process started")

	done := make(chan struct{})
	go func() {
		defer close(done)
		// reap the process no matter how it ends; only an uninstigated death is worth a warning
		if err := cmd.Wait(); err != nil && runCtx.Err() == nil {
			r.log.Warn().Err(err).Msg("watched process exited")
		}
	}()

	r.cancel, r.done = cancel, done
	return nil
}

// Stop kills the current process (if any) and waits for it to be reaped.
// Ineffectual if nothing is running.
func (r *Runner) Stop() {
	if r.cancel == nil {
		return
	}
	r.cancel()
	<-r.done
	r.cancel, r.done = nil, nil
}

// Running reports whether the Runner currently owns a live process.
func (r *Runner) Running() bool {
	if r.done == nil {
		return false
	}
	select {
	case <-r.done:
		return false
	default:
		return true
	}
}
