// Package watch implements the watch-and-rebuild half of the development
// workflow: monitor the source dirs of a package and re-invoke an action
// whenever files change.
//
// Driven by the Watch target in magefiles/magefile.go.
package watch

import (
	"context"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// How long to wait after the last event before firing the action.
// Editors emit several writes per save; firing per-event would stack rebuilds.
const DEFAULT_DEBOUNCE time.Duration = 500 * time.Millisecond

// Dirs walks root and returns every directory worth watching.
// Hidden dirs and dirs the Go toolchain ignores (leading _ or testdata) are skipped.
func Dirs(root string) ([]string, error) {
	var dirs []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		name := d.Name()
		if path != root && (strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") || name == "testdata") {
			return filepath.SkipDir
		}
		dirs = append(dirs, path)
		return nil
	})
	return dirs, err
}

// relevant reports whether a change to the named file should trigger the action.
func relevant(name string) bool {
	switch filepath.Base(name) {
	case "go.mod", "go.sum", ".env":
		return true
	}
	return filepath.Ext(name) == ".go"
}

// Watch monitors the given dirs, invoking action once up front and again after
// every (debounced) burst of relevant file changes.
//
// A failing action does not end the watch; the error is logged and we keep
// waiting for the change that fixes it. Watch only returns when ctx is
// cancelled or the underlying watcher dies.
func Watch(ctx context.Context, dirs []string, debounce time.Duration, action func() error, log *zerolog.Logger) error {
	if debounce <= 0 {
		debounce = DEFAULT_DEBOUNCE
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	for _, d := range dirs {
		if err := w.Add(d); err != nil {
			return err
		}
	}
	log.Info().Int("dirs", len(dirs)).Msg("watching for changes")

	// fires immediately for the initial run, then re-armed by events
	trigger := time.NewTimer(0)
	defer trigger.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("watch shutting down...")
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Op == fsnotify.Chmod || !relevant(ev.Name) {
				continue
			}
			log.Debug().Str("file", ev.Name).Str("op", ev.Op.String()).Msg("change detected")
			trigger.Reset(debounce)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Warn().Err(err).Msg("watcher error")
		case <-trigger.C:
			if err := action(); err != nil {
				log.Warn().Err(err).Msg("action failed; still watching")
			}
		}
	}
}
