//go:build mage

// Tools for building and maintaining omn.
//
// The Watch target reproduces the watch-and-rebuild dev workflow: pick a
// package, pick an action, and the action reruns every time the source
// changes. `mage watch server run` keeps a live server rebuilt; `mage watch
// ./... check` is the check-only loop.
package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/magefile/mage/sh"
	"github.com/onelson/omn/internal/watch"
	"github.com/rs/zerolog"
)

// Builds every package in the module.
func Build() error {
	return sh.RunV("go", "build", "./...")
}

// Type-checks and vets every package without producing binaries.
func Check() error {
	if err := sh.RunV("go", "build", "./..."); err != nil {
		return err
	}
	return sh.RunV("go", "vet", "./...")
}

// Runs all tests.
// Tests are run with -race.
func Test() error {
	_, err := sh.Exec(nil, os.Stdout, os.Stderr, "go", "test", "./...", "-race", "-count=1")
	return err
}

// Reruns an action against a package whenever module source changes.
// pkg is a package path ("server", "./pkg/omn", "./..."); action is one of
// run, test, or check.
func Watch(pkg, action string) error {
	logger := zerolog.New(zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: "15:04:05",
	}).With().Timestamp().Logger()

	target := pkg
	if !strings.HasPrefix(target, "./") && target != "./..." {
		target = "./" + target
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// `run` has to restart the previous process rather than pile up instances.
	// Building a real binary (instead of `go run`) keeps build failures loud
	// and ensures the kill on restart hits the server itself, not a wrapper.
	runner := watch.NewRunner(&logger)
	defer runner.Stop()
	bin := filepath.Join(os.TempDir(), "omn-watch-run")

	act := func() error {
		switch action {
		case "run":
			if err := sh.RunV("go", "build", "-o", bin, target); err != nil {
				return err
			}
			return runner.Restart(ctx, bin)
		case "test":
			return sh.RunV("go", "test", target, "-race", "-count=1")
		case "check", "":
			if err := sh.RunV("go", "build", target); err != nil {
				return err
			}
			return sh.RunV("go", "vet", target)
		default:
			return sh.RunV("go", action, target)
		}
	}

	dirs, err := watch.Dirs(".")
	if err != nil {
		return err
	}
	return watch.Watch(ctx, dirs, watch.DEFAULT_DEBOUNCE, act, &logger)
}
