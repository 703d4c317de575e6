package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/barysiuk/skillsync/internal/core"
	"github.com/barysiuk/skillsync/internal/logging"
)

const defaultDebounce = 500 * time.Millisecond

// runWatch syncs once, then again after every burst of filesystem changes
// under the sources and tool roots. It returns when the context is done.
func runWatch(cmd *cobra.Command, opts core.SyncOptions) error {
	ctx := cmd.Context()
	logger := logging.From(ctx)
	delay, _ := cmd.Flags().GetDuration("debounce")

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating file watcher: %w", err)
	}
	defer watcher.Close()

	// Skill directories created by a pass need watching too.
	rewatch := func() {
		if err := addWatches(cmd, watcher); err != nil {
			logger.Warn("updating watches", "error", err)
		}
	}

	// A failing first pass (no sources, unreadable config) ends the watch.
	if err := runSync(cmd, opts, true); err != nil {
		return err
	}
	rewatch()
	fmt.Fprintln(os.Stdout, "Watching for changes. Press Ctrl+C to stop.")

	events := make(chan string)
	triggers := make(chan struct{}, 1)
	go debounceEvents(ctx, events, triggers, delay)

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if ignoreEvent(event) {
				continue
			}
			logger.Debug("change detected", "path", event.Name, "op", event.Op.String())
			select {
			case events <- event.Name:
			case <-ctx.Done():
				return nil
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("file watcher error", "error", err)

		case <-triggers:
			fmt.Fprintf(os.Stdout, "\n[%s] change detected, syncing\n", time.Now().Format(time.Kitchen))
			if err := runSync(cmd, opts, true); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			}
			rewatch()
		}
	}
}

// addWatches watches every source and tool root and the skill directories
// directly below them. fsnotify does not recurse.
func addWatches(cmd *cobra.Command, watcher *fsnotify.Watcher) error {
	d, err := newDeps(cmd)
	if err != nil {
		return err
	}
	snap, err := d.snapshot(cmd)
	if err != nil {
		return err
	}

	roots := append([]string{}, snap.Sources...)
	for _, t := range snap.Tools {
		roots = append(roots, t.Root)
	}
	for _, root := range roots {
		for _, dir := range watchDirs(root) {
			if err := watcher.Add(dir); err != nil {
				d.logger.Debug("cannot watch directory", "path", dir, "error", err)
			}
		}
	}
	return nil
}

// watchDirs returns root and its visible subdirectories. A missing root
// yields nothing.
func watchDirs(root string) []string {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil
	}
	dirs := []string{root}
	for _, e := range entries {
		if e.IsDir() && !strings.HasPrefix(e.Name(), ".") {
			dirs = append(dirs, filepath.Join(root, e.Name()))
		}
	}
	return dirs
}

// ignoreEvent drops permission changes and the temp files used for
// atomic writes.
func ignoreEvent(event fsnotify.Event) bool {
	if event.Op == fsnotify.Chmod {
		return true
	}
	return strings.HasPrefix(filepath.Base(event.Name), ".")
}

// debounceEvents sends one trigger after input has been quiet for delay.
// A trigger that has not been consumed yet absorbs further ones.
func debounceEvents(ctx context.Context, input <-chan string, output chan<- struct{}, delay time.Duration) {
	timer := time.NewTimer(delay)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-input:
			if !ok {
				return
			}
			timer.Reset(delay)
		case <-timer.C:
			select {
			case output <- struct{}{}:
			default:
			}
		}
	}
}
