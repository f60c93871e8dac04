package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"cxxfront/internal/driver"
)

// watchDebounce collects bursts of writes (front-ends usually write a pack
// in several chunks) into one re-lowering.
const watchDebounce = 150 * time.Millisecond

// watchAndLower lowers every input once and then again whenever one of them
// is written or replaced, until interrupted. Directories are watched rather
// than files so atomic replacement by rename is seen.
func watchAndLower(ctx context.Context, cmd *cobra.Command, loader *driver.Loader, paths []string, run func(context.Context, []string) error) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	defer w.Close()

	watched := make(map[string]string, len(paths))
	dirs := make(map[string]bool)
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return err
		}
		watched[abs] = p
		dir := filepath.Dir(abs)
		if dirs[dir] {
			continue
		}
		if err := w.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
		dirs[dir] = true
	}

	report := func(err error) {
		var ee *exitError
		if err != nil && !errors.As(err, &ee) {
			fmt.Fprintf(cmd.ErrOrStderr(), "error: %v\n", err)
		}
	}
	report(run(ctx, paths))
	fmt.Fprintf(cmd.ErrOrStderr(), "watching %d file(s), press Ctrl+C to stop\n", len(paths))

	pending := make(map[string]bool)
	timer := time.NewTimer(watchDebounce)
	timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			abs, err := filepath.Abs(ev.Name)
			if err != nil {
				continue
			}
			orig, ok := watched[abs]
			if !ok {
				continue
			}
			pending[orig] = true
			timer.Reset(watchDebounce)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "watch: %v\n", err)
		case <-timer.C:
			batch := make([]string, 0, len(pending))
			for _, p := range paths {
				if pending[p] {
					batch = append(batch, p)
					loader.Forget(p)
				}
			}
			clear(pending)
			if len(batch) > 0 {
				report(run(ctx, batch))
			}
		}
	}
}
