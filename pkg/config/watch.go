package config

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watch reloads the global configuration whenever the config file is written,
// created or renamed into place. onReload, if non-nil, is called after every
// attempt with the resulting config (unchanged on error) and the reload error.
// Watch blocks until ctx is done.
//
// The containing directory is watched rather than the file itself so that
// editors and config management tools that replace the file are picked up.
func Watch(ctx context.Context, onReload func(*Config, error)) error {
	path := Path()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	dir := filepath.Dir(path)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != filepath.Clean(path) {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			err := Reload()
			if onReload != nil {
				onReload(Get(), err)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			if onReload != nil {
				onReload(Get(), fmt.Errorf("watcher error: %w", err))
			}
		case <-ctx.Done():
			return nil
		}
	}
}
