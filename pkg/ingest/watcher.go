package ingest

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watch ingests files dropped into dir until the context is cancelled.
// Files already present when the watch starts are enqueued first, then new
// files arrive through fsnotify create events (a move into the folder also
// surfaces as a create).
func Watch(ctx context.Context, dir string, pool *Pool, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating ingest watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watching ingest folder: %w", err)
	}

	// Catch files dropped before the watch registered.
	entries, err := filepath.Glob(filepath.Join(dir, "*_*"))
	if err != nil {
		return fmt.Errorf("scanning ingest folder: %w", err)
	}
	for _, path := range entries {
		pool.Enqueue(Job{Path: path})
	}

	logger.Info("watching ingest folder", zap.String("dir", dir))

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Create) {
				continue
			}
			if !strings.Contains(filepath.Base(event.Name), "_") {
				continue
			}
			pool.Enqueue(Job{Path: event.Name})
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("ingest watcher error", zap.Error(err))
		}
	}
}
