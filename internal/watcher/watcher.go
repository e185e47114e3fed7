package watcher

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/nguyentantai21042004/atci/internal/media"
)

// Start begins monitoring the watch roots
func (w *implWatcher) Start(ctx context.Context) error {
	for _, root := range w.opts.Roots {
		w.addTree(ctx, root)
	}

	w.logger.Info(ctx, "Directory watcher started (every %s, quiet period %s). Monitoring: %v",
		w.opts.Interval, w.opts.QuietPeriod, w.opts.Roots)
	w.logger.Info(ctx, "Supported formats: %v", media.Extensions())

	ticker := time.NewTicker(w.opts.Interval)
	defer ticker.Stop()

	// settle fires once a burst of events has gone quiet.
	settle := time.NewTimer(settleDelay)
	defer settle.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info(ctx, "Directory watcher stopped")
			return nil

		case <-ticker.C:
			w.scan(ctx)

		case <-settle.C:
			w.scan(ctx)

		case event, ok := <-w.watcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 {
				continue
			}
			if event.Op&fsnotify.Create == fsnotify.Create {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					w.addTree(ctx, event.Name)
				}
			}
			if media.IsVideo(event.Name) {
				w.logger.Debug(ctx, "Filesystem event for %s", event.Name)
				settle.Reset(settleDelay)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			w.logger.Warn(ctx, "Watcher error: %v", err)
		}
	}
}

// Stop closes the file watcher
func (w *implWatcher) Stop() error {
	return w.watcher.Close()
}

func (w *implWatcher) scan(ctx context.Context) {
	n, err := w.ScanOnce(ctx)
	if err != nil {
		w.logger.Warn(ctx, "Scan failed: %v", err)
		return
	}
	if n > 0 {
		w.logger.Info(ctx, "Enqueued %d new video(s)", n)
	}
}

// ScanOnce walks every root once. Per-entry problems are skipped; only a
// queue failure is returned.
func (w *implWatcher) ScanOnce(ctx context.Context) (int, error) {
	blocked, err := w.queue.Blocked()
	if err != nil {
		return 0, fmt.Errorf("read blocklist: %w", err)
	}

	enqueued := 0
	now := w.now()
	for _, root := range w.opts.Roots {
		if ctx.Err() != nil {
			return enqueued, nil
		}

		videos, err := media.Scan(root)
		if err != nil {
			w.logger.Debug(ctx, "Skipping watch root %s: %v", root, err)
			continue
		}

		for _, path := range videos {
			if blocked[path] {
				continue
			}
			info, err := os.Stat(path)
			if err != nil {
				w.logger.Debug(ctx, "Skipping %s: %v", path, err)
				continue
			}
			if now.Sub(info.ModTime()) < w.opts.QuietPeriod {
				continue
			}
			if media.HasTranscript(path) {
				continue
			}

			added, err := w.queue.Append(path)
			if err != nil {
				return enqueued, fmt.Errorf("enqueue %s: %w", path, err)
			}
			if added {
				w.logger.Info(ctx, "New video detected: %s", path)
				enqueued++
			}
		}
	}
	return enqueued, nil
}

// addTree registers root and every directory below it with fsnotify.
func (w *implWatcher) addTree(ctx context.Context, root string) {
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if err := w.watcher.Add(path); err != nil {
			w.logger.Debug(ctx, "Cannot watch %s: %v", path, err)
		}
		return nil
	})
}
