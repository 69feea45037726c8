package vaults

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ChangeCallback is called after a watcher-driven refresh.
type ChangeCallback func(total, eligible int)

// Watch refreshes the registry whenever obsidian.json changes, until ctx is
// cancelled. The parent directory is watched because Obsidian replaces the
// file on save. Bursts of events are debounced into one refresh.
func (r *Registry) Watch(ctx context.Context, cb ChangeCallback) error {
	if r.configPath == "" {
		<-ctx.Done()
		return nil
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	dir := filepath.Dir(r.configPath)
	if err := w.Add(dir); err != nil {
		// No Obsidian install yet; nothing to watch.
		r.logger.Warn("vaults: watch failed", slog.String("dir", dir), slog.String("error", err.Error()))
		<-ctx.Done()
		return nil
	}

	r.logger.Info("vaults: watcher started", slog.String("config", r.configPath))

	var refreshTimer *time.Timer
	var refreshCh <-chan time.Time

	scheduleRefresh := func() {
		if refreshTimer == nil {
			refreshTimer = time.NewTimer(200 * time.Millisecond)
			refreshCh = refreshTimer.C
		} else {
			refreshTimer.Reset(200 * time.Millisecond)
		}
	}

	target := filepath.Clean(r.configPath)
	for {
		select {
		case <-ctx.Done():
			if refreshTimer != nil {
				refreshTimer.Stop()
			}
			r.logger.Info("vaults: watcher stopped")
			return nil

		case <-refreshCh:
			if err := r.Refresh(); err != nil {
				r.logger.Warn("vaults: refresh failed", slog.String("error", err.Error()))
				continue
			}
			if cb != nil {
				all := r.All()
				cb(len(all), len(Eligible(all)))
			}

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename|fsnotify.Remove) != 0 {
				scheduleRefresh()
			}

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			r.logger.Error("vaults: watcher error", slog.String("error", watchErr.Error()))
		}
	}
}
