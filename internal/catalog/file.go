package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"hopefund/internal/campaign"
	"hopefund/internal/debounce"
)

// ReloadDelay is how long the file must be quiet before it is re-read.
const ReloadDelay = 300 * time.Millisecond

// FileSource serves campaigns from a YAML file and reloads it on change.
// A file that fails to parse keeps the previous catalog in place.
type FileSource struct {
	path  string
	delay time.Duration
	now   func() time.Time
	log   *slog.Logger

	mu        sync.RWMutex
	campaigns []campaign.Campaign
	loadedAt  time.Time
}

// FileOption configures a FileSource.
type FileOption func(*FileSource)

// WithDelay sets a simulated load delay.
func WithDelay(d time.Duration) FileOption {
	return func(f *FileSource) { f.delay = d }
}

// WithNow overrides the clock used to resolve relative dates.
func WithNow(now func() time.Time) FileOption {
	return func(f *FileSource) { f.now = now }
}

// OpenFile reads path once and returns the source.
func OpenFile(path string, log *slog.Logger, opts ...FileOption) (*FileSource, error) {
	f := &FileSource{path: path, now: time.Now, log: log}
	for _, opt := range opts {
		opt(f)
	}
	if err := f.Reload(); err != nil {
		return nil, err
	}
	return f, nil
}

// Reload re-reads the file.
func (f *FileSource) Reload() error {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return fmt.Errorf("read catalog %s: %w", f.path, err)
	}
	now := f.now()
	campaigns, err := Parse(data, now)
	if err != nil {
		return fmt.Errorf("parse catalog %s: %w", f.path, err)
	}

	f.mu.Lock()
	f.campaigns = campaigns
	f.loadedAt = now
	f.mu.Unlock()
	return nil
}

// Campaigns returns a copy of the current catalog.
func (f *FileSource) Campaigns(ctx context.Context) ([]campaign.Campaign, error) {
	if err := wait(ctx, f.delay); err != nil {
		return nil, err
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	return slices.Clone(f.campaigns), nil
}

// LoadedAt is when the catalog currently served was read.
func (f *FileSource) LoadedAt() time.Time {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.loadedAt
}

// Watch reloads the file after bursts of writes until ctx is done. The directory is
// watched rather than the file so editors that replace the file are picked up.
func (f *FileSource) Watch(ctx context.Context, clock debounce.Clock) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer w.Close()

	if err := w.Add(filepath.Dir(f.path)); err != nil {
		return fmt.Errorf("watch %s: %w", f.path, err)
	}

	reload := debounce.New(clock, ReloadDelay, func(fsnotify.Op) {
		if err := f.Reload(); err != nil {
			f.log.Warn("catalog reload failed, keeping previous catalog", "path", f.path, "error", err)
			return
		}
		f.log.Info("catalog reloaded", "path", f.path)
	})
	defer reload.Stop()

	target := filepath.Clean(f.path)
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename) {
				reload.Trigger(ev.Op)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			f.log.Warn("catalog watcher error", "error", err)
		}
	}
}
