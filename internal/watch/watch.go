// Copyright (c) 2026 John Earle
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package watch runs a background loop that periodically re-scans the
// archive directory for new or modified mbox/OLM files and dispatches
// them for parsing. It is the gap-recovery safety net that catches
// archives dropped onto disk between explicit archivebatch runs.
package watch

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/Technical-1/email-archive-parser/internal/discover"
)

// ArchiveCallback is invoked for each archive file that is new or has
// changed (by mtime) since the last scan.
type ArchiveCallback func(ctx context.Context, file discover.ArchiveFile) error

// StateStore is the interface the watcher needs to persist last-seen
// mtimes across restarts. Implemented by warehouse.Store.
type StateStore interface {
	SaveWatchState(ctx context.Context, path string, modTime int64) error
	LoadWatchState(ctx context.Context) (map[string]int64, error)
}

// Watcher polls a discover.Discovery at a fixed interval and dispatches
// changed archives to a callback.
type Watcher struct {
	discovery    *discover.Discovery
	includeGlobs []string
	excludeGlobs []string
	interval     time.Duration
	onArchive    ArchiveCallback
	store        StateStore

	mu       sync.RWMutex
	lastSeen map[string]int64 // path -> modTime

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// Config holds the configuration for the watcher.
type Config struct {
	Discovery    *discover.Discovery
	IncludeGlobs []string
	ExcludeGlobs []string
	Interval     time.Duration
	Store        StateStore
	OnArchive    ArchiveCallback
}

// New creates a watcher from cfg.
func New(cfg Config) *Watcher {
	return &Watcher{
		discovery:    cfg.Discovery,
		includeGlobs: cfg.IncludeGlobs,
		excludeGlobs: cfg.ExcludeGlobs,
		interval:     cfg.Interval,
		onArchive:    cfg.OnArchive,
		store:        cfg.Store,
		lastSeen:     make(map[string]int64),
	}
}

// LoadState seeds the watcher's in-memory lastSeen cache from the
// configured StateStore (call before Run, on startup).
func (w *Watcher) LoadState(ctx context.Context) error {
	if w.store == nil {
		return nil
	}
	state, err := w.store.LoadWatchState(ctx)
	if err != nil {
		return err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	for path, modTime := range state {
		w.lastSeen[path] = modTime
	}
	return nil
}

// Run starts the polling loop. It blocks until the context is cancelled.
func (w *Watcher) Run(ctx context.Context) {
	slog.Info("archive watcher starting", "interval", w.interval)

	w.scan(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("archive watcher stopping")
			return
		case <-ticker.C:
			w.scan(ctx)
		}
	}
}

// scan discovers archives and dispatches the new/changed ones.
func (w *Watcher) scan(ctx context.Context) {
	files, err := w.discovery.DiscoverArchives(w.includeGlobs, w.excludeGlobs)
	if err != nil {
		slog.Error("archive scan failed", "error", err)
		return
	}

	changed := 0
	for _, f := range files {
		w.mu.RLock()
		prev, seen := w.lastSeen[f.Path]
		w.mu.RUnlock()

		if seen && prev >= f.ModTime {
			continue
		}

		if err := w.onArchive(ctx, f); err != nil {
			slog.Error("archive processing failed", "path", f.Path, "error", err)
			continue
		}

		w.mu.Lock()
		w.lastSeen[f.Path] = f.ModTime
		w.mu.Unlock()

		if w.store != nil {
			if err := w.store.SaveWatchState(ctx, f.Path, f.ModTime); err != nil {
				slog.Error("failed to persist watch state", "path", f.Path, "error", err)
			}
		}

		changed++
	}

	if changed > 0 {
		slog.Info("archive scan complete", "changed", changed, "total", len(files))
	} else {
		slog.Debug("archive scan complete, no changes")
	}
}

// StartBackground runs the watcher on its own goroutine, returning
// immediately; call Stop to shut it down.
func (w *Watcher) StartBackground(ctx context.Context) {
	loopCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel
	w.wg.Add(1)

	go func() {
		defer w.wg.Done()
		w.Run(loopCtx)
	}()
}

// Stop shuts down a watcher started with StartBackground.
func (w *Watcher) Stop() {
	if w.cancel != nil {
		w.cancel()
	}
	w.wg.Wait()
}
