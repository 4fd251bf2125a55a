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

// Package batch provides one-shot historical ingestion: discover every
// archive under a root directory, parse each, persist results to the
// warehouse, and publish a detection event per archive.
package batch

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Technical-1/email-archive-parser/internal/dedup"
	"github.com/Technical-1/email-archive-parser/internal/discover"
	"github.com/Technical-1/email-archive-parser/internal/model"
	"github.com/Technical-1/email-archive-parser/internal/notify"
	"github.com/Technical-1/email-archive-parser/internal/parser"
	"github.com/Technical-1/email-archive-parser/internal/warehouse"
)

// Request defines the scope of a batch ingestion run.
type Request struct {
	IncludeGlobs []string
	ExcludeGlobs []string
	ParseOptions model.ParseOptions
}

// Result summarises a completed batch run.
type Result struct {
	ArchiveResults []ArchiveResult
	TotalEmails    int
	TotalSkipped   int
	Elapsed        time.Duration
}

// ArchiveResult tracks per-archive batch progress.
type ArchiveResult struct {
	Path    string
	RunID   string
	Emails  int
	Skipped bool
	Err     error
}

// Runner performs historical archive ingestion.
type Runner struct {
	discovery *discover.Discovery
	store     *warehouse.Store
	publisher *notify.Publisher
	dedup     *dedup.Filter
}

// RunnerConfig holds dependencies for the batch runner.
type RunnerConfig struct {
	Discovery *discover.Discovery
	Store     *warehouse.Store
	Publisher *notify.Publisher
	Dedup     *dedup.Filter
}

// NewRunner creates a batch runner.
func NewRunner(cfg RunnerConfig) *Runner {
	return &Runner{
		discovery: cfg.Discovery,
		store:     cfg.Store,
		publisher: cfg.Publisher,
		dedup:     cfg.Dedup,
	}
}

// Run discovers and processes every matching archive under the
// configured root.
func (r *Runner) Run(ctx context.Context, req Request) (*Result, error) {
	start := time.Now()

	files, err := r.discovery.DiscoverArchives(req.IncludeGlobs, req.ExcludeGlobs)
	if err != nil {
		return nil, fmt.Errorf("discover archives: %w", err)
	}

	slog.Info("starting batch ingestion", "archives", len(files))

	result := &Result{}

	for _, f := range files {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		ar := r.processArchive(ctx, f, req.ParseOptions)
		result.ArchiveResults = append(result.ArchiveResults, ar)
		if ar.Skipped {
			result.TotalSkipped++
			continue
		}
		result.TotalEmails += ar.Emails
	}

	result.Elapsed = time.Since(start)

	slog.Info("batch ingestion complete",
		"total_emails", result.TotalEmails,
		"total_skipped", result.TotalSkipped,
		"elapsed", result.Elapsed,
	)

	return result, nil
}

// processArchive parses a single archive, persists its results, and
// publishes a detection event, skipping archives whose path was already
// processed within the dedup TTL (the dedup key is the archive path).
func (r *Runner) processArchive(ctx context.Context, f discover.ArchiveFile, opts model.ParseOptions) ArchiveResult {
	if r.dedup != nil {
		digest := dedup.Digest(f.Path, "", "", f.ModTime)
		isNew, err := r.dedup.IsNew(ctx, "batch:"+digest)
		if err != nil {
			slog.Warn("dedup check failed", "path", f.Path, "error", err)
		} else if !isNew {
			return ArchiveResult{Path: f.Path, Skipped: true}
		}
	}

	slog.Info("parsing archive", "path", f.Path)

	result := parser.ParseFile(f.Path, opts)

	if r.store != nil {
		if err := r.store.StartRun(ctx, result.RunID, f.Path); err != nil {
			slog.Error("failed to start run record", "path", f.Path, "error", err)
		}
		if err := r.store.CompleteRun(ctx, result, f.Path); err != nil {
			slog.Error("failed to persist run results", "path", f.Path, "error", err)
		}
	}

	if result.Err != nil {
		slog.Error("archive parse failed", "path", f.Path, "error", result.Err)
		return ArchiveResult{Path: f.Path, RunID: result.RunID, Err: result.Err}
	}

	if r.publisher != nil {
		if err := r.publisher.PublishResult(ctx, f.Path, result); err != nil {
			slog.Warn("failed to publish detection event", "path", f.Path, "error", err)
		}
	}

	return ArchiveResult{Path: f.Path, RunID: result.RunID, Emails: result.Stats.EmailCount}
}
