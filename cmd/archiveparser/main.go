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

// Archive Parser — Ingestion Service
//
// Entry point for the long-running archive ingestion service. It:
//  1. Loads configuration from config.yaml
//  2. Connects to PostgreSQL and Redis
//  3. Watches the configured archive directory for new/changed mbox/OLM files
//  4. Parses and classifies each archive as it appears
//  5. Persists results to the warehouse and publishes detection events
//  6. Serves an HTTP API for on-demand uploads and health checks
//  7. Handles graceful shutdown on SIGTERM/SIGINT
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/Technical-1/email-archive-parser/internal/config"
	"github.com/Technical-1/email-archive-parser/internal/dedup"
	"github.com/Technical-1/email-archive-parser/internal/discover"
	"github.com/Technical-1/email-archive-parser/internal/httpapi"
	"github.com/Technical-1/email-archive-parser/internal/model"
	"github.com/Technical-1/email-archive-parser/internal/notify"
	"github.com/Technical-1/email-archive-parser/internal/parser"
	"github.com/Technical-1/email-archive-parser/internal/warehouse"
	"github.com/Technical-1/email-archive-parser/internal/watch"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	slog.Info("starting archive parser ingestion service")

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("configuration loaded",
		"archive_dir", cfg.ArchiveDir,
		"poll_interval", cfg.PollInterval,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pgPool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to create Postgres pool", "error", err)
		os.Exit(1)
	}
	defer pgPool.Close()

	if err := pgPool.Ping(ctx); err != nil {
		slog.Error("failed to connect to PostgreSQL", "error", err)
		os.Exit(1)
	}
	slog.Info("connected to PostgreSQL")

	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		slog.Error("invalid REDIS_URL", "error", err)
		os.Exit(1)
	}
	rdb := redis.NewClient(opt)

	publisher := notify.NewPublisher(rdb, cfg.NotifyList)
	if err := publisher.Ping(ctx); err != nil {
		slog.Error("failed to connect to Redis", "error", err)
		os.Exit(1)
	}
	slog.Info("connected to Redis")

	filter := dedup.NewFilter(rdb, cfg.DedupTTL)

	store, err := warehouse.NewStore(ctx, pgPool)
	if err != nil {
		slog.Error("failed to initialise warehouse store", "error", err)
		os.Exit(1)
	}

	disc := discover.NewDiscovery(cfg.ArchiveDir)

	parseOpts := model.ParseOptions{
		DetectAccounts:      cfg.DetectAccounts,
		DetectPurchases:     cfg.DetectPurchases,
		DetectSubscriptions: cfg.DetectSubscriptions,
		DetectNewsletters:   cfg.DetectNewsletters,
	}

	watcher := watch.New(watch.Config{
		Discovery:    disc,
		IncludeGlobs: cfg.IncludeGlobs,
		ExcludeGlobs: cfg.ExcludeGlobs,
		Interval:     cfg.PollInterval,
		Store:        store,
		OnArchive: func(ctx context.Context, f discover.ArchiveFile) error {
			digest := dedup.Digest(f.Path, "", "", f.ModTime)
			if isNew, err := filter.IsNew(ctx, "watch:"+digest); err != nil {
				slog.Warn("dedup check failed", "path", f.Path, "error", err)
			} else if !isNew {
				slog.Debug("skipping already-seen archive", "path", f.Path)
				return nil
			}

			slog.Info("parsing archive", "path", f.Path)
			result := parser.ParseFile(f.Path, parseOpts)

			if err := store.StartRun(ctx, result.RunID, f.Path); err != nil {
				slog.Error("failed to start run record", "path", f.Path, "error", err)
			}
			if err := store.CompleteRun(ctx, result, f.Path); err != nil {
				slog.Error("failed to persist run results", "path", f.Path, "error", err)
			}

			if result.Err != nil {
				return result.Err
			}

			return publisher.PublishResult(ctx, f.Path, result)
		},
	})

	if err := watcher.LoadState(ctx); err != nil {
		slog.Error("failed to load watch state", "error", err)
		os.Exit(1)
	}
	watcher.StartBackground(ctx)

	handler := httpapi.NewHandler(store, publisher, parseOpts)
	ready, err := httpapi.Serve(ctx, cfg.Port, handler)
	if err != nil {
		slog.Error("failed to start http api server", "error", err)
		os.Exit(1)
	}
	<-ready
	slog.Info("http api server ready")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)
	sig := <-sigCh

	slog.Info("received shutdown signal", "signal", sig)
	cancel()

	watcher.Stop()

	rdb.Close()
	pgPool.Close()

	slog.Info("archive parser ingestion service stopped")
}
