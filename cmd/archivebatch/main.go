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

// Archive Batch — Historical Ingestion Command
//
// Standalone CLI tool that walks an archive directory and parses every
// mbox/OLM file it finds in one pass. Intended for seeding the warehouse
// on a new deployment, or for one-off re-processing of an export.
//
// Usage:
//
//	go run ./cmd/archivebatch/ --dir /data/exports [--include '*.mbox'] [--skip-seen=false]
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/Technical-1/email-archive-parser/internal/batch"
	"github.com/Technical-1/email-archive-parser/internal/config"
	"github.com/Technical-1/email-archive-parser/internal/dedup"
	"github.com/Technical-1/email-archive-parser/internal/discover"
	"github.com/Technical-1/email-archive-parser/internal/model"
	"github.com/Technical-1/email-archive-parser/internal/notify"
	"github.com/Technical-1/email-archive-parser/internal/warehouse"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	dirFlag := flag.String("dir", "", "Archive root directory (defaults to config.yaml archive.dir)")
	includeFlag := flag.String("include", "", "Comma-separated include globs (optional; empty = all .mbox/.olm files)")
	excludeFlag := flag.String("exclude", "", "Comma-separated exclude globs (optional)")
	skipSeenFlag := flag.Bool("skip-seen", true, "Skip archives whose path was already processed within the dedup TTL")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	dir := *dirFlag
	if dir == "" {
		dir = cfg.ArchiveDir
	}
	if dir == "" {
		fmt.Fprintf(os.Stderr, "Error: --dir is required (or set archive.dir in config.yaml)\n\n")
		flag.Usage()
		os.Exit(1)
	}

	includeGlobs := splitCSV(*includeFlag)
	excludeGlobs := splitCSV(*excludeFlag)

	slog.Info("starting archive batch ingestion", "dir", dir)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pgPool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to create Postgres pool", "error", err)
		os.Exit(1)
	}
	defer pgPool.Close()

	store, err := warehouse.NewStore(ctx, pgPool)
	if err != nil {
		slog.Error("failed to initialise warehouse store", "error", err)
		os.Exit(1)
	}

	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		slog.Error("invalid REDIS_URL", "error", err)
		os.Exit(1)
	}
	rdb := redis.NewClient(opt)
	defer rdb.Close()

	publisher := notify.NewPublisher(rdb, cfg.NotifyList)
	if err := publisher.Ping(ctx); err != nil {
		slog.Error("failed to connect to Redis", "error", err)
		os.Exit(1)
	}
	slog.Info("connected to Redis")

	var filter *dedup.Filter
	if *skipSeenFlag {
		filter = dedup.NewFilter(rdb, cfg.DedupTTL)
	}

	runner := batch.NewRunner(batch.RunnerConfig{
		Discovery: discover.NewDiscovery(dir),
		Store:     store,
		Publisher: publisher,
		Dedup:     filter,
	})

	result, err := runner.Run(ctx, batch.Request{
		IncludeGlobs: includeGlobs,
		ExcludeGlobs: excludeGlobs,
		ParseOptions: model.ParseOptions{
			DetectAccounts:      cfg.DetectAccounts,
			DetectPurchases:     cfg.DetectPurchases,
			DetectSubscriptions: cfg.DetectSubscriptions,
			DetectNewsletters:   cfg.DetectNewsletters,
		},
	})
	if err != nil {
		slog.Error("batch ingestion failed", "error", err)
		os.Exit(1)
	}

	slog.Info("batch ingestion complete",
		"total_emails", result.TotalEmails,
		"total_skipped", result.TotalSkipped,
		"elapsed", result.Elapsed,
	)

	for _, ar := range result.ArchiveResults {
		if ar.Err != nil {
			slog.Error("archive failed", "path", ar.Path, "error", ar.Err)
			continue
		}
		slog.Info("archive result",
			"path", ar.Path,
			"run_id", ar.RunID,
			"emails", ar.Emails,
			"skipped", ar.Skipped,
		)
	}
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
