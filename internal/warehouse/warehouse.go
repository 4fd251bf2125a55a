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

// Package warehouse provides a Postgres-backed store for parsed archive
// runs, the account/purchase/subscription/newsletter records they
// produced, and the watch package's per-file scan state.
package warehouse

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Technical-1/email-archive-parser/internal/model"
)

// RunRecord represents a single archive parse run persisted in Postgres.
type RunRecord struct {
	ID             int64
	RunID          string
	SourcePath     string
	EmailCount     int
	DroppedRecords int
	StartedAt      time.Time
	CompletedAt    *time.Time
	Status         string // "running", "completed", "failed"
	ErrorMessage   string
}

// Store provides persistence for parse runs, detection records, and
// watch state.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore creates a warehouse store backed by the given Postgres pool.
// It ensures the schema exists on creation.
func NewStore(ctx context.Context, pool *pgxpool.Pool) (*Store, error) {
	s := &Store{pool: pool}
	if err := s.ensureSchema(ctx); err != nil {
		return nil, fmt.Errorf("ensure warehouse schema: %w", err)
	}
	slog.Info("warehouse store initialised")
	return s, nil
}

func (s *Store) ensureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS parse_runs (
			id              BIGSERIAL PRIMARY KEY,
			run_id          TEXT NOT NULL UNIQUE,
			source_path     TEXT NOT NULL,
			email_count     INT DEFAULT 0,
			dropped_records INT DEFAULT 0,
			started_at      TIMESTAMPTZ DEFAULT NOW(),
			completed_at    TIMESTAMPTZ,
			status          TEXT DEFAULT 'running',
			error_message   TEXT DEFAULT ''
		);
		CREATE INDEX IF NOT EXISTS idx_runs_source ON parse_runs(source_path);
		CREATE INDEX IF NOT EXISTS idx_runs_status ON parse_runs(status);

		CREATE TABLE IF NOT EXISTS detection_records (
			id          BIGSERIAL PRIMARY KEY,
			run_id      TEXT NOT NULL REFERENCES parse_runs(run_id) ON DELETE CASCADE,
			kind        TEXT NOT NULL, -- account, purchase, subscription, newsletter
			payload     JSONB NOT NULL,
			created_at  TIMESTAMPTZ DEFAULT NOW()
		);
		CREATE INDEX IF NOT EXISTS idx_detections_run ON detection_records(run_id);
		CREATE INDEX IF NOT EXISTS idx_detections_kind ON detection_records(kind);

		CREATE TABLE IF NOT EXISTS watch_state (
			path        TEXT PRIMARY KEY,
			mod_time    BIGINT NOT NULL,
			updated_at  TIMESTAMPTZ DEFAULT NOW()
		);
	`)
	return err
}

// StartRun inserts a new parse_runs row in "running" status.
func (s *Store) StartRun(ctx context.Context, runID, sourcePath string) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO parse_runs (run_id, source_path, status)
		VALUES ($1, $2, 'running')
		ON CONFLICT (run_id) DO NOTHING
	`, runID, sourcePath)
	return err
}

// CompleteRun marks a run completed (or failed, if result.Err is set)
// and persists its detection records.
func (s *Store) CompleteRun(ctx context.Context, result model.ParseResult, sourcePath string) error {
	status := "completed"
	errMsg := ""
	if result.Err != nil {
		status = "failed"
		errMsg = result.Err.Error()
	}

	_, err := s.pool.Exec(ctx, `
		UPDATE parse_runs
		SET email_count = $1, dropped_records = $2, completed_at = NOW(),
		    status = $3, error_message = $4
		WHERE run_id = $5
	`, result.Stats.EmailCount, result.Stats.DroppedRecords, status, errMsg, result.RunID)
	if err != nil {
		return fmt.Errorf("complete run: %w", err)
	}

	if result.Err != nil {
		return nil
	}

	if err := s.saveRecords(ctx, result.RunID, "account", result.Accounts); err != nil {
		return err
	}
	if err := s.saveRecords(ctx, result.RunID, "purchase", result.Purchases); err != nil {
		return err
	}
	if err := s.saveRecords(ctx, result.RunID, "subscription", result.Subscriptions); err != nil {
		return err
	}
	return s.saveRecords(ctx, result.RunID, "newsletter", result.Newsletters)
}

func (s *Store) saveRecords(ctx context.Context, runID, kind string, records any) error {
	payload, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("marshal %s records: %w", kind, err)
	}
	var items []json.RawMessage
	if err := json.Unmarshal(payload, &items); err != nil {
		return fmt.Errorf("split %s records: %w", kind, err)
	}
	for _, item := range items {
		if _, err := s.pool.Exec(ctx, `
			INSERT INTO detection_records (run_id, kind, payload)
			VALUES ($1, $2, $3)
		`, runID, kind, string(item)); err != nil {
			return fmt.Errorf("insert %s record: %w", kind, err)
		}
	}
	return nil
}

// ListRuns returns parse runs ordered most-recent-first, up to limit.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]RunRecord, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, run_id, source_path, email_count, dropped_records,
		       started_at, completed_at, status, error_message
		FROM parse_runs
		ORDER BY started_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []RunRecord
	for rows.Next() {
		var r RunRecord
		if err := rows.Scan(
			&r.ID, &r.RunID, &r.SourcePath, &r.EmailCount, &r.DroppedRecords,
			&r.StartedAt, &r.CompletedAt, &r.Status, &r.ErrorMessage,
		); err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// GetRun retrieves a single run by its run ID.
func (s *Store) GetRun(ctx context.Context, runID string) (*RunRecord, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, run_id, source_path, email_count, dropped_records,
		       started_at, completed_at, status, error_message
		FROM parse_runs
		WHERE run_id = $1
	`, runID)
	var r RunRecord
	err := row.Scan(
		&r.ID, &r.RunID, &r.SourcePath, &r.EmailCount, &r.DroppedRecords,
		&r.StartedAt, &r.CompletedAt, &r.Status, &r.ErrorMessage,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// SaveWatchState persists a single archive path's last-seen mod time.
// Implements watch.StateStore.
func (s *Store) SaveWatchState(ctx context.Context, path string, modTime int64) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO watch_state (path, mod_time, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (path) DO UPDATE SET mod_time = EXCLUDED.mod_time, updated_at = NOW()
	`, path, modTime)
	return err
}

// LoadWatchState returns every tracked path and its last-seen mod time.
// Implements watch.StateStore.
func (s *Store) LoadWatchState(ctx context.Context) (map[string]int64, error) {
	rows, err := s.pool.Query(ctx, `SELECT path, mod_time FROM watch_state`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	state := make(map[string]int64)
	for rows.Next() {
		var path string
		var modTime int64
		if err := rows.Scan(&path, &modTime); err != nil {
			return nil, err
		}
		state[path] = modTime
	}
	return state, rows.Err()
}
