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

// Package notify publishes detection events to Redis so downstream
// consumers (a dashboard, an alerting worker) can react to a completed
// archive parse without polling the warehouse.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/Technical-1/email-archive-parser/internal/model"
)

// Publisher sends detection events to Redis via LPUSH.
type Publisher struct {
	rdb      *redis.Client
	listName string
}

// NewPublisher creates a publisher targeting the given Redis list.
func NewPublisher(rdb *redis.Client, listName string) *Publisher {
	return &Publisher{rdb: rdb, listName: listName}
}

// Event is the JSON envelope pushed to Redis for a completed run.
type Event struct {
	EventID       string                    `json:"event_id"`
	RunID         string                    `json:"run_id"`
	SourcePath    string                    `json:"source_path"`
	EmailCount    int                       `json:"email_count"`
	Accounts      []model.AccountRecord     `json:"accounts,omitempty"`
	Purchases     []model.PurchaseRecord    `json:"purchases,omitempty"`
	Subscriptions []model.SubscriptionRecord `json:"subscriptions,omitempty"`
	Newsletters   []model.NewsletterRecord `json:"newsletters,omitempty"`
}

// PublishResult serialises a completed parse result and pushes it onto
// the configured Redis list.
func (p *Publisher) PublishResult(ctx context.Context, sourcePath string, result model.ParseResult) error {
	event := Event{
		EventID:       uuid.New().String(),
		RunID:         result.RunID,
		SourcePath:    sourcePath,
		EmailCount:    result.Stats.EmailCount,
		Accounts:      result.Accounts,
		Purchases:     result.Purchases,
		Subscriptions: result.Subscriptions,
		Newsletters:   result.Newsletters,
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal detection event: %w", err)
	}

	if err := p.rdb.LPush(ctx, p.listName, string(payload)).Err(); err != nil {
		return fmt.Errorf("redis LPUSH: %w", err)
	}

	slog.Info("published detection event",
		"event_id", event.EventID,
		"run_id", event.RunID,
		"source", sourcePath,
		"list", p.listName,
	)

	return nil
}

// Ping checks the Redis connection.
func (p *Publisher) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return p.rdb.Ping(ctx).Err()
}
