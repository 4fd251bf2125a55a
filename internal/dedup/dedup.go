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

// Package dedup provides message deduplication using a Redis SET with
// TTL. This keeps a rescan of an archive directory (internal/watch picks
// up the same mbox/OLM file again because its mtime moved, or two
// archives contain an overlapping mail export) from re-emitting the
// same message's detection events twice.
package dedup

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// DefaultTTL is how long we remember a seen message digest.
	DefaultTTL = 24 * time.Hour

	// keyPrefix namespaces dedup keys in Redis.
	keyPrefix = "archiveparser:seen:"
)

// Filter tracks which message digests have already been processed.
type Filter struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewFilter creates a dedup filter backed by Redis, using ttl if
// positive or DefaultTTL otherwise.
func NewFilter(rdb *redis.Client, ttl time.Duration) *Filter {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Filter{rdb: rdb, ttl: ttl}
}

// Digest derives a stable dedup key for an email from its Message-ID
// when present, falling back to a hash of sender+date+subject for
// messages whose Message-ID header was missing or malformed.
func Digest(messageID, sender, subject string, dateUnix int64) string {
	if messageID != "" {
		return messageID
	}
	h := sha256.New()
	fmt.Fprintf(h, "%s|%s|%d", sender, subject, dateUnix)
	return hex.EncodeToString(h.Sum(nil))
}

// IsNew returns true if the digest has NOT been seen before. If true,
// the digest is marked as seen atomically (SETNX).
func (f *Filter) IsNew(ctx context.Context, digest string) (bool, error) {
	key := keyPrefix + digest

	set, err := f.rdb.SetNX(ctx, key, 1, f.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("dedup SETNX: %w", err)
	}

	return set, nil
}
