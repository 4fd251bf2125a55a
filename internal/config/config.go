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

// Package config loads configuration from config.yaml and environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the archive ingestion tools
// (cmd/archiveparser, cmd/archivebatch).
type Config struct {
	// Discovery / watch
	ArchiveDir   string
	IncludeGlobs []string
	ExcludeGlobs []string
	PollInterval time.Duration

	// Detection toggles
	DetectAccounts      bool
	DetectPurchases     bool
	DetectSubscriptions bool
	DetectNewsletters   bool

	// Postgres warehouse
	DatabaseURL string

	// Redis
	RedisURL   string
	DedupTTL   time.Duration
	NotifyList string

	// Server (health check + summary API)
	Port int
}

// rawConfig mirrors the YAML structure for unmarshalling.
type rawConfig struct {
	Archive struct {
		Dir     string   `yaml:"dir"`
		Include []string `yaml:"include"`
		Exclude []string `yaml:"exclude"`
	} `yaml:"archive"`
	Detect struct {
		Accounts      bool `yaml:"accounts"`
		Purchases     bool `yaml:"purchases"`
		Subscriptions bool `yaml:"subscriptions"`
		Newsletters   bool `yaml:"newsletters"`
	} `yaml:"detect"`
	Database struct {
		URL string `yaml:"url"`
	} `yaml:"database"`
	Redis struct {
		URL        string `yaml:"url"`
		NotifyList string `yaml:"notify_list"`
	} `yaml:"redis"`
}

// Load reads configuration from config.yaml (with env var expansion) and
// environment variables for non-YAML settings.
func Load() (*Config, error) {
	configPath := envOrDefault("CONFIG_PATH", "/app/config/config.yaml")

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("read config file %s: %w", configPath, err)
	}

	// Expand ${VAR} references in the YAML
	expanded := os.ExpandEnv(string(data))

	var raw rawConfig
	if err := yaml.Unmarshal([]byte(expanded), &raw); err != nil {
		return nil, fmt.Errorf("parse config YAML: %w", err)
	}

	cfg := &Config{
		ArchiveDir:          firstNonEmpty(raw.Archive.Dir, envOrDefault("ARCHIVE_DIR", "")),
		IncludeGlobs:        raw.Archive.Include,
		ExcludeGlobs:        raw.Archive.Exclude,
		PollInterval:        envOrDefaultDuration("POLL_INTERVAL", 60*time.Second),
		DetectAccounts:      raw.Detect.Accounts,
		DetectPurchases:     raw.Detect.Purchases,
		DetectSubscriptions: raw.Detect.Subscriptions,
		DetectNewsletters:   raw.Detect.Newsletters,
		DatabaseURL:         firstNonEmpty(raw.Database.URL, envOrDefault("DATABASE_URL", "")),
		RedisURL:            firstNonEmpty(raw.Redis.URL, envOrDefault("REDIS_URL", "redis://localhost:6379/0")),
		DedupTTL:            envOrDefaultDuration("DEDUP_TTL", 24*time.Hour),
		NotifyList:          firstNonEmpty(raw.Redis.NotifyList, envOrDefault("NOTIFY_LIST", "archive-detections")),
		Port:                envOrDefaultInt("PORT", 8080),
	}

	if cfg.ArchiveDir == "" {
		return nil, fmt.Errorf("no archive directory configured — check config.yaml archive.dir or ARCHIVE_DIR")
	}

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envOrDefaultInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envOrDefaultDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
