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

package parser

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Technical-1/email-archive-parser/internal/model"
)

const sampleMboxData = "From alice@example.com Mon Jan  2 15:04:05 2023\n" +
	"From: alice@example.com\n" +
	"Subject: Welcome to Netflix!\n" +
	"\n" +
	"Your account has been created. Click here to verify your email.\n"

const sampleMboxTwoSendersData = "From alice@example.com Mon Jan  2 15:04:05 2023\n" +
	"From: alice@example.com\n" +
	"Subject: Hello\n" +
	"\n" +
	"First message body.\n" +
	"From alice@example.com Tue Jan  3 09:00:00 2023\n" +
	"From: alice@example.com\n" +
	"Subject: Hello again\n" +
	"\n" +
	"Second message body.\n" +
	"From bob@example.com Wed Jan  4 09:00:00 2023\n" +
	"From: bob@example.com\n" +
	"Subject: Hi there\n" +
	"\n" +
	"Third message body.\n"

func boolPtr(b bool) *bool { return &b }

func TestParseBufferMBOXExtractsContactsByDefault(t *testing.T) {
	result := ParseBuffer([]byte(sampleMboxTwoSendersData), model.ParseOptions{})
	if result.Err != nil {
		t.Fatalf("unexpected error: %v", result.Err)
	}
	if len(result.Contacts) != 2 {
		t.Fatalf("got %d contacts, want 2", len(result.Contacts))
	}
	for _, c := range result.Contacts {
		if c.Email == "alice@example.com" && c.EmailCount != 2 {
			t.Errorf("alice email count = %d, want 2", c.EmailCount)
		}
	}
	if result.Stats.ContactCount != len(result.Contacts) {
		t.Errorf("stats contact count = %d, want %d", result.Stats.ContactCount, len(result.Contacts))
	}
}

func TestParseBufferMBOXExtractContactsCanBeDisabled(t *testing.T) {
	result := ParseBuffer([]byte(sampleMboxTwoSendersData), model.ParseOptions{ExtractContacts: boolPtr(false)})
	if result.Err != nil {
		t.Fatalf("unexpected error: %v", result.Err)
	}
	if len(result.Contacts) != 0 {
		t.Errorf("expected no contacts when ExtractContacts is false, got %d", len(result.Contacts))
	}
}

func TestParseBufferDispatchesToMBOX(t *testing.T) {
	result := ParseBuffer([]byte(sampleMboxData), model.ParseOptions{DetectAccounts: true})
	if result.Err != nil {
		t.Fatalf("unexpected error: %v", result.Err)
	}
	if result.RunID == "" {
		t.Error("expected a non-empty run id")
	}
	if len(result.Emails) != 1 {
		t.Fatalf("got %d emails, want 1", len(result.Emails))
	}
	if len(result.Accounts) != 1 {
		t.Errorf("expected account detection to run, got %d accounts", len(result.Accounts))
	}
}

func TestParseFileDispatchesToMBOX(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "archive.mbox")
	if err := os.WriteFile(path, []byte(sampleMboxData), 0o644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	result := ParseFile(path, model.ParseOptions{})
	if result.Err != nil {
		t.Fatalf("unexpected error: %v", result.Err)
	}
	if len(result.Emails) != 1 {
		t.Fatalf("got %d emails, want 1", len(result.Emails))
	}
	if result.Stats.EmailCount != 1 {
		t.Errorf("stats email count = %d, want 1", result.Stats.EmailCount)
	}
}

func TestParseFileMissingSourceReturnsError(t *testing.T) {
	result := ParseFile(filepath.Join(t.TempDir(), "does-not-exist.mbox"), model.ParseOptions{})
	if result.Err == nil {
		t.Fatal("expected an error for a missing archive file")
	}
	if _, ok := result.Err.(*model.SourceUnavailableError); !ok {
		t.Errorf("error type = %T, want *model.SourceUnavailableError", result.Err)
	}
}
