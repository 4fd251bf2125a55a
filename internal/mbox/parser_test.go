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

package mbox

import (
	"testing"

	"github.com/Technical-1/email-archive-parser/internal/model"
	"github.com/Technical-1/email-archive-parser/internal/source"
)

const sampleMbox = "From alice@example.com Mon Jan  2 15:04:05 2023\n" +
	"From: alice@example.com\n" +
	"Subject: First message\n" +
	"\n" +
	"Body of first message.\n" +
	"From bob@example.com Tue Jan  3 09:00:00 2023\n" +
	"From: bob@example.com\n" +
	"Subject: Second message\n" +
	"\n" +
	"Body of second message.\n"

func TestIsMBOXDetectsValidSeparator(t *testing.T) {
	if !IsMBOX([]byte(sampleMbox)) {
		t.Error("expected sample to be detected as MBOX")
	}
	if IsMBOX([]byte("Subject: not mbox\n\nbody\n")) {
		t.Error("expected non-mbox content to be rejected")
	}
}

func TestParseStreamingEmitsAllMessages(t *testing.T) {
	p := New(model.ParseOptions{})
	r := source.FromBuffer([]byte(sampleMbox), 0)

	var batches [][]model.Email
	total, dropped, err := p.ParseStreaming(r, nil, func(batch []model.Email) {
		batches = append(batches, batch)
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dropped != 0 {
		t.Errorf("dropped = %d, want 0", dropped)
	}
	if total != 2 {
		t.Fatalf("total = %d, want 2", total)
	}
	if len(batches) != 2 {
		t.Fatalf("got %d batches, want 2", len(batches))
	}
	if batches[0][0].Subject != "First message" {
		t.Errorf("first subject = %q", batches[0][0].Subject)
	}
	if batches[1][0].Subject != "Second message" {
		t.Errorf("second subject = %q", batches[1][0].Subject)
	}
}

func TestParseMatchesParseStreaming(t *testing.T) {
	p := New(model.ParseOptions{})
	r := source.FromBuffer([]byte(sampleMbox), 0)

	emails, dropped, err := p.Parse(r)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dropped != 0 || len(emails) != 2 {
		t.Fatalf("emails=%d dropped=%d, want 2/0", len(emails), dropped)
	}
}

func TestSplitterAcrossChunkBoundaries(t *testing.T) {
	splitter := NewSplitter()
	data := []byte(sampleMbox)
	mid := len(data) / 2

	var all [][]byte
	all = append(all, splitter.Feed(data[:mid], false)...)
	all = append(all, splitter.Feed(data[mid:], true)...)

	if len(all) != 2 {
		t.Fatalf("expected 2 messages split across chunks, got %d", len(all))
	}
}
