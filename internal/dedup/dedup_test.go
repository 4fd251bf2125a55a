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

package dedup

import "testing"

func TestDigestPrefersMessageID(t *testing.T) {
	got := Digest("abc123@example.com", "alice@example.com", "Hello", 1000)
	if got != "abc123@example.com" {
		t.Errorf("digest = %q, want message id", got)
	}
}

func TestDigestFallsBackToHashWhenMessageIDMissing(t *testing.T) {
	d1 := Digest("", "alice@example.com", "Hello", 1000)
	d2 := Digest("", "alice@example.com", "Hello", 1000)
	if d1 != d2 {
		t.Errorf("expected identical inputs to produce identical digests: %q vs %q", d1, d2)
	}
	if d1 == "" {
		t.Error("expected non-empty digest")
	}
}

func TestDigestHashVariesWithInputs(t *testing.T) {
	d1 := Digest("", "alice@example.com", "Hello", 1000)
	d2 := Digest("", "bob@example.com", "Hello", 1000)
	if d1 == d2 {
		t.Error("expected different senders to produce different digests")
	}

	d3 := Digest("", "alice@example.com", "Hello", 2000)
	if d1 == d3 {
		t.Error("expected different dates to produce different digests")
	}
}
