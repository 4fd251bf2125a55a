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

package detect

import (
	"testing"
	"time"

	"github.com/Technical-1/email-archive-parser/internal/model"
)

func TestAccountDetectorCatalogMatch(t *testing.T) {
	d := NewAccountDetector()
	email := model.Email{
		Sender:  "no-reply@netflix.com",
		Subject: "Welcome to Netflix!",
		Body:    "Your account has been created. Click here to verify your email.",
		Date:    time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
	}

	m := d.Detect(email)
	if !m.Matched {
		t.Fatalf("expected match, confidence=%d", m.Confidence)
	}
	if m.Record.ServiceName != "Netflix" {
		t.Errorf("service name = %q, want Netflix", m.Record.ServiceName)
	}
	if m.Record.ServiceType != model.ServiceStreaming {
		t.Errorf("service type = %v", m.Record.ServiceType)
	}
}

func TestAccountDetectorExtractsUnknownServiceFromSubject(t *testing.T) {
	d := NewAccountDetector()
	email := model.Email{
		Sender:  "hello@myapp.io",
		Subject: "Welcome to MyApp!",
		Body:    "Your account has been created. Confirm your email address to get started.",
	}

	m := d.Detect(email)
	if !m.Matched {
		t.Fatalf("expected match, confidence=%d", m.Confidence)
	}
	if m.Record.ServiceName != "MyApp" {
		t.Errorf("service name = %q, want MyApp", m.Record.ServiceName)
	}
}

func TestAccountDetectorLowScoreNoMatch(t *testing.T) {
	d := NewAccountDetector()
	email := model.Email{
		Sender:  "friend@personal.example",
		Subject: "lunch tomorrow?",
		Body:    "want to grab lunch?",
	}
	if m := d.Detect(email); m.Matched {
		t.Errorf("expected no match, got %+v", m)
	}
}

func TestAccountDetectorBatchAggregatesByServiceName(t *testing.T) {
	d := NewAccountDetector()
	emails := []model.Email{
		{
			Sender:  "no-reply@netflix.com",
			Subject: "Welcome to Netflix!",
			Body:    "Your account has been created. Click here to verify your email.",
			Date:    time.Date(2023, 3, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			Sender:  "no-reply@netflix.com",
			Subject: "Welcome to Netflix!",
			Body:    "Your account has been created. Click here to verify your email.",
			Date:    time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
		},
	}

	records := d.DetectBatch(emails)
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
	if records[0].EmailCount != 2 {
		t.Errorf("email count = %d, want 2", records[0].EmailCount)
	}
	if !records[0].SignupDate.Equal(time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("signup date = %v, want earliest", records[0].SignupDate)
	}
}

func TestAccountDetectorKnownServicesIncludesCatalogEntries(t *testing.T) {
	d := NewAccountDetector()
	names := d.KnownServices()
	found := false
	for _, n := range names {
		if n == "Netflix" {
			found = true
		}
	}
	if !found {
		t.Error("expected KnownServices to include Netflix")
	}
}
