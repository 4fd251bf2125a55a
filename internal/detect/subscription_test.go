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

func TestSubscriptionDetectorMonthlyCatalogMatch(t *testing.T) {
	d := NewSubscriptionDetector()
	email := model.Email{
		Sender:  "billing@netflix.com",
		Subject: "Your subscription was renewed",
		Body:    "Your monthly subscription plan: Standard. Amount charged: $15.49. Renews on the 1st of next month.",
		Date:    time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC),
	}

	m := d.Detect(email)
	if !m.Matched {
		t.Fatal("expected match")
	}
	if m.Record.ServiceName != "Netflix" {
		t.Errorf("service name = %q, want Netflix", m.Record.ServiceName)
	}
	if m.Record.Frequency != model.FrequencyMonthly {
		t.Errorf("frequency = %v, want monthly", m.Record.Frequency)
	}
	if m.Record.MonthlyAmount != 15.49 {
		t.Errorf("monthly amount = %v, want 15.49", m.Record.MonthlyAmount)
	}
}

func TestSubscriptionDetectorYearlyNormalizedToMonthly(t *testing.T) {
	d := NewSubscriptionDetector()
	email := model.Email{
		Sender:  "billing@netflix.com",
		Subject: "Your annual subscription plan renewed",
		Body:    "Your yearly subscription plan: Premium. Amount charged: $120.00.",
	}

	m := d.Detect(email)
	if !m.Matched {
		t.Fatal("expected match")
	}
	if m.Record.Frequency != model.FrequencyYearly {
		t.Errorf("frequency = %v, want yearly", m.Record.Frequency)
	}
	if got, want := m.Record.MonthlyAmount, 10.0; got != want {
		t.Errorf("monthly amount = %v, want %v", got, want)
	}
}

func TestSubscriptionDetectorFallsBackToHumanizedDomain(t *testing.T) {
	d := NewSubscriptionDetector()
	email := model.Email{
		Sender:  "billing@my-cool-app.io",
		Subject: "Subscription confirmed",
		Body:    "billing period: monthly. next billing date: 2023-07-01.",
	}

	m := d.Detect(email)
	if !m.Matched {
		t.Fatal("expected match")
	}
	if m.Record.ServiceName != "My Cool App" {
		t.Errorf("service name = %q, want 'My Cool App'", m.Record.ServiceName)
	}
}

func TestSubscriptionDetectorBatchKeepsMostRecentRenewal(t *testing.T) {
	d := NewSubscriptionDetector()
	emails := []model.Email{
		{
			Sender:    "billing@netflix.com",
			Subject:   "Your subscription was renewed",
			Body:      "Your monthly subscription plan: Standard. Amount charged: $15.49.",
			Date:      time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
			MessageID: "m1",
		},
		{
			Sender:    "billing@netflix.com",
			Subject:   "Your subscription was renewed",
			Body:      "Your monthly subscription plan: Standard. Amount charged: $17.99.",
			Date:      time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC),
			MessageID: "m2",
		},
	}

	records := d.DetectBatch(emails)
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
	if records[0].MonthlyAmount != 17.99 {
		t.Errorf("monthly amount = %v, want latest 17.99", records[0].MonthlyAmount)
	}
	if len(records[0].EmailIDs) != 2 {
		t.Errorf("email ids = %v, want both message ids", records[0].EmailIDs)
	}
}
